package parser

import (
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
)

var accessorKeywords = map[string]bool{
	"get": true, "set": true, "willSet": true, "didSet": true, "_read": true, "_modify": true, "init": true,
}

// parseBody parses members between the declaration braces
func (p *fileParser) parseBody(decl *models.Declaration) ([]models.Member, error) {
	open := p.next()
	var members []models.Member

	for {
		p.skipNewlines()
		if p.eof() {
			return nil, p.unclosed(open)
		}
		tok := p.peek()
		if tok.Is("}") {
			p.next()
			return members, nil
		}
		if tok.Kind == TokenDirective {
			p.skipStatement()
			continue
		}

		start := tok
		attrs := p.parseAttributes()
		mods := p.parseModifiers()
		keyword := p.peek()
		loc := p.position(start)

		switch {
		case keyword.Is("func"):
			fn, err := p.parseFunction(attrs, mods)
			if err != nil {
				return nil, err
			}
			members = append(members, models.Member{Kind: models.MemberFunction, Function: fn, Location: loc})
		case keyword.Is("init"):
			initializer, err := p.parseInitializer(attrs, mods)
			if err != nil {
				return nil, err
			}
			members = append(members, models.Member{Kind: models.MemberInitializer, Initializer: initializer, Location: loc})
		case keyword.Is("var") || keyword.Is("let"):
			props, err := p.parseProperties(attrs, mods)
			if err != nil {
				return nil, err
			}
			for _, prop := range props {
				members = append(members, models.Member{Kind: models.MemberProperty, Property: prop, Location: loc})
			}
		case keyword.Kind == TokenIdent && declarationKeywords[keyword.Text]:
			p.next()
			name := p.peek().Text
			for !p.eof() && !p.peek().Is("{") && !p.peek().Is("}") {
				p.next()
			}
			if p.peek().Is("{") {
				brace := p.peek()
				if !p.skipBalanced() {
					return nil, p.unclosed(brace)
				}
			}
			members = append(members, otherMember(keyword.Text, keyword.Text+" "+name, mods, loc))
		case keyword.Kind == TokenIdent:
			p.next()
			name := ""
			if p.peek().Kind == TokenIdent {
				name = " " + p.peek().Text
			}
			p.skipStatement()
			members = append(members, otherMember(keyword.Text, keyword.Text+name, mods, loc))
		default:
			if isCloser(keyword) && !keyword.Is("}") {
				return nil, spyerrors.Newf(spyerrors.SyntaxErrorCode, "unexpected '%s' in %s body", keyword.Text, decl.Kind).
					WithLocation(p.location(keyword))
			}
			if keyword.Is("}") {
				continue
			}
			p.skipStatement()
		}
	}
}

func otherMember(keyword, description string, mods []string, loc models.Position) models.Member {
	return models.Member{
		Kind:        models.MemberOther,
		Keyword:     keyword,
		Modifiers:   mods,
		Description: description,
		Location:    loc,
	}
}

// parseFunction parses `func name<generics>(params) effects -> Return where ... { body }`
func (p *fileParser) parseFunction(attrs []models.Attribute, mods []string) (*models.FunctionDecl, error) {
	p.next() // func
	fn := &models.FunctionDecl{Modifiers: mods, Attributes: attrs}

	nameFrom := p.pos
	for !p.eof() && !p.peek().Is("(") && !(p.peek().Is("<") && p.pos > nameFrom) && p.peek().Kind != TokenNewline {
		p.next()
	}
	fn.Name = p.span(nameFrom, p.pos)

	if p.peek().Is("<") {
		from := p.pos
		p.skipAngles()
		fn.GenericParameters = p.span(from+1, p.pos-1)
	}

	params, err := p.parseParameterClause()
	if err != nil {
		return nil, err
	}
	fn.Parameters = params
	fn.Effects = p.parseEffects()

	if p.accept("->") {
		from, to := p.collectUntil(signatureEnd)
		fn.ReturnType = p.canonical(from, to)
	}
	fn.WhereClause = p.parseWhereClause()

	if p.peek().Is("{") {
		open := p.peek()
		if !p.skipBalanced() {
			return nil, p.unclosed(open)
		}
		fn.HasBody = true
	}
	return fn, nil
}

// parseInitializer parses `init?<generics>(params) effects { body }`
func (p *fileParser) parseInitializer(attrs []models.Attribute, mods []string) (*models.InitializerDecl, error) {
	p.next() // init
	decl := &models.InitializerDecl{Modifiers: mods, Attributes: attrs}

	if p.peek().Is("?") || p.peek().Is("!") {
		decl.Failable = p.next().Text
	}
	if p.peek().Is("<") {
		from := p.pos
		p.skipAngles()
		decl.GenericParameters = p.span(from+1, p.pos-1)
	}

	params, err := p.parseParameterClause()
	if err != nil {
		return nil, err
	}
	decl.Parameters = params
	decl.Effects = p.parseEffects()
	p.parseWhereClause()

	if p.peek().Is("{") {
		open := p.peek()
		if !p.skipBalanced() {
			return nil, p.unclosed(open)
		}
		decl.HasBody = true
	}
	return decl, nil
}

func signatureEnd(t Token) bool {
	return t.Is("{") || t.Is("}") || t.Is("where") || t.Is(";") || t.Kind == TokenNewline
}

func (p *fileParser) parseEffects() models.Effects {
	var effects models.Effects
	for {
		tok := p.peek()
		switch {
		case tok.Is("async"):
			effects.Async = true
			p.next()
		case tok.Is("throws"):
			effects.Throws = true
			p.next()
			if p.peek().Is("(") {
				from := p.pos
				p.skipBalanced()
				effects.ThrownType = p.canonical(from+1, p.pos-1)
			}
		case tok.Is("rethrows"):
			effects.Rethrows = true
			p.next()
		default:
			return effects
		}
	}
}

func (p *fileParser) parseWhereClause() string {
	if !p.accept("where") {
		return ""
	}
	from, to := p.collectUntil(func(t Token) bool {
		return t.Is("{") || t.Is("}") || t.Is(";") || t.Kind == TokenNewline
	})
	return p.span(from, to)
}

// parseParameterClause parses a parenthesized parameter list
func (p *fileParser) parseParameterClause() ([]models.ParameterDecl, error) {
	if !p.peek().Is("(") {
		return nil, spyerrors.New(spyerrors.SyntaxErrorCode, "expected parameter list").
			WithLocation(p.location(p.peek()))
	}
	open := p.next()

	var params []models.ParameterDecl
	for {
		p.skipNewlines()
		if p.eof() {
			return nil, p.unclosed(open)
		}
		if p.accept(")") {
			return params, nil
		}
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		p.skipNewlines()
		p.accept(",")
	}
}

func (p *fileParser) parseParameter() (models.ParameterDecl, error) {
	var param models.ParameterDecl
	param.Attributes = p.parseAttributes()

	names := []string{}
	for p.peek().Kind == TokenIdent && len(names) < 2 {
		names = append(names, p.next().Text)
	}
	if len(names) == 0 || !p.accept(":") {
		return param, spyerrors.New(spyerrors.SyntaxErrorCode, "malformed parameter").
			WithLocation(p.location(p.peek()))
	}
	param.FirstName = names[0]
	if len(names) == 2 {
		param.SecondName = names[1]
	}

	parameterEnd := func(t Token) bool {
		return t.Is(",") || t.Is("=") || t.Is(")")
	}
	from, to := p.collectUntilNested(parameterEnd)
	param.Type = p.canonical(from, to)

	if p.accept("=") {
		from, to := p.collectUntilNested(func(t Token) bool { return t.Is(",") || t.Is(")") })
		param.DefaultValue = p.rawSpan(from, to)
	}
	return param, nil
}

// collectUntilNested is collectUntil that also steps over newlines and braces
// inside a parenthesized list
func (p *fileParser) collectUntilNested(stop func(Token) bool) (int, int) {
	from := p.pos
	angle := 0
	for !p.eof() {
		tok := p.peek()
		if angle == 0 && stop(tok) {
			break
		}
		switch {
		case tok.Is("<"):
			angle++
		case tok.Is(">") && angle > 0:
			angle--
		case isOpener(tok):
			p.skipBalanced()
			continue
		case isCloser(tok):
			return from, p.pos
		}
		p.pos++
	}
	to := p.pos
	for to > from && p.tokens[to-1].Kind == TokenNewline {
		to--
	}
	return from, to
}

// parseProperties parses one var/let declaration, which may bind several names
func (p *fileParser) parseProperties(attrs []models.Attribute, mods []string) ([]*models.PropertyDecl, error) {
	keyword := p.next()
	var props []*models.PropertyDecl

	for {
		prop := &models.PropertyDecl{
			Modifiers:  mods,
			Attributes: attrs,
			IsConstant: keyword.Text == "let",
		}
		if p.peek().Kind != TokenIdent {
			// tuple patterns are not spied
			p.skipStatement()
			return props, nil
		}
		prop.Name = p.next().Text

		if p.accept(":") {
			from, to := p.collectUntil(func(t Token) bool {
				return t.Is("=") || t.Is("{") || t.Is("}") || t.Is(",") || t.Is(";") || t.Kind == TokenNewline
			})
			prop.Type = p.canonical(from, to)
		}

		if p.accept("=") {
			from := p.pos
			for !p.eof() {
				tok := p.peek()
				if tok.Kind == TokenNewline || tok.Is(",") || tok.Is(";") || tok.Is("}") {
					break
				}
				if tok.Is("{") && p.startsAccessorBlock() {
					break
				}
				if isOpener(tok) {
					p.skipBalanced()
					continue
				}
				p.next()
			}
			prop.DefaultValue = p.rawSpan(from, p.pos)
		}

		if p.peek().Is("{") {
			open := p.peek()
			accessors, ok := p.parseAccessorBlock()
			if !ok {
				return nil, p.unclosed(open)
			}
			prop.HasAccessorBlock = true
			prop.Accessors = accessors
		}

		props = append(props, prop)
		if !p.accept(",") {
			return props, nil
		}
		p.skipNewlines()
	}
}

// startsAccessorBlock reports whether the brace at the cursor opens an
// observer block rather than a trailing closure
func (p *fileParser) startsAccessorBlock() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.next()
	p.skipNewlines()
	p.parseAttributes()
	tok := p.peek()
	return tok.Is("willSet") || tok.Is("didSet")
}

// parseAccessorBlock consumes `{ ... }` and returns the accessor keywords it
// declares. A block that does not open with an accessor is an implicit getter.
func (p *fileParser) parseAccessorBlock() ([]string, bool) {
	p.next() // {
	p.parseAttributes()
	first := p.peek()
	if first.Kind != TokenIdent || !(accessorKeywords[first.Text] || first.Text == "mutating" || first.Text == "nonmutating") {
		return p.finishImplicitGetter()
	}

	var accessors []string
	for !p.eof() {
		tok := p.peek()
		switch {
		case tok.Is("}"):
			p.next()
			return accessors, true
		case isOpener(tok):
			if !p.skipBalanced() {
				return nil, false
			}
		case tok.Kind == TokenIdent && accessorKeywords[tok.Text]:
			accessors = append(accessors, tok.Text)
			p.next()
		default:
			p.next()
		}
	}
	return nil, false
}

func (p *fileParser) finishImplicitGetter() ([]string, bool) {
	depth := 1
	for !p.eof() {
		tok := p.next()
		switch {
		case isOpener(tok):
			depth++
		case isCloser(tok):
			depth--
			if depth == 0 {
				return []string{"get"}, true
			}
		}
	}
	return nil, false
}

// canonical canonicalizes the type spanning tokens[from:to], recording a
// warning when the text does not parse
func (p *fileParser) canonical(from, to int) string {
	text := p.span(from, to)
	canonical, err := CanonicalType(text)
	if err != nil && from < len(p.tokens) {
		p.diags.Warn(spyerrors.WrapParseError("type '"+text+"'", p.location(p.tokens[from]), err).
			WithSuggestion("The type is used exactly as written"))
	}
	return strings.TrimSpace(canonical)
}
