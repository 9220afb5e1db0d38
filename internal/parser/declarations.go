package parser

import (
	"fmt"
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
)

// SpyableAttribute is the attribute that marks a declaration for generation
const SpyableAttribute = "Spyable"

var declarationKeywords = map[string]bool{
	"protocol": true, "class": true, "struct": true, "enum": true, "actor": true, "extension": true,
}

var modifierKeywords = map[string]bool{
	"public": true, "private": true, "fileprivate": true, "internal": true, "open": true, "package": true,
	"final": true, "override": true, "required": true, "convenience": true, "static": true,
	"lazy": true, "weak": true, "unowned": true, "dynamic": true, "mutating": true, "nonmutating": true,
	"optional": true, "indirect": true, "nonisolated": true, "distributed": true,
	"prefix": true, "postfix": true, "infix": true, "consuming": true, "borrowing": true,
}

// Parser scans Swift source for @Spyable declarations
type Parser struct {
	// All collects every top-level spyable-kind declaration, annotated or not
	All bool
}

// NewParser creates a new Swift declaration parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseSource parses Swift source and returns its @Spyable declarations.
// Type annotations that fail to canonicalize are reported as warnings.
func (p *Parser) ParseSource(filename, source string) (*models.SourceFile, *spyerrors.Diagnostics, error) {
	tokens, err := Tokenize(filename, source)
	if err != nil {
		return nil, nil, spyerrors.WrapParseError(filename, spyerrors.SourceLocation{File: filename}, err)
	}

	fp := &fileParser{
		cursor:   newCursor(tokens, source),
		filename: filename,
		all:      p.All,
		diags:    &spyerrors.Diagnostics{},
	}
	file, err := fp.parseFile()
	if err != nil {
		return nil, fp.diags, err
	}
	return file, fp.diags, nil
}

type fileParser struct {
	*cursor
	filename string
	all      bool
	diags    *spyerrors.Diagnostics
}

func (p *fileParser) position(tok Token) models.Position {
	return models.Position{File: p.filename, Line: tok.Line, Column: tok.Column}
}

func (p *fileParser) location(tok Token) spyerrors.SourceLocation {
	return spyerrors.SourceLocation{File: p.filename, Line: tok.Line, Column: tok.Column}
}

func (p *fileParser) parseFile() (*models.SourceFile, error) {
	file := &models.SourceFile{Path: p.filename}

	for {
		p.skipNewlines()
		if p.eof() {
			break
		}
		tok := p.peek()

		switch {
		case tok.Kind == TokenDirective:
			p.skipStatement()
			continue
		case isCloser(tok):
			return nil, spyerrors.New(spyerrors.SyntaxErrorCode, fmt.Sprintf("unexpected '%s'", tok.Text)).
				WithLocation(p.location(tok))
		}

		attrs := p.parseAttributes()
		start := p.peek() // declarations are located at their header, after any attributes
		mods := p.parseModifiers()
		keyword := p.peek()

		switch {
		case keyword.Is("import"):
			p.next()
			from, to := p.collectUntil(func(t Token) bool { return t.Kind == TokenNewline || t.Is(";") })
			stmt := "import " + p.span(from, to)
			for i := len(attrs) - 1; i >= 0; i-- {
				stmt = attrs[i].String() + " " + stmt
			}
			file.Imports = append(file.Imports, stmt)
		case keyword.Kind == TokenIdent && declarationKeywords[keyword.Text]:
			decl, err := p.parseDeclaration(attrs, mods, start)
			if err != nil {
				return nil, err
			}
			if _, ok := models.FindAttribute(decl.Attributes, SpyableAttribute); ok || (p.all && decl.Kind.IsSpyable()) {
				file.Declarations = append(file.Declarations, *decl)
			}
		default:
			p.skipStatement()
		}
	}

	for i := range file.Declarations {
		file.Declarations[i].Imports = append([]string(nil), file.Imports...)
	}
	return file, nil
}

// parseAttributes consumes attributes with optional balanced argument clauses
func (p *fileParser) parseAttributes() []models.Attribute {
	var attrs []models.Attribute
	for {
		p.skipNewlines()
		tok := p.peek()
		if tok.Kind != TokenAttribute {
			return attrs
		}
		p.next()
		attr := models.Attribute{Name: strings.TrimPrefix(tok.Text, "@"), Location: p.position(tok)}
		if p.peek().Is("(") && p.peek().Offset == tok.End() {
			from := p.pos
			p.skipBalanced()
			attr.HasParens = true
			attr.Arguments = p.rawSpan(from+1, p.pos-1)
		}
		attrs = append(attrs, attr)
	}
}

// parseModifiers consumes declaration modifiers such as public, private(set) or class
func (p *fileParser) parseModifiers() []string {
	var mods []string
	for {
		tok := p.peek()
		if tok.Kind != TokenIdent {
			return mods
		}
		isClassModifier := tok.Text == "class" && p.isMemberKeywordAt(1)
		if !modifierKeywords[tok.Text] && !isClassModifier {
			return mods
		}
		// modifier words are also valid identifiers, so require something to modify
		next := p.peekAt(1)
		if next.Kind != TokenIdent && !next.Is("(") {
			return mods
		}
		p.next()
		mod := tok.Text
		if p.peek().Is("(") && p.peekAt(1).Kind == TokenIdent && p.peekAt(2).Is(")") {
			mod = fmt.Sprintf("%s(%s)", mod, p.peekAt(1).Text)
			p.pos += 3
		}
		mods = append(mods, mod)
		p.skipNewlines()
	}
}

func (p *fileParser) isMemberKeywordAt(n int) bool {
	tok := p.peekAt(n)
	if tok.Kind != TokenIdent {
		return false
	}
	switch tok.Text {
	case "func", "var", "let", "subscript":
		return true
	}
	return modifierKeywords[tok.Text]
}

// parseDeclaration parses a type or extension header and its body
func (p *fileParser) parseDeclaration(attrs []models.Attribute, mods []string, start Token) (*models.Declaration, error) {
	keyword := p.next()
	decl := &models.Declaration{
		Kind:       models.ParseDeclarationKind(keyword.Text),
		Modifiers:  mods,
		Attributes: attrs,
		Location:   p.position(start),
	}

	if p.peek().Kind == TokenIdent {
		from, to := p.collectUntil(func(t Token) bool {
			return t.Is("<") || t.Is(":") || t.Is("{") || t.Is("where") || t.Kind == TokenNewline
		})
		decl.Name = p.span(from, to)
	}

	if p.peek().Is("<") {
		from := p.pos
		p.skipAngles()
		decl.Generics = p.span(from+1, p.pos-1)
	}

	if p.accept(":") {
		for {
			p.skipNewlines()
			from, to := p.collectUntil(func(t Token) bool {
				return t.Is(",") || t.Is("{") || t.Is("where") || t.Kind == TokenNewline
			})
			if entry := p.span(from, to); entry != "" {
				decl.Inherits = append(decl.Inherits, entry)
			}
			if !p.acceptSignificant(",") {
				break
			}
		}
	}

	// skip a where clause up to the body
	for !p.eof() && !p.peek().Is("{") {
		if isOpener(p.peek()) {
			p.skipBalanced()
			continue
		}
		p.next()
	}
	if p.eof() {
		return nil, spyerrors.Newf(spyerrors.SyntaxErrorCode, "%s '%s' has no body", keyword.Text, decl.Name).
			WithLocation(p.location(start))
	}

	_, spyable := models.FindAttribute(attrs, SpyableAttribute)
	if !spyable && !p.all {
		open := p.peek()
		if !p.skipBalanced() {
			return nil, p.unclosed(open)
		}
		return decl, nil
	}

	members, err := p.parseBody(decl)
	if err != nil {
		return nil, err
	}
	decl.Members = members
	return decl, nil
}

func (p *fileParser) unclosed(open Token) error {
	return spyerrors.Newf(spyerrors.SyntaxErrorCode, "unclosed '%s'", open.Text).
		WithLocation(p.location(open)).
		WithSuggestion("Check for a missing closing brace")
}
