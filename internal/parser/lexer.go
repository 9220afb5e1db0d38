package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// swiftLexer tokenizes enough of Swift to find declarations and skip bodies.
// Rules are tried in order, so longer punctuation comes first.
var swiftLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "MultilineString", Pattern: `"""(?s:.*?)"""`},
	{Name: "RawString", Pattern: `#"(?s:.*?)"#`},
	{Name: "String", Pattern: `"(\\.|[^"\\\n])*"`},
	{Name: "Attribute", Pattern: `@[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Directive", Pattern: `#[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Ident", Pattern: "`[^`\\n]+`|[A-Za-z_$][A-Za-z0-9_$]*"},
	{Name: "Number", Pattern: `0[xob][0-9a-fA-F_]+|[0-9][0-9_]*(\.[0-9][0-9_]*)?([eE][+-]?[0-9]+)?`},
	{Name: "Newline", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Punct", Pattern: `\.\.\.|\.\.<|[-+*/%=<>!&|^~?:;,.(){}\[\]\\]`},
	{Name: "Other", Pattern: `.`},
})

// TokenKind classifies a lexed token
type TokenKind int

const (
	TokenOther TokenKind = iota
	TokenComment
	TokenString
	TokenAttribute
	TokenDirective
	TokenArrow
	TokenIdent
	TokenNumber
	TokenNewline
	TokenWhitespace
	TokenPunct
	TokenEOF
)

// Token is a lexed Swift token with its source offset
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int
	Line   int
	Column int
}

// End returns the offset just past the token
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Is reports whether the token is punctuation or identifier text equal to s
func (t Token) Is(s string) bool {
	return (t.Kind == TokenPunct || t.Kind == TokenIdent || t.Kind == TokenArrow) && t.Text == s
}

var kindByName = map[string]TokenKind{
	"Comment":         TokenComment,
	"MultilineString": TokenString,
	"RawString":       TokenString,
	"String":          TokenString,
	"Attribute":       TokenAttribute,
	"Directive":       TokenDirective,
	"Arrow":           TokenArrow,
	"Ident":           TokenIdent,
	"Number":          TokenNumber,
	"Newline":         TokenNewline,
	"Whitespace":      TokenWhitespace,
	"Punct":           TokenPunct,
	"Other":           TokenOther,
}

// Tokenize lexes Swift source, dropping comments and horizontal whitespace.
// Newlines are kept since they terminate Swift statements.
func Tokenize(filename, source string) ([]Token, error) {
	lex, err := swiftLexer.Lex(filename, strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}

	kinds := make(map[lexer.TokenType]TokenKind)
	for name, tt := range swiftLexer.Symbols() {
		if kind, ok := kindByName[name]; ok {
			kinds[tt] = kind
		}
	}

	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		if tok.EOF() {
			break
		}
		kind := kinds[tok.Type]
		if kind == TokenComment || kind == TokenWhitespace {
			continue
		}
		tokens = append(tokens, Token{
			Kind:   kind,
			Text:   tok.Value,
			Offset: tok.Pos.Offset,
			Line:   tok.Pos.Line,
			Column: tok.Pos.Column,
		})
	}
	return tokens, nil
}
