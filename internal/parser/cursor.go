package parser

import (
	"strings"
)

// cursor walks a token slice with bracket-aware skipping
type cursor struct {
	tokens []Token
	pos    int
	source string
}

func newCursor(tokens []Token, source string) *cursor {
	return &cursor{tokens: tokens, source: source}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.tokens)
}

func (c *cursor) peek() Token {
	return c.peekAt(0)
}

func (c *cursor) peekAt(n int) Token {
	if c.pos+n >= len(c.tokens) || c.pos+n < 0 {
		return Token{Kind: TokenEOF}
	}
	return c.tokens[c.pos+n]
}

// peekSignificant returns the n-th token ahead ignoring newlines
func (c *cursor) peekSignificant(n int) Token {
	seen := 0
	for i := c.pos; i < len(c.tokens); i++ {
		if c.tokens[i].Kind == TokenNewline {
			continue
		}
		if seen == n {
			return c.tokens[i]
		}
		seen++
	}
	return Token{Kind: TokenEOF}
}

func (c *cursor) next() Token {
	tok := c.peek()
	if !c.eof() {
		c.pos++
	}
	return tok
}

func (c *cursor) accept(s string) bool {
	if c.peek().Is(s) {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) skipNewlines() {
	for !c.eof() && (c.peek().Kind == TokenNewline || c.peek().Is(";")) {
		c.pos++
	}
}

// acceptSignificant consumes newlines and then s, rewinding if s is absent
func (c *cursor) acceptSignificant(s string) bool {
	save := c.pos
	c.skipNewlines()
	if c.accept(s) {
		return true
	}
	c.pos = save
	return false
}

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

func isOpener(t Token) bool {
	return t.Kind == TokenPunct && (t.Text == "(" || t.Text == "[" || t.Text == "{")
}

func isCloser(t Token) bool {
	return t.Kind == TokenPunct && (t.Text == ")" || t.Text == "]" || t.Text == "}")
}

// skipBalanced consumes an opener and everything up to its matching closer.
// It returns false when the input ends first.
func (c *cursor) skipBalanced() bool {
	open := c.next()
	want := []string{closers[open.Text]}
	for !c.eof() {
		tok := c.next()
		switch {
		case isOpener(tok):
			want = append(want, closers[tok.Text])
		case isCloser(tok):
			if tok.Text == want[len(want)-1] {
				want = want[:len(want)-1]
				if len(want) == 0 {
					return true
				}
			}
		}
	}
	return false
}

// skipAngles consumes a generic clause starting at '<'
func (c *cursor) skipAngles() {
	depth := 0
	for !c.eof() {
		tok := c.peek()
		switch {
		case tok.Is("{"):
			return
		case tok.Is("<"):
			depth++
		case tok.Is(">"):
			depth--
			if depth == 0 {
				c.pos++
				return
			}
		case isOpener(tok):
			c.skipBalanced()
			continue
		}
		c.pos++
	}
}

// skipStatement consumes tokens up to the end of the current statement,
// leaving a closing brace of the enclosing scope unconsumed
func (c *cursor) skipStatement() {
	for !c.eof() {
		tok := c.peek()
		switch {
		case tok.Kind == TokenNewline || tok.Is(";"):
			c.pos++
			return
		case isOpener(tok):
			c.skipBalanced()
		case isCloser(tok):
			return
		default:
			c.pos++
		}
	}
}

// span returns the normalized source text of tokens[from:to]
func (c *cursor) span(from, to int) string {
	if from >= to || from >= len(c.tokens) {
		return ""
	}
	if to > len(c.tokens) {
		to = len(c.tokens)
	}
	start := c.tokens[from].Offset
	end := c.tokens[to-1].End()
	return normalizeSpace(c.source[start:end])
}

// rawSpan returns the exact source text of tokens[from:to]
func (c *cursor) rawSpan(from, to int) string {
	if from >= to || from >= len(c.tokens) {
		return ""
	}
	if to > len(c.tokens) {
		to = len(c.tokens)
	}
	return strings.TrimSpace(c.source[c.tokens[from].Offset:c.tokens[to-1].End()])
}

// collectUntil advances over a depth-0 run of tokens and stops before the
// first token for which stop returns true. Brackets are skipped whole.
func (c *cursor) collectUntil(stop func(Token) bool) (int, int) {
	from := c.pos
	angle := 0
	for !c.eof() {
		tok := c.peek()
		if angle == 0 && stop(tok) {
			break
		}
		switch {
		case tok.Is("<"):
			angle++
		case tok.Is(">") && angle > 0:
			angle--
		case tok.Is("(") || tok.Is("["):
			c.skipBalanced()
			continue
		case isCloser(tok):
			return from, c.pos
		}
		c.pos++
	}
	return from, c.pos
}

// normalizeSpace collapses whitespace runs, including newlines, to single spaces
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
