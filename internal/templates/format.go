package templates

import (
	"strings"
)

const indentUnit = "    "

type blockKind int

const (
	braceBlock blockKind = iota
	switchBlock
	parenBlock
)

// block is an open bracket; width is the indentation it adds. Blocks opened
// on a continuation line (.sink { ...) add one extra level.
type block struct {
	kind  blockKind
	width int
}

// FormatSwift re-indents generated Swift by bracket depth, puts switch cases
// at the level of their switch, and collapses runs of blank lines.
// String literals and line comments are not scanned for brackets.
func FormatSwift(src string) string {
	var (
		out       []string
		stack     []block
		lastBlank = true
	)

	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if !lastBlank && !strings.HasSuffix(prevLine(out), "{") {
				out = append(out, "")
			}
			lastBlank = true
			continue
		}

		leading := 0
		for leading < len(line) && isCloser(line[leading]) {
			leading++
		}
		extra := 0
		for i := 0; i < leading && len(stack) > 0; i++ {
			extra = stack[len(stack)-1].width - 1
			stack = stack[:len(stack)-1]
		}
		if leading > 0 && len(out) > 0 && out[len(out)-1] == "" {
			out = out[:len(out)-1]
		}

		continuation := strings.HasPrefix(line, ".") && !strings.HasPrefix(line, "...")
		depth := width(stack) + extra
		switch {
		case isCaseLabel(line) && len(stack) > 0 && stack[len(stack)-1].kind == switchBlock:
			depth--
		case continuation:
			depth++
		}
		out = append(out, strings.Repeat(indentUnit, depth)+line)
		lastBlank = false

		stack = scanBrackets(line[leading:], strings.HasPrefix(line, "switch "), continuation, stack)
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n"
}

// scanBrackets updates the bracket stack with the openers and closers on one line
func scanBrackets(line string, opensSwitch, continuation bool, stack []block) []block {
	inString := false
	firstOpener, firstBrace := true, true
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		opened := block{kind: parenBlock, width: 1}
		switch c {
		case '"':
			inString = true
			continue
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return stack
			}
			continue
		case '{':
			opened.kind = braceBlock
			if opensSwitch && firstBrace {
				opened.kind = switchBlock
			}
			firstBrace = false
		case '(', '[':
		case '}', ')', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		default:
			continue
		}
		if continuation && firstOpener {
			opened.width = 2
		}
		firstOpener = false
		stack = append(stack, opened)
	}
	return stack
}

func width(stack []block) int {
	n := 0
	for _, b := range stack {
		n += b.width
	}
	return n
}

func isCloser(c byte) bool {
	return c == '}' || c == ')' || c == ']'
}

func isCaseLabel(line string) bool {
	return strings.HasPrefix(line, "case ") || strings.HasPrefix(line, "default:") || strings.HasPrefix(line, "@unknown default:")
}

func prevLine(out []string) string {
	if len(out) == 0 {
		return ""
	}
	return out[len(out)-1]
}
