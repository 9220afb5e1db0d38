package annotations

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// argumentList is the grammar for the inside of an attribute's parentheses
type argumentList struct {
	Arguments []*argumentNode `parser:"( @@ ( ',' @@ )* ','? )?"`
}

type argumentNode struct {
	Label string     `parser:"( @Ident ':' )?"`
	Value *valueNode `parser:"@@"`
}

type valueNode struct {
	String *string `parser:"  @String"`
	Member *string `parser:"| '.' @Ident"`
	Bool   *string `parser:"| @('true' | 'false')"`
	Ident  *string `parser:"| @Ident"`
}

var attributeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[.,:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var argumentParser = participle.MustBuild[argumentList](
	participle.Lexer(attributeLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseArguments decodes the raw text between an attribute's parentheses
func ParseArguments(text string) ([]Argument, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	list, err := argumentParser.ParseString("", text)
	if err != nil {
		return nil, err
	}

	args := make([]Argument, 0, len(list.Arguments))
	for _, node := range list.Arguments {
		value, err := node.Value.decode()
		if err != nil {
			return nil, err
		}
		args = append(args, Argument{Label: node.Label, Value: value})
	}
	return args, nil
}

func (v *valueNode) decode() (Value, error) {
	switch {
	case v.String != nil:
		text, err := strconv.Unquote(*v.String)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: StringValue, Text: text}, nil
	case v.Member != nil:
		return Value{Kind: MemberValue, Text: *v.Member}, nil
	case v.Bool != nil:
		return Value{Kind: BoolValue, Text: *v.Bool}, nil
	default:
		return Value{Kind: IdentValue, Text: *v.Ident}, nil
	}
}
