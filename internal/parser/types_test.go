package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Int", "Int"},
		{"String ?", "String?"},
		{"[ String : Int ]", "[String: Int]"},
		{"[Item]?", "[Item]?"},
		{"Result<String,NetworkError>", "Result<String, NetworkError>"},
		{"@escaping (Result<Data , Error>)->Void", "@escaping (Result<Data, Error>) -> Void"},
		{"( _ value : Int ) async throws -> Bool", "(_ value: Int) async throws -> Bool"},
		{"((Int) -> Void)?", "((Int) -> Void)?"},
		{"AnyPublisher<[Item], Never>", "AnyPublisher<[Item], Never>"},
		{"Dictionary<String, Array<Int>>", "Dictionary<String, Array<Int>>"},
		{"inout [Int]", "inout [Int]"},
		{"some View", "some View"},
		{"any Error", "any Error"},
		{"Int...", "Int..."},
		{"Foo.Bar.Baz", "Foo.Bar.Baz"},
		{"Codable & Sendable", "Codable & Sendable"},
		{"()", "()"},
		{"() throws(APIError) -> Void", "() throws(APIError) -> Void"},
		{"(name: String, age: Int)", "(name: String, age: Int)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := CanonicalType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalTypeFallback(t *testing.T) {
	got, err := CanonicalType("Foo<   Bar")
	assert.Error(t, err)
	assert.Equal(t, "Foo< Bar", got)

	empty, err := CanonicalType("   ")
	assert.NoError(t, err)
	assert.Equal(t, "", empty)
}

func TestParseTypeStructure(t *testing.T) {
	expr, err := ParseType("@escaping (Int, String) -> Void")
	require.NoError(t, err)
	assert.True(t, expr.IsFunction())
	assert.Equal(t, []string{"@escaping"}, expr.Attributes)
	require.NotNil(t, expr.Base.Tuple)
	assert.Len(t, expr.Base.Tuple.Elements, 2)
	assert.Equal(t, "Void", expr.Function.Result.String())
}
