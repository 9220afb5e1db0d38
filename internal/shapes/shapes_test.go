package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractResultShape(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		success string
		failure string
		found   bool
	}{
		{"completion closure", "(Result<String, NetworkError>) -> Void", "String", "NetworkError", true},
		{"escaping completion", "@escaping (Result<[User], Error>) -> Void", "[User]", "Error", true},
		{"bare result", "Result<Int, Never>", "Int", "Never", true},
		{"nested generics", "(Result<Dictionary<String, [Int]>, APIError>) -> Void", "Dictionary<String, [Int]>", "APIError", true},
		{"dictionary success", "Result<[String: Int], Error>", "[String: Int]", "Error", true},
		{"closure success", "Result<() -> Void, Error>", "() -> Void", "Error", true},
		{"qualified result", "(Swift.Result<Data, Error>) -> Void", "Data", "Error", true},
		{"single argument", "Result<Int>", "Int", "Error", true},
		{"no marker", "() -> Void", "Any", "Error", false},
		{"plain type", "String", "Any", "Error", false},
		{"unbalanced", "(Result<String, Error) -> Void", "Any", "Error", false},
		{"empty", "", "Any", "Error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := ExtractResultShape(tt.input)
			assert.Equal(t, tt.success, shape.Success)
			assert.Equal(t, tt.failure, shape.Failure)
			assert.Equal(t, tt.found, shape.Found)
		})
	}
}

func TestExtractStreamShape(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		failure string
		found   bool
	}{
		{"any publisher never", "AnyPublisher<Item, Never>", "Item", "Never", true},
		{"any publisher error", "AnyPublisher<[Item], NetworkError>", "[Item]", "NetworkError", true},
		{"nested output", "AnyPublisher<Result<Int, Error>, Never>", "Result<Int, Error>", "Never", true},
		{"wrapped publisher", "Optional<AnyPublisher<Int, Error>>", "Int", "Error", true},
		{"generic wrapper", "Foo<AnyPublisher<A, B>>", "A", "B", true},
		{"trailing wrapper argument", "Pair<AnyPublisher<A, B>, C>", "A", "B", true},
		{"single parameter", "CustomPublisher<Int>", "Int", "Never", true},
		{"malformed", "AnyPublisher<Int, Error", "Any", "Never", false},
		{"not a stream", "[Item]", "Any", "Never", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := ExtractStreamShape(tt.input)
			assert.Equal(t, tt.output, shape.Output)
			assert.Equal(t, tt.failure, shape.Failure)
			assert.Equal(t, tt.found, shape.Found)
		})
	}

	assert.True(t, ExtractStreamShape("AnyPublisher<Item, Never>").IsNever())
	assert.False(t, ExtractStreamShape("AnyPublisher<Item, Error>").IsNever())
}

func TestMarkers(t *testing.T) {
	assert.True(t, IsStreamType("AnyPublisher<Int, Never>"))
	assert.False(t, IsStreamType("Publisher"))
	assert.True(t, IsResultType("SearchResult<Int>"), "detection is textual")
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t, []string{"A", "B<C, D>", "(E, F) -> G"}, SplitTopLevel("A, B<C, D>, (E, F) -> G", ','))
	assert.Equal(t, []string{"[String: Int]"}, SplitTopLevel("[String: Int]", ','))
	assert.Nil(t, SplitTopLevel("", ','))
}

func TestClosureHelpers(t *testing.T) {
	assert.Equal(t, "(Int) -> Void", StripTypeAttributes("@escaping @Sendable (Int) -> Void"))
	assert.True(t, IsEscapingClosure("@escaping (Int) -> Void"))
	assert.False(t, IsEscapingClosure("(Int) -> Void"))
	assert.False(t, IsEscapingClosure("@escaping Handler"))

	assert.True(t, IsFunctionType("(Int) -> Void"))
	assert.True(t, IsFunctionType("((Int) -> Void)?"))
	assert.False(t, IsFunctionType("[Int]"))
	assert.False(t, IsFunctionType("Result<() -> Void, Error>"))
}

func TestExtractClosureShape(t *testing.T) {
	shape := ExtractClosureShape("@escaping (Data?, Error?) -> Void")
	assert.True(t, shape.Found)
	assert.Equal(t, []string{"Data?", "Error?"}, shape.Parameters)
	assert.Equal(t, "Void", shape.Return)

	labeled := ExtractClosureShape("@escaping (_ value: Int, _ other: [String: Int]) -> Void")
	assert.Equal(t, []string{"Int", "[String: Int]"}, labeled.Parameters)

	empty := ExtractClosureShape("@escaping () -> Void")
	assert.Empty(t, empty.Parameters)

	throwing := ExtractClosureShape("@escaping (Int) async throws -> Bool")
	assert.True(t, throwing.Async)
	assert.True(t, throwing.Throws)
	assert.Equal(t, "Bool", throwing.Return)

	assert.False(t, ExtractClosureShape("Int").Found)
}

func TestIsComparable(t *testing.T) {
	assert.True(t, IsComparable("Int"))
	assert.True(t, IsComparable("[String: Int]?"))
	assert.False(t, IsComparable("(Int) -> Void"))
	assert.False(t, IsComparable("[() -> Void]"))
	assert.False(t, IsComparable("Error"))
	assert.False(t, IsComparable("Error?"))
	assert.False(t, IsComparable("any Service"))
}

func TestStorageType(t *testing.T) {
	tests := map[string]string{
		"Int":                       "Int",
		"inout [Int]":               "[Int]",
		"String...":                 "[String]",
		"@escaping (Int) -> Void":   "(Int) -> Void",
		"borrowing Data":            "Data",
		"@autoclosure () -> String": "() -> String",
		"String!":                   "String?",
	}
	for input, want := range tests {
		assert.Equal(t, want, StorageType(input), input)
	}
}

func TestIsStorable(t *testing.T) {
	assert.True(t, IsStorable("Int"))
	assert.True(t, IsStorable("@escaping (Int) -> Void"))
	assert.True(t, IsStorable("((Int) -> Void)?"))
	assert.True(t, IsStorable("[() -> Void]"))
	assert.False(t, IsStorable("(Int) -> Void"))
	assert.False(t, IsStorable("@autoclosure () -> Bool"))
}
