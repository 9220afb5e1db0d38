package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/parser"
)

func declaration(t *testing.T, source string) *models.Declaration {
	t.Helper()
	file, _, err := parser.NewParser().ParseSource("Input.swift", source)
	require.NoError(t, err)
	require.Len(t, file.Declarations, 1)
	return &file.Declarations[0]
}

func TestExtractProtocol(t *testing.T) {
	decl := declaration(t, `
@Spyable
protocol NetworkService {
    var baseURL: URL { get }
    var token: String? { get set }
    func fetchData(from url: URL, completion: @escaping (Result<Data, NetworkError>) -> Void)
    func loadUser(_ id: Int) async throws -> User
    func ping()
    fileprivate func secret()
}
`)
	sig, diags := Extract(decl)
	assert.Equal(t, 0, diags.Len())

	require.Len(t, sig.Properties, 2)
	assert.True(t, sig.Properties[0].IsReadOnly)
	assert.False(t, sig.Properties[1].IsReadOnly)
	assert.True(t, sig.Properties[1].IsOptional())

	require.Len(t, sig.Methods, 4)
	fetch := sig.Methods[0]
	require.NotNil(t, fetch.CompletionParameter)
	assert.Equal(t, "completion", fetch.CompletionParameter.InternalName)
	assert.Equal(t, 1, fetch.CompletionIndex)
	require.Len(t, fetch.Parameters, 1)
	assert.Equal(t, "from", fetch.Parameters[0].ExternalName)
	assert.Equal(t, "url", fetch.Parameters[0].InternalName)
	assert.Equal(t, models.VoidType, fetch.ReturnType)
	assert.Equal(t, "fetchData(from:completion:)", fetch.Selector())

	load := sig.Methods[1]
	assert.True(t, load.IsAsynchronous)
	assert.True(t, load.IsThrowing)
	assert.Equal(t, "User", load.ReturnType)
	assert.Equal(t, "", load.Parameters[0].ExternalName)
	assert.Equal(t, "id", load.Parameters[0].InternalName)
	assert.Nil(t, load.CompletionParameter)

	assert.Equal(t, models.VoidType, sig.Methods[2].ReturnType)
	assert.True(t, sig.Methods[3].IsPrivate)
}

func TestExtractAmbiguousCompletion(t *testing.T) {
	decl := declaration(t, `
@Spyable
protocol Uploader {
    func upload(progress: @escaping (Double) -> Void, completion: @escaping (Bool) -> Void)
}
`)
	sig, diags := Extract(decl)
	require.Len(t, sig.Methods, 1)

	method := sig.Methods[0]
	assert.Equal(t, "progress", method.CompletionParameter.InternalName)
	require.Len(t, method.Parameters, 1)
	assert.Equal(t, "completion", method.Parameters[0].InternalName)

	assert.False(t, diags.HasErrors())
	require.Len(t, diags.Warnings(), 1)
	assert.Equal(t, spyerrors.AmbiguousCompletionErrorCode, diags.Warnings()[0].Err.ErrorCode())
}

func TestExtractDuplicateMethod(t *testing.T) {
	decl := declaration(t, `
@Spyable
protocol Store {
    func save(_ item: Item)
    func save(_ items: [Item])
}
`)
	_, diags := Extract(decl)
	require.True(t, diags.HasErrors())
	assert.True(t, diags.HasCode(spyerrors.DuplicateMethodErrorCode))
	assert.Contains(t, diags.Errors()[0].Error(), "method 'save' is declared 2 times")
}

func TestExtractRejectsEnum(t *testing.T) {
	decl := declaration(t, "@Spyable\nenum Mode { case a }\n")
	_, diags := Extract(decl)
	require.True(t, diags.HasErrors())
	assert.True(t, diags.HasCode(spyerrors.InputShapeErrorCode))
	assert.Contains(t, diags.Errors()[0].Error(), "Input.swift:2")
}

func TestExtractRejectsFinalClass(t *testing.T) {
	decl := declaration(t, "@Spyable\nfinal class Store {\n    func save() {}\n}\n")
	_, diags := Extract(decl)
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.Errors()[0].Error(), "final class 'Store'")
}

func TestExtractRejectsEmptyName(t *testing.T) {
	_, diags := Extract(&models.Declaration{Kind: models.DeclarationStruct})
	assert.True(t, diags.HasCode(spyerrors.InputShapeErrorCode))
}

func TestExtractUnsupportedMembers(t *testing.T) {
	decl := declaration(t, `
@Spyable
protocol Repository {
    associatedtype Entity
    init(name: String)
    static func shared() -> Self
    subscript(index: Int) -> Int { get }
    func count() -> Int
    func fetch<T: Decodable>(_ type: T.Type) -> T
}
`)
	sig, diags := Extract(decl)
	assert.False(t, diags.HasErrors())
	assert.Len(t, diags.Warnings(), 5)
	for _, w := range diags.Warnings() {
		assert.Equal(t, spyerrors.UnsupportedMemberErrorCode, w.Err.ErrorCode())
	}
	require.Len(t, sig.Methods, 1)
	assert.Equal(t, "count", sig.Methods[0].Name)
	assert.Empty(t, sig.Initializers)
}

func TestExtractClass(t *testing.T) {
	decl := declaration(t, `
@Spyable
class ProfileViewModel: ObservableObject {
    @Published var name: String = ""
    @Published var isLoading = false
    @Published private var hidden = 0
    var plain: Int = 0

    init(service: ProfileService) {}
    required init(coder: NSCoder) throws {}
    convenience init() { self.init(service: .live) }

    func load() {}
    final func locked() {}
}
`)
	sig, diags := Extract(decl)
	assert.Empty(t, sig.Properties)
	require.Len(t, sig.ObservedProperties, 2)
	assert.Equal(t, "name", sig.ObservedProperties[0].Name)
	assert.Equal(t, "Bool", sig.ObservedProperties[1].Type)

	require.Len(t, sig.Initializers, 2)
	assert.Equal(t, "init(service:)", sig.Initializers[0].Selector())
	assert.True(t, sig.Initializers[1].IsRequired)
	assert.True(t, sig.Initializers[1].IsThrowing)

	require.Len(t, sig.Methods, 1)
	assert.True(t, sig.Methods[0].HasBody)
	assert.Len(t, diags.Warnings(), 2)
}

func TestExtractStruct(t *testing.T) {
	decl := declaration(t, `
@Spyable
struct Settings {
    let id: UUID
    var retries = 3
    var ratio = 0.5
    var title = makeTitle()
    var summary: String { "\(id)" }
    func apply(_ value: Int, times: Int) -> Bool { true }
}
`)
	sig, diags := Extract(decl)
	require.Len(t, sig.Properties, 3)
	assert.True(t, sig.Properties[0].IsConstant)
	assert.Equal(t, "Int", sig.Properties[1].Type)
	assert.Equal(t, "3", sig.Properties[1].DefaultValue)
	assert.Equal(t, "Double", sig.Properties[2].Type)

	require.Len(t, diags.Warnings(), 1)
	assert.Contains(t, diags.Warnings()[0].Error(), "skipping 'title'")

	require.Len(t, sig.Methods, 1)
	assert.Equal(t, "Bool", sig.Methods[0].ReturnType)
}

func TestParametersNamesUnnamed(t *testing.T) {
	params := parameters([]models.ParameterDecl{
		{FirstName: "_", Type: "Int"},
		{FirstName: "with", SecondName: "_", Type: "String"},
		{FirstName: "same", Type: "Bool"},
	})
	assert.Equal(t, "arg0", params[0].InternalName)
	assert.Equal(t, "", params[0].ExternalName)
	assert.Equal(t, "arg1", params[1].InternalName)
	assert.Equal(t, "with", params[1].ExternalName)
	assert.Equal(t, "same", params[2].InternalName)
	assert.Equal(t, "same", params[2].ExternalName)
}

func TestInferLiteralType(t *testing.T) {
	tests := map[string]string{
		"true":      "Bool",
		"42":        "Int",
		"1_000":     "Int",
		"-3.25":     "Double",
		`"hello"`:   "String",
		"[]":        "",
		"makeOne()": "",
		"":          "",
	}
	for input, want := range tests {
		assert.Equal(t, want, inferLiteralType(input), input)
	}
}
