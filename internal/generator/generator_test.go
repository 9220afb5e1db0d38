package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/parser"
)

func parse(t *testing.T, source string) *models.SourceFile {
	t.Helper()
	file, _, err := parser.NewParser().ParseSource("Sources/App/Service.swift", source)
	require.NoError(t, err)
	return file
}

func declaration(t *testing.T, source string) *models.Declaration {
	t.Helper()
	file := parse(t, source)
	require.Len(t, file.Declarations, 1)
	return &file.Declarations[0]
}

const feedService = `
import Foundation
@testable import App

@Spyable(behindPreprocessorFlag: "DEBUG", accessLevel: .public)
public protocol FeedService {
    func refresh() async throws -> [Post]
    func posts(for user: String) -> AnyPublisher<Post, Error>
}
`

func TestGenerateProtocol(t *testing.T) {
	container, err := NewGenerator(DefaultOptions()).Generate(declaration(t, feedService))
	require.NoError(t, err)

	assert.Equal(t, "FeedServiceSpy", container.ClassName)
	assert.Equal(t, "FeedService", container.InheritanceTarget)
	assert.Equal(t, models.DeclarationProtocol, container.SourceKind)
	assert.True(t, container.Final)
	assert.Equal(t, "DEBUG", container.PreprocessorFlag)
	assert.Equal(t, "public final class FeedServiceSpy: FeedService", container.Header())
	assert.Equal(t, []string{"import Foundation", "import Combine", "@testable import App"}, container.Imports)

	kinds := make([]int, 0, len(container.Blocks))
	for _, b := range container.Blocks {
		kinds = append(kinds, int(b.Kind))
	}
	assert.IsNonDecreasing(t, kinds)
	assert.Len(t, container.BlocksOf(models.BlockUtility), 1)
}

func TestGenerateFallsBackToConfiguredFlag(t *testing.T) {
	gen := NewGenerator(Options{PreprocessorFlag: "TESTING", ThreadSafe: true})

	container, err := gen.Generate(declaration(t, "@Spyable\nprotocol Clock {\n    func now() -> Date\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, "TESTING", container.PreprocessorFlag)
	assert.Equal(t, "final class ClockSpy: Clock", container.Header())

	container, err = gen.Generate(declaration(t, "@Spyable(behindPreprocessorFlag: \"DEBUG\")\nprotocol Clock {\n    func now() -> Date\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", container.PreprocessorFlag)
}

func TestAssembleCollectsAnnotationErrors(t *testing.T) {
	decl := declaration(t, "@Spyable(flag: \"DEBUG\", accessLevel: .secret)\nprotocol Clock {\n    func now() -> Date\n}\n")

	result, err := NewGenerator(DefaultOptions()).Assemble(decl)
	require.Error(t, err)
	assert.Nil(t, result.Container)
	assert.Len(t, result.Diagnostics.Errors(), 2)
	assert.True(t, result.Diagnostics.HasCode(spyerrors.AnnotationErrorCode))
	assert.Contains(t, err.Error(), "flag")
}

func TestAssembleRejectsUnsupportedKinds(t *testing.T) {
	gen := NewGenerator(DefaultOptions())

	_, err := gen.Generate(declaration(t, "@Spyable\nenum Mode {\n    case on\n}\n"))
	require.Error(t, err)
	assert.Equal(t, spyerrors.InputShapeErrorCode, spyerrors.CodeOf(err))

	_, err = gen.Generate(nil)
	require.Error(t, err)
	assert.Equal(t, spyerrors.GenerationErrorCode, spyerrors.CodeOf(err))
}

func TestAssembleKeepsWarnings(t *testing.T) {
	decl := declaration(t, `
@Spyable
protocol Loader {
    func load(id: Int, completion: @escaping (Data) -> Void, fallback: @escaping (Error) -> Void)
}
`)
	result, err := NewGenerator(DefaultOptions()).Assemble(decl)
	require.NoError(t, err)
	require.NotNil(t, result.Container)
	assert.True(t, result.Diagnostics.HasCode(spyerrors.AmbiguousCompletionErrorCode))
}

func TestGenerateGenericClass(t *testing.T) {
	container, err := NewGenerator(DefaultOptions()).Generate(declaration(t, `
@Spyable
open class Store<Item: Hashable, Key>: NSObject {
    open func item(for key: Key) -> Item? { nil }
}
`))
	require.NoError(t, err)
	assert.Equal(t, "StoreSpy<Item: Hashable, Key>", container.ClassName)
	assert.Equal(t, "Store<Item, Key>", container.InheritanceTarget)
	assert.False(t, container.Final)
	assert.Equal(t, "class StoreSpy<Item: Hashable, Key>: Store<Item, Key>", container.Header())
}

func TestGenerateStructHasNoInheritance(t *testing.T) {
	container, err := NewGenerator(DefaultOptions()).Generate(declaration(t, `
@Spyable
struct Formatter {
    let locale: String
    func format(_ value: Double) -> String { "" }
}
`))
	require.NoError(t, err)
	assert.Empty(t, container.InheritanceTarget)
	assert.Equal(t, "final class FormatterSpy", container.Header())
	assert.Equal(t, []string{"import Foundation"}, container.Imports)
}

func TestRenderFile(t *testing.T) {
	gen := NewGenerator(Options{ThreadSafe: true, Imports: []string{"import TestSupport"}})
	file := parse(t, feedService)

	files, diags, err := gen.GenerateFile(file)
	require.NoError(t, err)
	assert.False(t, diags.HasErrors())
	require.Len(t, files, 1)

	out := files[0]
	assert.Equal(t, "FeedService", out.Declaration)
	assert.Equal(t, "FeedServiceSpy.swift", out.FileName)
	assert.True(t, strings.HasPrefix(out.Content, `// Code generated by spyable. DO NOT EDIT.
// Source: Service.swift

import Foundation
import Combine
@testable import App
import TestSupport

#if DEBUG
public final class FeedServiceSpy: FeedService {
    public enum State: Equatable {
        case refresh
        case posts(user: String)
`), out.Content)
	assert.True(t, strings.HasSuffix(out.Content, "    }\n}\n#endif\n"), out.Content)
	assert.Contains(t, out.Content, `    public func refresh() async throws -> [Post] {
        spyRecord {
            states.append(.refresh)
        }
        return try await withCheckedThrowingContinuation { continuation in
            refreshContinuations.append(continuation)
        }
    }`)
	assert.NotContains(t, out.Content, "\n\n\n")
}

func TestGenerateFileSkipsFailingDeclarations(t *testing.T) {
	file := parse(t, `
@Spyable
protocol Clock {
    func now() -> Date
}

@Spyable
enum Mode {
    case on
}
`)
	files, diags, err := NewGenerator(DefaultOptions()).GenerateFile(file)
	require.Error(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "ClockSpy.swift", files[0].FileName)
	assert.True(t, diags.HasCode(spyerrors.InputShapeErrorCode))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "UserServiceSpy.swift", FileName("UserService"))
	assert.Equal(t, "ProtocolSpy.swift", FileName("`Protocol`"))
}
