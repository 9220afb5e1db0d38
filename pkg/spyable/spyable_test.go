package spyable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `
import Foundation

@Spyable
protocol Downloader {
    func download(_ url: URL, completion: @escaping (Result<Data, Error>) -> Void)
}

@Spyable
protocol Downloader2 {
    func start(url: URL, progress: @escaping (Double) -> Void, completion: @escaping (Bool) -> Void)
}
`

func TestSupportSource(t *testing.T) {
	src := SupportSource()
	assert.Contains(t, src, "public enum SpyError: Error, Equatable, CustomStringConvertible")
	assert.Contains(t, src, "public final class SpyLedger<Payload>")
	assert.Contains(t, src, "public final class SpyChannel<Output, Failure: Error>")
	assert.Contains(t, src, "func resolve(at index: Int) throws -> Payload")
}

func TestGenerateSource(t *testing.T) {
	result, err := GenerateSource("Downloader.swift", source, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	first := result.Files[0]
	assert.Equal(t, "Downloader", first.Declaration)
	assert.Equal(t, "DownloaderSpy.swift", first.Name)
	assert.Contains(t, first.Content, "func completeDownload(with result: Result<Data, Error>, at index: Int = 0) throws")
	assert.Contains(t, first.Content, "let downloadCompletions = SpyLedger<(Result<Data, Error>) -> Void>(method: \"download(_:completion:)\")")
	assert.NotEmpty(t, first.Fragments)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "start")
}

func TestGenerateSourceFragmentsAreStable(t *testing.T) {
	a, err := GenerateSource("Downloader.swift", source, DefaultOptions())
	require.NoError(t, err)
	b, err := GenerateSource("Other.swift", source, DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, len(a.Files[0].Fragments), len(b.Files[0].Fragments))
	for i := range a.Files[0].Fragments {
		assert.Equal(t, a.Files[0].Fragments[i].ID, b.Files[0].Fragments[i].ID)
	}
}

func TestGenerateSourceSyntaxError(t *testing.T) {
	_, err := GenerateSource("Broken.swift", "@Spyable\nprotocol Broken {\n", DefaultOptions())
	require.Error(t, err)
}

func TestGenerate(t *testing.T) {
	container, err := Generate(&Declaration{Name: "Empty"}, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, container)
}
