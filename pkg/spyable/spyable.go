// Package spyable generates Swift test doubles for @Spyable declarations.
//
// A spy subclasses, conforms to or wraps the annotated declaration, records
// every call in a State history and exposes helpers that complete pending
// callbacks, continuations and publisher streams. Generated files depend on
// the runtime returned by SupportSource.
package spyable

import (
	_ "embed"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/generator"
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/parser"
)

//go:embed SpyableSupport.swift
var supportSource string

// SupportFileName is the conventional name of the runtime support file
const SupportFileName = "SpyableSupport.swift"

type (
	// Declaration is the structural description of one annotated declaration
	Declaration = models.Declaration
	// Container is the companion generated for a declaration
	Container = models.SynthesizedContainer
	// Fragment is one container block with a stable id
	Fragment = models.Fragment
	// Options are the project-level generation defaults
	Options = generator.Options
)

// DefaultOptions returns thread-safe generation without a preprocessor flag
func DefaultOptions() Options {
	return generator.DefaultOptions()
}

// File is one generated Swift file
type File struct {
	Declaration string
	Name        string
	Content     string
	Fragments   []Fragment
}

// Result holds the files generated from one source and the warnings raised
type Result struct {
	Files    []File
	Warnings []string
}

// SupportSource returns the Swift runtime used by generated spies
func SupportSource() string {
	return supportSource
}

// Generate builds the companion for a single declaration
func Generate(decl *Declaration, opts Options) (*Container, error) {
	return generator.NewGenerator(opts).Generate(decl)
}

// GenerateSource scans Swift source for @Spyable declarations and renders
// one file per declaration. Files for declarations that succeeded are
// returned even when another declaration fails.
func GenerateSource(filename, source string, opts Options) (*Result, error) {
	file, parseDiags, err := parser.NewParser().ParseSource(filename, source)
	if err != nil {
		return nil, err
	}

	files, genDiags, err := generator.NewGenerator(opts).GenerateFile(file)
	diags := &spyerrors.Diagnostics{}
	diags.Merge(parseDiags)
	diags.Merge(genDiags)

	result := &Result{}
	for _, w := range diags.Warnings() {
		result.Warnings = append(result.Warnings, w.Err.Error())
	}
	for _, f := range files {
		result.Files = append(result.Files, File{
			Declaration: f.Declaration,
			Name:        f.FileName,
			Content:     f.Content,
			Fragments:   f.Container.Fragments(),
		})
	}
	return result, err
}
