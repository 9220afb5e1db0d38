package generator

import (
	"path/filepath"
	"strings"

	"github.com/toyz/spyable/internal/annotations"
	"github.com/toyz/spyable/internal/classifier"
	"github.com/toyz/spyable/internal/emitter"
	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/extractor"
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/naming"
	"github.com/toyz/spyable/internal/parser"
	"github.com/toyz/spyable/internal/shapes"
	"github.com/toyz/spyable/internal/state"
	"github.com/toyz/spyable/internal/templates"
)

// Options are the project-level defaults applied to every declaration.
// Arguments on the @Spyable attribute take precedence.
type Options struct {
	PreprocessorFlag string
	ThreadSafe       bool
	Imports          []string // extra import statements for every generated file
}

// DefaultOptions returns the options used when no configuration is loaded
func DefaultOptions() Options {
	return Options{ThreadSafe: true}
}

// Result is a container together with the diagnostics raised while building it
type Result struct {
	Container   *models.SynthesizedContainer
	Diagnostics *spyerrors.Diagnostics
}

// GeneratedFile is one rendered companion file
type GeneratedFile struct {
	Declaration string
	FileName    string
	Content     string
	Container   *models.SynthesizedContainer
}

// Generator implements the CodeGenerator interface
type Generator struct {
	opts     Options
	registry *templates.TemplateRegistry
}

// NewGenerator creates a new spy generator
func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts, registry: templates.DefaultTemplateRegistry}
}

// NewGeneratorWithRegistry creates a generator rendering through registry
func NewGeneratorWithRegistry(opts Options, registry *templates.TemplateRegistry) *Generator {
	return &Generator{opts: opts, registry: registry}
}

// Generate builds the companion for one declaration. Warnings are dropped;
// use Assemble to receive them.
func (g *Generator) Generate(decl *models.Declaration) (*models.SynthesizedContainer, error) {
	result, err := g.Assemble(decl)
	if err != nil {
		return nil, err
	}
	return result.Container, nil
}

// Assemble runs the full pipeline for one declaration. Any recorded error
// aborts the declaration and is returned; the diagnostics are returned in
// both cases so warnings stay visible.
func (g *Generator) Assemble(decl *models.Declaration) (*Result, error) {
	if decl == nil {
		return nil, spyerrors.New(spyerrors.GenerationErrorCode, "declaration cannot be nil")
	}
	diags := &spyerrors.Diagnostics{}
	result := &Result{Diagnostics: diags}

	opts := g.annotationOptions(decl, diags)

	sig, extractDiags := extractor.Extract(decl)
	diags.Merge(extractDiags)
	if diags.HasErrors() {
		return result, diags.Err()
	}

	methods := classifier.ClassifyAll(sig.Methods)
	em := emitter.NewWithRegistry(emitter.Options{
		Access:     opts.AccessLevel.Keyword(),
		ThreadSafe: g.opts.ThreadSafe,
	}, g.registry)
	out, emitDiags, err := em.Emit(emitter.Input{
		Declaration: decl,
		Signature:   sig,
		Methods:     methods,
		State:       state.Build(methods),
	})
	diags.Merge(emitDiags)
	if err != nil {
		return result, spyerrors.WrapGenerateError(decl.Name, err)
	}

	flag := opts.PreprocessorFlag
	if flag == "" {
		flag = g.opts.PreprocessorFlag
	}
	result.Container = &models.SynthesizedContainer{
		ClassName:         naming.CompanionName(decl.Name) + genericClause(decl.Generics),
		InheritanceTarget: inheritanceTarget(decl),
		SourceKind:        decl.Kind,
		AccessLevel:       opts.AccessLevel.Keyword(),
		Final:             decl.Kind != models.DeclarationClass,
		PreprocessorFlag:  flag,
		Imports:           g.imports(decl, out.UsesCombine).Statements(),
		Blocks:            out.Blocks,
	}
	return result, nil
}

// annotationOptions decodes the @Spyable arguments, recording every
// argument problem as an error diagnostic
func (g *Generator) annotationOptions(decl *models.Declaration, diags *spyerrors.Diagnostics) annotations.Options {
	attr, ok := decl.Attribute(parser.SpyableAttribute)
	if !ok {
		return annotations.Options{}
	}
	opts, err := annotations.Parse(attr)
	if err == nil {
		return opts
	}

	var multi *spyerrors.MultipleErrors
	var single spyerrors.SpyableError
	switch {
	case spyerrors.As(err, &multi):
		for _, e := range multi.Errors {
			diags.Fail(e)
		}
	case spyerrors.As(err, &single):
		diags.Fail(single)
	default:
		diags.Fail(spyerrors.Wrap(spyerrors.AnnotationErrorCode, "invalid @Spyable attribute", err).
			WithLocation(attr.Location.SourceLocation()))
	}
	return opts
}

func (g *Generator) imports(decl *models.Declaration, combine bool) *templates.ImportManager {
	im := templates.NewImportManager()
	if combine {
		im.Require("Combine")
	}
	im.AddAll(decl.Imports...)
	im.AddAll(g.opts.Imports...)
	return im
}

// RenderFile renders a container as a complete Swift source file
func (g *Generator) RenderFile(container *models.SynthesizedContainer, sourcePath string) (string, error) {
	im := templates.NewImportManager()
	im.AddAll(container.Imports...)
	text, err := g.registry.Render("file", templates.FileData{
		Source:  filepath.Base(sourcePath),
		Imports: strings.TrimRight(im.GenerateImports(), "\n"),
		Bodies:  []string{container.Serialize()},
	})
	if err != nil {
		return "", err
	}
	return templates.FormatSwift(text), nil
}

// GenerateFile generates one companion file per declaration in a scanned
// source file. Declarations that fail are skipped and their errors
// collected; the returned diagnostics cover every declaration.
func (g *Generator) GenerateFile(file *models.SourceFile) ([]GeneratedFile, *spyerrors.Diagnostics, error) {
	diags := &spyerrors.Diagnostics{}
	var files []GeneratedFile
	for i := range file.Declarations {
		decl := &file.Declarations[i]
		result, err := g.Assemble(decl)
		if result != nil {
			diags.Merge(result.Diagnostics)
		}
		if err != nil {
			if !diags.HasErrors() {
				diags.Fail(spyerrors.WrapGenerateError(decl.Name, err))
			}
			continue
		}
		content, err := g.RenderFile(result.Container, file.Path)
		if err != nil {
			return files, diags, spyerrors.WrapGenerateError(decl.Name, err)
		}
		files = append(files, GeneratedFile{
			Declaration: decl.Name,
			FileName:    FileName(decl.Name),
			Content:     content,
			Container:   result.Container,
		})
	}
	return files, diags, diags.Err()
}

// FileName returns the file name of the companion generated for a declaration
func FileName(declaration string) string {
	return naming.CompanionName(declaration) + ".swift"
}

// genericClause returns the bracketed generic clause, empty when there is none
func genericClause(generics string) string {
	if generics == "" {
		return ""
	}
	return "<" + generics + ">"
}

// inheritanceTarget is the conformance for protocol input and the
// specialized superclass for class input
func inheritanceTarget(decl *models.Declaration) string {
	name := naming.StripBackticks(decl.Name)
	switch decl.Kind {
	case models.DeclarationProtocol:
		return name
	case models.DeclarationClass:
		if decl.Generics == "" {
			return name
		}
		var args []string
		for _, param := range shapes.SplitTopLevel(decl.Generics, ',') {
			arg := param
			if i := strings.Index(param, ":"); i >= 0 {
				arg = param[:i]
			}
			args = append(args, strings.TrimSpace(arg))
		}
		return name + "<" + strings.Join(args, ", ") + ">"
	}
	return ""
}
