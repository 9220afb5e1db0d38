// Package emitter turns a classified signature into the member blocks of a
// spy companion. Each calling convention has its own storage, body and
// helper shapes; every derived name is assigned by one naming.Planner so
// declarations and uses always agree.
package emitter

import (
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/naming"
	"github.com/toyz/spyable/internal/shapes"
	"github.com/toyz/spyable/internal/state"
	"github.com/toyz/spyable/internal/templates"
)

// Options controls the emitted member declarations
type Options struct {
	Access     string // companion access keyword, empty for internal
	ThreadSafe bool   // guard recording with a lock
}

// Input is everything the emitter needs for one declaration
type Input struct {
	Declaration *models.Declaration
	Signature   models.Signature
	Methods     []models.ClassifiedMethod
	State       models.StateModel
}

// Output holds the emitted blocks in container order
type Output struct {
	Blocks      []models.Block
	UsesCombine bool
}

// Emitter renders member blocks through the template registry
type Emitter struct {
	registry *templates.TemplateRegistry
	opts     Options
}

// New creates an emitter using the default template registry
func New(opts Options) *Emitter {
	return &Emitter{registry: templates.DefaultTemplateRegistry, opts: opts}
}

// NewWithRegistry creates an emitter rendering through registry
func NewWithRegistry(opts Options, registry *templates.TemplateRegistry) *Emitter {
	return &Emitter{registry: registry, opts: opts}
}

// companion is the per-declaration emission state
type companion struct {
	*Emitter
	decl    *models.Declaration
	sig     models.Signature
	model   models.StateModel
	plans   []*methodPlan
	names   *naming.Planner
	utility map[string]string // fixed utility name to emitted name
	access  string // member access prefix with trailing space
	diags   *spyerrors.Diagnostics
	blocks  []models.Block
	combine bool
}

// Emit produces the blocks for one declaration. Name collisions are
// reported as warnings; a template failure is returned as an error.
func (e *Emitter) Emit(in Input) (*Output, *spyerrors.Diagnostics, error) {
	c := &companion{
		Emitter: e,
		decl:    in.Declaration,
		sig:     in.Signature,
		model:   in.State,
		access:  memberAccess(e.opts.Access),
		diags:   &spyerrors.Diagnostics{},
	}
	if len(c.model.Variants) != len(in.Methods) {
		c.model = state.Build(in.Methods)
	}

	c.plan(in.Methods)

	steps := []func() error{
		c.emitStateEnum,
		c.emitTracking,
		c.emitProperties,
		c.emitInitializers,
		c.emitStorage,
		c.emitMethods,
		c.emitHelpers,
		c.emitUtilities,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, c.diags, err
		}
	}

	return &Output{Blocks: c.blocks, UsesCombine: c.combine}, c.diags, nil
}

// memberAccess returns the prefix applied to members a client sees
func memberAccess(access string) string {
	switch access {
	case "public", "open":
		return "public "
	case "package":
		return "package "
	default:
		return ""
	}
}

func (c *companion) isClass() bool {
	return c.decl.Kind == models.DeclarationClass
}

func (c *companion) isProtocol() bool {
	return c.decl.Kind == models.DeclarationProtocol
}

func (c *companion) add(kind models.BlockKind, name, text string) {
	text = strings.Trim(text, "\n")
	if strings.TrimSpace(text) == "" {
		return
	}
	c.blocks = append(c.blocks, models.Block{Kind: kind, Name: name, Text: text})
}

func (c *companion) render(name string, data interface{}) (string, error) {
	out, err := c.registry.Render(name, data)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

// renderAll renders functions through the "function" template, separated by blank lines
func (c *companion) renderAll(functions []templates.FunctionData) (string, error) {
	parts := make([]string, 0, len(functions))
	for _, fn := range functions {
		text, err := c.render("function", fn)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n"), nil
}

func (c *companion) name(key string) string {
	return c.names.Name(key)
}

func (c *companion) warn(err *spyerrors.ValidationError) {
	err.WithLocation(c.decl.Location.SourceLocation())
	c.diags.Warn(err)
}

func (c *companion) emitStateEnum() error {
	data := templates.StateEnumData{Access: c.access}
	for _, v := range c.model.Variants {
		data.Cases = append(data.Cases, state.Case(v))
	}
	for _, arm := range state.Arms(c.model) {
		data.Arms = append(data.Arms, templates.ArmData{Pattern: arm.Pattern, Condition: arm.Condition})
	}
	text, err := c.render("state-enum", data)
	if err != nil {
		return err
	}
	c.add(models.BlockStateEnum, naming.StateTypeName, text)
	return nil
}

func (c *companion) emitTracking() error {
	observes := c.isClass() && len(c.sig.ObservedProperties) > 0
	if observes {
		c.combine = true
	}
	text, err := c.render("recorder", templates.RecorderData{
		Access:     c.access,
		ThreadSafe: c.opts.ThreadSafe,
		Observes:   observes,
	})
	if err != nil {
		return err
	}

	if observes {
		lines := make([]string, 0, len(c.sig.ObservedProperties))
		for _, prop := range c.sig.ObservedProperties {
			lines = append(lines, c.trackingList(c.name(propertyKey(prop.Name, roleValues)), shapes.StorageType(prop.Type)))
		}
		text += "\n\n" + strings.Join(lines, "\n")
	}
	c.add(models.BlockTracking, naming.StatesName, text)
	return nil
}

// trackingList declares a read-only recording list of values of elementType
func (c *companion) trackingList(name, elementType string) string {
	return c.access + "private(set) var " + name + ": [" + elementType + "] = []"
}
