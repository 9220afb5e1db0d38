package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BlockKind orders the sections of a synthesized container
type BlockKind int

const (
	BlockStateEnum BlockKind = iota
	BlockTracking
	BlockProperties
	BlockInitializer
	BlockStorage
	BlockMethod
	BlockHelper
	BlockUtility
)

// String returns the string representation of the block kind
func (k BlockKind) String() string {
	switch k {
	case BlockStateEnum:
		return "state"
	case BlockTracking:
		return "tracking"
	case BlockProperties:
		return "properties"
	case BlockInitializer:
		return "initializer"
	case BlockStorage:
		return "storage"
	case BlockMethod:
		return "method"
	case BlockHelper:
		return "helper"
	case BlockUtility:
		return "utility"
	default:
		return "unknown"
	}
}

// Block is one emitted member group of the container body
type Block struct {
	Kind BlockKind
	Name string // owning member, e.g. a method selector, or the utility name
	Text string // Swift source without container-level indentation
}

// Fragment is a Block with a stable identity for hosts that splice output
type Fragment struct {
	ID   uuid.UUID
	Kind BlockKind
	Name string
	Text string
}

// fragmentNamespace seeds name-based fragment ids
var fragmentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/toyz/spyable/fragment"))

// SynthesizedContainer is the companion type generated for one declaration
type SynthesizedContainer struct {
	ClassName         string
	InheritanceTarget string // conformance or superclass, empty for struct input
	SourceKind        DeclarationKind
	AccessLevel       string // empty for internal
	Final             bool
	PreprocessorFlag  string
	Imports           []string
	Blocks            []Block
}

// BlocksOf returns the blocks of the given kind in emission order
func (c *SynthesizedContainer) BlocksOf(kind BlockKind) []Block {
	var out []Block
	for _, b := range c.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Fragments returns the container blocks with deterministic ids.
// Ids depend only on container name, block kind and block name.
func (c *SynthesizedContainer) Fragments() []Fragment {
	fragments := make([]Fragment, 0, len(c.Blocks))
	seen := make(map[string]int)
	for _, b := range c.Blocks {
		key := c.ClassName + "/" + b.Kind.String() + "/" + b.Name
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s#%d", key, n)
		}
		fragments = append(fragments, Fragment{
			ID:   uuid.NewSHA1(fragmentNamespace, []byte(key)),
			Kind: b.Kind,
			Name: b.Name,
			Text: b.Text,
		})
	}
	return fragments
}

// Header returns the class declaration line without the opening brace
func (c *SynthesizedContainer) Header() string {
	var parts []string
	if c.AccessLevel != "" {
		parts = append(parts, c.AccessLevel)
	}
	if c.Final {
		parts = append(parts, "final")
	}
	parts = append(parts, "class", c.ClassName)
	header := strings.Join(parts, " ")
	if c.InheritanceTarget != "" {
		header += ": " + c.InheritanceTarget
	}
	return header
}

// Serialize renders the full declaration text, wrapped in the preprocessor
// condition when one is set
func (c *SynthesizedContainer) Serialize() string {
	var b strings.Builder
	if c.PreprocessorFlag != "" {
		b.WriteString("#if " + c.PreprocessorFlag + "\n")
	}
	b.WriteString(c.Header() + " {\n")
	for i, block := range c.Blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, line := range strings.Split(strings.TrimRight(block.Text, "\n"), "\n") {
			if strings.TrimSpace(line) == "" {
				b.WriteString("\n")
				continue
			}
			b.WriteString("    " + line + "\n")
		}
	}
	b.WriteString("}\n")
	if c.PreprocessorFlag != "" {
		b.WriteString("#endif\n")
	}
	return b.String()
}
