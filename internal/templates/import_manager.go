package templates

import (
	"strings"
)

// systemModules are always ordered first, in this order
var systemModules = []string{"Foundation", "Combine"}

// ImportManager handles Swift import generation and deduplication
type ImportManager struct {
	system     map[string]bool
	statements []string
	modules    map[string]bool // modules already imported by a plain statement
}

// NewImportManager creates a new import manager that always imports Foundation
func NewImportManager() *ImportManager {
	im := &ImportManager{
		system:  make(map[string]bool),
		modules: make(map[string]bool),
	}
	im.Require("Foundation")
	return im
}

// Require adds a module the generated code depends on
func (im *ImportManager) Require(module string) {
	switch {
	case module == "":
	case isSystem(module):
		im.system[module] = true
	default:
		im.Add("import " + module)
	}
}

// Add adds an import statement as written in the source, e.g. "@testable import App".
// A bare module name is accepted too.
func (im *ImportManager) Add(statement string) {
	statement = strings.Join(strings.Fields(statement), " ")
	if statement == "" {
		return
	}
	if !strings.Contains(statement, "import ") {
		statement = "import " + statement
	}

	if module, plain := plainModule(statement); plain {
		if isSystem(module) {
			im.system[module] = true
			return
		}
		if im.modules[module] {
			return
		}
		im.modules[module] = true
	}
	for _, existing := range im.statements {
		if existing == statement {
			return
		}
	}
	im.statements = append(im.statements, statement)
}

// AddAll adds every statement in order
func (im *ImportManager) AddAll(statements ...string) {
	for _, s := range statements {
		im.Add(s)
	}
}

// Statements returns the import lines: system modules first, then the rest in insertion order
func (im *ImportManager) Statements() []string {
	var out []string
	for _, module := range systemModules {
		if im.system[module] {
			out = append(out, "import "+module)
		}
	}
	return append(out, im.statements...)
}

// GenerateImports renders the import section
func (im *ImportManager) GenerateImports() string {
	statements := im.Statements()
	if len(statements) == 0 {
		return ""
	}
	return strings.Join(statements, "\n") + "\n"
}

// Clone creates a copy of the import manager
func (im *ImportManager) Clone() *ImportManager {
	clone := &ImportManager{
		system:     make(map[string]bool, len(im.system)),
		modules:    make(map[string]bool, len(im.modules)),
		statements: append([]string(nil), im.statements...),
	}
	for k := range im.system {
		clone.system[k] = true
	}
	for k := range im.modules {
		clone.modules[k] = true
	}
	return clone
}

// Merge merges another import manager into this one
func (im *ImportManager) Merge(other *ImportManager) {
	for module := range other.system {
		im.Require(module)
	}
	im.AddAll(other.statements...)
}

// plainModule returns the module of an unattributed "import X" statement
func plainModule(statement string) (string, bool) {
	fields := strings.Fields(statement)
	if len(fields) != 2 || fields[0] != "import" {
		return "", false
	}
	return fields[1], true
}

func isSystem(module string) bool {
	for _, m := range systemModules {
		if m == module {
			return true
		}
	}
	return false
}
