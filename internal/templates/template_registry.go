package templates

import (
	"bytes"
	"strings"
	"text/template"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/naming"
)

// TemplateRegistry provides a centralized way to access all Swift templates
type TemplateRegistry struct {
	sources   map[string]string
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"join":       strings.Join,
	"capitalize": naming.Capitalize,
	"indent": func(n int, text string) string {
		pad := strings.Repeat(indentUnit, n)
		lines := strings.Split(text, "\n")
		for i, l := range lines {
			if l != "" {
				lines[i] = pad + l
			}
		}
		return strings.Join(lines, "\n")
	},
}

// NewTemplateRegistry creates a new template registry with all templates parsed
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		sources:   make(map[string]string),
		templates: make(map[string]*template.Template),
	}

	registry.registerFileTemplates()
	registry.registerStateTemplates()
	registry.registerMemberTemplates()
	registry.registerUtilityTemplates()

	for name, src := range registry.sources {
		registry.templates[name] = template.Must(template.New(name).Funcs(funcs).Parse(src))
	}
	return registry
}

// Get retrieves a template source by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	src, exists := tr.sources[name]
	return src, exists
}

// MustGet retrieves a template source by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	src, exists := tr.sources[name]
	if !exists {
		panic("template not found: " + name)
	}
	return src
}

// Render executes the named template with data
func (tr *TemplateRegistry) Render(name string, data interface{}) (string, error) {
	tmpl, exists := tr.templates[name]
	if !exists {
		return "", spyerrors.Newf(spyerrors.TemplateErrorCode, "template not found: %s", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", spyerrors.WrapTemplateError(name, "execute", err)
	}
	return buf.String(), nil
}

func (tr *TemplateRegistry) registerFileTemplates() {
	tr.sources["file"] = `// Code generated by spyable. DO NOT EDIT.
{{- if .Source}}
// Source: {{.Source}}
{{- end}}

{{.Imports}}
{{range .Bodies}}
{{.}}
{{- end}}
`
}

func (tr *TemplateRegistry) registerStateTemplates() {
	tr.sources["state-enum"] = `{{.Access}}enum State: Equatable {
{{- range .Cases}}
    case {{.}}
{{- end}}
{{- if .Arms}}

    {{.Access}}static func == (lhs: State, rhs: State) -> Bool {
        switch (lhs, rhs) {
{{- range .Arms}}
        case {{.Pattern}}:
            return {{.Condition}}
{{- end}}
        default:
            return false
        }
    }
{{- end}}
}`
}

func (tr *TemplateRegistry) registerMemberTemplates() {
	tr.sources["recorder"] = `{{.Access}}private(set) var states: [State] = []
{{- if .Observes}}
private var spyCancellables = Set<AnyCancellable>()
{{- end}}
{{- if .ThreadSafe}}
private let spyLock = NSLock()

private func spyRecord<T>(_ body: () throws -> T) rethrows -> T {
    spyLock.lock()
    defer { spyLock.unlock() }
    return try body()
}
{{- else}}

/// Calls are recorded without synchronization; drive this spy from one thread.
private func spyRecord<T>(_ body: () throws -> T) rethrows -> T {
    try body()
}
{{- end}}`

	tr.sources["function"] = `{{- range .Doc}}
/// {{.}}
{{- end}}
{{- range .Attributes}}
{{.}}
{{- end}}
{{.Modifiers}}{{.Keyword}} {{- if .Name}} {{.Name}}{{end}}({{join .Parameters ", "}}){{.Effects}}{{if .Returns}} -> {{.Returns}}{{end}} {
{{- if .Record}}
    spyRecord {
{{- range .Record}}
{{indent 2 .}}
{{- end}}
    }
{{- end}}
{{- range .Body}}
{{indent 1 .}}
{{- end}}
}`

	tr.sources["observed-property"] = `{{.Modifiers}}var {{.Name}}: {{.Type}}{{if .Default}} = {{.Default}}{{end}} {
    didSet {
        spyRecord {
{{- range .OnSet}}
            {{.}}
{{- end}}
        }
    }
}`

	tr.sources["observation"] = `private func observeSpyProperties() {
{{- range .}}
    ${{.Property}}
        .sink { [weak self] value in
            guard let self else { return }
            self.spyRecord { self.{{.Values}}.append(value) }
        }
        .store(in: &spyCancellables)
{{- end}}
}`
}

func (tr *TemplateRegistry) registerUtilityTemplates() {
	tr.sources["utilities"] = `{{.Access}}func {{.Reset}}() {
    spyRecord {
        states.removeAll()
{{- range .Clear}}
        {{.}}
{{- end}}
    }
{{- range .Ledgers}}
    {{.}}.removeAll()
{{- end}}
}

{{.Access}}func {{.DidCall}}(_ state: State) -> Bool {
    spyRecord { states.contains(state) }
}

{{.Access}}func {{.CallCount}}(for state: State) -> Int {
    spyRecord { states.filter { $0 == state }.count }
}`
}

// DefaultTemplateRegistry is the process-wide registry
var DefaultTemplateRegistry = NewTemplateRegistry()
