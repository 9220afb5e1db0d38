package templates

// FunctionData renders a method, initializer or helper through the "function" template
type FunctionData struct {
	Doc        []string // doc comment lines without the /// prefix
	Attributes []string // e.g. @discardableResult
	Modifiers  string   // modifiers with a trailing space, e.g. "public override "
	Keyword    string   // func, init, init?
	Name       string   // empty for initializers
	Parameters []string
	Effects    string // e.g. " async throws"
	Returns    string
	Record     []string // statements run inside spyRecord
	Body       []string // statements after recording; may span lines
}

// ArmData is one case of the State equality switch
type ArmData struct {
	Pattern   string
	Condition string
}

// StateEnumData renders the State enum
type StateEnumData struct {
	Access string
	Cases  []string
	Arms   []ArmData
}

// RecorderData renders the states list and the spyRecord helper
type RecorderData struct {
	Access     string
	ThreadSafe bool
	Observes   bool // declares the cancellables used by property observation
}

// ObservedPropertyData renders a stored property whose assignments are tracked
type ObservedPropertyData struct {
	Modifiers string
	Name      string
	Type      string
	Default   string
	OnSet     []string
}

// ObservationData subscribes to one @Published property of the superclass
type ObservationData struct {
	Property string
	Values   string
}

// UtilitiesData renders reset, didCall and callCount
type UtilitiesData struct {
	Access    string
	Reset     string
	DidCall   string
	CallCount string
	Clear     []string // statements run under the recording lock
	Ledgers   []string // ledgers emptied after the lock is released
}

// FileData renders a generated Swift file
type FileData struct {
	Source  string
	Imports string
	Bodies  []string
}
