package models

// ConventionKind is how a method yields its result
type ConventionKind int

const (
	Synchronous ConventionKind = iota
	CompletionCallback
	AsynchronousAwaitable
	StreamProducing
)

// String returns the string representation of the convention kind
func (k ConventionKind) String() string {
	switch k {
	case CompletionCallback:
		return "completion"
	case AsynchronousAwaitable:
		return "async"
	case StreamProducing:
		return "stream"
	default:
		return "sync"
	}
}

// CallingConvention is the classification of one method
type CallingConvention struct {
	Kind           ConventionKind
	Throwing       bool // AsynchronousAwaitable only
	FailureIsNever bool // StreamProducing only
}

// String returns a compact description, e.g. async(throwing)
func (c CallingConvention) String() string {
	switch c.Kind {
	case AsynchronousAwaitable:
		if c.Throwing {
			return "async(throwing)"
		}
		return "async"
	case StreamProducing:
		if c.FailureIsNever {
			return "stream(never)"
		}
		return "stream(failable)"
	default:
		return c.Kind.String()
	}
}

// ResultShape is the component types of a Result<Success, Failure> text
type ResultShape struct {
	Success string
	Failure string
	Found   bool // false when the defaults were returned
}

// StreamShape is the component types of a Publisher<Output, Failure> text
type StreamShape struct {
	Output  string
	Failure string
	Found   bool
}

// IsNever reports whether the stream cannot fail
func (s StreamShape) IsNever() bool {
	return s.Failure == "Never"
}

// ClassifiedMethod pairs a method with its convention and the shapes derived from it
type ClassifiedMethod struct {
	Method     MethodModel
	Convention CallingConvention
	Result     ResultShape // completion payload or async result
	Stream     StreamShape
}
