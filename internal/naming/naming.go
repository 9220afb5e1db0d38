// Package naming derives every generated Swift identifier from the names in
// the source declaration. All emission sites go through these functions so
// storage and helper names always agree.
package naming

import (
	"strings"
	"unicode"
)

// SpySuffix is appended to the source declaration name
const SpySuffix = "Spy"

// Fixed members of every companion
const (
	StatesName       = "states"
	StateTypeName    = "State"
	ResetName        = "reset"
	DidCallName      = "didCall"
	CallCountName    = "callCount"
	LockName         = "spyLock"
	RecordName       = "spyRecord"
	CancellablesName = "spyCancellables"
)

// StripBackticks removes Swift identifier escaping
func StripBackticks(name string) string {
	return strings.Trim(name, "`")
}

// Capitalize uppercases the first letter and leaves the rest as-is
func Capitalize(name string) string {
	name = StripBackticks(name)
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Decapitalize lowercases the first letter and leaves the rest as-is
func Decapitalize(name string) string {
	name = StripBackticks(name)
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// CompanionName returns the spy type name
func CompanionName(declaration string) string {
	return StripBackticks(declaration) + SpySuffix
}

// ShadowName returns the name used for a private method, which cannot be overridden
func ShadowName(method string) string {
	return "spy" + Capitalize(method)
}

// CompleteHelper returns "complete" + Method
func CompleteHelper(method string) string {
	return "complete" + Capitalize(method)
}

// CompleteWithSuccessHelper returns "complete" + Method + "WithSuccess"
func CompleteWithSuccessHelper(method string) string {
	return CompleteHelper(method) + "WithSuccess"
}

// CompleteWithErrorHelper returns "complete" + Method + "WithError"
func CompleteWithErrorHelper(method string) string {
	return CompleteHelper(method) + "WithError"
}

// SendHelper returns "send" + Method
func SendHelper(method string) string {
	return "send" + Capitalize(method)
}

// ReceivedValues returns the tracking list for a single parameter or property
func ReceivedValues(name string) string {
	return StripBackticks(name) + "ReceivedValues"
}

// ReceivedArguments returns the tuple tracking list of a multi-parameter method
func ReceivedArguments(method string) string {
	return StripBackticks(method) + "ReceivedArguments"
}

// ReceivedResults returns the list of Result payloads delivered to a completion parameter
func ReceivedResults(completion string) string {
	return StripBackticks(completion) + "ReceivedResults"
}

// ReceivedErrors returns the per-invocation terminal failure list of a stream method
func ReceivedErrors(method string) string {
	return StripBackticks(method) + "ReceivedErrors"
}

// ChangeCount returns the assignment counter of a read-write property
func ChangeCount(property string) string {
	return StripBackticks(property) + "ChangeCount"
}

// Completions returns the completion ledger of a callback method
func Completions(method string) string {
	return StripBackticks(method) + "Completions"
}

// Continuations returns the continuation ledger of an async method
func Continuations(method string) string {
	return StripBackticks(method) + "Continuations"
}

// Channels returns the channel ledger of a stream method
func Channels(method string) string {
	return StripBackticks(method) + "Channels"
}

// ReturnValue returns the stub return storage of a synchronous method
func ReturnValue(method string) string {
	return StripBackticks(method) + "ReturnValue"
}

// ThrowableError returns the stub error storage of a synchronous throwing method
func ThrowableError(method string) string {
	return StripBackticks(method) + "ThrowableError"
}

// Qualified prefixes a derived name with its owner, e.g. ("load", "idReceivedValues") -> loadIdReceivedValues
func Qualified(owner, name string) string {
	return StripBackticks(owner) + Capitalize(name)
}
