package emitter

import (
	"strconv"
	"strings"

	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/naming"
	"github.com/toyz/spyable/internal/shapes"
	"github.com/toyz/spyable/internal/state"
	"github.com/toyz/spyable/internal/templates"
)

const supportLedger = "SpyLedger"

func (c *companion) emitStorage() error {
	for _, p := range c.plans {
		c.add(models.BlockStorage, p.Method.Selector(), strings.Join(c.storage(p), "\n"))
	}
	return nil
}

// storage declares the recording lists, stubs and ledger of one method
func (c *companion) storage(p *methodPlan) []string {
	var lines []string
	switch len(p.recorded) {
	case 0:
	case 1:
		lines = append(lines, c.trackingList(c.name(p.key(roleTrack)), shapes.StorageType(p.recorded[0].Type)))
	default:
		lines = append(lines, c.trackingList(c.name(p.key(roleTrack)), tupleType(p.recorded)))
	}
	if p.stubsReturn() {
		lines = append(lines, c.access+"var "+c.name(p.key(roleReturn))+": "+stubType(p.Method.ReturnType))
	}
	if p.stubsError() {
		lines = append(lines, c.access+"var "+c.name(p.key(roleThrow))+": Error?")
	}

	selector := quote(p.Method.Selector())
	switch p.kind() {
	case models.CompletionCallback:
		payload := shapes.StorageType(p.Method.CompletionParameter.Type)
		lines = append(lines, c.ledger(p, payload, selector))
		if p.result {
			lines = append(lines, c.trackingList(c.name(p.key(roleResults)), shapes.StorageType(p.closure.Parameters[0])))
		}
	case models.AsynchronousAwaitable:
		lines = append(lines, c.ledger(p, "CheckedContinuation<"+successType(p.Result.Success)+", "+p.Result.Failure+">", selector))
	case models.StreamProducing:
		c.combine = true
		ledger := c.name(p.key(roleLedger))
		lines = append(lines,
			c.ledger(p, "SpyChannel<"+p.Stream.Output+", "+p.Stream.Failure+">", selector),
			c.access+"var "+c.name(p.key(roleValues))+": [["+p.Stream.Output+"]] { "+ledger+".all.map(\\.values) }",
		)
		if !p.Convention.FailureIsNever {
			lines = append(lines,
				c.access+"var "+c.name(p.key(roleErrors))+": ["+p.Stream.Failure+"?] { "+ledger+".all.map(\\.failure) }")
		}
	}
	return lines
}

func (c *companion) ledger(p *methodPlan, payload, selector string) string {
	return c.access + "let " + c.name(p.key(roleLedger)) + " = " + supportLedger + "<" + payload + ">(method: " + selector + ")"
}

func successType(t string) string {
	if isVoid(t) {
		return models.VoidType
	}
	return t
}

func (c *companion) emitMethods() error {
	for _, p := range c.plans {
		method := p.Method
		fn := templates.FunctionData{
			Attributes: attributes(method.Attributes),
			Modifiers:  c.methodModifiers(p),
			Keyword:    "func",
			Name:       p.name,
			Parameters: parameterList(method.AllParameters()),
			Effects:    effects(method.IsAsynchronous, method.IsThrowing),
			Record:     c.record(p),
			Body:       c.body(p),
		}
		if method.ReturnsValue() {
			fn.Returns = method.ReturnType
		}
		text, err := c.render("function", fn)
		if err != nil {
			return err
		}
		c.add(models.BlockMethod, method.Selector(), text)
	}
	return nil
}

func (c *companion) methodModifiers(p *methodPlan) string {
	mods := c.access
	if c.isClass() && !p.Method.IsPrivate {
		mods += "override "
	}
	if models.HasModifier(p.Method.Modifiers, "nonisolated") {
		mods += "nonisolated "
	}
	return mods
}

// record returns the statements run under the recording lock for a call
func (c *companion) record(p *methodPlan) []string {
	lines := []string{naming.StatesName + ".append(" + state.Construct(p.variant) + ")"}
	switch len(p.recorded) {
	case 0:
	case 1:
		lines = append(lines, c.name(p.key(roleTrack))+".append("+p.recorded[0].InternalName+")")
	default:
		lines = append(lines, c.name(p.key(roleTrack))+".append("+tupleValue(p.recorded)+")")
	}
	return lines
}

func (c *companion) body(p *methodPlan) []string {
	method := p.Method
	switch p.kind() {
	case models.CompletionCallback:
		lines := c.throwStub(p)
		lines = append(lines, c.name(p.key(roleLedger))+".append("+method.CompletionParameter.InternalName+")")
		return append(lines, c.returnStub(p)...)

	case models.AsynchronousAwaitable:
		call := "await withCheckedContinuation"
		if p.Convention.Throwing {
			call = "try await withCheckedThrowingContinuation"
		}
		if method.ReturnsValue() {
			call = "return " + call
		}
		return []string{call + " { continuation in\n    " + c.name(p.key(roleLedger)) + ".append(continuation)\n}"}

	case models.StreamProducing:
		lines := c.throwStub(p)
		return append(lines,
			"let spyChannel = "+c.name(p.key(roleLedger))+".appendNew { SpyChannel<"+p.Stream.Output+", "+p.Stream.Failure+
				">(method: "+quote(method.Selector())+", index: $0) }",
			"return spyChannel.publisher",
		)

	default:
		if p.forwards {
			call := "super." + method.Name + "(" + forwardArguments(method.AllParameters()) + ")"
			if method.IsThrowing {
				call = "try " + call
			}
			if method.ReturnsValue() {
				call = "return " + call
			}
			return []string{call}
		}
		return append(c.throwStub(p), c.returnStub(p)...)
	}
}

func (c *companion) throwStub(p *methodPlan) []string {
	if !p.stubsError() {
		return nil
	}
	return []string{"if let error = " + c.name(p.key(roleThrow)) + " {\n    throw error\n}"}
}

func (c *companion) returnStub(p *methodPlan) []string {
	if !p.stubsReturn() {
		return nil
	}
	return []string{"return " + c.name(p.key(roleReturn))}
}

func (c *companion) emitHelpers() error {
	for _, p := range c.plans {
		var helpers []templates.FunctionData
		switch p.kind() {
		case models.CompletionCallback:
			if p.result {
				helpers = c.resultCompletionHelpers(p)
			} else {
				helpers = c.argumentCompletionHelpers(p)
			}
		case models.AsynchronousAwaitable:
			helpers = c.continuationHelpers(p)
		case models.StreamProducing:
			helpers = c.channelHelpers(p)
		}
		if len(helpers) == 0 {
			continue
		}
		text, err := c.renderAll(helpers)
		if err != nil {
			return err
		}
		c.add(models.BlockHelper, p.Method.Selector(), text)
	}
	return nil
}

func (c *companion) helper(name string, params ...string) templates.FunctionData {
	return templates.FunctionData{
		Modifiers:  c.access,
		Keyword:    "func",
		Name:       name,
		Parameters: append(params, indexParameter),
		Effects:    effects(false, true),
	}
}

// passThrough applies the completion closure's effects and return type to a
// helper and returns the prefix for the forwarding call
func passThrough(fn *templates.FunctionData, closure shapes.ClosureShape, throws bool) string {
	prefix := ""
	if !isVoid(closure.Return) {
		fn.Attributes = append(fn.Attributes, "@discardableResult")
		fn.Returns = closure.Return
		prefix = "return "
	}
	if throws {
		prefix += "try "
	}
	if closure.Async {
		fn.Effects = effects(true, true)
		prefix += "await "
	}
	return prefix
}

func (c *companion) resultCompletionHelpers(p *methodPlan) []templates.FunctionData {
	resultType := shapes.StorageType(p.closure.Parameters[0])
	ledger := c.name(p.key(roleLedger))
	complete := c.name(p.key(roleComplete))
	selector := p.Method.Selector()

	main := c.helper(complete, "with result: "+resultType)
	main.Doc = []string{"Delivers result to the index-th recorded " + selector + " call."}
	call := passThrough(&main, p.closure, p.closure.Throws) + "completion(result)"
	main.Body = []string{
		"let completion = try " + ledger + ".entry(at: index)",
		naming.RecordName + " { " + c.name(p.key(roleResults)) + ".append(result) }",
		call,
	}

	success := c.helper(c.name(p.key(roleSuccess)))
	value := "()"
	if !isVoid(p.Result.Success) {
		success.Parameters = append([]string{"_ value: " + p.Result.Success}, success.Parameters...)
		value = "value"
	}
	success.Body = []string{passThrough(&success, p.closure, true) + complete + "(with: .success(" + value + "), at: index)"}

	failure := c.helper(c.name(p.key(roleError)), "_ error: "+p.Result.Failure)
	failure.Body = []string{passThrough(&failure, p.closure, true) + complete + "(with: .failure(error), at: index)"}

	return []templates.FunctionData{main, success, failure}
}

func (c *companion) argumentCompletionHelpers(p *methodPlan) []templates.FunctionData {
	var params, args []string
	for i, t := range p.closure.Parameters {
		name := "arg" + strconv.Itoa(i)
		label := "_ "
		if i == 0 {
			label = "with "
		}
		params = append(params, label+name+": "+strings.TrimSpace(t))
		args = append(args, name)
	}

	fn := c.helper(c.name(p.key(roleComplete)), params...)
	fn.Doc = []string{"Calls the completion of the index-th recorded " + p.Method.Selector() + " call."}
	call := passThrough(&fn, p.closure, p.closure.Throws)
	fn.Body = []string{
		"let completion = try " + c.name(p.key(roleLedger)) + ".entry(at: index)",
		call + "completion(" + strings.Join(args, ", ") + ")",
	}
	return []templates.FunctionData{fn}
}

func (c *companion) continuationHelpers(p *methodPlan) []templates.FunctionData {
	resultType := "Result<" + successType(p.Result.Success) + ", " + p.Result.Failure + ">"
	complete := c.name(p.key(roleComplete))

	main := c.helper(complete, "with result: "+resultType)
	main.Doc = []string{"Resumes the index-th suspended " + p.Method.Selector() + " call.", "Each call can be resumed once."}
	main.Body = []string{"try " + c.name(p.key(roleLedger)) + ".resolve(at: index).resume(with: result)"}

	success := c.helper(c.name(p.key(roleSuccess)))
	value := "()"
	if !isVoid(p.Result.Success) {
		success.Parameters = append([]string{"_ value: " + p.Result.Success}, success.Parameters...)
		value = "value"
	}
	success.Body = []string{"try " + complete + "(with: .success(" + value + "), at: index)"}

	helpers := []templates.FunctionData{main, success}
	if p.Convention.Throwing {
		failure := c.helper(c.name(p.key(roleError)), "_ error: "+p.Result.Failure)
		failure.Body = []string{"try " + complete + "(with: .failure(error), at: index)"}
		helpers = append(helpers, failure)
	}
	return helpers
}

func (c *companion) channelHelpers(p *methodPlan) []templates.FunctionData {
	channel := "try " + c.name(p.key(roleLedger)) + ".entry(at: index)"

	send := c.helper(c.name(p.key(roleSend)))
	send.Doc = []string{"Publishes a value on the index-th stream returned by " + p.Method.Selector() + "."}
	value := "()"
	if !isVoid(p.Stream.Output) {
		send.Parameters = append([]string{"_ value: " + p.Stream.Output}, send.Parameters...)
		value = "value"
	}
	send.Body = []string{channel + ".send(" + value + ")"}

	complete := c.helper(c.name(p.key(roleComplete)))
	complete.Body = []string{channel + ".finish()"}

	helpers := []templates.FunctionData{send, complete}
	if !p.Convention.FailureIsNever {
		failure := c.helper(c.name(p.key(roleError)), "_ error: "+p.Stream.Failure)
		failure.Body = []string{channel + ".fail(error)"}
		helpers = append(helpers, failure)
	}
	return helpers
}
