package emitter

import (
	"strings"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/models"
	"github.com/toyz/spyable/internal/naming"
	"github.com/toyz/spyable/internal/shapes"
	"github.com/toyz/spyable/internal/state"
)

// Planner roles. A planner key is owner/role.
const (
	roleTrack    = "track"
	roleResults  = "results"
	roleLedger   = "ledger"
	roleReturn   = "return"
	roleThrow    = "throw"
	roleComplete = "complete"
	roleSuccess  = "success"
	roleError    = "error"
	roleSend     = "send"
	roleValues   = "values"
	roleErrors   = "errors"
	roleChanges  = "changes"
)

// methodPlan is one method with everything derived from it before rendering
type methodPlan struct {
	models.ClassifiedMethod
	variant  models.StateVariant
	recorded []models.ParameterModel
	name     string // emitted function name
	forwards bool   // calls the superclass implementation
	result   bool   // completion payload is a single Result argument
	closure  shapes.ClosureShape
}

func (p *methodPlan) key(role string) string {
	return p.Method.Name + "/" + role
}

func (p *methodPlan) kind() models.ConventionKind {
	return p.Convention.Kind
}

// stubsReturn reports whether the return value comes from stored stub storage
func (p *methodPlan) stubsReturn() bool {
	switch p.kind() {
	case models.Synchronous:
		return !p.forwards && p.Method.ReturnsValue()
	case models.CompletionCallback:
		return p.Method.ReturnsValue()
	}
	return false
}

// stubsError reports whether a stored error is thrown before the call proceeds
func (p *methodPlan) stubsError() bool {
	switch p.kind() {
	case models.Synchronous:
		return !p.forwards && p.Method.IsThrowing
	case models.CompletionCallback, models.StreamProducing:
		return p.Method.IsThrowing
	}
	return false
}

func propertyKey(property, role string) string {
	return "." + property + "/" + role
}

// plan builds the method plans and claims every derived name
func (c *companion) plan(methods []models.ClassifiedMethod) {
	for i, cm := range methods {
		p := &methodPlan{
			ClassifiedMethod: cm,
			variant:          c.model.Variants[i],
			recorded:         state.Recorded(cm.Method),
			name:             cm.Method.Name,
		}
		if c.isClass() {
			if cm.Method.IsPrivate {
				p.name = naming.ShadowName(cm.Method.Name)
			} else {
				p.forwards = cm.Convention.Kind == models.Synchronous && cm.Method.HasBody && !hasVariadic(cm.Method.Parameters)
			}
		}
		if cm.Method.CompletionParameter != nil {
			p.closure = shapes.ExtractClosureShape(cm.Method.CompletionParameter.Type)
			p.result = cm.Result.Found && len(p.closure.Parameters) == 1 && shapes.IsResultType(p.closure.Parameters[0])
		}
		c.plans = append(c.plans, p)
	}

	c.names = naming.NewPlanner(c.memberNames()...)
	c.utility = make(map[string]string)
	for _, name := range []string{naming.ResetName, naming.DidCallName, naming.CallCountName} {
		emitted, renamed := c.names.Utility(name)
		c.utility[name] = emitted
		if renamed {
			c.warn(spyerrors.NewUtilityRenamedError(c.decl.Name, name, emitted))
		}
	}
	for _, p := range c.plans {
		c.claimMethod(p)
	}
	for _, prop := range c.claimedProperties() {
		claim := func(role, base string) {
			c.names.Claim(propertyKey(prop.Name, role), base, prop.Name, "property '"+prop.Name+"'")
		}
		claim(roleValues, naming.ReceivedValues(prop.Name))
		if !c.isClass() {
			claim(roleChanges, naming.ChangeCount(prop.Name))
		}
	}

	for _, collision := range c.names.Resolve() {
		c.warn(spyerrors.NewNameCollisionError(c.decl.Name, collision.Name, collision.Claimants))
	}
}

// claimedProperties returns the properties that get tracking members
func (c *companion) claimedProperties() []models.PropertyModel {
	if c.isClass() {
		return c.sig.ObservedProperties
	}
	if !c.isProtocol() {
		return nil
	}
	var out []models.PropertyModel
	for _, prop := range c.sig.Properties {
		if !prop.IsReadOnly {
			out = append(out, prop)
		}
	}
	return out
}

func (c *companion) claimMethod(p *methodPlan) {
	method := p.Method
	claimant := method.Selector()
	claim := func(role, base string) {
		c.names.Claim(p.key(role), base, method.Name, claimant)
	}

	switch len(p.recorded) {
	case 0:
	case 1:
		claim(roleTrack, naming.ReceivedValues(p.recorded[0].InternalName))
	default:
		claim(roleTrack, naming.ReceivedArguments(method.Name))
	}
	if p.stubsReturn() {
		claim(roleReturn, naming.ReturnValue(method.Name))
	}
	if p.stubsError() {
		claim(roleThrow, naming.ThrowableError(method.Name))
	}

	switch p.kind() {
	case models.CompletionCallback:
		claim(roleLedger, naming.Completions(method.Name))
		claim(roleComplete, naming.CompleteHelper(method.Name))
		if p.result {
			claim(roleResults, naming.ReceivedResults(method.CompletionParameter.InternalName))
			claim(roleSuccess, naming.CompleteWithSuccessHelper(method.Name))
			claim(roleError, naming.CompleteWithErrorHelper(method.Name))
		}
	case models.AsynchronousAwaitable:
		claim(roleLedger, naming.Continuations(method.Name))
		claim(roleComplete, naming.CompleteHelper(method.Name))
		claim(roleSuccess, naming.CompleteWithSuccessHelper(method.Name))
		if p.Convention.Throwing {
			claim(roleError, naming.CompleteWithErrorHelper(method.Name))
		}
	case models.StreamProducing:
		claim(roleLedger, naming.Channels(method.Name))
		claim(roleValues, naming.ReceivedValues(method.Name))
		claim(roleSend, naming.SendHelper(method.Name))
		claim(roleComplete, naming.CompleteHelper(method.Name))
		if !p.Convention.FailureIsNever {
			claim(roleErrors, naming.ReceivedErrors(method.Name))
			claim(roleError, naming.CompleteWithErrorHelper(method.Name))
		}
	}
}

// memberNames returns every name the companion declares or inherits from the source
func (c *companion) memberNames() []string {
	names := []string{observeName}
	for _, member := range c.decl.Members {
		switch member.Kind {
		case models.MemberFunction, models.MemberProperty:
			names = append(names, member.Name())
		}
	}
	for _, p := range c.plans {
		names = append(names, p.name)
	}
	return names
}

func hasVariadic(params []models.ParameterModel) bool {
	for _, p := range params {
		if strings.HasSuffix(strings.TrimSpace(p.Type), "...") {
			return true
		}
	}
	return false
}
