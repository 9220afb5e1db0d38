package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelperNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{CompanionName("NetworkService"), "NetworkServiceSpy"},
		{CompleteHelper("fetchData"), "completeFetchData"},
		{CompleteWithSuccessHelper("fetchData"), "completeFetchDataWithSuccess"},
		{CompleteWithErrorHelper("fetchData"), "completeFetchDataWithError"},
		{SendHelper("updates"), "sendUpdates"},
		{ShadowName("refresh"), "spyRefresh"},
		{ReceivedValues("id"), "idReceivedValues"},
		{ReceivedArguments("move"), "moveReceivedArguments"},
		{ReceivedResults("completion"), "completionReceivedResults"},
		{ReceivedErrors("updates"), "updatesReceivedErrors"},
		{ChangeCount("name"), "nameChangeCount"},
		{Completions("load"), "loadCompletions"},
		{Continuations("load"), "loadContinuations"},
		{Channels("load"), "loadChannels"},
		{ReturnValue("count"), "countReturnValue"},
		{ThrowableError("save"), "saveThrowableError"},
		{Qualified("load", "idReceivedValues"), "loadIdReceivedValues"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestCapitalizeHandlesEscapedAndEmpty(t *testing.T) {
	assert.Equal(t, "Default", Capitalize("`default`"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "URLRequest", Capitalize("URLRequest"))
	assert.Equal(t, "uRL", Decapitalize("URL"))
}

func TestPlannerUniqueNamesPassThrough(t *testing.T) {
	p := NewPlanner("name")
	p.Claim("load/id", "idReceivedValues", "load", "load(id:)")
	p.Claim("save/values", "saveReceivedArguments", "save", "save(a:b:)")

	collisions := p.Resolve()
	assert.Empty(t, collisions)
	assert.Equal(t, "idReceivedValues", p.Name("load/id"))
	assert.Equal(t, "saveReceivedArguments", p.Name("save/values"))
}

func TestPlannerQualifiesEveryClaimant(t *testing.T) {
	p := NewPlanner()
	p.Claim("load/id", "idReceivedValues", "load", "load(id:)")
	p.Claim("delete/id", "idReceivedValues", "delete", "delete(id:)")

	collisions := p.Resolve()
	require.Len(t, collisions, 1)
	assert.Equal(t, "idReceivedValues", collisions[0].Name)
	assert.Equal(t, []string{"load(id:)", "delete(id:)"}, collisions[0].Claimants)
	assert.Equal(t, "loadIdReceivedValues", p.Name("load/id"))
	assert.Equal(t, "deleteIdReceivedValues", p.Name("delete/id"))
}

func TestPlannerAvoidsReservedNames(t *testing.T) {
	p := NewPlanner("loadCompletions")
	p.Claim("load/ledger", "loadCompletions", "load", "load(completion:)")

	collisions := p.Resolve()
	require.Len(t, collisions, 1)
	assert.Contains(t, collisions[0].Claimants, "an existing member")
	assert.Equal(t, "loadLoadCompletions", p.Name("load/ledger"))
}

func TestPlannerNumbersRemainingClashes(t *testing.T) {
	p := NewPlanner("loadIdReceivedValues")
	p.Claim("a", "idReceivedValues", "load", "load(id:)")
	p.Claim("b", "idReceivedValues", "save", "save(id:)")

	p.Resolve()
	assert.Equal(t, "loadIdReceivedValues2", p.Name("a"))
	assert.Equal(t, "saveIdReceivedValues", p.Name("b"))
}

func TestPlannerFixedMembersAreReserved(t *testing.T) {
	p := NewPlanner()
	p.Claim("x", "states", "log", "log(states:)")
	p.Resolve()
	assert.Equal(t, "logStates", p.Name("x"))
}

func TestPlannerUtilityNames(t *testing.T) {
	p := NewPlanner("reset", "resetSpy", "start")

	name, renamed := p.Utility(ResetName)
	assert.True(t, renamed)
	assert.Equal(t, "resetSpy2", name)

	name, renamed = p.Utility(DidCallName)
	assert.False(t, renamed)
	assert.Equal(t, "didCall", name)

	p.Claim("x", "resetSpy2", "start", "start()")
	p.Resolve()
	assert.Equal(t, "startResetSpy2", p.Name("x"))
}

func TestPlannerUnknownKey(t *testing.T) {
	p := NewPlanner()
	assert.Equal(t, "", p.Name("missing"))
}
