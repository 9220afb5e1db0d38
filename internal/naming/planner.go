package naming

import (
	"fmt"
	"sort"
)

// Collision describes a derived name requested by more than one source
type Collision struct {
	Name      string
	Claimants []string
}

type claim struct {
	key      string
	base     string
	owner    string
	claimant string
}

// Planner assigns derived member names for one container. Names that would
// be produced by more than one claim, or that clash with a reserved name,
// are replaced by their owner-qualified form for every claimant.
type Planner struct {
	reserved map[string]bool
	members  map[string]bool
	claims   []claim
	resolved map[string]string
}

// NewPlanner creates a planner that treats the given names as taken
func NewPlanner(reserved ...string) *Planner {
	p := &Planner{reserved: make(map[string]bool), members: make(map[string]bool)}
	for _, name := range []string{StatesName, StateTypeName, ResetName, DidCallName, CallCountName, LockName, RecordName, CancellablesName} {
		p.reserved[name] = true
	}
	p.Reserve(reserved...)
	return p
}

// Reserve marks names as taken by source members
func (p *Planner) Reserve(names ...string) {
	for _, name := range names {
		p.reserved[StripBackticks(name)] = true
		p.members[StripBackticks(name)] = true
	}
}

// Utility returns the emitted name of a fixed utility member. When a source
// member already uses the name, the utility takes the Spy suffix instead and
// renamed is true.
func (p *Planner) Utility(name string) (emitted string, renamed bool) {
	if !p.members[name] {
		return name, false
	}
	emitted = name + SpySuffix
	for n := 2; p.members[emitted] || p.reserved[emitted]; n++ {
		emitted = fmt.Sprintf("%s%s%d", name, SpySuffix, n)
	}
	p.reserved[emitted] = true
	return emitted, true
}

// Claim requests base for the member identified by key. owner is the
// qualifier used on collision and claimant is how the request is reported.
func (p *Planner) Claim(key, base, owner, claimant string) {
	p.claims = append(p.claims, claim{key: key, base: base, owner: owner, claimant: claimant})
	p.resolved = nil
}

// Resolve assigns final names and reports every collision found
func (p *Planner) Resolve() []Collision {
	byBase := make(map[string][]int)
	var order []string
	for i, c := range p.claims {
		if _, ok := byBase[c.base]; !ok {
			order = append(order, c.base)
		}
		byBase[c.base] = append(byBase[c.base], i)
	}

	p.resolved = make(map[string]string, len(p.claims))
	taken := make(map[string]bool)
	for name := range p.reserved {
		taken[name] = true
	}

	var collisions []Collision
	var qualify []int
	for _, base := range order {
		idx := byBase[base]
		if len(idx) == 1 && !p.reserved[base] {
			p.resolved[p.claims[idx[0]].key] = base
			taken[base] = true
			continue
		}
		collision := Collision{Name: base}
		for _, i := range idx {
			collision.Claimants = append(collision.Claimants, p.claims[i].claimant)
		}
		if p.reserved[base] {
			collision.Claimants = append(collision.Claimants, "an existing member")
		}
		collisions = append(collisions, collision)
		qualify = append(qualify, idx...)
	}

	sort.Ints(qualify)
	for _, i := range qualify {
		c := p.claims[i]
		name := Qualified(c.owner, c.base)
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s%d", Qualified(c.owner, c.base), n)
		}
		taken[name] = true
		p.resolved[c.key] = name
	}
	return collisions
}

// Name returns the resolved name for key, resolving first if needed
func (p *Planner) Name(key string) string {
	if p.resolved == nil {
		p.Resolve()
	}
	if name, ok := p.resolved[key]; ok {
		return name
	}
	return ""
}
