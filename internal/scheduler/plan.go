package scheduler

import (
	"github.com/chaty-app/chaty-e2e/internal/suite"
)

// Unit is the smallest schedulable piece of work: one independent scenario,
// or every scenario of a serial group in declared order. A unit owns one
// session for its whole lifetime.
type Unit struct {
	Suite     *suite.Suite
	Group     string
	Scenarios []suite.Scenario

	// positions of Scenarios in the run-wide declared order
	indices []int
}

// Serial reports whether the unit is a serial group.
func (u Unit) Serial() bool {
	return u.Group != ""
}

// Plan splits suites into units. Units are ordered by the declared position
// of their first scenario; groups are scoped to their suite.
func Plan(suites []*suite.Suite) []Unit {
	var (
		units []Unit
		next  int
	)

	for _, s := range suites {
		groups := map[string]int{}

		for _, sc := range s.Scenarios {
			if sc.Group == "" {
				units = append(units, Unit{Suite: s, Scenarios: []suite.Scenario{sc}, indices: []int{next}})
				next++

				continue
			}

			pos, ok := groups[sc.Group]
			if !ok {
				pos = len(units)
				groups[sc.Group] = pos
				units = append(units, Unit{Suite: s, Group: sc.Group})
			}

			units[pos].Scenarios = append(units[pos].Scenarios, sc)
			units[pos].indices = append(units[pos].indices, next)
			next++
		}
	}

	return units
}

// CountScenarios returns the number of scenarios across suites.
func CountScenarios(suites []*suite.Suite) int {
	n := 0
	for _, s := range suites {
		n += len(s.Scenarios)
	}

	return n
}
