package report

import (
	"github.com/chaty-app/chaty-e2e/internal/util"
)

// Outcomes projects a report onto scenario id -> status, dropping timings and
// messages that legitimately change between runs.
func Outcomes(r *Report) map[string]Status {
	out := make(map[string]Status, len(r.Scenarios))
	for _, s := range r.Scenarios {
		out[s.ID()] = s.Status
	}

	return out
}

// Compare reports whether two runs produced identical outcomes. diff is a
// human-readable description of the differences.
func Compare(a, b *Report) (bool, string, error) {
	return util.DiffJSON(Outcomes(a), Outcomes(b))
}
