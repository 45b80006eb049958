package sizing

import "fmt"

// Rationale is the human-readable record of how a sizing decision was
// reached. The algorithm returns it as a value; whoever called decides
// whether it goes to a log, a report, or nowhere.
type Rationale []string

func (r *Rationale) Addf(format string, args ...any) {
	*r = append(*r, fmt.Sprintf(format, args...))
}

func (r *Rationale) Extend(other Rationale) {
	*r = append(*r, other...)
}
