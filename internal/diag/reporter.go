package diag

import (
	"fmt"
	"go/token"
	"sort"
	"sync"

	"github.com/sirkon/spanwrap/internal/spanrules"
)

// Reporter collects diagnostics discovered while rewriting.
type Reporter struct {
	mu      sync.Mutex
	reports []Report
}

// Report represents a single diagnostic entry.
type Report struct {
	Phase    Phase
	RuleCode spanrules.Rule
	Pos      token.Position
	Message  string
}

// String renders the report the way the go command renders compile errors.
func (r Report) String() string {
	return fmt.Sprintf("%s: %s: %s", r.Pos, r.RuleCode.Code(), r.Message)
}

// Phase marks the rewriting stage where a report was generated.
type Phase int

const (
	phaseInvalid Phase = iota
	PhaseParse         // directive and signature parsing
	PhaseShape         // entry point / asynchrony classification
	PhaseEmit          // body generation and reassembly
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseShape:
		return "shape"
	case PhaseEmit:
		return "emit"
	default:
		return fmt.Sprintf("unknown-phase(%d)", p)
	}
}

// ReporterPhase binds a Reporter to a fixed phase.
type ReporterPhase struct {
	parent *Reporter
	phase  Phase
}

// Phase returns a phase-bound reporter that sets the given phase for all reports
// produced through it.
func (r *Reporter) Phase(p Phase) *ReporterPhase {
	return &ReporterPhase{parent: r, phase: p}
}

// Report adds a new record to the reporter.
func (r *Reporter) Report(rep Report) {
	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

// Report records a new rule violation under the bound phase.
// An empty message is replaced with the rule description.
func (rp *ReporterPhase) Report(rule spanrules.Rule, message string, pos token.Position) {
	if message == "" {
		message = rule.Description()
	}
	rp.parent.Report(Report{
		Phase:    rp.phase,
		RuleCode: rule,
		Message:  message,
		Pos:      pos,
	})
}

// Len returns the number of collected reports.
func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

// Reports returns a snapshot of all collected records.
func (r *Reporter) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Err returns nil when nothing was reported and an *Error holding all reports,
// ordered by position, otherwise.
func (r *Reporter) Err() error {
	reps := r.Reports()
	if len(reps) == 0 {
		return nil
	}

	sort.SliceStable(reps, func(i, j int) bool {
		a, b := reps[i].Pos, reps[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	return &Error{Reports: reps}
}
