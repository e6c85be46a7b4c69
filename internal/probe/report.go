package probe

import (
	"sort"
	"time"
)

// Result is one check execution.
type Result struct {
	Check    string
	Outcome  Outcome
	Status   int
	Duration time.Duration
	Body     string
	Err      error
}

// Report collects the results of a run. Results are in completion order,
// which is not the order checks were queued in.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Results  []Result
}

// Summary counts outcomes for one check.
type Summary struct {
	Check    string
	Runs     int
	Outcomes map[Outcome]int
	MaxTime  time.Duration
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// Summaries returns one Summary per check, sorted by check name.
func (r *Report) Summaries() []Summary {
	byCheck := make(map[string]*Summary)
	for _, res := range r.Results {
		s, ok := byCheck[res.Check]
		if !ok {
			s = &Summary{Check: res.Check, Outcomes: make(map[Outcome]int)}
			byCheck[res.Check] = s
		}
		s.Runs++
		s.Outcomes[res.Outcome]++
		if res.Duration > s.MaxTime {
			s.MaxTime = res.Duration
		}
	}
	out := make([]Summary, 0, len(byCheck))
	for _, s := range byCheck {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Check < out[j].Check })
	return out
}

// Failures counts results that are not OutcomeOK.
func (r *Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome != OutcomeOK {
			n++
		}
	}
	return n
}

// Divergent lists checks whose successful runs returned different bodies.
// Read-only endpoints are expected to answer the same way when repeated.
func (r *Report) Divergent() []string {
	first := make(map[string]string)
	diverged := make(map[string]bool)
	for _, res := range r.Results {
		if res.Outcome != OutcomeOK {
			continue
		}
		if prev, ok := first[res.Check]; !ok {
			first[res.Check] = res.Body
		} else if prev != res.Body {
			diverged[res.Check] = true
		}
	}
	out := make([]string, 0, len(diverged))
	for name := range diverged {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
