package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Sum gathers from g and returns the summed counter value (or histogram
// sample count) of the metric family called name, restricted to series whose
// labels include every pair in match. A missing family sums to zero.
func Sum(g prometheus.Gatherer, name string, match map[string]string) (float64, error) {
	families, err := g.Gather()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrGather, err)
	}

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if !labelsMatch(m.GetLabel(), match) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total, nil
}

func labelsMatch[L interface {
	GetName() string
	GetValue() string
}](labels []L, match map[string]string) bool {
	found := 0
	for _, l := range labels {
		if want, ok := match[l.GetName()]; ok {
			if want != l.GetValue() {
				return false
			}
			found++
		}
	}
	return found == len(match)
}
