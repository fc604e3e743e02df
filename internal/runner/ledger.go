package runner

import "slices"

// Ledger aggregates outcomes in call order.
type Ledger struct {
	Successes []Outcome
	Failures  []Outcome
}

// Total is the number of recorded outcomes.
func (l Ledger) Total() int {
	return len(l.Successes) + len(l.Failures)
}

// SuccessRate returns the passed percentage, 0 for an empty ledger.
func (l Ledger) SuccessRate() float64 {
	total := l.Total()
	if total == 0 {
		return 0
	}
	return float64(len(l.Successes)) / float64(total) * 100
}

func (l *Ledger) record(o Outcome) {
	if o.Passed {
		l.Successes = append(l.Successes, o)
		return
	}
	l.Failures = append(l.Failures, o)
}

func (l Ledger) clone() Ledger {
	return Ledger{
		Successes: slices.Clone(l.Successes),
		Failures:  slices.Clone(l.Failures),
	}
}
