// Package markov builds order-k behavioral state machines over a ledger and
// exposes prediction, forecasting and anomaly scoring.
package markov

import (
	"strings"

	"github.com/pesaflow/pesaflow/internal/model"
)

// Amount bucket labels, from smallest to largest absolute amount.
const (
	BucketVeryLow  = "Very Low"
	BucketLow      = "Low"
	BucketMedium   = "Medium"
	BucketHigh     = "High"
	BucketVeryHigh = "Very High"
)

var bucketLabels = []string{BucketVeryLow, BucketLow, BucketMedium, BucketHigh, BucketVeryHigh}

// Time-of-day bucket labels.
const (
	PeriodMorning   = "Morning"   // 05:00–11:59
	PeriodAfternoon = "Afternoon" // 12:00–16:59
	PeriodEvening   = "Evening"   // 17:00–20:59
	PeriodNight     = "Night"     // 21:00–04:59
)

// stateSep joins the parts of one behavioral state; seqSep joins the states
// of an order-k sequence.
const (
	stateSep = "_"
	seqSep   = "|"
)

// timePeriod converts an hour of day to its bucket.
func timePeriod(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return PeriodMorning
	case hour >= 12 && hour < 17:
		return PeriodAfternoon
	case hour >= 17 && hour < 21:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

// amountBins holds equal-width bin boundaries over the training ledger's
// absolute amounts.
type amountBins struct {
	min   float64
	width float64
}

func newAmountBins(ledger model.Ledger) amountBins {
	if len(ledger) == 0 {
		return amountBins{}
	}
	lo, hi := absAmount(ledger[0]), absAmount(ledger[0])
	for _, t := range ledger[1:] {
		v := absAmount(t)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return amountBins{min: lo, width: (hi - lo) / float64(len(bucketLabels))}
}

// bucket maps an absolute amount to its label. A degenerate distribution
// (all amounts equal) maps everything to Medium.
func (b amountBins) bucket(abs float64) string {
	if b.width <= 0 {
		return BucketMedium
	}
	idx := int((abs - b.min) / b.width)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(bucketLabels) {
		idx = len(bucketLabels) - 1
	}
	return bucketLabels[idx]
}

func absAmount(t model.Transaction) float64 {
	v, _ := t.Amount.Abs().Float64()
	return v
}

// behavioralState derives the composite state key for one transaction.
func behavioralState(t model.Transaction, bins amountBins) string {
	category := t.Category
	if category == "" {
		category = "Uncategorized"
	}
	return category + stateSep + bins.bucket(absAmount(t)) + stateSep + timePeriod(t.Timestamp.Hour())
}

// stateSequences derives the order-k sequence key per transaction: the
// |-joined concatenation of the last k behavioral states ending there (fewer
// than k at the start of the ledger).
func stateSequences(ledger model.Ledger, order int, bins amountBins) []string {
	states := make([]string, len(ledger))
	for i, t := range ledger {
		states[i] = behavioralState(t, bins)
	}

	seqs := make([]string, len(states))
	for i := range states {
		start := i - order + 1
		if start < 0 {
			start = 0
		}
		seqs[i] = strings.Join(states[start:i+1], seqSep)
	}
	return seqs
}

// decodeState splits a behavioral state back into its parts. Sequences decode
// their most recent state.
func decodeState(state string) (category, amountBucket, period string) {
	if i := strings.LastIndex(state, seqSep); i >= 0 {
		state = state[i+1:]
	}
	parts := strings.SplitN(state, stateSep, 3)
	category, amountBucket, period = "Unknown", "Unknown", "Unknown"
	if len(parts) > 0 && parts[0] != "" {
		category = parts[0]
	}
	if len(parts) > 1 {
		amountBucket = parts[1]
	}
	if len(parts) > 2 {
		period = parts[2]
	}
	return category, amountBucket, period
}
