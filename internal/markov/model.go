package markov

import (
	"fmt"
	"math"
	"sort"

	"github.com/pesaflow/pesaflow/internal/common"
	"github.com/pesaflow/pesaflow/internal/model"
)

// DefaultOrder is the order used when none is specified.
const DefaultOrder = 2

// Confidence labels for predictions.
const (
	ConfidenceHigh    = "High"
	ConfidenceMedium  = "Medium"
	ConfidenceLow     = "Low"
	ConfidenceVeryLow = "Very Low"
)

// UnknownState is the sentinel returned when predicting from a state sequence
// never observed during training. Callers must check IsUnknown rather than
// treat the sentinel as a real prediction.
const UnknownState = "Unknown"

// Model is an order-k Markov chain over behavioral states. A Model is trained
// exactly once from one ledger; construct a new instance to retrain. After
// training it is immutable and safe for concurrent readers.
type Model struct {
	transitions         map[string]map[string]float64
	stateFreq           map[string]int
	categoryTransitions map[string]map[string]float64
	amountsByState      map[string][]float64
	intervalsByState    map[string][]float64
	categoryStats       map[string]distribution
	bins                amountBins
	order               int
	trained             bool
}

type distribution struct {
	mean  float64
	std   float64
	count int
}

// New creates an untrained model of the given order. Orders below 1 fall back
// to DefaultOrder.
func New(order int) *Model {
	if order < 1 {
		order = DefaultOrder
	}
	return &Model{
		transitions:         make(map[string]map[string]float64),
		stateFreq:           make(map[string]int),
		categoryTransitions: make(map[string]map[string]float64),
		amountsByState:      make(map[string][]float64),
		intervalsByState:    make(map[string][]float64),
		categoryStats:       make(map[string]distribution),
		order:               order,
	}
}

// Train builds all transition statistics from the ledger in chronological
// order. Counts are normalized to probabilities only at the end, so each
// origin's outgoing distribution sums to 1 regardless of observation order.
// Training twice on one instance returns ErrModelAlreadyTrained.
func (m *Model) Train(ledger model.Ledger) error {
	if m.trained {
		return common.ErrModelAlreadyTrained
	}
	if len(ledger) == 0 {
		return common.ErrEmptyLedger
	}

	m.bins = newAmountBins(ledger)
	seqs := stateSequences(ledger, m.order, m.bins)

	for i := 0; i < len(seqs)-1; i++ {
		addCount(m.transitions, seqs[i], seqs[i+1])
		m.stateFreq[seqs[i]]++

		category := categoryOf(ledger[i])
		addCount(m.categoryTransitions, category, categoryOf(ledger[i+1]))

		state := behavioralState(ledger[i], m.bins)
		m.amountsByState[state] = append(m.amountsByState[state], absAmount(ledger[i+1]))
		gap := ledger[i+1].Timestamp.Sub(ledger[i].Timestamp).Hours()
		m.intervalsByState[state] = append(m.intervalsByState[state], gap)
	}

	normalize(m.transitions)
	normalize(m.categoryTransitions)
	m.buildCategoryStats(ledger)

	m.trained = true
	return nil
}

func (m *Model) buildCategoryStats(ledger model.Ledger) {
	amounts := make(map[string][]float64)
	for _, t := range ledger {
		v, _ := t.Amount.Float64()
		amounts[categoryOf(t)] = append(amounts[categoryOf(t)], v)
	}
	for category, vals := range amounts {
		m.categoryStats[category] = distribution{
			mean:  mean(vals),
			std:   stdDev(vals),
			count: len(vals),
		}
	}
}

// Prediction is one candidate next state with its learned probability.
type Prediction struct {
	State        string
	Category     string
	AmountBucket string
	TimePeriod   string
	Confidence   string
	Probability  float64
}

// IsUnknown reports whether the prediction is the unseen-state sentinel.
func (p Prediction) IsUnknown() bool {
	return p.State == UnknownState
}

// Predict returns up to n candidate next state sequences ordered by
// descending probability. An unseen origin yields exactly one Unknown
// sentinel with probability 0.
func (m *Model) Predict(stateSequence string, n int) ([]Prediction, error) {
	if !m.trained {
		return nil, common.ErrModelNotTrained
	}
	if n <= 0 {
		n = 5
	}

	successors, ok := m.transitions[stateSequence]
	if !ok {
		return []Prediction{{State: UnknownState, Category: UnknownState, AmountBucket: UnknownState, TimePeriod: UnknownState, Confidence: ConfidenceVeryLow}}, nil
	}

	type candidate struct {
		state string
		prob  float64
	}
	candidates := make([]candidate, 0, len(successors))
	for state, prob := range successors {
		candidates = append(candidates, candidate{state, prob})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].prob != candidates[j].prob {
			return candidates[i].prob > candidates[j].prob
		}
		return candidates[i].state < candidates[j].state
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	predictions := make([]Prediction, 0, len(candidates))
	for _, c := range candidates {
		category, bucket, period := decodeState(c.state)
		predictions = append(predictions, Prediction{
			State:        c.state,
			Category:     category,
			AmountBucket: bucket,
			TimePeriod:   period,
			Confidence:   confidenceLabel(c.prob),
			Probability:  c.prob,
		})
	}
	return predictions, nil
}

// SequenceForecast is a greedy walk over category transitions.
type SequenceForecast struct {
	Sequence           []string
	StepProbabilities  []float64
	OverallProbability float64
}

// PredictCategorySequence greedily walks the category transition model from
// the start category, always choosing the single most likely successor, and
// stops early when a category has no observed successors. The overall
// probability is the product of the chosen step probabilities; for long
// sequences it underflows toward zero, which is expected.
func (m *Model) PredictCategorySequence(startCategory string, length int) (SequenceForecast, error) {
	if !m.trained {
		return SequenceForecast{}, common.ErrModelNotTrained
	}

	forecast := SequenceForecast{Sequence: []string{startCategory}}
	current := startCategory

	for step := 1; step < length; step++ {
		successors := m.categoryTransitions[current]
		if len(successors) == 0 {
			break
		}
		next, prob := "", -1.0
		for category, p := range successors {
			if p > prob || (p == prob && category < next) {
				next, prob = category, p
			}
		}
		forecast.Sequence = append(forecast.Sequence, next)
		forecast.StepProbabilities = append(forecast.StepProbabilities, prob)
		current = next
	}

	if len(forecast.StepProbabilities) > 0 {
		product := 1.0
		for _, p := range forecast.StepProbabilities {
			product *= p
		}
		forecast.OverallProbability = product
	}
	return forecast, nil
}

// MonthlyForecast is a descriptive-statistics point forecast for a category:
// historical mean with a mean ± one standard deviation interval. It assumes
// the training window is representative of next month.
type MonthlyForecast struct {
	Predicted float64
	Low       float64
	High      float64
	Count     int
}

// ForecastMonthly forecasts one category, or all trained categories when
// category is empty.
func (m *Model) ForecastMonthly(category string) (map[string]MonthlyForecast, error) {
	if !m.trained {
		return nil, common.ErrModelNotTrained
	}

	forecasts := make(map[string]MonthlyForecast)
	for cat, dist := range m.categoryStats {
		if category != "" && cat != category {
			continue
		}
		forecasts[cat] = MonthlyForecast{
			Predicted: dist.mean,
			Low:       dist.mean - dist.std,
			High:      dist.mean + dist.std,
			Count:     dist.count,
		}
	}
	return forecasts, nil
}

// Anomaly is a transaction whose transition was improbable under the model.
type Anomaly struct {
	Transaction model.Transaction
	Reason      string
	Score       float64
}

// DetectAnomalies replays the ledger through the trained transition model.
// Each consecutive transition scores 1 − its learned probability (probability
// 0 for unseen origins) and is flagged when the probability falls below the
// threshold. Scoring the training ledger itself is intentional: the model
// describes "normal", it is not a held-out test.
func (m *Model) DetectAnomalies(ledger model.Ledger, threshold float64) ([]Anomaly, error) {
	if !m.trained {
		return nil, common.ErrModelNotTrained
	}

	seqs := stateSequences(ledger, m.order, m.bins)
	var anomalies []Anomaly
	for i := 1; i < len(seqs); i++ {
		prob := 0.0
		if successors, ok := m.transitions[seqs[i-1]]; ok {
			prob = successors[seqs[i]]
		}
		if prob < threshold {
			anomalies = append(anomalies, Anomaly{
				Transaction: ledger[i],
				Score:       1 - prob,
				Reason:      fmt.Sprintf("unusual transition from %s to %s", seqs[i-1], seqs[i]),
			})
		}
	}
	return anomalies, nil
}

// SequencesFor derives state sequences for a ledger using the trained bins,
// e.g. to query Predict from the ledger's most recent state.
func (m *Model) SequencesFor(ledger model.Ledger) ([]string, error) {
	if !m.trained {
		return nil, common.ErrModelNotTrained
	}
	return stateSequences(ledger, m.order, m.bins), nil
}

// Transition is one observed state-to-state move.
type Transition struct {
	From        string
	To          string
	Probability float64
	Frequency   float64
}

// TopTransitions returns the n most frequent transitions, weighting each
// probability by its origin's observation count.
func (m *Model) TopTransitions(n int) []Transition {
	var all []Transition
	for from, successors := range m.transitions {
		for to, prob := range successors {
			all = append(all, Transition{
				From:        from,
				To:          to,
				Probability: prob,
				Frequency:   float64(m.stateFreq[from]) * prob,
			})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Frequency != all[j].Frequency {
			return all[i].Frequency > all[j].Frequency
		}
		if all[i].From != all[j].From {
			return all[i].From < all[j].From
		}
		return all[i].To < all[j].To
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// IntervalStats describes the observed gaps (hours) to the next transaction
// from one behavioral state.
type IntervalStats struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// TemporalPatterns summarizes inter-transaction gaps per behavioral state.
func (m *Model) TemporalPatterns() (map[string]IntervalStats, error) {
	if !m.trained {
		return nil, common.ErrModelNotTrained
	}
	patterns := make(map[string]IntervalStats, len(m.intervalsByState))
	for state, gaps := range m.intervalsByState {
		if len(gaps) == 0 {
			continue
		}
		lo, hi := gaps[0], gaps[0]
		for _, g := range gaps[1:] {
			if g < lo {
				lo = g
			}
			if g > hi {
				hi = g
			}
		}
		patterns[state] = IntervalStats{Mean: mean(gaps), Std: stdDev(gaps), Min: lo, Max: hi}
	}
	return patterns, nil
}

// Stats summarizes a model.
type Stats struct {
	Status      string
	Order       int
	States      int
	Transitions int
	Categories  int
}

// Stats reports model size and training status.
func (m *Model) Stats() Stats {
	if !m.trained {
		return Stats{Status: "Not trained", Order: m.order}
	}
	transitions := 0
	for _, successors := range m.transitions {
		transitions += len(successors)
	}
	return Stats{
		Status:      "Trained",
		Order:       m.order,
		States:      len(m.stateFreq),
		Transitions: transitions,
		Categories:  len(m.categoryTransitions),
	}
}

// Trained reports whether Train has completed.
func (m *Model) Trained() bool {
	return m.trained
}

func categoryOf(t model.Transaction) string {
	if t.Category == "" {
		return "Uncategorized"
	}
	return t.Category
}

func addCount(counts map[string]map[string]float64, from, to string) {
	if counts[from] == nil {
		counts[from] = make(map[string]float64)
	}
	counts[from][to]++
}

// normalize converts per-origin counts to probability distributions. Origins
// with no observed transitions are never present, so every row sums to 1.
func normalize(counts map[string]map[string]float64) {
	for _, successors := range counts {
		total := 0.0
		for _, c := range successors {
			total += c
		}
		for to := range successors {
			successors[to] /= total
		}
	}
}

func confidenceLabel(prob float64) string {
	switch {
	case prob > 0.7:
		return ConfidenceHigh
	case prob > 0.4:
		return ConfidenceMedium
	case prob > 0.2:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the sample standard deviation; zero for fewer than two samples.
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mu := mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += (x - mu) * (x - mu)
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
