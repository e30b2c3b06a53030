// Package insights derives habit metrics, risk scores and recommendations
// from a ledger and its trained behavioral model.
package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pesaflow/pesaflow/internal/common"
	"github.com/pesaflow/pesaflow/internal/markov"
	"github.com/pesaflow/pesaflow/internal/model"
)

// Risk type tags.
const (
	RiskImpulsiveSpending     = "Impulsive Spending"
	RiskSpendingVolatility    = "Spending Volatility"
	RiskCategoryConcentration = "Category Concentration"
)

// Risk and recommendation levels.
const (
	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

// impulseWindowHours bounds how close two below-median transactions must be
// to count as an impulsive cluster.
const impulseWindowHours = 2.0

// Habits are descriptive spending-habit metrics.
type Habits struct {
	// CategoryLoyalty is the fraction of consecutive transaction pairs
	// sharing a category.
	CategoryLoyalty float64
	// SpendingVelocity is transactions per day over the ledger's span.
	SpendingVelocity float64
	// WeeklyCV is the coefficient of variation of weekly spending totals.
	WeeklyCV float64
}

// Risk is one scored behavioral risk in [0,1].
type Risk struct {
	Type  string
	Level string
	Score float64
}

// Recommendation is one actionable suggestion produced by a threshold rule.
// Rules are independent; several may fire for one ledger.
type Recommendation struct {
	Type        string
	Priority    string
	Title       string
	Description string
	Action      string
	Impact      string
}

// AnomalyReport aggregates the model's anomaly scan.
type AnomalyReport struct {
	ByCategory map[string]int
	Anomalies  []markov.Anomaly
	HighRisk   []markov.Anomaly // score above 0.8
	Total      int
	Rate       float64 // percent of ledger transactions
}

// Analysis is the full engine output. Every field is a concrete struct;
// consumers never inspect shapes.
type Analysis struct {
	MonthlyForecast map[string]markov.MonthlyForecast
	OverallRisk     string
	Risks           []Risk
	Recommendations []Recommendation
	TopTransitions  []markov.Transition
	Anomalies       AnomalyReport
	Habits          Habits
	BehaviorScore   float64
	Predictability  float64
}

// Engine computes analyses. It holds configuration only; it is stateless
// given (ledger, trained model).
type Engine struct {
	// AnomalyThreshold is the transition probability below which a move is
	// flagged when computing the anomaly report.
	AnomalyThreshold float64
}

// NewEngine creates an engine with the default anomaly threshold.
func NewEngine() *Engine {
	return &Engine{AnomalyThreshold: 0.1}
}

// Analyze produces the full behavioral analysis. The model must be trained.
func (e *Engine) Analyze(ledger model.Ledger, m *markov.Model) (*Analysis, error) {
	if len(ledger) == 0 {
		return nil, common.ErrEmptyLedger
	}

	anomalies, err := m.DetectAnomalies(ledger, e.AnomalyThreshold)
	if err != nil {
		return nil, err
	}
	forecast, err := m.ForecastMonthly("")
	if err != nil {
		return nil, err
	}

	habits := computeHabits(ledger)
	risks := assessRisks(ledger)
	report := buildAnomalyReport(ledger, anomalies)
	top := m.TopTransitions(10)

	analysis := &Analysis{
		Habits:          habits,
		Risks:           risks,
		Anomalies:       report,
		MonthlyForecast: forecast,
		TopTransitions:  top,
		Recommendations: recommend(ledger, habits, risks),
		BehaviorScore:   behaviorScore(risks, report.Rate),
		Predictability:  predictability(top),
		OverallRisk:     overallRisk(risks),
	}
	return analysis, nil
}

func computeHabits(ledger model.Ledger) Habits {
	habits := Habits{}

	if len(ledger) > 1 {
		same := 0
		for i := 1; i < len(ledger); i++ {
			if ledger[i].Category == ledger[i-1].Category {
				same++
			}
		}
		habits.CategoryLoyalty = float64(same) / float64(len(ledger)-1)
	}

	if span := ledger.SpanDays(); span > 0 {
		habits.SpendingVelocity = float64(len(ledger)) / span
	}

	weekly := make(map[string]float64)
	for _, t := range ledger {
		year, week := t.Timestamp.ISOWeek()
		weekly[fmt.Sprintf("%d-%02d", year, week)] += signedAmount(t)
	}
	sums := values(weekly)
	if mu := mean(sums); mu != 0 {
		habits.WeeklyCV = stdDev(sums) / mu
	}

	return habits
}

// assessRisks scores the three designated behavioral risks.
func assessRisks(ledger model.Ledger) []Risk {
	return []Risk{
		impulsiveRisk(ledger),
		volatilityRisk(ledger),
		concentrationRisk(ledger),
	}
}

// impulsiveRisk looks for clusters of below-median transactions landing
// within a short window of each other.
func impulsiveRisk(ledger model.Ledger) Risk {
	median := medianAbs(ledger)

	var smallTimes []float64 // hours since first transaction
	origin := ledger[0].Timestamp
	for _, t := range ledger {
		if abs(t) < median {
			smallTimes = append(smallTimes, t.Timestamp.Sub(origin).Hours())
		}
	}

	clusters := 0
	for i := 1; i < len(smallTimes); i++ {
		if smallTimes[i]-smallTimes[i-1] < impulseWindowHours {
			clusters++
		}
	}

	rate := float64(clusters) / float64(len(ledger))
	level := LevelLow
	switch {
	case rate > 0.10:
		level = LevelHigh
	case rate > 0.05:
		level = LevelMedium
	}
	return Risk{
		Type:  RiskImpulsiveSpending,
		Score: math.Min(rate*10, 1.0),
		Level: level,
	}
}

// volatilityRisk measures month-to-month variation in total spending.
func volatilityRisk(ledger model.Ledger) Risk {
	monthly := make(map[string]float64)
	for _, t := range ledger {
		monthly[t.Timestamp.Format("2006-01")] += signedAmount(t)
	}
	sums := values(monthly)
	for i := range sums {
		sums[i] = math.Abs(sums[i])
	}

	cv := 0.0
	if mu := mean(sums); mu != 0 {
		cv = stdDev(sums) / mu
	}

	level := LevelLow
	switch {
	case cv > 0.30:
		level = LevelHigh
	case cv > 0.15:
		level = LevelMedium
	}
	return Risk{
		Type:  RiskSpendingVolatility,
		Score: math.Min(cv, 1.0),
		Level: level,
	}
}

// concentrationRisk is the share of transactions in the single most common
// category.
func concentrationRisk(ledger model.Ledger) Risk {
	counts := make(map[string]int)
	for _, t := range ledger {
		counts[t.Category]++
	}
	top := 0
	for _, c := range counts {
		if c > top {
			top = c
		}
	}
	share := float64(top) / float64(len(ledger))

	level := LevelLow
	switch {
	case share > 0.6:
		level = LevelHigh
	case share > 0.4:
		level = LevelMedium
	}
	return Risk{
		Type:  RiskCategoryConcentration,
		Score: share,
		Level: level,
	}
}

func buildAnomalyReport(ledger model.Ledger, anomalies []markov.Anomaly) AnomalyReport {
	report := AnomalyReport{
		Anomalies:  anomalies,
		Total:      len(anomalies),
		ByCategory: make(map[string]int),
	}
	if len(ledger) > 0 {
		report.Rate = float64(len(anomalies)) / float64(len(ledger)) * 100
	}
	for _, a := range anomalies {
		report.ByCategory[a.Transaction.Category]++
		if a.Score > 0.8 {
			report.HighRisk = append(report.HighRisk, a)
		}
	}
	return report
}

func recommend(ledger model.Ledger, habits Habits, risks []Risk) []Recommendation {
	var recs []Recommendation

	if habits.CategoryLoyalty < 0.3 {
		recs = append(recs, Recommendation{
			Type:        "Spending Consistency",
			Priority:    LevelMedium,
			Title:       "Improve Spending Consistency",
			Description: "Your spending patterns are quite varied. Consider establishing more consistent spending routines.",
			Action:      "Set specific days for different types of purchases (e.g., groceries on weekends)",
			Impact:      "Better budget control and reduced impulsive spending",
		})
	}

	if habits.SpendingVelocity > 5 {
		recs = append(recs, Recommendation{
			Type:        "Transaction Frequency",
			Priority:    LevelHigh,
			Title:       "Reduce Transaction Frequency",
			Description: fmt.Sprintf("You average %.1f transactions per day, which may indicate impulsive spending.", habits.SpendingVelocity),
			Action:      "Consolidate purchases and plan shopping trips",
			Impact:      "Reduced fees and better spending awareness",
		})
	}

	weekend, weekday := weekendSplit(ledger)
	if weekend > weekday*1.5 {
		recs = append(recs, Recommendation{
			Type:        "Weekend Spending",
			Priority:    LevelMedium,
			Title:       "Monitor Weekend Spending",
			Description: "Your weekend spending is significantly higher than weekdays.",
			Action:      "Set weekend spending limits and plan leisure activities",
			Impact:      "Better monthly budget control",
		})
	}

	for _, risk := range risks {
		switch risk.Type {
		case RiskImpulsiveSpending:
			if risk.Score > 0.3 {
				recs = append(recs, Recommendation{
					Type:        "Impulse Control",
					Priority:    LevelHigh,
					Title:       "Control Impulsive Spending",
					Description: "Pattern analysis shows potential impulsive spending behavior.",
					Action:      "Implement a 24-hour waiting period for non-essential purchases",
					Impact:      "Significant reduction in unnecessary expenses",
				})
			}
		case RiskSpendingVolatility:
			if risk.Score > 0.4 {
				recs = append(recs, Recommendation{
					Type:        "Budget Stability",
					Priority:    LevelHigh,
					Title:       "Stabilize Monthly Spending",
					Description: "Your monthly spending varies significantly, making budgeting difficult.",
					Action:      "Create and stick to monthly spending limits by category",
					Impact:      "More predictable finances and better savings",
				})
			}
		}
	}

	return recs
}

// weekendSplit sums outflow magnitudes on weekends vs weekdays.
func weekendSplit(ledger model.Ledger) (weekend, weekday float64) {
	for _, t := range ledger {
		if !t.Amount.IsNegative() {
			continue
		}
		day := t.Timestamp.Weekday()
		if day == time.Saturday || day == time.Sunday {
			weekend += abs(t)
		} else {
			weekday += abs(t)
		}
	}
	return weekend, weekday
}

// behaviorScore starts at 100 and deducts a capped penalty per risk (max 20
// points each) plus a capped penalty for the anomaly rate (max 30 points),
// floored at zero.
func behaviorScore(risks []Risk, anomalyRate float64) float64 {
	score := 100.0
	for _, r := range risks {
		score -= math.Min(r.Score*20, 20)
	}
	score -= math.Min(anomalyRate*2, 30)
	return math.Max(score, 0)
}

// predictability is the mean probability of the five most common transitions,
// scaled to 0–100.
func predictability(top []markov.Transition) float64 {
	if len(top) == 0 {
		return 0
	}
	if len(top) > 5 {
		top = top[:5]
	}
	sum := 0.0
	for _, t := range top {
		sum += t.Probability
	}
	return sum / float64(len(top)) * 100
}

func overallRisk(risks []Risk) string {
	if len(risks) == 0 {
		return LevelLow
	}
	sum := 0.0
	for _, r := range risks {
		sum += r.Score
	}
	avg := sum / float64(len(risks))
	switch {
	case avg > 0.7:
		return LevelHigh
	case avg > 0.4:
		return LevelMedium
	default:
		return LevelLow
	}
}

func signedAmount(t model.Transaction) float64 {
	v, _ := t.Amount.Float64()
	return v
}

func abs(t model.Transaction) float64 {
	v, _ := t.Amount.Abs().Float64()
	return v
}

func medianAbs(ledger model.Ledger) float64 {
	vals := make([]float64, len(ledger))
	for i, t := range ledger {
		vals[i] = abs(t)
	}
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

func values(m map[string]float64) []float64 {
	out := make([]float64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
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
