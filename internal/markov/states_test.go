package markov

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pesaflow/pesaflow/internal/model"
)

func TestTimePeriod(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, PeriodMorning},
		{11, PeriodMorning},
		{12, PeriodAfternoon},
		{16, PeriodAfternoon},
		{17, PeriodEvening},
		{20, PeriodEvening},
		{21, PeriodNight},
		{23, PeriodNight},
		{0, PeriodNight},
		{4, PeriodNight},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, timePeriod(tt.hour), "hour %d", tt.hour)
	}
}

func TestAmountBins(t *testing.T) {
	ledger := model.Ledger{
		txn(1, 10, "A", "-10"),
		txn(2, 10, "B", "1010"),
	}
	bins := newAmountBins(ledger)

	assert.Equal(t, BucketVeryLow, bins.bucket(10))
	assert.Equal(t, BucketVeryLow, bins.bucket(209))
	assert.Equal(t, BucketLow, bins.bucket(210))
	assert.Equal(t, BucketVeryHigh, bins.bucket(1010))
	// Out-of-range values clamp to the edge buckets.
	assert.Equal(t, BucketVeryLow, bins.bucket(1))
	assert.Equal(t, BucketVeryHigh, bins.bucket(50000))
}

func TestAmountBinsDegenerate(t *testing.T) {
	bins := newAmountBins(sameAmountLedger("A", "B", "C"))
	assert.Equal(t, BucketMedium, bins.bucket(100))
	assert.Equal(t, BucketMedium, bins.bucket(0))
}

func TestBehavioralState(t *testing.T) {
	bins := amountBins{}

	state := behavioralState(txn(1, 9, "Food", "-100"), bins)
	assert.Equal(t, "Food_Medium_Morning", state)

	// Missing categories group under a single placeholder.
	uncategorized := txn(1, 22, "", "-100")
	assert.Equal(t, "Uncategorized_Medium_Night", behavioralState(uncategorized, bins))
}

func TestDecodeState(t *testing.T) {
	tests := []struct {
		name     string
		state    string
		category string
		bucket   string
		period   string
	}{
		{"plain state", "Food_Medium_Morning", "Food", "Medium", "Morning"},
		{"sequence decodes its last state", "A_Low_Night|Food_Very High_Morning", "Food", "Very High", "Morning"},
		{"partial state", "Food", "Food", "Unknown", "Unknown"},
		{"empty", "", "Unknown", "Unknown", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, bucket, period := decodeState(tt.state)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.period, period)
		})
	}
}

func TestStateSequencesShortLedger(t *testing.T) {
	ledger := sameAmountLedger("A")
	seqs := stateSequences(ledger, 3, newAmountBins(ledger))
	assert.Equal(t, []string{"A_Medium_Morning"}, seqs)
}
