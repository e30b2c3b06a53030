package classification

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pesaflow/pesaflow/internal/model"
)

// CategoryOther is the fallback for descriptions no rule recognizes.
const CategoryOther = "Other"

// CategoryTransfers tags person-to-person phone-number transfers.
const CategoryTransfers = "Transfers"

var (
	agentCodePattern   = regexp.MustCompile(`\b[A-Z0-9]{6,}\b`)
	paybillCodePattern = regexp.MustCompile(`pay bill.*\d+`)
	tillCodePattern    = regexp.MustCompile(`till.*\d+`)
	phonePattern       = regexp.MustCompile(`\b(254|0)\d{9}\b`)
)

// Categorizer assigns spending categories to transactions by keyword matching.
// Exact custom mappings take precedence over the rule table. Each instance
// owns its mapping container; instances never share state.
type Categorizer struct {
	customMappings map[string]string
}

// NewCategorizer creates a categorizer with the default rule table and the
// given custom description→category mappings (may be nil).
func NewCategorizer(customMappings map[string]string) *Categorizer {
	c := &Categorizer{customMappings: make(map[string]string)}
	for k, v := range customMappings {
		c.customMappings[k] = v
	}
	return c
}

// AddMapping registers an exact description→category override.
func (c *Categorizer) AddMapping(description, category string) {
	c.customMappings[description] = category
}

// Categorize assigns a category to every transaction in the ledger, in place.
func (c *Categorizer) Categorize(ledger model.Ledger) {
	for i := range ledger {
		ledger[i].Category = c.categorizeOne(ledger[i].Description)
	}
}

func (c *Categorizer) categorizeOne(description string) string {
	if cat, ok := c.customMappings[description]; ok {
		return cat
	}

	lower := strings.ToLower(description)

	for _, category := range categoryOrder {
		for _, keyword := range defaultCategoryRules[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}

	// Agent codes alongside withdraw/deposit language are agent transactions.
	if agentCodePattern.MatchString(description) &&
		(strings.Contains(lower, "agent") || strings.Contains(lower, "withdraw") || strings.Contains(lower, "deposit")) {
		return "Financial"
	}

	if strings.Contains(lower, "paybill") || paybillCodePattern.MatchString(lower) {
		return categorizePaybill(lower)
	}

	if strings.Contains(lower, "buy goods") || tillCodePattern.MatchString(lower) {
		return categorizeTill(lower)
	}

	if phonePattern.MatchString(description) &&
		(strings.Contains(lower, "sent to") || strings.Contains(lower, "received from")) {
		return CategoryTransfers
	}

	return CategoryOther
}

func categorizePaybill(lower string) string {
	for keyword, category := range paybillCategories {
		if strings.Contains(lower, keyword) {
			return category
		}
	}
	return CategoryOther
}

// categorizeTill guesses a category for till-number purchases from common
// merchant words; tills default to Shopping.
func categorizeTill(lower string) string {
	switch {
	case containsAny(lower, "supermarket", "shop", "store", "mart"):
		return "Food"
	case containsAny(lower, "petrol", "fuel", "station"):
		return "Transport"
	case containsAny(lower, "restaurant", "hotel", "cafe"):
		return "Food"
	case containsAny(lower, "pharmacy", "chemist"):
		return "Health"
	}
	return "Shopping"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// CategorySummary describes one category's expense totals.
type CategorySummary struct {
	Category   string
	Total      decimal.Decimal
	Average    decimal.Decimal
	Percentage float64
	Count      int
}

// SummarizeExpenses aggregates outflow transactions per category, ordered by
// descending total. Percentages are of total expenses.
func SummarizeExpenses(ledger model.Ledger) []CategorySummary {
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	grand := decimal.Zero

	for _, t := range ledger {
		if !t.Amount.IsNegative() {
			continue
		}
		abs := t.Amount.Neg()
		totals[t.Category] = totals[t.Category].Add(abs)
		counts[t.Category]++
		grand = grand.Add(abs)
	}

	summaries := make([]CategorySummary, 0, len(totals))
	for category, total := range totals {
		s := CategorySummary{
			Category: category,
			Total:    total,
			Count:    counts[category],
			Average:  total.Div(decimal.NewFromInt(int64(counts[category]))).Round(2),
		}
		if grand.IsPositive() {
			pct, _ := total.Div(grand).Mul(decimal.NewFromInt(100)).Round(1).Float64()
			s.Percentage = pct
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].Total.Equal(summaries[j].Total) {
			return summaries[i].Total.GreaterThan(summaries[j].Total)
		}
		return summaries[i].Category < summaries[j].Category
	})

	return summaries
}
