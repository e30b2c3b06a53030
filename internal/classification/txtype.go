// Package classification maps statement descriptions to transaction types and
// spending categories.
package classification

import (
	"strings"

	"github.com/pesaflow/pesaflow/internal/model"
)

// typeRule pairs a set of trigger phrases with the transaction type they
// imply. Rules are evaluated in order and the first match wins: some phrases
// are substrings of other phrases' contexts ("business payment" must be
// checked before a generic "payment" would be, "overdraft of credit" before
// "overdraft").
type typeRule struct {
	tag     model.TransactionType
	phrases []string
}

var typeRules = []typeRule{
	{model.TypeBuyGoods, []string{"merchant payment"}},
	{model.TypeSendMoney, []string{"customer transfer", "customer payment"}},
	{model.TypePayBill, []string{"pay bill"}},
	{model.TypeReceiveMoney, []string{"business payment"}},
	{model.TypeOverdraft, []string{"overdraft of credit"}},
	{model.TypeLoanRepayment, []string{"od loan repayment", "overdraft"}},
	{model.TypeOverdraft, []string{"fuliza"}},
	{model.TypeAirtime, []string{"airtime", "bundle", "postpaid"}},
	{model.TypeCashIn, []string{"cash in", "deposit"}},
	{model.TypeCashOut, []string{"cash out", "withdraw"}},
	{model.TypeCharges, []string{"charge", "fee"}},
	{model.TypeSendMoney, []string{"sent to", "send money"}},
	{model.TypeReceiveMoney, []string{"received from", "receive money"}},
}

// ClassifyType maps a free-text description to a transaction type.
// Deterministic and side-effect free.
func ClassifyType(description string) model.TransactionType {
	lower := strings.ToLower(description)
	for _, rule := range typeRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lower, phrase) {
				return rule.tag
			}
		}
	}
	return model.TypeOther
}
