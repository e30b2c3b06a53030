package model

// TransactionType is the closed set of mobile-money transaction tags derived
// from statement descriptions.
type TransactionType string

const (
	// TypeSendMoney covers person-to-person transfers out.
	TypeSendMoney TransactionType = "Send Money"
	// TypeReceiveMoney covers person-to-person and business transfers in.
	TypeReceiveMoney TransactionType = "Receive Money"
	// TypeBuyGoods covers merchant (till) payments.
	TypeBuyGoods TransactionType = "Buy Goods"
	// TypePayBill covers paybill payments.
	TypePayBill TransactionType = "Pay Bill"
	// TypeCashIn covers agent deposits.
	TypeCashIn TransactionType = "Cash In"
	// TypeCashOut covers agent and ATM withdrawals.
	TypeCashOut TransactionType = "Cash Out"
	// TypeAirtime covers airtime and data bundle purchases.
	TypeAirtime TransactionType = "Airtime/Bundles"
	// TypeLoanRepayment covers overdraft and loan repayments.
	TypeLoanRepayment TransactionType = "Loan Repayment"
	// TypeOverdraft covers overdraft credit draws (Fuliza and similar).
	TypeOverdraft TransactionType = "Overdraft"
	// TypeCharges covers fees and service charges.
	TypeCharges TransactionType = "Charges"
	// TypeOther is the fallback for unrecognized descriptions.
	TypeOther TransactionType = "Other"
)

// outflowTypes are the tags that imply money leaving the account. When a raw
// amount token carried no explicit sign marker, these force it negative.
var outflowTypes = map[TransactionType]bool{
	TypeSendMoney: true,
	TypeBuyGoods:  true,
	TypePayBill:   true,
	TypeCashOut:   true,
	TypeAirtime:   true,
}

// IsOutflowType reports whether the tag belongs to the sign-inference outflow set.
func IsOutflowType(t TransactionType) bool {
	return outflowTypes[t]
}
