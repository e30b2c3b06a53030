package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pesaflow/pesaflow/internal/model"
)

func TestClassifyType(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        model.TransactionType
	}{
		{
			name:        "merchant payment",
			description: "Merchant Payment to NAIVAS SUPERMARKET",
			want:        model.TypeBuyGoods,
		},
		{
			name:        "customer transfer",
			description: "Customer Transfer to JOHN DOE",
			want:        model.TypeSendMoney,
		},
		{
			name:        "pay bill",
			description: "Pay Bill Online to KPLC PREPAID",
			want:        model.TypePayBill,
		},
		{
			name:        "business payment is inflow",
			description: "Business Payment from ACME LTD",
			want:        model.TypeReceiveMoney,
		},
		{
			name:        "overdraft of credit party",
			description: "Overdraft of Credit Party",
			want:        model.TypeOverdraft,
		},
		{
			name:        "od loan repayment",
			description: "OD Loan Repayment to 232323",
			want:        model.TypeLoanRepayment,
		},
		{
			name:        "bare overdraft is a repayment",
			description: "Overdraft Repayment",
			want:        model.TypeLoanRepayment,
		},
		{
			name:        "fuliza",
			description: "Fuliza M-PESA",
			want:        model.TypeOverdraft,
		},
		{
			name:        "airtime purchase",
			description: "Airtime Purchase for 254722000000",
			want:        model.TypeAirtime,
		},
		{
			name:        "data bundles",
			description: "Buy Bundles USSD",
			want:        model.TypeAirtime,
		},
		{
			name:        "deposit",
			description: "Deposit of Funds at Agent Till",
			want:        model.TypeCashIn,
		},
		{
			name:        "withdrawal",
			description: "Customer Withdrawal at Agent 445566",
			want:        model.TypeCashOut,
		},
		{
			name:        "transaction fee",
			description: "M-PESA Transaction Fee",
			want:        model.TypeCharges,
		},
		{
			name:        "sent to",
			description: "Sent to 254712345678 JANE W",
			want:        model.TypeSendMoney,
		},
		{
			name:        "received from",
			description: "Received from EMPLOYER LTD",
			want:        model.TypeReceiveMoney,
		},
		{
			name:        "case insensitive",
			description: "MERCHANT PAYMENT TO SHOP",
			want:        model.TypeBuyGoods,
		},
		{
			name:        "no trigger phrase",
			description: "SALARY PAYMENT",
			want:        model.TypeOther,
		},
		{
			name:        "empty description",
			description: "",
			want:        model.TypeOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyType(tt.description))
		})
	}
}

func TestClassifyTypeIsDeterministic(t *testing.T) {
	desc := "Overdraft of Credit Party Transfer"
	first := ClassifyType(desc)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyType(desc))
	}
	assert.Equal(t, model.TypeOverdraft, first)
}
