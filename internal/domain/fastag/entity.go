package fastag

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentCash         PaymentMode = "cash"
	PaymentUPI          PaymentMode = "upi"
	PaymentCard         PaymentMode = "card"
	PaymentBankTransfer PaymentMode = "bank_transfer"
)

func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentCard, PaymentBankTransfer:
		return true
	}
	return false
}

type Recharge struct {
	ID             string
	CompanyID      string
	VehicleNumber  string
	RechargeDate   time.Time
	Amount         decimal.Decimal
	PaymentMode    PaymentMode
	TransactionRef *string
	Remark         *string
	CreatedBy      string
	CreatedAt      time.Time
}

// VehicleBalance is the recharge total for one vehicle.
type VehicleBalance struct {
	VehicleNumber    string
	TotalRecharged   decimal.Decimal
	RechargeCount    int
	LastRechargeDate *time.Time
}
