package domain

import "strings"

// PaymentMethod identifies how a patient settles a budget
type PaymentMethod string

const (
	PaymentMethodPix          PaymentMethod = "PIX"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodBoleto       PaymentMethod = "BOLETO"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// PaymentMethods lists every supported method in display order
var PaymentMethods = []PaymentMethod{
	PaymentMethodPix,
	PaymentMethodCash,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodBoleto,
	PaymentMethodBankTransfer,
}

// ParsePaymentMethod normalizes s ("credit_card", " Pix ") to a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	method := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	return method, method.IsValid()
}

func (m PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// IsDeferredSettlement reports whether the processor pays the clinic over time,
// which is what makes anticipation meaningful.
func (m PaymentMethod) IsDeferredSettlement() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodBoleto
}

func (m PaymentMethod) String() string {
	return string(m)
}

// FeeType tells whether a fee profile charges a percentage or a fixed amount
type FeeType string

const (
	FeeTypePercentage FeeType = "PERCENTAGE"
	FeeTypeFixed      FeeType = "FIXED"
)

func (t FeeType) IsValid() bool {
	return t == FeeTypePercentage || t == FeeTypeFixed
}
