package models

// Category is one label from the fixed business taxonomy. Every parsed
// transaction carries exactly one.
type Category string

// Fine-grained categories.
const (
	CategoryTransferIncoming    Category = "TRANSFER_INCOMING"
	CategoryTransferOutgoing    Category = "TRANSFER_OUTGOING"
	CategoryPaymentPersonal     Category = "PAYMENT_PERSONAL"
	CategoryPaymentBusiness     Category = "PAYMENT_BUSINESS"
	CategoryDepositAgent        Category = "DEPOSIT_AGENT"
	CategoryDepositCash         Category = "DEPOSIT_CASH"
	CategoryDepositBankTransfer Category = "DEPOSIT_BANK_TRANSFER"
	CategoryDepositOther        Category = "DEPOSIT_OTHER"
	CategoryAirtime             Category = "AIRTIME"
	CategoryDataBundle          Category = "DATA_BUNDLE"
)

// Legacy coarse categories, retained for backward compatibility with the
// relational schema consumed downstream.
const (
	CategoryDeposit    Category = "DEPOSIT"
	CategoryWithdrawal Category = "WITHDRAWAL"
	CategoryTransfer   Category = "TRANSFER"
	CategoryPayment    Category = "PAYMENT"
	CategoryQuery      Category = "QUERY"
	CategoryOther      Category = "OTHER"
)

// AllCategories lists every valid category code, fine-grained first.
var AllCategories = []Category{
	CategoryTransferIncoming,
	CategoryTransferOutgoing,
	CategoryPaymentPersonal,
	CategoryPaymentBusiness,
	CategoryDepositAgent,
	CategoryDepositCash,
	CategoryDepositBankTransfer,
	CategoryDepositOther,
	CategoryAirtime,
	CategoryDataBundle,
	CategoryDeposit,
	CategoryWithdrawal,
	CategoryTransfer,
	CategoryPayment,
	CategoryQuery,
	CategoryOther,
}

// Valid reports whether c is a known category code.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}
