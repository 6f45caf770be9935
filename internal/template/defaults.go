package template

import "momo-etl/internal/models"

// Shared slot patterns. The provider keeps reusing the same fragments
// across message shapes, with small drifts in punctuation.
const (
	patAmount  = `([\d,]+(?:\.\d+)?)`
	patBalance = `new balance\s*:?\s*` + patAmount + ` rwf`
	patFee     = `fee (?:was|paid)\s*:?\s*` + patAmount + ` rwf`
	patTxID    = `txid\s*:?\s*(\d+)`
	patFinTxID = `financial transaction id\s*:?\s*(\d+)`
	patExtTxID = `external transaction id\s*:?\s*([\w.-]+)`
	patDate    = `at (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`
)

func balanceSlot() SlotDef {
	return SlotDef{Name: "balance", Type: SlotMoney, Patterns: []string{patBalance}}
}

func feeSlot() SlotDef {
	return SlotDef{Name: "fee", Type: SlotMoney, Patterns: []string{patFee}}
}

func txIDSlot() SlotDef {
	return SlotDef{Name: "txid", Type: SlotFreeText, Patterns: []string{patTxID}}
}

func finTxIDSlot() SlotDef {
	return SlotDef{Name: "financial_txid", Type: SlotFreeText, Patterns: []string{patFinTxID}}
}

func dateSlot() SlotDef {
	return SlotDef{Name: "date", Type: SlotFreeText, Patterns: []string{patDate}}
}

// DefaultDefinitions returns the built-in ordered template set for the
// provider's known notification shapes, most specific first. The order is
// load-bearing: the agent and bank deposit shapes must be tried before the
// generic deposit fallback, and the *162* purchase shapes before the
// momo-code payment shape, or the generic templates would swallow them.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:    "incoming-money",
			Markers: []string{"you have received"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`you have received ` + patAmount + ` rwf`,
					patAmount + ` rwf`,
				}},
				{Name: "sender_name", Type: SlotName, Patterns: []string{`from ([^(]+?)\s*\(`}},
				{Name: "sender_phone", Type: SlotPhone, Patterns: []string{`from [^(]+\(([^)]+)\)`}},
				balanceSlot(), finTxIDSlot(), dateSlot(),
			},
			Required:  []string{"amount", "sender_name"},
			Weight:    0.95,
			Category:  models.CategoryTransferIncoming,
			Direction: models.DirectionCredit,
			TxType:    models.TypeReceive,
		},
		{
			Name:    "airtime-purchase",
			Markers: []string{"*162*txid:", "airtime"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`your payment of ` + patAmount + ` rwf`,
					`transaction of ` + patAmount + ` rwf`,
				}},
				{Name: "txid", Type: SlotFreeText, Patterns: []string{`\*162\*txid:(\d+)`}},
				feeSlot(), balanceSlot(), dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.95,
			Category:  models.CategoryAirtime,
			Direction: models.DirectionDebit,
			TxType:    models.TypePurchase,
		},
		{
			Name:    "bundle-purchase",
			Markers: []string{"*162*txid:", "bundles and packs"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`(?:transaction|your payment) of ` + patAmount + ` rwf`,
				}},
				{Name: "txid", Type: SlotFreeText, Patterns: []string{`\*162\*txid:(\d+)`}},
				feeSlot(), balanceSlot(), finTxIDSlot(),
				{Name: "external_txid", Type: SlotFreeText, Patterns: []string{patExtTxID}},
				dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.95,
			Category:  models.CategoryDataBundle,
			Direction: models.DirectionDebit,
			TxType:    models.TypePurchase,
		},
		{
			Name:    "business-payment",
			Markers: []string{"*162*txid:", "onafriq|esicia|mtn"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`(?:transaction|your payment) of ` + patAmount + ` rwf`,
				}},
				{Name: "business_name", Type: SlotName, Patterns: []string{
					`by ([^,.]+?) on your momo account`,
					`to ([^,.]+?) with`,
				}},
				{Name: "txid", Type: SlotFreeText, Patterns: []string{`\*162\*txid:(\d+)`}},
				feeSlot(), balanceSlot(), finTxIDSlot(),
				{Name: "external_txid", Type: SlotFreeText, Patterns: []string{patExtTxID}},
				dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.9,
			Category:  models.CategoryPaymentBusiness,
			Direction: models.DirectionDebit,
			TxType:    models.TypePayment,
		},
		{
			Name:    "momo-code-payment",
			Markers: []string{"txid:", "your payment of", "has been completed"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`your payment of ` + patAmount + ` rwf`,
				}},
				{Name: "recipient_name", Type: SlotName, Patterns: []string{`to ([a-z .'-]+?) \d{4,6}\b`}},
				{Name: "momo_code", Type: SlotInteger, Patterns: []string{`to [a-z .'-]+? (\d{4,6})\b`}},
				txIDSlot(), feeSlot(), balanceSlot(), dateSlot(),
			},
			Required:  []string{"amount", "recipient_name", "momo_code"},
			Weight:    0.95,
			Category:  models.CategoryPaymentPersonal,
			Direction: models.DirectionDebit,
			TxType:    models.TypePayment,
		},
		{
			Name:    "bank-deposit",
			Markers: []string{"*113*r*", "bank deposit"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`bank deposit of ` + patAmount + ` rwf`,
					patAmount + ` rwf`,
				}},
				{Name: "agent_number", Type: SlotPhone, Patterns: []string{`::(\d{12})`}},
				balanceSlot(), dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.95,
			Category:  models.CategoryDepositBankTransfer,
			Direction: models.DirectionCredit,
			TxType:    models.TypeDeposit,
		},
		{
			Name:    "agent-cash-deposit",
			Markers: []string{"*113*r*", "cash deposit", "agent"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`cash deposit of ` + patAmount + ` rwf`,
					patAmount + ` rwf`,
				}},
				{Name: "agent_number", Type: SlotPhone, Patterns: []string{`::(\d{12})`}},
				balanceSlot(), dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.92,
			Category:  models.CategoryDepositAgent,
			Direction: models.DirectionCredit,
			TxType:    models.TypeDeposit,
		},
		{
			Name:    "cash-deposit",
			Markers: []string{"*113*r*", "cash deposit"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`cash deposit of ` + patAmount + ` rwf`,
					patAmount + ` rwf`,
				}},
				{Name: "agent_number", Type: SlotPhone, Patterns: []string{`::(\d{12})`}},
				balanceSlot(), dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.9,
			Category:  models.CategoryDepositCash,
			Direction: models.DirectionCredit,
			TxType:    models.TypeDeposit,
		},
		{
			Name:    "generic-deposit",
			Markers: []string{"*113*r*"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{patAmount + ` rwf`}},
				balanceSlot(), dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.8,
			Category:  models.CategoryDepositOther,
			Direction: models.DirectionCredit,
			TxType:    models.TypeDeposit,
		},
		{
			Name:    "mobile-transfer",
			Markers: []string{"*165*s*", "transferred to"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`\*165\*s\*` + patAmount + ` rwf`,
					patAmount + ` rwf transferred`,
				}},
				{Name: "recipient_name", Type: SlotName, Patterns: []string{`transferred to ([^(]+?)\s*\(`}},
				{Name: "recipient_phone", Type: SlotPhone, Patterns: []string{`transferred to [^(]+\(([^)]+)\)`}},
				feeSlot(), balanceSlot(), dateSlot(),
			},
			Required:  []string{"amount", "recipient_name"},
			Weight:    0.95,
			Category:  models.CategoryTransferOutgoing,
			Direction: models.DirectionDebit,
			TxType:    models.TypeTransfer,
		},
		{
			Name:    "bundle-direct",
			Markers: []string{"*164*s*", "data bundle"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`(?:transaction|your payment) of ` + patAmount + ` rwf`,
					patAmount + ` rwf`,
				}},
				feeSlot(), balanceSlot(), finTxIDSlot(), dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.9,
			Category:  models.CategoryDataBundle,
			Direction: models.DirectionDebit,
			TxType:    models.TypePurchase,
		},
		{
			Name:    "direct-payment",
			Markers: []string{"*164*s*"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`(?:transaction|your payment) of ` + patAmount + ` rwf`,
					patAmount + ` rwf`,
				}},
				{Name: "business_name", Type: SlotName, Patterns: []string{
					`by ([^,.]+?) on your momo account`,
					`to ([^,.]+?) with`,
				}},
				feeSlot(), balanceSlot(), finTxIDSlot(), dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.85,
			Category:  models.CategoryPaymentBusiness,
			Direction: models.DirectionDebit,
			TxType:    models.TypePayment,
		},
		{
			Name:    "cash-withdrawal",
			Markers: []string{"via agent:", "withdrawn"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{`withdrawn ` + patAmount + ` rwf`}},
				{Name: "agent_name", Type: SlotName, Patterns: []string{`agent: ([^(]+?)\s*\(`}},
				{Name: "agent_number", Type: SlotPhone, Patterns: []string{`agent: [^(]+\(([^)]+)\)`}},
				feeSlot(), balanceSlot(), finTxIDSlot(), dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.95,
			Category:  models.CategoryWithdrawal,
			Direction: models.DirectionDebit,
			TxType:    models.TypeWithdrawal,
		},
		{
			Name:    "bank-transfer-out",
			Markers: []string{"you have transferred", "imbank.bank"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{`transferred ` + patAmount + ` rwf`}},
				{Name: "recipient_name", Type: SlotName, Patterns: []string{`to ([^(]+?)\s*\(`}},
				{Name: "recipient_phone", Type: SlotPhone, Patterns: []string{`to [^(]+\(([^)]+)\)`}},
				finTxIDSlot(), dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.9,
			Category:  models.CategoryTransferOutgoing,
			Direction: models.DirectionDebit,
			TxType:    models.TypeTransfer,
		},
		{
			Name:     "generic-payment",
			Markers:  []string{"your payment of", "has been completed"},
			Excludes: []string{"txid:"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`your payment of ` + patAmount + ` rwf`,
				}},
				{Name: "recipient_name", Type: SlotName, Patterns: []string{`to ([^(]+?)\s*\(`}},
				{Name: "recipient_phone", Type: SlotPhone, Patterns: []string{`to [^(]+\(([^)]+)\)`}},
				feeSlot(), balanceSlot(), finTxIDSlot(),
				{Name: "external_txid", Type: SlotFreeText, Patterns: []string{patExtTxID}},
				dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.85,
			Category:  models.CategoryPaymentPersonal,
			Direction: models.DirectionDebit,
			TxType:    models.TypePayment,
		},
		{
			Name:    "failed-transaction",
			Markers: []string{"*143*", "failed"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`(?:amount|your payment of) ` + patAmount + ` rwf`,
				}},
				{Name: "recipient_name", Type: SlotName, Patterns: []string{
					`for ([^,.]+?) with`,
					`to ([^(]+?)\s*\(`,
				}},
				txIDSlot(),
				{Name: "date", Type: SlotFreeText, Patterns: []string{
					`failed at (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`,
				}},
			},
			Required:  []string{"amount"},
			Weight:    0.85,
			Category:  models.CategoryOther,
			Direction: models.DirectionDebit,
			TxType:    models.TypeFailed,
		},
		{
			Name:    "reversal",
			Markers: []string{"reversal has been initiated|has been reversed"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{
					`with ` + patAmount + ` rwf`,
					patAmount + ` rwf`,
				}},
				{Name: "recipient_name", Type: SlotName, Patterns: []string{`to ([^(]+?)\s*\(`}},
				{Name: "recipient_phone", Type: SlotPhone, Patterns: []string{`to [^(]+\(([^)]+)\)`}},
				{Name: "balance", Type: SlotMoney, Patterns: []string{
					`your new balance is ` + patAmount + ` rwf`,
					patBalance,
				}},
				dateSlot(),
			},
			Required:  []string{"amount"},
			Weight:    0.85,
			Category:  models.CategoryOther,
			Direction: models.DirectionCredit,
			TxType:    models.TypeReversal,
		},
		{
			Name:    "direct-deposit",
			Markers: []string{"deposit rwf", "receiver:"},
			Slots: []SlotDef{
				{Name: "amount", Type: SlotMoney, Patterns: []string{`deposit rwf ` + patAmount}},
				{Name: "recipient_phone", Type: SlotPhone, Patterns: []string{`receiver: (\d+)`}},
				{Name: "date", Type: SlotFreeText, Patterns: []string{`(\d{4}-\d{2}-\d{2})`}},
			},
			Required:  []string{"amount"},
			Weight:    0.8,
			Category:  models.CategoryDepositOther,
			Direction: models.DirectionCredit,
			TxType:    models.TypeDeposit,
		},
	}
}

// DefaultLibrary compiles the built-in template set. It panics only if the
// built-in definitions themselves are broken, which is a programming error
// caught by the package tests.
func DefaultLibrary() *Library {
	lib, err := NewLibrary(DefaultDefinitions())
	if err != nil {
		panic(err)
	}
	return lib
}
