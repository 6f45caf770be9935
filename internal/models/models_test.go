package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	m := NewMoney(decimal.NewFromInt(2000), "RWF")
	assert.Equal(t, "2000 RWF", m.String())
	assert.True(t, m.IsPositive())
	assert.False(t, m.IsZero())

	zero := ZeroMoney("RWF")
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsPositive())

	other := NewMoney(decimal.NewFromInt(2000), "RWF")
	assert.True(t, m.Equal(other))
	assert.False(t, m.Equal(NewMoney(decimal.NewFromInt(2000), "UGX")))
	assert.False(t, m.Equal(zero))
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("1234.56", "RWF")
	require.NoError(t, err)
	assert.Equal(t, "1234.56 RWF", m.String())

	_, err = NewMoneyFromString("not-a-number", "RWF")
	assert.Error(t, err)
}

func TestCategoryValid(t *testing.T) {
	for _, c := range AllCategories {
		assert.True(t, c.Valid(), "category %s should be valid", c)
	}
	assert.False(t, Category("SOMETHING_ELSE").Valid())
	assert.False(t, Category("").Valid())
}

func TestCounterparty(t *testing.T) {
	tests := []struct {
		name     string
		tx       ParsedTransaction
		expected string
		ok       bool
	}{
		{
			name: "debit with recipient",
			tx: ParsedTransaction{
				Direction:     DirectionDebit,
				RecipientName: StringPtr("Jane Smith"),
			},
			expected: "Jane Smith",
			ok:       true,
		},
		{
			name: "debit falls back to business name",
			tx: ParsedTransaction{
				Direction:    DirectionDebit,
				BusinessName: StringPtr("Some Company Ltd"),
			},
			expected: "Some Company Ltd",
			ok:       true,
		},
		{
			name: "credit with sender",
			tx: ParsedTransaction{
				Direction:  DirectionCredit,
				SenderName: StringPtr("Samuel Carter"),
			},
			expected: "Samuel Carter",
			ok:       true,
		},
		{
			name: "self-directed transaction has no counterparty",
			tx:   ParsedTransaction{Direction: DirectionCredit},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.tx.Counterparty()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRunStatsObserve(t *testing.T) {
	stats := NewRunStats("run-1")
	require.Equal(t, "run-1", stats.RunID)

	stats.Observe(StatusAccepted, CategoryTransferIncoming, "")
	stats.Observe(StatusAccepted, CategoryTransferIncoming, "")
	stats.Observe(StatusPartial, CategoryPaymentPersonal, "")
	stats.Observe(StatusRejected, "", ReasonNoTemplateMatch)
	stats.Observe(StatusDuplicate, "", ReasonDuplicate)

	assert.Equal(t, 5, stats.Attempted)
	assert.Equal(t, 2, stats.Accepted)
	assert.Equal(t, 1, stats.Partial)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 1, stats.Duplicate)
	assert.Equal(t, 3, stats.Emitted())

	assert.Equal(t, 2, stats.ByCategory[CategoryTransferIncoming])
	assert.Equal(t, 1, stats.ByCategory[CategoryPaymentPersonal])
	assert.Equal(t, 1, stats.ByReason[ReasonNoTemplateMatch])
	assert.Equal(t, 1, stats.ByReason[ReasonDuplicate])
}
