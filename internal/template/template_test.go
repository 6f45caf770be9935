package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momo-etl/internal/models"
)

const incomingMsg = "You have received 2000 RWF from Jane Smith (*********013) on your mobile money account at 2024-05-10 16:30:51. Your new balance:2000 RWF. Financial Transaction Id: 76662021700."

func TestTemplateMatches(t *testing.T) {
	lib := DefaultLibrary()
	require.NotZero(t, lib.Len())

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "incoming money",
			text:     incomingMsg,
			expected: "incoming-money",
		},
		{
			name:     "case insensitive",
			text:     "YOU HAVE RECEIVED 2000 RWF FROM JANE SMITH (*********013).",
			expected: "incoming-money",
		},
		{
			name:     "momo code payment",
			text:     "TxId: 73214484437. Your payment of 1,000 RWF to Jane Smith 12845 has been completed at 2024-05-12 12:20:29.",
			expected: "momo-code-payment",
		},
		{
			name:     "bank deposit before cash deposit",
			text:     "*113*R*A bank deposit of 40000 RWF has been added to your mobile money account at 2024-05-11 18:43:49. Cash Deposit::CASH::::0::250795963036.*EN#",
			expected: "bank-deposit",
		},
		{
			name:     "airtime purchase",
			text:     "*162*TxId:13913173274*S*Your payment of 2000 RWF to Airtime with token has been completed at 2024-05-12 11:41:28. Fee was 0 RWF.",
			expected: "airtime-purchase",
		},
		{
			name:     "mobile transfer",
			text:     "*165*S*10000 RWF transferred to Samuel Carter (250791666666) from 36521838 at 2024-05-21 20:34:47. Fee was: 100 RWF.",
			expected: "mobile-transfer",
		},
		{
			name:     "cash withdrawal",
			text:     "You Samuel Carter have via agent: Agent Sophia (250790777777), withdrawn 20000 RWF from your mobile money account at 2024-05-26 02:10:27 and you can now collect your money in cash.",
			expected: "cash-withdrawal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := lib.Candidates(tt.text)
			require.NotEmpty(t, candidates)
			assert.Equal(t, tt.expected, candidates[0].Template.Name)
		})
	}
}

func TestNoCandidatesForUnknownText(t *testing.T) {
	lib := DefaultLibrary()
	assert.Empty(t, lib.Candidates("Hello, your account statement is ready for download."))
}

func TestCandidatesDeterministic(t *testing.T) {
	lib := DefaultLibrary()
	text := "*113*R*A bank deposit of 40000 RWF has been added. Cash Deposit::CASH::::0::250795963036."

	first := lib.Candidates(text)
	for i := 0; i < 10; i++ {
		again := lib.Candidates(text)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].Template.Name, again[j].Template.Name)
		}
	}
}

func TestExtractIncomingMoney(t *testing.T) {
	lib := DefaultLibrary()
	candidates := lib.Candidates(incomingMsg)
	require.NotEmpty(t, candidates)

	result := candidates[0].Result
	assert.True(t, result.Complete())
	assert.Empty(t, result.MissingRequired)

	amount, ok := result.Get("amount")
	require.True(t, ok)
	assert.Equal(t, "2000", amount)

	sender, ok := result.Get("sender_name")
	require.True(t, ok)
	assert.Equal(t, "Jane Smith", sender)

	phone, ok := result.Get("sender_phone")
	require.True(t, ok)
	assert.Equal(t, "*********013", phone)

	balance, ok := result.Get("balance")
	require.True(t, ok)
	assert.Equal(t, "2000", balance)

	ref, ok := result.Get("financial_txid")
	require.True(t, ok)
	assert.Equal(t, "76662021700", ref)

	date, ok := result.Get("date")
	require.True(t, ok)
	assert.Equal(t, "2024-05-10 16:30:51", date)
}

func TestExtractReportsMissingRequired(t *testing.T) {
	lib := DefaultLibrary()
	// Payment without a named recipient: the momo-code shape matches on
	// markers but cannot capture recipient_name or momo_code.
	text := "TxId: 73214484437. Your payment of 1,000 RWF to 12845 has been completed at 2024-05-12 12:20:29."

	candidates := lib.Candidates(text)
	require.NotEmpty(t, candidates)

	result := candidates[0].Result
	assert.False(t, result.Complete())
	assert.Contains(t, result.MissingRequired, "recipient_name")
}

func TestExtractNeverFails(t *testing.T) {
	lib := DefaultLibrary()
	for _, c := range lib.Candidates("you have received") {
		assert.NotNil(t, c.Result)
		assert.False(t, c.Result.Complete())
	}
}

func TestHeuristicCaptureCounted(t *testing.T) {
	defs := []Definition{{
		Name:    "two-pattern",
		Markers: []string{"paid"},
		Slots: []SlotDef{{
			Name: "amount",
			Type: SlotMoney,
			Patterns: []string{
				`paid exactly ([\d,]+) rwf`,
				`([\d,]+) rwf`,
			},
		}},
		Required: []string{"amount"},
		Weight:   0.9,
		Category: models.CategoryPayment,
	}}
	lib, err := NewLibrary(defs)
	require.NoError(t, err)

	direct := lib.Candidates("paid exactly 500 RWF")[0].Result
	assert.Equal(t, 0, direct.HeuristicRequired)

	heuristic := lib.Candidates("paid 500 RWF")[0].Result
	assert.Equal(t, 1, heuristic.HeuristicRequired)
}

func TestNewLibraryValidation(t *testing.T) {
	valid := Definition{
		Name:     "valid",
		Markers:  []string{"hello"},
		Slots:    []SlotDef{{Name: "amount", Type: SlotMoney, Patterns: []string{`(\d+)`}}},
		Required: []string{"amount"},
		Weight:   0.9,
		Category: models.CategoryOther,
	}

	tests := []struct {
		name   string
		mutate func(d Definition) Definition
	}{
		{
			name:   "missing name",
			mutate: func(d Definition) Definition { d.Name = ""; return d },
		},
		{
			name:   "weight above one",
			mutate: func(d Definition) Definition { d.Weight = 1.5; return d },
		},
		{
			name:   "negative weight",
			mutate: func(d Definition) Definition { d.Weight = -0.1; return d },
		},
		{
			name:   "no markers",
			mutate: func(d Definition) Definition { d.Markers = nil; return d },
		},
		{
			name:   "unknown category",
			mutate: func(d Definition) Definition { d.Category = "NOT_A_CATEGORY"; return d },
		},
		{
			name: "required slot not declared",
			mutate: func(d Definition) Definition {
				d.Required = []string{"missing_slot"}
				return d
			},
		},
		{
			name: "pattern does not compile",
			mutate: func(d Definition) Definition {
				d.Slots = []SlotDef{{Name: "amount", Type: SlotMoney, Patterns: []string{`([`}}}
				return d
			},
		},
		{
			name: "pattern without capture group",
			mutate: func(d Definition) Definition {
				d.Slots = []SlotDef{{Name: "amount", Type: SlotMoney, Patterns: []string{`\d+`}}}
				return d
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLibrary([]Definition{tt.mutate(valid)})
			assert.Error(t, err)
		})
	}

	t.Run("duplicate name", func(t *testing.T) {
		_, err := NewLibrary([]Definition{valid, valid})
		assert.Error(t, err)
	})

	t.Run("valid definition compiles", func(t *testing.T) {
		lib, err := NewLibrary([]Definition{valid})
		require.NoError(t, err)
		assert.Equal(t, 1, lib.Len())
	})
}

func TestDefaultDefinitionsCompile(t *testing.T) {
	lib, err := NewLibrary(DefaultDefinitions())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultDefinitions()), lib.Len())

	// Priority order: specific deposit shapes precede the generic fallback.
	names := lib.Names()
	indexOf := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		t.Fatalf("template %s not found", name)
		return -1
	}
	assert.Less(t, indexOf("bank-deposit"), indexOf("cash-deposit"))
	assert.Less(t, indexOf("agent-cash-deposit"), indexOf("cash-deposit"))
	assert.Less(t, indexOf("cash-deposit"), indexOf("generic-deposit"))
	assert.Less(t, indexOf("airtime-purchase"), indexOf("momo-code-payment"))
}

func TestMarkerAlternation(t *testing.T) {
	defs := []Definition{{
		Name:    "alternation",
		Markers: []string{"reversal has been initiated|has been reversed"},
		Slots:   []SlotDef{{Name: "amount", Type: SlotMoney, Patterns: []string{`(\d+) rwf`}}},
		Weight:  0.9,

		Category: models.CategoryOther,
	}}
	lib, err := NewLibrary(defs)
	require.NoError(t, err)

	assert.NotEmpty(t, lib.Candidates("a reversal has been initiated for 500 RWF"))
	assert.NotEmpty(t, lib.Candidates("your transaction has been reversed, 500 RWF returned"))
	assert.Empty(t, lib.Candidates("nothing relevant here"))
}

func TestExcludesSuppressMatch(t *testing.T) {
	lib := DefaultLibrary()
	// generic-payment excludes messages carrying a TxId marker; those belong
	// to the more specific shapes.
	text := "TxId: 999. Your payment of 1,000 RWF to Jane Smith 12845 has been completed at 2024-05-12 12:20:29."
	for _, c := range lib.Candidates(text) {
		assert.NotEqual(t, "generic-payment", c.Template.Name)
	}
}
