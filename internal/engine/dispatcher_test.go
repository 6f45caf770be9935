package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momo-etl/internal/categorizer"
	"momo-etl/internal/dedupe"
	"momo-etl/internal/logging"
	"momo-etl/internal/models"
	"momo-etl/internal/template"
)

const (
	incomingMsg = "You have received 2000 RWF from Jane Smith (*********013) on your mobile money account at 2024-05-10 16:30:51. Message from sender: . Your new balance:2000 RWF. Financial Transaction Id: 76662021700."
	paymentMsg  = "TxId: 73214484437. Your payment of 1,000 RWF to Jane Smith 12845 has been completed at 2024-05-12 12:20:29. Your new balance: 1,500 RWF. Fee was 0 RWF."
	depositMsg  = "*113*R*A bank deposit of 40000 RWF has been added to your mobile money account at 2024-05-11 18:43:49. Your NEW BALANCE :40400 RWF. Cash Deposit::CASH::::0::250795963036.Thank you for using MTN MobileMoney.*EN#"
	unknownMsg  = "Hello, your account statement is ready for download."
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	lib, err := template.NewLibrary(template.DefaultDefinitions())
	require.NoError(t, err)
	logger := logging.NewMockLogger()
	return NewDispatcher(
		lib,
		categorizer.NewDefault(logger),
		categorizer.NewScorer(0.5),
		dedupe.NewRegistry(),
		"250", "RWF",
		logger,
	)
}

func msg(body string) models.RawMessage {
	return models.RawMessage{
		Body:      body,
		Timestamp: time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC),
		SourceID:  "test",
	}
}

func TestProcessIncomingMoney(t *testing.T) {
	d := newTestDispatcher(t)
	outcome := d.Process(msg(incomingMsg))

	require.Equal(t, models.StatusAccepted, outcome.Status)
	require.NotNil(t, outcome.Transaction)
	tx := outcome.Transaction

	assert.Equal(t, "incoming-money", tx.Template)
	assert.Equal(t, models.CategoryTransferIncoming, tx.Category)
	assert.Equal(t, models.DirectionCredit, tx.Direction)
	assert.Equal(t, models.TypeReceive, tx.Type)
	assert.Equal(t, "2000", tx.Amount.Amount.String())
	assert.Equal(t, "RWF", tx.Amount.Currency)

	require.NotNil(t, tx.SenderName)
	assert.Equal(t, "Jane Smith", *tx.SenderName)

	// Masked numbers are carried through verbatim, not discarded.
	require.NotNil(t, tx.SenderPhone)
	assert.Equal(t, "*********013", *tx.SenderPhone)

	require.NotNil(t, tx.Reference)
	assert.Equal(t, "76662021700", *tx.Reference)

	require.NotNil(t, tx.Balance)
	assert.Equal(t, "2000", tx.Balance.Amount.String())

	// Timestamp from the message text, not the envelope.
	assert.Equal(t, time.Date(2024, 5, 10, 16, 30, 51, 0, time.UTC), tx.Date)

	assert.GreaterOrEqual(t, tx.Confidence, 0.5)
	assert.LessOrEqual(t, tx.Confidence, 1.0)
	assert.NotEmpty(t, tx.Fingerprint)
}

func TestProcessMomoCodePayment(t *testing.T) {
	d := newTestDispatcher(t)
	outcome := d.Process(msg(paymentMsg))

	require.Equal(t, models.StatusAccepted, outcome.Status)
	require.NotNil(t, outcome.Transaction)
	tx := outcome.Transaction

	assert.Equal(t, "momo-code-payment", tx.Template)
	assert.Equal(t, models.CategoryPaymentPersonal, tx.Category)
	assert.Equal(t, models.DirectionDebit, tx.Direction)

	assert.Equal(t, "1000", tx.Amount.Amount.String())

	require.NotNil(t, tx.RecipientName)
	assert.Equal(t, "Jane Smith", *tx.RecipientName)

	require.NotNil(t, tx.MomoCode)
	assert.Equal(t, "12845", *tx.MomoCode)

	// A zero fee is valid; only the principal amount must be positive.
	assert.True(t, tx.Fee.Amount.IsZero())

	require.NotNil(t, tx.Reference)
	assert.Equal(t, "73214484437", *tx.Reference)
}

func TestProcessBankDepositOutranksCashDeposit(t *testing.T) {
	d := newTestDispatcher(t)
	outcome := d.Process(msg(depositMsg))

	require.Equal(t, models.StatusAccepted, outcome.Status)
	require.NotNil(t, outcome.Transaction)
	tx := outcome.Transaction

	// The message carries both "bank deposit" and "cash deposit" phrasings;
	// the more specific bank shape has higher priority and wins without an
	// ambiguity flag, because the candidates differ in weight.
	assert.Equal(t, "bank-deposit", tx.Template)
	assert.Equal(t, models.CategoryDepositBankTransfer, tx.Category)
	assert.Empty(t, tx.Notes)

	assert.Equal(t, "40000", tx.Amount.Amount.String())
	require.NotNil(t, tx.AgentMomoNumber)
	assert.Equal(t, "+250795963036", *tx.AgentMomoNumber)

	require.NotNil(t, tx.Balance)
	assert.Equal(t, "40400", tx.Balance.Amount.String())
}

func TestProcessUnmatchedMessageRejected(t *testing.T) {
	d := newTestDispatcher(t)
	outcome := d.Process(msg(unknownMsg))

	require.Equal(t, models.StatusRejected, outcome.Status)
	assert.Nil(t, outcome.Transaction)
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, models.ReasonNoTemplateMatch, outcome.Failure.Reason)
	assert.Equal(t, unknownMsg, outcome.Failure.RawText)
}

func TestProcessDuplicateDetected(t *testing.T) {
	d := newTestDispatcher(t)

	first := d.Process(msg(incomingMsg))
	require.Equal(t, models.StatusAccepted, first.Status)

	second := d.Process(msg(incomingMsg))
	require.Equal(t, models.StatusDuplicate, second.Status)
	assert.Nil(t, second.Transaction)
	require.NotNil(t, second.Failure)
	assert.Equal(t, models.ReasonDuplicate, second.Failure.Reason)
	assert.Contains(t, second.Failure.Detail, first.Transaction.Fingerprint)
}

func TestProcessRepeatedRejectStaysRejected(t *testing.T) {
	d := newTestDispatcher(t)

	// Rejected messages never register a fingerprint, so a repeated junk
	// message is rejected both times rather than reported DUPLICATE.
	for i := 0; i < 2; i++ {
		outcome := d.Process(msg(unknownMsg))
		require.Equal(t, models.StatusRejected, outcome.Status)
		assert.Equal(t, models.ReasonNoTemplateMatch, outcome.Failure.Reason)
	}
}

func TestProcessMissingRequiredField(t *testing.T) {
	d := newTestDispatcher(t)
	// Payment shape without a named recipient.
	outcome := d.Process(msg("TxId: 73214484437. Your payment of 1,000 RWF to 12845 has been completed at 2024-05-12 12:20:29."))

	require.Equal(t, models.StatusRejected, outcome.Status)
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, models.ReasonMissingRequiredField, outcome.Failure.Reason)
	assert.Contains(t, outcome.Failure.Detail, "momo-code-payment")
	assert.Contains(t, outcome.Failure.Detail, "recipient_name")
}

func TestProcessInvalidAmount(t *testing.T) {
	d := newTestDispatcher(t)
	outcome := d.Process(msg("You have received 0 RWF from Jane Smith (*********013) on your mobile money account."))

	require.Equal(t, models.StatusRejected, outcome.Status)
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, models.ReasonInvalidAmount, outcome.Failure.Reason)
}

func TestProcessAmbiguousMatchFlagged(t *testing.T) {
	defs := []template.Definition{
		{
			Name:      "first-shape",
			Markers:   []string{"paid"},
			Slots:     []template.SlotDef{{Name: "amount", Type: template.SlotMoney, Patterns: []string{`paid ([\d,]+) rwf`}}},
			Required:  []string{"amount"},
			Weight:    0.9,
			Category:  models.CategoryPayment,
			Direction: models.DirectionDebit,
			TxType:    models.TypePayment,
		},
		{
			Name:      "second-shape",
			Markers:   []string{"rwf"},
			Slots:     []template.SlotDef{{Name: "amount", Type: template.SlotMoney, Patterns: []string{`balance ([\d,]+) rwf`}}},
			Required:  []string{"amount"},
			Weight:    0.9,
			Category:  models.CategoryWithdrawal,
			Direction: models.DirectionDebit,
			TxType:    models.TypeWithdrawal,
		},
	}
	lib, err := template.NewLibrary(defs)
	require.NoError(t, err)

	logger := logging.NewMockLogger()
	d := NewDispatcher(lib, categorizer.NewDefault(logger), categorizer.NewScorer(0.5), dedupe.NewRegistry(), "250", "RWF", logger)

	// Both shapes are complete with the same weight but different captures.
	outcome := d.Process(msg("paid 500 rwf, balance 900 rwf"))

	require.NotNil(t, outcome.Transaction)
	assert.Equal(t, "first-shape", outcome.Transaction.Template)
	assert.Contains(t, outcome.Transaction.Notes, models.ReasonAmbiguousMatch)
}

func TestProcessPanicIsolated(t *testing.T) {
	logger := logging.NewMockLogger()
	// A nil library makes candidate lookup panic; the dispatcher must turn
	// that into a rejection instead of taking down the batch.
	d := NewDispatcher(nil, categorizer.NewDefault(logger), categorizer.NewScorer(0.5), dedupe.NewRegistry(), "250", "RWF", logger)

	var outcome Outcome
	assert.NotPanics(t, func() {
		outcome = d.Process(msg(incomingMsg))
	})
	require.Equal(t, models.StatusRejected, outcome.Status)
	require.NotNil(t, outcome.Failure)
	assert.Contains(t, outcome.Failure.Detail, "internal parser error")
	assert.True(t, logger.HasEntry("error", "parser panic isolated"))
}

func TestProcessZeroTimestampFallsBackToEnvelope(t *testing.T) {
	d := newTestDispatcher(t)
	envelope := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	outcome := d.Process(models.RawMessage{
		Body:      "You have received 2000 RWF from Jane Smith (*********013).",
		Timestamp: envelope,
		SourceID:  "test",
	})

	require.NotNil(t, outcome.Transaction)
	assert.Equal(t, envelope, outcome.Transaction.Date)
}
