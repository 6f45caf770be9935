package engine

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"momo-etl/internal/logging"
	"momo-etl/internal/models"
	"momo-etl/internal/sink"
)

// Pipeline processes a batch of raw messages through the dispatcher with a
// worker pool. Parsing a single message is pure and order-independent, so
// messages fan out across workers; the only shared state is the dedup
// registry (internally locked) and the run statistics, which are updated by
// the single collector goroutine.
type Pipeline struct {
	dispatcher  *Dispatcher
	failures    sink.Sink
	workerCount int
	logger      logging.Logger
}

// NewPipeline creates a Pipeline. workerCount <= 0 selects NumCPU.
func NewPipeline(dispatcher *Dispatcher, failures sink.Sink, workerCount int, logger logging.Logger) *Pipeline {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	return &Pipeline{
		dispatcher:  dispatcher,
		failures:    failures,
		workerCount: workerCount,
		logger:      logger,
	}
}

// Result is the output of one run: the emitted transactions and the run
// statistics. Failure records are routed to the sink as they occur.
type Result struct {
	Transactions []*models.ParsedTransaction
	Stats        *models.RunStats
}

// Run processes every message to a terminal outcome. Output order follows
// input order for reproducible exports, though processing itself is
// unordered. Every input yields exactly one counted outcome.
func (p *Pipeline) Run(ctx context.Context, messages []models.RawMessage) *Result {
	stats := models.NewRunStats(uuid.NewString())
	start := time.Now()

	p.logger.Info("run started",
		logging.F(logging.FieldRunID, stats.RunID),
		logging.F(logging.FieldCount, len(messages)),
		logging.F(logging.FieldWorkers, p.workerCount),
	)

	outcomes := make([]Outcome, len(messages))

	if len(messages) < smallBatchThreshold {
		for i := range messages {
			outcomes[i] = p.dispatcher.Process(messages[i])
		}
	} else {
		p.runConcurrent(ctx, messages, outcomes)
	}

	transactions := make([]*models.ParsedTransaction, 0, len(messages))
	for _, outcome := range outcomes {
		var category models.Category
		var reason models.FailureReason
		switch {
		case outcome.Transaction != nil:
			transactions = append(transactions, outcome.Transaction)
			category = outcome.Transaction.Category
		case outcome.Failure != nil:
			p.failures.Record(*outcome.Failure)
			reason = outcome.Failure.Reason
		}
		stats.Observe(outcome.Status, category, reason)
	}

	stats.Duration = time.Since(start)

	p.logger.Info("run finished",
		logging.F(logging.FieldRunID, stats.RunID),
		logging.F("attempted", stats.Attempted),
		logging.F("accepted", stats.Accepted),
		logging.F("partial", stats.Partial),
		logging.F("rejected", stats.Rejected),
		logging.F("duplicate", stats.Duplicate),
		logging.F(logging.FieldDuration, stats.Duration.Milliseconds()),
	)

	return &Result{Transactions: transactions, Stats: stats}
}

// Sequential processing avoids pool overhead for small batches.
const smallBatchThreshold = 100

type indexedMessage struct {
	index int
	msg   models.RawMessage
}

func (p *Pipeline) runConcurrent(ctx context.Context, messages []models.RawMessage, outcomes []Outcome) {
	work := make(chan indexedMessage)

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				outcomes[item.index] = p.dispatcher.Process(item.msg)
			}
		}()
	}

	for i := range messages {
		select {
		case work <- indexedMessage{index: i, msg: messages[i]}:
		case <-ctx.Done():
			// Drain nothing further; already-queued work still completes so
			// no message is half-processed.
			close(work)
			wg.Wait()
			markCancelled(messages, outcomes)
			return
		}
	}
	close(work)
	wg.Wait()
}

// markCancelled fills in unprocessed slots after a batch-level abort so the
// exactly-one-outcome guarantee still holds.
func markCancelled(messages []models.RawMessage, outcomes []Outcome) {
	for i := range outcomes {
		if outcomes[i].Status != "" {
			continue
		}
		outcomes[i] = Outcome{
			Status: models.StatusRejected,
			Failure: &models.FailureRecord{
				RawText:     messages[i].Body,
				SourceID:    messages[i].SourceID,
				Reason:      models.ReasonNoTemplateMatch,
				Detail:      "run cancelled before processing",
				ProcessedAt: time.Now().UTC(),
			},
		}
	}
}
