package sink

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momo-etl/internal/models"
)

func failure(reason models.FailureReason, text string) models.FailureRecord {
	return models.FailureRecord{
		RawText:     text,
		Reason:      reason,
		ProcessedAt: time.Now().UTC(),
	}
}

func TestMemoryPreservesOrder(t *testing.T) {
	m := NewMemory()
	m.Record(failure(models.ReasonNoTemplateMatch, "first"))
	m.Record(failure(models.ReasonInvalidAmount, "second"))

	got := m.Failures()
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].RawText)
	assert.Equal(t, "second", got[1].RawText)
	assert.Equal(t, 2, m.Len())
}

func TestMemoryConcurrentRecord(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Record(failure(models.ReasonNoTemplateMatch, "msg"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}

func TestWriterEmitsJSONL(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Record(failure(models.ReasonNoTemplateMatch, "unmatched text"))
	w.Record(failure(models.ReasonDuplicate, "repeated text"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first models.FailureRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, models.ReasonNoTemplateMatch, first.Reason)
	assert.Equal(t, "unmatched text", first.RawText)

	assert.Equal(t, 0, w.Dropped())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestWriterCountsDropsInsteadOfFailing(t *testing.T) {
	w := NewWriter(failingWriter{})
	w.Record(failure(models.ReasonNoTemplateMatch, "text"))
	assert.Equal(t, 1, w.Dropped())
}

func TestTeeFansOut(t *testing.T) {
	a := NewMemory()
	b := NewMemory()
	tee := Tee{a, b}

	tee.Record(failure(models.ReasonInvalidAmount, "bad amount"))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}
