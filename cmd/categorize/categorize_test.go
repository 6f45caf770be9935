package categorize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"momo-etl/cmd/categorize"
)

func TestCategorizeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "categorize", categorize.Cmd.Use)
	assert.Contains(t, categorize.Cmd.Short, "Categorize a single SMS message")
	assert.Contains(t, categorize.Cmd.Long, "JSON")
	assert.NotNil(t, categorize.Cmd.Run)
}
