package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockreport/internal/domain/reports"
)

func TestJournal(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(2)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, j.Record(ctx, reports.Run{FileName: name}))
	}

	runs, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].FileName)
	assert.Equal(t, "b", runs[1].FileName)

	runs, err = j.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "c", runs[0].FileName)
}
