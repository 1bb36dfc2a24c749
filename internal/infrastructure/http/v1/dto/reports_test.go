package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockreport/internal/core/apperror"
	"stockreport/internal/domain/reports"
)

func TestStockMovementRequest_ToRequest(t *testing.T) {
	defaults := reports.DefaultRequest(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	no := false

	req, err := StockMovementRequest{
		DateTo:       "2024-03-31",
		WarehouseIDs: []int64{1},
		IncludeSales: &no,
	}.ToRequest(defaults)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), req.DateFrom)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), req.DateTo)
	assert.Equal(t, []int64{1}, req.WarehouseIDs)
	assert.True(t, req.Channels.Purchases)
	assert.False(t, req.Channels.Sales)
	assert.True(t, req.Channels.POS)
}

func TestStockMovementRequest_BadDate(t *testing.T) {
	_, err := StockMovementRequest{DateFrom: "2024-13-01"}.ToRequest(reports.Request{})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
