package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/rentcamp/internal/entity"
	"github.com/Additional-Code/rentcamp/internal/lifecycle"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 750.000", FormatRupiah(750000))
	assert.Equal(t, "Rp 50.000", FormatRupiah(50000))
	assert.Equal(t, "Rp 0", FormatRupiah(0))
}

func TestNewOrderResponse(t *testing.T) {
	resp := NewOrderResponse(&entity.Order{ID: "RC-1", Status: "in_use", TotalPrice: 450000})
	assert.Equal(t, 5, resp.CurrentStep)
	assert.Equal(t, "Rp 450.000", resp.TotalPriceDisplay)

	assert.Equal(t, -1, NewOrderResponse(&entity.Order{Status: "bogus"}).CurrentStep)
}

func TestNewTrackingResponse(t *testing.T) {
	order := &entity.Order{ID: "RC-20240115-ABC123DEF", Status: "shipped", TotalPrice: 750000}
	timeline, err := lifecycle.BuildTimeline(order.Status)
	require.NoError(t, err)
	current, ok := timeline.Current()
	require.True(t, ok)

	resp := NewTrackingResponse(order, timeline, current)
	require.Len(t, resp.Timeline, lifecycle.StageCount)
	assert.True(t, resp.Timeline[3].Current)
	assert.Equal(t, "shipped", resp.Timeline[3].Status)
	assert.Equal(t, current.Notice, resp.Notice)
	assert.Equal(t, int64(50000), resp.LateFeePerDay)
	assert.Equal(t, 3, resp.Order.CurrentStep)
}

func TestNewChatMessagesResponse_Empty(t *testing.T) {
	resp := NewChatMessagesResponse(nil)
	assert.NotNil(t, resp)
	assert.Empty(t, resp)
}
