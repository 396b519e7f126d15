package dto

import (
	"time"

	"github.com/Additional-Code/rentcamp/internal/entity"
	"github.com/Additional-Code/rentcamp/internal/lifecycle"
	"github.com/Additional-Code/rentcamp/internal/thread"
)

// LateFeePerDay is the charge for each day a rental is returned late.
const LateFeePerDay int64 = 50000

// TimelineStageResponse is one entry of the rendered timeline.
type TimelineStageResponse struct {
	Index             int    `json:"index"`
	Status            string `json:"status"`
	Label             string `json:"label"`
	Description       string `json:"description"`
	EstimatedDuration string `json:"estimated_duration"`
	Completed         bool   `json:"completed"`
	Current           bool   `json:"current"`
}

// TrackingResponse is the tracking page payload.
type TrackingResponse struct {
	Order                OrderResponse           `json:"order"`
	Timeline             []TimelineStageResponse `json:"timeline"`
	Notice               string                  `json:"notice"`
	LateFeePerDay        int64                   `json:"late_fee_per_day"`
	LateFeePerDayDisplay string                  `json:"late_fee_per_day_display"`
}

// NewTrackingResponse renders an order with its timeline.
func NewTrackingResponse(o *entity.Order, timeline lifecycle.Timeline, current lifecycle.TimelineStage) TrackingResponse {
	stages := make([]TimelineStageResponse, 0, len(timeline))
	for _, s := range timeline {
		stages = append(stages, TimelineStageResponse{
			Index:             s.Index,
			Status:            string(s.Status),
			Label:             s.Label,
			Description:       s.Description,
			EstimatedDuration: s.EstimatedDuration,
			Completed:         s.Completed,
			Current:           s.Current,
		})
	}
	return TrackingResponse{
		Order:                NewOrderResponse(o),
		Timeline:             stages,
		Notice:               current.Notice,
		LateFeePerDay:        LateFeePerDay,
		LateFeePerDayDisplay: FormatRupiah(LateFeePerDay),
	}
}

// ChatMessageResponse is one support message.
type ChatMessageResponse struct {
	ID      int64     `json:"id"`
	OrderID string    `json:"order_id"`
	Sender  string    `json:"sender"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// NewChatMessageResponse maps a thread message.
func NewChatMessageResponse(m thread.Message) ChatMessageResponse {
	return ChatMessageResponse{
		ID:      m.ID,
		OrderID: m.OrderID,
		Sender:  string(m.Sender),
		Body:    m.Body,
		SentAt:  m.SentAt,
	}
}

// NewChatMessagesResponse maps a whole thread, never returning nil.
func NewChatMessagesResponse(msgs []thread.Message) []ChatMessageResponse {
	out := make([]ChatMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewChatMessageResponse(m))
	}
	return out
}
