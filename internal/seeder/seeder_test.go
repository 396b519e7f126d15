package seeder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Additional-Code/rentcamp/internal/lifecycle"
	"github.com/Additional-Code/rentcamp/internal/thread"
)

func TestSampleOrders(t *testing.T) {
	for _, o := range SampleOrders() {
		assert.Regexp(t, `^RC-\d{8}-[0-9A-Z]{9}$`, o.ID)
		assert.True(t, lifecycle.Status(o.Status).Valid(), o.Status)
		assert.False(t, o.RentalEndDate.Before(o.RentalStartDate))
		assert.Positive(t, o.TotalPrice)
	}
}

func TestSampleMessages(t *testing.T) {
	msgs := SampleMessages()
	assert.Len(t, msgs, 3)
	for i, m := range msgs {
		assert.Equal(t, int64(i+1), m.Seq)
		assert.True(t, thread.Sender(m.Sender).Valid())
		if i > 0 {
			assert.True(t, m.SentAt.After(msgs[i-1].SentAt))
		}
	}
}
