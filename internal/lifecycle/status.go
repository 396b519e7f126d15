package lifecycle

import (
	"errors"
	"fmt"
)

// Status is the persisted lifecycle key of an order.
type Status string

const (
	StatusPaymentPending  Status = "payment_pending"
	StatusPaymentVerified Status = "payment_verified"
	StatusBeingPrepared   Status = "being_prepared"
	StatusShipped         Status = "shipped"
	StatusReceived        Status = "received"
	StatusInUse           Status = "in_use"
	StatusReturned        Status = "returned"
	StatusCompleted       Status = "completed"
)

// ErrInvalidStatus is returned for status values outside the fixed stage table.
var ErrInvalidStatus = errors.New("invalid order status")

var statusIndex = map[Status]int{
	StatusPaymentPending:  0,
	StatusPaymentVerified: 1,
	StatusBeingPrepared:   2,
	StatusShipped:         3,
	StatusReceived:        4,
	StatusInUse:           5,
	StatusReturned:        6,
	StatusCompleted:       7,
}

// ParseStatus resolves a raw status key. Only exact, lowercase keys are accepted.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := statusIndex[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Index returns the stage index of the status.
func (s Status) Index() (int, bool) {
	i, ok := statusIndex[s]
	return i, ok
}

// Valid reports whether the status is one of the eight stage keys.
func (s Status) Valid() bool {
	_, ok := statusIndex[s]
	return ok
}

// Terminal reports whether no stage follows s.
func (s Status) Terminal() bool {
	return s == StatusCompleted
}

func (s Status) String() string {
	return string(s)
}

// CanAdvance reports whether an order may move from one status to another.
// Only forward moves are legal; there is no cancellation path.
func CanAdvance(from, to Status) bool {
	fi, ok := from.Index()
	if !ok {
		return false
	}
	ti, ok := to.Index()
	if !ok {
		return false
	}
	return ti > fi
}
