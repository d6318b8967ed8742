package domain

import (
	"context"
	"time"
)

// RecordRef addresses a record in one of the three collections.
type RecordRef struct {
	Tab Tab    `json:"tab"`
	ID  string `json:"id"`
}

func (r RecordRef) String() string { return string(r.Tab) + "/" + r.ID }

// Record is implemented by *Order and *ServiceRequest.
type Record interface {
	Ref() RecordRef
	RecordVersion() int64
	StatusLabel() string
	TypeOf() OrderType
	CreatedOn() time.Time
	Allotments() *Allotment
	AllotmentGuard() error
	Touch(now time.Time)
	Validate() error
}

var (
	_ Record = (*Order)(nil)
	_ Record = (*ServiceRequest)(nil)
)

type expectedVersionKey struct{}

// WithExpectedVersion makes the next mutation fail with Conflict unless the
// record still has version v (HTTP If-Match).
func WithExpectedVersion(ctx context.Context, v int64) context.Context {
	return context.WithValue(ctx, expectedVersionKey{}, v)
}

func ExpectedVersion(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(expectedVersionKey{}).(int64)
	return v, ok
}

// CheckExpectedVersion compares rec against the version carried in ctx, if any.
func CheckExpectedVersion(ctx context.Context, rec Record) error {
	if v, ok := ExpectedVersion(ctx); ok && v != rec.RecordVersion() {
		return Errorf(KindConflict, "%s is at version %d, not %d", rec.Ref(), rec.RecordVersion(), v)
	}
	return nil
}
