package usecase

import (
	"context"
	"strings"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/cache"
	"orderdesk-backend/pkg/logger"
)

// ConfirmationUsecase walks the confirm-then-verify step sequence that guards
// sensitive actions, one step per (admin, action, record) held in the cache.
// A confirmation only counts for the admin who gave it.
type ConfirmationUsecase struct {
	steps      cache.CacheService
	verifier   domain.Verifier
	require2FA bool
	ttl        time.Duration
}

func NewConfirmationUsecase(steps cache.CacheService, verifier domain.Verifier, require2FA bool, ttl time.Duration) *ConfirmationUsecase {
	return &ConfirmationUsecase{
		steps:      cache.Namespaced("confirm", steps),
		verifier:   verifier,
		require2FA: require2FA && verifier != nil,
		ttl:        ttl,
	}
}

func stepKey(adminID, action, recordID string) string {
	return adminID + "/" + strings.ToLower(action) + "/" + recordID
}

// Step returns the calling admin's current step, idle when nothing is in
// progress, it expired, or ctx carries no admin.
func (u *ConfirmationUsecase) Step(ctx context.Context, action, recordID string) domain.WorkflowStep {
	adminID := domain.ActorID(ctx)
	if adminID == "" {
		return domain.StepIdle
	}
	if v, ok := u.steps.Get(stepKey(adminID, action, recordID)); ok {
		if s, ok := v.(domain.WorkflowStep); ok {
			return s
		}
	}
	return domain.StepIdle
}

// Advance applies ev. code is only read for the verify event.
func (u *ConfirmationUsecase) Advance(ctx context.Context, action, recordID string, ev domain.WorkflowEvent, code string) (domain.WorkflowStep, error) {
	adminID := domain.ActorID(ctx)
	if adminID == "" {
		return domain.StepIdle, domain.Errorf(domain.KindValidation, "confirmation requires an authenticated admin")
	}
	current := u.Step(ctx, action, recordID)
	next, err := current.Next(ev, u.require2FA)
	if err != nil {
		return current, err
	}
	if ev == domain.EventVerify {
		ok, err := u.verifier.Verify(ctx, adminID, code)
		if err != nil {
			return current, domain.Wrap(domain.KindUnavailable, err, "verification service failed")
		}
		if !ok {
			logger.WithContext(ctx).Warn().Str("action", action).Str("record", recordID).Str("admin", adminID).Msg("Verification Code Rejected")
			return current, domain.Errorf(domain.KindValidation, "verification code rejected")
		}
	}

	key := stepKey(adminID, action, recordID)
	if next == domain.StepIdle {
		u.steps.Delete(key)
	} else {
		u.steps.Set(key, next, u.ttl)
	}
	return next, nil
}

// Consume reports whether the calling admin confirmed the action in the on
// direction and resets the step. A confirmation is good for one use.
func (u *ConfirmationUsecase) Consume(ctx context.Context, action, recordID string) bool {
	if u.Step(ctx, action, recordID) != domain.StepDoneOn {
		return false
	}
	u.steps.Delete(stepKey(domain.ActorID(ctx), action, recordID))
	return true
}
