package usecase

import (
	"context"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"
)

// AllotmentUsecase assigns vendors and couriers to orders and accepted
// returns or exchanges. Every operation addresses its record by tab and id.
type AllotmentUsecase struct {
	workflow
	vendors  domain.VendorRegistry
	tracking domain.TrackingProvider
}

func NewAllotmentUsecase(repo domain.RecordRepository, vendors domain.VendorRegistry, tracking domain.TrackingProvider, opts ...Option) *AllotmentUsecase {
	return &AllotmentUsecase{
		workflow: newWorkflow(repo, opts),
		vendors:  vendors,
		tracking: tracking,
	}
}

// ListVendors returns the vendors an admin can select from.
func (u *AllotmentUsecase) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := u.vendors.ListVendors(ctx)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, err, "vendor registry unavailable")
	}
	if vendors == nil {
		vendors = []domain.Vendor{}
	}
	return vendors, nil
}

// SetVendorAllotment opens vendor selection, or clears the vendor together
// with any allotted courier.
func (u *AllotmentUsecase) SetVendorAllotment(ctx context.Context, ref domain.RecordRef, allot bool) (domain.Record, error) {
	return u.apply(ctx, "set_vendor_allotment", ref, func(a *domain.Allotment) error {
		return a.SetVendor(allot)
	})
}

// SelectVendor stages a vendor; it can be changed until ConfirmVendor.
func (u *AllotmentUsecase) SelectVendor(ctx context.Context, ref domain.RecordRef, vendorName string) (domain.Record, error) {
	return u.apply(ctx, "select_vendor", ref, func(a *domain.Allotment) error {
		return a.SelectVendor(vendorName)
	})
}

func (u *AllotmentUsecase) ConfirmVendor(ctx context.Context, ref domain.RecordRef) (domain.Record, error) {
	return u.apply(ctx, "confirm_vendor", ref, func(a *domain.Allotment) error {
		return a.ConfirmVendor()
	})
}

// SetCourierAllotment allots a courier with a tracking id from the provider, or
// releases it. The provider is called before anything changes; if it fails the
// record stays as it was.
func (u *AllotmentUsecase) SetCourierAllotment(ctx context.Context, ref domain.RecordRef, allot bool) (domain.Record, error) {
	if !allot {
		return u.apply(ctx, "release_courier", ref, func(a *domain.Allotment) error {
			return a.ReleaseCourier()
		})
	}
	return u.apply(ctx, "allot_courier", ref, func(a *domain.Allotment) error {
		if err := a.CanAllotCourier(true); err != nil {
			return err
		}
		trackingID, err := u.tracking.TrackingID(ctx, ref)
		if err != nil {
			return domain.Wrap(domain.KindUnavailable, err, "tracking provider failed for %s", ref)
		}
		return a.AllotCourier(trackingID)
	})
}

func (u *AllotmentUsecase) apply(ctx context.Context, op string, ref domain.RecordRef, fn func(*domain.Allotment) error) (domain.Record, error) {
	rec, err := u.mutate(ctx, ref, func(rec domain.Record) error {
		if err := rec.AllotmentGuard(); err != nil {
			return err
		}
		if err := fn(rec.Allotments()); err != nil {
			return err
		}
		rec.Touch(u.now())
		return nil
	})
	if err := u.finish(ctx, op, ref, err); err != nil {
		return nil, err
	}
	a := rec.Allotments()
	logger.WithContext(ctx).Info().
		Str("record", ref.String()).
		Str("operation", op).
		Str("vendor", string(a.Vendor.State)).
		Str("courier", string(a.Courier.State)).
		Msg("Allotment Changed")
	return rec, nil
}
