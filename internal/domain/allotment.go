package domain

import "strings"

type VendorState string

const (
	VendorNotAllotted      VendorState = "not_allotted"
	VendorSelectionPending VendorState = "selection_pending"
	VendorAllotted         VendorState = "allotted"
)

type CourierState string

const (
	CourierNotAllotted CourierState = "not_allotted"
	CourierAllotted    CourierState = "allotted"
)

// VendorAllotment carries a staged Selection while the selection step is open;
// VendorName is only set once the selection is confirmed.
type VendorAllotment struct {
	State      VendorState `json:"state"`
	VendorName string      `json:"vendorName,omitempty"`
	Selection  string      `json:"selection,omitempty"`
}

type CourierAllotment struct {
	State      CourierState `json:"state"`
	TrackingID string       `json:"trackingId,omitempty"`
}

// Allotment is embedded in every record that can be fulfilled.
type Allotment struct {
	Vendor  VendorAllotment  `json:"vendorAllotment"`
	Courier CourierAllotment `json:"courierAllotment"`
}

func NewAllotment() Allotment {
	return Allotment{
		Vendor:  VendorAllotment{State: VendorNotAllotted},
		Courier: CourierAllotment{State: CourierNotAllotted},
	}
}

// Allotments exposes the embedded value for generic allotment handling.
func (a *Allotment) Allotments() *Allotment { return a }

// SetVendor opens the vendor selection step (allot) or clears the vendor and,
// with it, the courier.
func (a *Allotment) SetVendor(allot bool) error {
	if !allot {
		a.Vendor = VendorAllotment{State: VendorNotAllotted}
		a.Courier = CourierAllotment{State: CourierNotAllotted}
		return nil
	}
	if a.Vendor.State != VendorNotAllotted {
		return Errorf(KindIllegalTransition, "vendor allotment is already %s", a.Vendor.State)
	}
	a.Vendor = VendorAllotment{State: VendorSelectionPending}
	return nil
}

// SelectVendor stages a vendor. It may be called repeatedly before confirming.
func (a *Allotment) SelectVendor(name string) error {
	if a.Vendor.State != VendorSelectionPending {
		return Errorf(KindIllegalTransition, "vendor selection is not open (vendor allotment is %s)", a.Vendor.State)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Errorf(KindInvalidSelection, "vendor name must not be empty")
	}
	a.Vendor.Selection = name
	return nil
}

func (a *Allotment) ConfirmVendor() error {
	if a.Vendor.State != VendorSelectionPending {
		return Errorf(KindIllegalTransition, "vendor selection is not open (vendor allotment is %s)", a.Vendor.State)
	}
	if a.Vendor.Selection == "" {
		return Errorf(KindInvalidSelection, "no vendor has been selected")
	}
	a.Vendor = VendorAllotment{State: VendorAllotted, VendorName: a.Vendor.Selection}
	return nil
}

// CanAllotCourier checks the courier guard without mutating anything, so
// callers can fetch a tracking id before applying AllotCourier.
func (a *Allotment) CanAllotCourier(allot bool) error {
	if a.Vendor.State != VendorAllotted {
		return Errorf(KindVendorNotAllotted, "a vendor must be allotted before a courier")
	}
	if allot && a.Courier.State == CourierAllotted {
		return Errorf(KindIllegalTransition, "courier is already allotted (tracking id %s)", a.Courier.TrackingID)
	}
	return nil
}

func (a *Allotment) AllotCourier(trackingID string) error {
	if err := a.CanAllotCourier(true); err != nil {
		return err
	}
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return Errorf(KindUnavailable, "courier provider returned an empty tracking id")
	}
	a.Courier = CourierAllotment{State: CourierAllotted, TrackingID: trackingID}
	return nil
}

func (a *Allotment) ReleaseCourier() error {
	if err := a.CanAllotCourier(false); err != nil {
		return err
	}
	a.Courier = CourierAllotment{State: CourierNotAllotted}
	return nil
}

// Validate checks the allotment invariants.
func (a Allotment) Validate() error {
	switch a.Vendor.State {
	case VendorNotAllotted, VendorSelectionPending, VendorAllotted:
	default:
		return Errorf(KindValidation, "unknown vendor allotment state %q", a.Vendor.State)
	}
	switch a.Courier.State {
	case CourierNotAllotted, CourierAllotted:
	default:
		return Errorf(KindValidation, "unknown courier allotment state %q", a.Courier.State)
	}
	if (a.Vendor.State == VendorAllotted) != (a.Vendor.VendorName != "") {
		return Errorf(KindValidation, "vendor name must be set exactly when the vendor is allotted")
	}
	if a.Vendor.State != VendorSelectionPending && a.Vendor.Selection != "" {
		return Errorf(KindValidation, "vendor selection is only staged while selection is pending")
	}
	if (a.Courier.State == CourierAllotted) != (a.Courier.TrackingID != "") {
		return Errorf(KindValidation, "tracking id must be set exactly when the courier is allotted")
	}
	if a.Courier.State == CourierAllotted && a.Vendor.State != VendorAllotted {
		return Errorf(KindValidation, "courier is allotted without an allotted vendor")
	}
	return nil
}
