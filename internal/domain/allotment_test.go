package domain

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allottedVendor(t *testing.T) Allotment {
	t.Helper()
	a := NewAllotment()
	require.NoError(t, a.SetVendor(true))
	require.NoError(t, a.SelectVendor("ven 2"))
	require.NoError(t, a.ConfirmVendor())
	return a
}

func TestAllotment_VendorSelection(t *testing.T) {
	a := NewAllotment()

	require.NoError(t, a.SetVendor(true))
	assert.Equal(t, VendorSelectionPending, a.Vendor.State)
	assert.Empty(t, a.Vendor.VendorName)

	err := a.ConfirmVendor()
	assert.True(t, IsKind(err, KindInvalidSelection))

	assert.True(t, IsKind(a.SelectVendor("   "), KindInvalidSelection))

	require.NoError(t, a.SelectVendor("ven 1"))
	require.NoError(t, a.SelectVendor(" ven 2 "))
	assert.Equal(t, VendorSelectionPending, a.Vendor.State)
	assert.Empty(t, a.Vendor.VendorName, "the name is only set on confirmation")
	assert.NoError(t, a.Validate())

	require.NoError(t, a.ConfirmVendor())
	assert.Equal(t, VendorAllotment{State: VendorAllotted, VendorName: "ven 2"}, a.Vendor)
	assert.NoError(t, a.Validate())
}

func TestAllotment_SelectOutsideSelectionStep(t *testing.T) {
	a := NewAllotment()
	assert.True(t, IsKind(a.SelectVendor("ven 1"), KindIllegalTransition))
	assert.True(t, IsKind(a.ConfirmVendor(), KindIllegalTransition))

	a = allottedVendor(t)
	assert.True(t, IsKind(a.SetVendor(true), KindIllegalTransition))
	assert.True(t, IsKind(a.SelectVendor("ven 3"), KindIllegalTransition))
	assert.Equal(t, "ven 2", a.Vendor.VendorName)
}

func TestAllotment_CourierRequiresVendor(t *testing.T) {
	for _, a := range []Allotment{NewAllotment(), func() Allotment {
		a := NewAllotment()
		require.NoError(t, a.SetVendor(true))
		return a
	}()} {
		assert.True(t, IsKind(a.AllotCourier("TRK-1"), KindVendorNotAllotted))
		assert.True(t, IsKind(a.ReleaseCourier(), KindVendorNotAllotted))
		assert.Equal(t, CourierNotAllotted, a.Courier.State)
	}
}

func TestAllotment_CourierLifecycle(t *testing.T) {
	a := allottedVendor(t)

	assert.True(t, IsKind(a.AllotCourier(" "), KindUnavailable))
	assert.Equal(t, CourierNotAllotted, a.Courier.State)

	require.NoError(t, a.AllotCourier("TRK-1"))
	assert.Equal(t, CourierAllotment{State: CourierAllotted, TrackingID: "TRK-1"}, a.Courier)
	assert.True(t, IsKind(a.AllotCourier("TRK-2"), KindIllegalTransition))

	require.NoError(t, a.ReleaseCourier())
	assert.Equal(t, CourierAllotment{State: CourierNotAllotted}, a.Courier)
	assert.NoError(t, a.Validate())
}

func TestAllotment_UnallotVendorCascades(t *testing.T) {
	a := allottedVendor(t)
	require.NoError(t, a.AllotCourier("TRK-1"))

	require.NoError(t, a.SetVendor(false))

	assert.Equal(t, VendorAllotment{State: VendorNotAllotted}, a.Vendor)
	assert.Equal(t, CourierAllotment{State: CourierNotAllotted}, a.Courier)
	assert.NoError(t, a.Validate())
}

func TestAllotment_Validate(t *testing.T) {
	tests := []struct {
		name string
		a    Allotment
	}{
		{"courier without vendor", Allotment{
			Vendor:  VendorAllotment{State: VendorNotAllotted},
			Courier: CourierAllotment{State: CourierAllotted, TrackingID: "T"},
		}},
		{"allotted vendor without name", Allotment{
			Vendor:  VendorAllotment{State: VendorAllotted},
			Courier: CourierAllotment{State: CourierNotAllotted},
		}},
		{"name without allotment", Allotment{
			Vendor:  VendorAllotment{State: VendorSelectionPending, VendorName: "ven 1"},
			Courier: CourierAllotment{State: CourierNotAllotted},
		}},
		{"courier without tracking id", Allotment{
			Vendor:  VendorAllotment{State: VendorAllotted, VendorName: "ven 1"},
			Courier: CourierAllotment{State: CourierAllotted},
		}},
		{"unknown state", Allotment{
			Vendor:  VendorAllotment{State: "maybe"},
			Courier: CourierAllotment{State: CourierNotAllotted},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsKind(tt.a.Validate(), KindValidation))
		})
	}
}

func TestOrderDeliveryStatus_IsPure(t *testing.T) {
	// Two orders reaching the same (status, vendor, courier) along different
	// paths must carry the same label.
	a := newTestOrder("A")
	require.NoError(t, a.Accept("admin", testNow))
	require.NoError(t, a.SetVendor(true))
	require.NoError(t, a.SelectVendor("ven 1"))
	require.NoError(t, a.ConfirmVendor())
	require.NoError(t, a.AllotCourier("TRK-A"))
	a.Touch(testNow)

	b := newTestOrder("B")
	require.NoError(t, b.SetVendor(true))
	require.NoError(t, b.SelectVendor("ven 9"))
	require.NoError(t, b.ConfirmVendor())
	require.NoError(t, b.AllotCourier("TRK-B"))
	require.NoError(t, b.ReleaseCourier())
	require.NoError(t, b.AllotCourier("TRK-C"))
	b.Touch(testNow)
	require.NoError(t, b.Accept("admin", testNow))

	assert.Equal(t, DeliveryShipped, a.DeliveryStatus)
	assert.Equal(t, a.DeliveryStatus, b.DeliveryStatus)
}

func TestOrderDeliveryStatus_Table(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		courier CourierState
		step    TransitStep
		want    string
	}{
		{OrderStatusPending, CourierNotAllotted, TransitNone, DeliveryOrderPlaced},
		{OrderStatusPending, CourierAllotted, TransitNone, DeliveryOrderPlaced},
		{OrderStatusProcessing, CourierNotAllotted, TransitNone, DeliveryPendingShipment},
		{OrderStatusAllottedToVendor, CourierNotAllotted, TransitNone, DeliveryPendingShipment},
		{OrderStatusProcessing, CourierAllotted, TransitNone, DeliveryShipped},
		{OrderStatusAllottedToVendor, CourierAllotted, TransitNone, DeliveryShipped},
		{OrderStatusShipped, CourierAllotted, TransitInTransit, DeliveryInTransit},
		{OrderStatusShipped, CourierAllotted, TransitOutForDelivery, DeliveryOutForDelivery},
		{OrderStatusDelivered, CourierAllotted, TransitOutForDelivery, DeliveryDelivered},
		{OrderStatusCancelled, CourierAllotted, TransitInTransit, DeliveryCancelled},
		{OrderStatusRejected, CourierNotAllotted, TransitNone, DeliveryCancelled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OrderDeliveryStatus(tt.status, tt.courier, tt.step), "%s/%s/%s", tt.status, tt.courier, tt.step)
	}
}

func TestVendorAllotment_JSONStagesSelection(t *testing.T) {
	a := NewAllotment()
	require.NoError(t, a.SetVendor(true))
	require.NoError(t, a.SelectVendor("ven 1"))

	raw, err := json.Marshal(a.Vendor)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"selection_pending","selection":"ven 1"}`, string(raw))

	require.NoError(t, a.ConfirmVendor())
	raw, err = json.Marshal(a.Vendor)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"allotted","vendorName":"ven 1"}`, string(raw))
}
