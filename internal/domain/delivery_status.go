package domain

// Delivery status labels shown in the console. The strings are part of the API.
const (
	DeliveryOrderPlaced     = "Order Placed"
	DeliveryPendingShipment = "Pending Shipment"
	DeliveryShipped         = "Shipped"
	DeliveryInTransit       = "In Transit"
	DeliveryOutForDelivery  = "Out for Delivery"
	DeliveryDelivered       = "Delivered"
	DeliveryCancelled       = "Cancelled"

	DeliveryReturnRequested   = "Return Requested"
	DeliveryReturnApproved    = "Return Approved"
	DeliveryReturnRejected    = "Return Rejected"
	DeliveryExchangeRequested = "Exchange Requested"
	DeliveryExchangeAccepted  = "Exchange Accepted"
	DeliveryExchangeRejected  = "Exchange Rejected"
)

// TransitStep is the caller-driven sub-step of a shipped order.
type TransitStep string

const (
	TransitNone           TransitStep = ""
	TransitInTransit      TransitStep = "in_transit"
	TransitOutForDelivery TransitStep = "out_for_delivery"
)

// OrderDeliveryStatus is the only place an order's delivery status is computed.
func OrderDeliveryStatus(status OrderStatus, courier CourierState, step TransitStep) string {
	switch status {
	case OrderStatusPending:
		return DeliveryOrderPlaced
	case OrderStatusProcessing, OrderStatusAllottedToVendor:
		if courier == CourierAllotted {
			return DeliveryShipped
		}
		return DeliveryPendingShipment
	case OrderStatusShipped:
		if step == TransitOutForDelivery {
			return DeliveryOutForDelivery
		}
		return DeliveryInTransit
	case OrderStatusDelivered:
		return DeliveryDelivered
	case OrderStatusCancelled, OrderStatusRejected:
		return DeliveryCancelled
	}
	return ""
}

// RequestDeliveryStatus labels a return or exchange by its decision.
func RequestDeliveryStatus(kind RequestKind, decision DecisionStatus) string {
	labels := map[DecisionStatus]string{
		DecisionPending:  DeliveryReturnRequested,
		DecisionAccepted: DeliveryReturnApproved,
		DecisionRejected: DeliveryReturnRejected,
	}
	if kind == RequestKindExchange {
		labels = map[DecisionStatus]string{
			DecisionPending:  DeliveryExchangeRequested,
			DecisionAccepted: DeliveryExchangeAccepted,
			DecisionRejected: DeliveryExchangeRejected,
		}
	}
	return labels[decision]
}
