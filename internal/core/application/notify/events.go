package notify

// Live-channel event names. These are part of the client contract and must
// not change without coordinating mobile releases.
const (
	// To couriers.
	EventNewOrder         = "new_order"
	EventNewOrderAssigned = "new_order_assigned"
	EventOrderApproved    = "order_approved"
	EventOrderDelivered   = "order_delivered"
	EventOrderReminder    = "order_reminder"
	EventForceLogout      = "forceLogout"

	// To restaurants.
	EventOrderStatusUpdate     = "orderStatusUpdate"
	EventDeliveryCompleted     = "delivery:completed"
	EventDeliveryNeedsApproval = "delivery:needs-approval"
	EventOrderCancelled        = "orderCancelled"
	EventOrderDeleted          = "orderDeleted"

	// To admins.
	EventCourierOnlineChanged    = "courierOnlineStatusChanged"
	EventRestaurantOnlineChanged = "restaurantOnlineStatusChanged"
	EventCourierLocationUpdate   = "courierLocationUpdate"
	EventPendingOrderAlert       = "pendingOrderAlert"
)

// Event is a notifiable occurrence addressed to one recipient kind. Name is
// the live-channel event name and doubles as the push "type" for client-side
// routing; Title and Body are only used when the event falls back to push.
type Event struct {
	Name  string
	Title string
	Body  string

	// Data carries the order id and related ids for client-side routing.
	Data map[string]string
}
