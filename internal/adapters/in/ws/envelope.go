// Package ws is the websocket gateway: it owns connection lifecycle
// (join, duplicate-login eviction, heartbeat) and routes inbound typed
// events to command handlers. The core talks to it only through the
// ports.ConnectionRegistry interface.
package ws

import "encoding/json"

// Envelope is the wire format of every message in both directions:
// an event name plus an event-specific JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names accepted by the router.
const (
	EventJoinCourierRoom      = "joinCourierRoom"
	EventJoinRestaurantRoom   = "joinRestaurantRoom"
	EventLocationUpdate       = "locationUpdate"
	EventCancelOrder          = "cancelOrder"
	EventDeliverOrder         = "deliverOrder"
	EventDeliveryConfirmation = "deliveryConfirmation"
	EventApproveDelivery      = "approveDelivery"
)
