// Package order contains the Order aggregate and its lifecycle state machine.
//
// An order moves through the following states:
//
//	Pending ──> Assigned ──┬──> AwaitingApproval ──> Delivered   (cash / card)
//	   ^            │      └──> Delivered                        (online / gift card)
//	   └────────────┘
//	      (courier cancel returns the order to the pool)
//
// Cancellation is deliberately not terminal: a courier backing out returns
// the order to Pending so it can be re-broadcast to the courier pool.
//
// The payment method decides the delivery path: online and gift-card orders
// are approved automatically on delivery, cash and card orders wait for an
// explicit restaurant approval.
package order
