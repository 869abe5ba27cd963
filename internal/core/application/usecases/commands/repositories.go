// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, persistence, and post-commit notification.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each command depends on the narrowest unit of work that covers the
// aggregates it touches.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// RestaurantRepoFactory provides access to the restaurant repository within a transaction.
	RestaurantRepoFactory interface {
		RestaurantRepository() ports.RestaurantRepository
	}

	// SessionRepoFactory provides access to the session repository within a transaction.
	SessionRepoFactory interface {
		SessionRepository() ports.SessionRepository
	}

	// PreferenceRepoFactory provides access to the preference repository within a transaction.
	PreferenceRepoFactory interface {
		PreferenceRepository() ports.PreferenceRepository
	}

	// PushTokenRepoFactory provides access to the push token repository within a transaction.
	PushTokenRepoFactory interface {
		PushTokenRepository() ports.PushTokenRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderCourierUoW manages transactions spanning order and courier
	// aggregates, used when completing a delivery updates both.
	OrderCourierUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
	}

	// OrderCourierUoWFactory creates new order+courier unit of work instances.
	OrderCourierUoWFactory interface {
		Create() OrderCourierUoW
	}

	// DispatchUoW manages transactions for operations that place an order
	// into the pending pool and resolve its eligible courier audience.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		RestaurantRepoFactory
		PreferenceRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// SessionUoW manages transactions for session operations. Invalidation
	// of prior sessions and insertion of the replacement happen inside one
	// transaction so the single-active-session invariant holds at every
	// observable instant.
	SessionUoW interface {
		TxManager
		SessionRepoFactory
	}

	// SessionUoWFactory creates new session unit of work instances.
	SessionUoWFactory interface {
		Create() SessionUoW
	}

	// PreferenceUoW manages transactions for preference updates, which touch
	// the owning aggregate's mode flag and its opt-in edge set together.
	PreferenceUoW interface {
		TxManager
		CourierRepoFactory
		RestaurantRepoFactory
		PreferenceRepoFactory
	}

	// PreferenceUoWFactory creates new preference unit of work instances.
	PreferenceUoWFactory interface {
		Create() PreferenceUoW
	}

	// PushTokenUoW manages transactions for push token registration.
	PushTokenUoW interface {
		TxManager
		PushTokenRepoFactory
	}

	// PushTokenUoWFactory creates new push token unit of work instances.
	PushTokenUoWFactory interface {
		Create() PushTokenUoW
	}
)
