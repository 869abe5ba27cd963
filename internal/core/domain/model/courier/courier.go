package courier

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// NotifyMode controls which restaurants' new orders reach the courier.
type NotifyMode string

const (
	// NotifyAllRestaurants delivers new-order broadcasts from every restaurant.
	NotifyAllRestaurants NotifyMode = "all_restaurants"

	// NotifySelectedRestaurants limits broadcasts to restaurants the courier
	// explicitly opted into.
	NotifySelectedRestaurants NotifyMode = "selected_restaurants"
)

// Validate checks the mode against the known set.
func (m NotifyMode) Validate() error {
	switch m {
	case NotifyAllRestaurants, NotifySelectedRestaurants:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"notifyMode is invalid",
			fmt.Errorf("%q is not a valid notification mode", string(m)),
		)
	}
}

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")
	// ErrCourierIsBlocked is returned when a blocked courier attempts to go online.
	ErrCourierIsBlocked = errors.New("courier is blocked")
)

// Courier represents a delivery courier. It is an aggregate root managing
// courier identity, presence and dispatch-relevant preferences.
//
// Business rules:
//   - Courier must have a valid UUID and a non-empty name
//   - A blocked courier can neither go online nor receive orders
//   - The online flag tracks the live connection: it flips true on join and
//     false on disconnect or block
//   - The last known location is advisory and updated through the throttled
//     location relay
type Courier struct {
	id   kernel.UUID
	name string

	online  bool
	blocked bool

	notifyMode NotifyMode

	// location is the last persisted position, nil until the first relay.
	location *kernel.GeoPoint

	// deliveredCount counts confirmed deliveries, onlineMinutes accumulates
	// presence time. Both are informational counters.
	deliveredCount int
	onlineMinutes  int

	isConstructed bool
}

// NewCourier creates a courier with the default NotifyAllRestaurants mode,
// offline and unblocked.
func NewCourier(id kernel.UUID, name string) (*Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}

	return &Courier{
		id:            id,
		name:          name,
		notifyMode:    NotifyAllRestaurants,
		isConstructed: true,
	}, nil
}

// RestoreCourier reconstructs a courier from persistence.
func RestoreCourier(
	id kernel.UUID,
	name string,
	online, blocked bool,
	notifyMode NotifyMode,
	location *kernel.GeoPoint,
	deliveredCount, onlineMinutes int,
) (*Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}
	if err := notifyMode.Validate(); err != nil {
		return nil, err
	}

	return &Courier{
		id:             id,
		name:           name,
		online:         online,
		blocked:        blocked,
		notifyMode:     notifyMode,
		location:       location,
		deliveredCount: deliveredCount,
		onlineMinutes:  onlineMinutes,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Courier was properly constructed.
func (c *Courier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCourierIsNotConstructed
	}
	return nil
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the courier's display name.
func (c *Courier) Name() string {
	return c.name
}

// IsOnline reports whether the courier currently holds a live connection.
func (c *Courier) IsOnline() bool {
	return c.online
}

// IsBlocked reports whether the courier is blocked from receiving orders.
func (c *Courier) IsBlocked() bool {
	return c.blocked
}

// NotifyMode returns the courier's notification mode.
func (c *Courier) NotifyMode() NotifyMode {
	return c.notifyMode
}

// Location returns the last persisted position, or nil before the first
// relayed update.
func (c *Courier) Location() *kernel.GeoPoint {
	return c.location
}

// DeliveredCount returns the number of confirmed deliveries.
func (c *Courier) DeliveredCount() int {
	return c.deliveredCount
}

// OnlineMinutes returns the accumulated presence minutes.
func (c *Courier) OnlineMinutes() int {
	return c.onlineMinutes
}

// GoOnline marks the courier present after a successful live-connection
// join. Blocked couriers stay offline.
func (c *Courier) GoOnline() error {
	if c.blocked {
		return ErrCourierIsBlocked
	}
	c.online = true
	return nil
}

// GoOffline marks the courier absent, crediting the online time since the
// given join timestamp to the minutes counter.
func (c *Courier) GoOffline(joinedAt, now time.Time) {
	c.online = false
	if !joinedAt.IsZero() && now.After(joinedAt) {
		c.onlineMinutes += int(now.Sub(joinedAt) / time.Minute)
	}
}

// Block bars the courier from dispatch and forces it offline.
func (c *Courier) Block() {
	c.blocked = true
	c.online = false
}

// Unblock lifts the bar; the courier stays offline until the next join.
func (c *Courier) Unblock() {
	c.blocked = false
}

// SetNotifyMode changes the courier's notification mode.
func (c *Courier) SetNotifyMode(mode NotifyMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	c.notifyMode = mode
	return nil
}

// SetLocation records a relayed position as the last known location.
func (c *Courier) SetLocation(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.location = &p
	return nil
}

// RecordDelivery increments the confirmed-delivery counter.
func (c *Courier) RecordDelivery() {
	c.deliveredCount++
}
