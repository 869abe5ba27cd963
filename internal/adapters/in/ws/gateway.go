package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
)

// TokenParser verifies a bearer token and extracts the authenticated
// identity plus the session token id (jti).
type TokenParser interface {
	Parse(token string) (kernel.Identity, kernel.UUID, error)
}

// Gateway upgrades authenticated HTTP requests to websocket connections,
// registers them, and routes inbound events to command handlers.
type Gateway struct {
	registry *Registry
	router   *Router
	tokens   TokenParser
	upgrader websocket.Upgrader

	bindSessions commands.BindSessionCommandHandler
	presence     commands.SetCourierPresenceCommandHandler
	relay        *commands.RelayLocationCommandHandler
	deliverOrder commands.DeliverOrderCommandHandler
	cancelOrder  commands.CancelOrderCommandHandler
	approve      commands.ApproveDeliveryCommandHandler

	logger *slog.Logger
}

// NewGateway creates the gateway and registers the inbound event routes.
func NewGateway(
	registry *Registry,
	tokens TokenParser,
	bindSessions commands.BindSessionCommandHandler,
	presence commands.SetCourierPresenceCommandHandler,
	relay *commands.RelayLocationCommandHandler,
	deliverOrder commands.DeliverOrderCommandHandler,
	cancelOrder commands.CancelOrderCommandHandler,
	approve commands.ApproveDeliveryCommandHandler,
	logger *slog.Logger,
) *Gateway {
	g := &Gateway{
		registry: registry,
		router:   NewRouter(logger),
		tokens:   tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		bindSessions: bindSessions,
		presence:     presence,
		relay:        relay,
		deliverOrder: deliverOrder,
		cancelOrder:  cancelOrder,
		approve:      approve,
		logger:       logger.With("component", "ws_gateway"),
	}

	g.router.Register(EventJoinCourierRoom, g.handleJoinCourierRoom)
	g.router.Register(EventJoinRestaurantRoom, g.handleJoinRestaurantRoom)
	g.router.Register(EventLocationUpdate, g.handleLocationUpdate)
	g.router.Register(EventCancelOrder, g.handleCancelOrder)
	g.router.Register(EventDeliverOrder, g.handleDeliverOrder)
	g.router.Register(EventDeliveryConfirmation, g.handleDeliverOrder)
	g.router.Register(EventApproveDelivery, g.handleApproveDelivery)

	return g
}

// Handle is the echo route upgrading to a websocket connection. The token
// travels in the "token" query parameter or the Authorization header.
func (g *Gateway) Handle(ctx echo.Context) error {
	token := ctx.QueryParam("token")
	if token == "" {
		token = strings.TrimPrefix(ctx.Request().Header.Get("Authorization"), "Bearer ")
	}

	identity, tokenID, err := g.tokens.Parse(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := g.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}

	client := newClient(conn, identity, tokenID)

	// Bind the connection to the session row so a later login on another
	// device can force-close this connection.
	if err := g.bindSessionFor(client); err != nil {
		_ = client.SendEvent(notify.EventForceLogout, map[string]string{"reason": "session expired"})
		client.Close("session expired")
		return nil
	}

	g.registry.Register(client)
	g.logger.InfoContext(ctx.Request().Context(), "Connection established",
		"identity", identity.String(), "connection", client.ID())

	go client.writePump()
	client.readPump(func(c *Client, envelope Envelope) {
		g.router.Dispatch(context.Background(), c, envelope)
	})

	g.handleDisconnect(client)
	return nil
}

func (g *Gateway) bindSessionFor(client *Client) error {
	cmd, err := commands.NewBindSessionCommand(client.tokenID, client.ID())
	if err != nil {
		return err
	}
	_, err = g.bindSessions.Handle(context.Background(), cmd)
	return err
}

// handleDisconnect runs presence cleanup after the read loop exits. If a
// newer connection already replaced this one, the identity is still online
// and only the stale binding is cleaned up.
func (g *Gateway) handleDisconnect(client *Client) {
	ctx := context.Background()
	client.Close("connection closed")

	wasCurrent := g.registry.Unregister(client)

	if err := g.bindSessions.Unbind(ctx, client.tokenID, client.ID()); err != nil {
		g.logger.WarnContext(ctx, "Session unbind failed",
			"identity", client.Identity().String(), "error", err)
	}

	if !wasCurrent {
		return
	}

	identity := client.Identity()
	switch identity.Role {
	case kernel.RoleCourier:
		g.relay.ForgetCourier(identity.UserID)
		if err := g.persistPresence(ctx, identity.UserID, false, client.JoinedAt()); err != nil {
			g.logger.WarnContext(ctx, "Presence cleanup failed",
				"courier_id", identity.UserID.String(), "error", err)
		}
		g.registry.BroadcastToAdmins(notify.EventCourierOnlineChanged, map[string]any{
			"courierId": identity.UserID.String(),
			"online":    false,
		})
	case kernel.RoleRestaurant:
		g.registry.BroadcastToAdmins(notify.EventRestaurantOnlineChanged, map[string]any{
			"restaurantId": identity.UserID.String(),
			"online":       false,
		})
	case kernel.RoleAdmin:
	}

	g.logger.InfoContext(ctx, "Connection closed",
		"identity", identity.String(), "connection", client.ID())
}

func (g *Gateway) persistPresence(ctx context.Context, courierID kernel.UUID, online bool, joinedAt time.Time) error {
	cmd, err := commands.NewSetCourierPresenceCommand(courierID, online, joinedAt)
	if err != nil {
		return err
	}
	return g.presence.Handle(ctx, cmd)
}

type joinCourierRoomPayload struct {
	CourierID string `json:"courierId"`
}

// handleJoinCourierRoom marks the courier present: persisted online flag
// plus an admin presence event. The payload id must match the
// authenticated identity, a client cannot join someone else's room.
func (g *Gateway) handleJoinCourierRoom(ctx context.Context, c *Client, data json.RawMessage) error {
	if c.Identity().Role != kernel.RoleCourier {
		return nil
	}

	var payload joinCourierRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	courierID, err := kernel.UUIDFromString(payload.CourierID)
	if err != nil || !courierID.IsEqual(c.Identity().UserID) {
		return nil
	}

	if err := g.persistPresence(ctx, courierID, true, c.JoinedAt()); err != nil {
		return err
	}

	g.registry.BroadcastToAdmins(notify.EventCourierOnlineChanged, map[string]any{
		"courierId": courierID.String(),
		"online":    true,
	})
	return nil
}

type joinRestaurantRoomPayload struct {
	RestaurantID string `json:"restaurantId"`
}

// handleJoinRestaurantRoom marks the restaurant present. Restaurants carry
// no persisted online flag, presence is registry state plus the admin event.
func (g *Gateway) handleJoinRestaurantRoom(ctx context.Context, c *Client, data json.RawMessage) error {
	if c.Identity().Role != kernel.RoleRestaurant {
		return nil
	}

	var payload joinRestaurantRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	restaurantID, err := kernel.UUIDFromString(payload.RestaurantID)
	if err != nil || !restaurantID.IsEqual(c.Identity().UserID) {
		return nil
	}

	g.registry.BroadcastToAdmins(notify.EventRestaurantOnlineChanged, map[string]any{
		"restaurantId": restaurantID.String(),
		"online":       true,
	})
	return nil
}

type locationUpdatePayload struct {
	OrderID      string  `json:"orderId"`
	RestaurantID string  `json:"restaurantId"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// handleLocationUpdate relays a courier position report. Invalid reports
// are dropped inside the command layer without surfacing errors to the
// client: a position report is telemetry, not a request.
func (g *Gateway) handleLocationUpdate(ctx context.Context, c *Client, data json.RawMessage) error {
	if c.Identity().Role != kernel.RoleCourier {
		return nil
	}

	var payload locationUpdatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(payload.OrderID)
	if err != nil {
		return nil
	}
	restaurantID, err := kernel.UUIDFromString(payload.RestaurantID)
	if err != nil {
		return nil
	}

	cmd, err := commands.NewRelayLocationCommand(
		c.Identity().UserID, orderID, restaurantID, payload.Lat, payload.Lng)
	if err != nil {
		// Out-of-range coordinates are dropped silently.
		return nil
	}
	return g.relay.Handle(ctx, cmd)
}

type orderActionPayload struct {
	OrderID string `json:"orderId"`
}

func (g *Gateway) handleCancelOrder(ctx context.Context, c *Client, data json.RawMessage) error {
	orderID, ok := parseOrderID(data)
	if !ok {
		return nil
	}
	cmd, err := commands.NewCancelOrderCommand(orderID, c.Identity())
	if err != nil {
		return err
	}
	return g.cancelOrder.Handle(ctx, cmd)
}

func (g *Gateway) handleDeliverOrder(ctx context.Context, c *Client, data json.RawMessage) error {
	orderID, ok := parseOrderID(data)
	if !ok {
		return nil
	}
	cmd, err := commands.NewDeliverOrderCommand(orderID, c.Identity())
	if err != nil {
		return err
	}
	return g.deliverOrder.Handle(ctx, cmd)
}

func (g *Gateway) handleApproveDelivery(ctx context.Context, c *Client, data json.RawMessage) error {
	orderID, ok := parseOrderID(data)
	if !ok {
		return nil
	}
	cmd, err := commands.NewApproveDeliveryCommand(orderID, c.Identity())
	if err != nil {
		return err
	}
	return g.approve.Handle(ctx, cmd)
}

func parseOrderID(data json.RawMessage) (kernel.UUID, bool) {
	var payload orderActionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return kernel.UUID{}, false
	}
	orderID, err := kernel.UUIDFromString(payload.OrderID)
	if err != nil {
		return kernel.UUID{}, false
	}
	return orderID, true
}
