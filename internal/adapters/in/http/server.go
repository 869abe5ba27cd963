// Package http is the REST adapter: echo routes translating JSON requests
// into commands and queries. Authorization beyond "who is calling" lives in
// the command layer; handlers only bind, validate and map errors to codes.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// Error is the JSON error body returned by every failing route.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server holds the command and query handlers behind the REST routes.
type Server struct {
	loginHandler        commands.LoginCommandHandler
	createOrderHandler  commands.CreateOrderCommandHandler
	acceptOrdersHandler commands.AcceptOrdersCommandHandler
	deliverHandler      commands.DeliverOrderCommandHandler
	cancelHandler       commands.CancelOrderCommandHandler
	approveHandler      commands.ApproveDeliveryCommandHandler
	assignHandler       commands.AssignCourierCommandHandler
	preferencesHandler  commands.UpdatePreferencesCommandHandler
	pushTokenHandler    commands.RegisterPushTokenCommandHandler

	activeOrdersQuery queries.GetActiveOrdersQueryHandler
	preferencesQuery  queries.GetPreferencesQueryHandler

	tokens *TokenCodec
}

// NewServer creates the REST server.
func NewServer(
	loginHandler commands.LoginCommandHandler,
	createOrderHandler commands.CreateOrderCommandHandler,
	acceptOrdersHandler commands.AcceptOrdersCommandHandler,
	deliverHandler commands.DeliverOrderCommandHandler,
	cancelHandler commands.CancelOrderCommandHandler,
	approveHandler commands.ApproveDeliveryCommandHandler,
	assignHandler commands.AssignCourierCommandHandler,
	preferencesHandler commands.UpdatePreferencesCommandHandler,
	pushTokenHandler commands.RegisterPushTokenCommandHandler,
	activeOrdersQuery queries.GetActiveOrdersQueryHandler,
	preferencesQuery queries.GetPreferencesQueryHandler,
	tokens *TokenCodec,
) *Server {
	return &Server{
		loginHandler:        loginHandler,
		createOrderHandler:  createOrderHandler,
		acceptOrdersHandler: acceptOrdersHandler,
		deliverHandler:      deliverHandler,
		cancelHandler:       cancelHandler,
		approveHandler:      approveHandler,
		assignHandler:       assignHandler,
		preferencesHandler:  preferencesHandler,
		pushTokenHandler:    pushTokenHandler,
		activeOrdersQuery:   activeOrdersQuery,
		preferencesQuery:    preferencesQuery,
		tokens:              tokens,
	}
}

// RegisterRoutes mounts all routes on the echo instance. The auth
// middleware guards everything under /api/v1 except login.
func (s *Server) RegisterRoutes(e *echo.Echo, auth *AuthMiddleware) {
	e.GET("/health", s.Health)
	e.POST("/api/v1/auth/login", s.Login)

	api := e.Group("/api/v1", auth.Require)
	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/accept", s.AcceptOrders)
	api.POST("/orders/:id/deliver", s.DeliverOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/approve", s.ApproveDelivery)
	api.POST("/orders/:id/assign", s.AssignCourier)
	api.GET("/couriers/:id/orders", s.GetCourierOrders)
	api.GET("/preferences", s.GetPreferences)
	api.PUT("/preferences", s.UpdatePreferences)
	api.POST("/push-tokens", s.RegisterPushToken)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Device string `json:"device"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// Login handles POST /api/v1/auth/login. A successful login supersedes
// every previous session of the same (user, role) pair.
func (s *Server) Login(ctx echo.Context) error {
	var request loginRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	userID, err := kernel.UUIDFromString(request.UserID)
	if err != nil {
		return badRequest(ctx, "Invalid user id")
	}
	identity, err := kernel.NewIdentity(userID, kernel.Role(request.Role))
	if err != nil {
		return badRequest(ctx, "Invalid role")
	}

	cmd, err := commands.NewLoginCommand(identity, request.Device, ctx.RealIP())
	if err != nil {
		return badRequest(ctx, "Invalid login data: "+err.Error())
	}

	newSession, err := s.loginHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.mapHandlerError(ctx, err, "Login failed")
	}

	token, err := s.tokens.Issue(newSession)
	if err != nil {
		return internalError(ctx, "Failed to issue token")
	}

	return ctx.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: newSession.ExpiresAt().UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

type createOrderRequest struct {
	RestaurantID  string `json:"restaurantId"`
	PaymentMethod string `json:"paymentMethod"`
	CourierFee    int64  `json:"courierFee"`
	CashDue       int64  `json:"cashDue"`
	CardDue       int64  `json:"cardDue"`
	GiftDue       int64  `json:"giftDue"`
	Neighborhood  string `json:"neighborhood"`
	ImageRef      string `json:"imageRef"`
}

// CreateOrder handles POST /api/v1/orders. Restaurants create orders for
// themselves; admins may create on behalf of any restaurant by passing
// restaurantId.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return sessionExpiredResponse(ctx)
	}

	var request createOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	restaurantID := actor.UserID
	switch actor.Role {
	case kernel.RoleRestaurant:
	case kernel.RoleAdmin:
		parsed, err := kernel.UUIDFromString(request.RestaurantID)
		if err != nil {
			return badRequest(ctx, "Invalid restaurant id")
		}
		restaurantID = parsed
	default:
		return forbidden(ctx, "Only restaurants and admins create orders")
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, restaurantID,
		request.PaymentMethod,
		request.CourierFee, request.CashDue, request.CardDue, request.GiftDue,
		request.Neighborhood, request.ImageRef,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapHandlerError(ctx, err, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"orderId": orderID.String()})
}

type acceptOrdersRequest struct {
	OrderIDs  []string `json:"orderIds"`
	CourierID string   `json:"courierId"`
}

type acceptOrdersResponse struct {
	Accepted     []string `json:"accepted"`
	AlreadyTaken []string `json:"alreadyTaken"`
}

// AcceptOrders handles POST /api/v1/orders/accept. Couriers claim pending
// orders; losing a claim to a concurrent courier is reported per order, not
// as a request failure.
func (s *Server) AcceptOrders(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return sessionExpiredResponse(ctx)
	}

	var request acceptOrdersRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	courierID, err := kernel.UUIDFromString(request.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}
	if actor.Role != kernel.RoleAdmin && !courierID.IsEqual(actor.UserID) {
		return forbidden(ctx, "Couriers claim orders only for themselves")
	}

	orderIDs := make([]kernel.UUID, 0, len(request.OrderIDs))
	for _, raw := range request.OrderIDs {
		id, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return badRequest(ctx, "Invalid order id: "+raw)
		}
		orderIDs = append(orderIDs, id)
	}

	cmd, err := commands.NewAcceptOrdersCommand(courierID, orderIDs)
	if err != nil {
		return badRequest(ctx, "Invalid claim: "+err.Error())
	}

	result, err := s.acceptOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.mapHandlerError(ctx, err, "Failed to claim orders")
	}

	return ctx.JSON(http.StatusOK, acceptOrdersResponse{
		Accepted:     uuidStrings(result.Accepted),
		AlreadyTaken: uuidStrings(result.AlreadyTaken),
	})
}

// DeliverOrder handles POST /api/v1/orders/:id/deliver.
func (s *Server) DeliverOrder(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return sessionExpiredResponse(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewDeliverOrderCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	if err := s.deliverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapHandlerError(ctx, err, "Failed to mark order delivered")
	}
	return ctx.NoContent(http.StatusOK)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return sessionExpiredResponse(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	if err := s.cancelHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapHandlerError(ctx, err, "Failed to cancel order")
	}
	return ctx.NoContent(http.StatusOK)
}

// ApproveDelivery handles POST /api/v1/orders/:id/approve.
func (s *Server) ApproveDelivery(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return sessionExpiredResponse(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewApproveDeliveryCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	if err := s.approveHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapHandlerError(ctx, err, "Failed to approve delivery")
	}
	return ctx.NoContent(http.StatusOK)
}

type assignCourierRequest struct {
	CourierID string `json:"courierId"`
}

// AssignCourier handles POST /api/v1/orders/:id/assign. Admin only: direct
// assignment bypasses the claim flow but still loses to a concurrent claim.
func (s *Server) AssignCourier(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return sessionExpiredResponse(ctx)
	}
	if actor.Role != kernel.RoleAdmin {
		return forbidden(ctx, "Only admins assign couriers directly")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request assignCourierRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	courierID, err := kernel.UUIDFromString(request.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, courierID)
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	if err := s.assignHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapHandlerError(ctx, err, "Failed to assign courier")
	}
	return ctx.NoContent(http.StatusOK)
}

type activeOrderResponse struct {
	ID             string `json:"id"`
	RestaurantID   string `json:"restaurantId"`
	RestaurantName string `json:"restaurantName"`
	Status         string `json:"status"`
	PaymentMethod  string `json:"paymentMethod"`
	CourierFee     int64  `json:"courierFee"`
	CashDue        int64  `json:"cashDue"`
	CardDue        int64  `json:"cardDue"`
	GiftDue        int64  `json:"giftDue"`
	Neighborhood   string `json:"neighborhood"`
	ImageRef       string `json:"imageRef"`
}

// GetCourierOrders handles GET /api/v1/couriers/:id/orders. Couriers read
// their own active orders; admins read anyone's.
func (s *Server) GetCourierOrders(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return sessionExpiredResponse(ctx)
	}

	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}
	if actor.Role != kernel.RoleAdmin && !courierID.IsEqual(actor.UserID) {
		return forbidden(ctx, "Couriers read only their own orders")
	}

	query, err := queries.NewGetActiveOrdersQuery(courierID)
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	orders, err := s.activeOrdersQuery.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve orders")
	}

	response := make([]activeOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = activeOrderResponse{
			ID:             o.ID.String(),
			RestaurantID:   o.RestaurantID.String(),
			RestaurantName: o.RestaurantName,
			Status:         o.Status,
			PaymentMethod:  o.PaymentMethod,
			CourierFee:     o.CourierFee,
			CashDue:        o.CashDue,
			CardDue:        o.CardDue,
			GiftDue:        o.GiftDue,
			Neighborhood:   o.Neighborhood,
			ImageRef:       o.ImageRef,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

type preferencesResponse struct {
	Mode        string   `json:"mode"`
	SelectedIDs []string `json:"selectedIds"`
}

// GetPreferences handles GET /api/v1/preferences for the calling courier or
// restaurant.
func (s *Server) GetPreferences(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return sessionExpiredResponse(ctx)
	}

	query, err := queries.NewGetPreferencesQuery(actor)
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	prefs, err := s.preferencesQuery.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve preferences")
	}

	return ctx.JSON(http.StatusOK, preferencesResponse{
		Mode:        prefs.Mode,
		SelectedIDs: uuidStrings(prefs.SelectedIDs),
	})
}

type updatePreferencesRequest struct {
	Mode   string   `json:"mode"`
	Select []string `json:"select"`
	Remove []string `json:"remove"`
}

// UpdatePreferences handles PUT /api/v1/preferences.
func (s *Server) UpdatePreferences(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return sessionExpiredResponse(ctx)
	}

	var request updatePreferencesRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	selects, err := parseUUIDs(request.Select)
	if err != nil {
		return badRequest(ctx, "Invalid selection id")
	}
	removals, err := parseUUIDs(request.Remove)
	if err != nil {
		return badRequest(ctx, "Invalid removal id")
	}

	cmd, err := commands.NewUpdatePreferencesCommand(actor, request.Mode, selects, removals)
	if err != nil {
		return badRequest(ctx, "Invalid preferences: "+err.Error())
	}

	if err := s.preferencesHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapHandlerError(ctx, err, "Failed to update preferences")
	}
	return ctx.NoContent(http.StatusOK)
}

type registerPushTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// RegisterPushToken handles POST /api/v1/push-tokens.
func (s *Server) RegisterPushToken(ctx echo.Context) error {
	actor, ok := actorFrom(ctx)
	if !ok {
		return sessionExpiredResponse(ctx)
	}

	var request registerPushTokenRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRegisterPushTokenCommand(actor, request.Token, request.Platform)
	if err != nil {
		return badRequest(ctx, "Invalid push token: "+err.Error())
	}

	if err := s.pushTokenHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapHandlerError(ctx, err, "Failed to register push token")
	}
	return ctx.NoContent(http.StatusCreated)
}

// mapHandlerError translates command-layer errors to status codes.
func (s *Server) mapHandlerError(ctx echo.Context, err error, fallback string) error {
	var notFound *errs.ObjectNotFoundError
	switch {
	case errors.Is(err, order.ErrOrderAlreadyTaken):
		return writeError(ctx, http.StatusConflict, "Order already taken")
	case errors.Is(err, commands.ErrActorMayNotTouchOrder):
		return forbidden(ctx, "Not the owner of this order")
	case errors.Is(err, courier.ErrCourierIsBlocked):
		return forbidden(ctx, "Courier is blocked")
	case errors.As(err, &notFound):
		return writeError(ctx, http.StatusNotFound, "Not found")
	default:
		return internalError(ctx, fallback)
	}
}

func badRequest(ctx echo.Context, message string) error {
	return writeError(ctx, http.StatusBadRequest, message)
}

func forbidden(ctx echo.Context, message string) error {
	return writeError(ctx, http.StatusForbidden, message)
}

func internalError(ctx echo.Context, message string) error {
	return writeError(ctx, http.StatusInternalServerError, message)
}

func writeError(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func uuidStrings(ids []kernel.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseUUIDs(raw []string) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := kernel.UUIDFromString(value)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
