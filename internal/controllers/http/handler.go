package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	UserHeader  = "X-User-ID"
	AdminHeader = "X-Admin"
	userKey     = "userID"
)

type Handler struct {
	cart      *services.CartService
	checkout  *services.CheckoutService
	orders    *services.OrderService
	products  repository.ProductReader
	inventory repository.Inventory
}

func NewHandler(cart *services.CartService, checkout *services.CheckoutService, orders *services.OrderService,
	products repository.ProductReader, inventory repository.Inventory) *Handler {
	return &Handler{
		cart:      cart,
		checkout:  checkout,
		orders:    orders,
		products:  products,
		inventory: inventory,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/products/:productId", h.GetProduct)

	u := r.Group("/", requireUser())
	u.GET("/cart", h.GetCart)
	u.POST("/cart/items", h.AddItem)
	u.PATCH("/cart/items/:productId", h.UpdateQuantity)
	u.DELETE("/cart/items/:productId", h.RemoveItem)
	u.DELETE("/cart", h.ClearCart)
	u.POST("/checkout", h.Checkout)
	u.GET("/orders", h.ListOrders)
	u.GET("/orders/:orderId", h.GetOrder)

	a := r.Group("/admin", requireAdmin())
	a.GET("/orders", h.AdminOrders)
	a.DELETE("/orders/:orderId", h.DeleteOrder)
}

// requireUser trusts the identity the auth layer put in front of us.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing user"})
			return
		}
		c.Set(userKey, userID)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(AdminHeader) != "true" {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "admin only"})
			return
		}
		c.Next()
	}
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	p, err := h.products.FindByID(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		writeError(c, domain.ErrProductNotFound)
		return
	}
	stock, err := h.inventory.GetStock(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	p.Stock = stock
	c.JSON(http.StatusOK, ProductResponse{Product: *p, InStock: stock > 0})
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.cart.GetCart(c.Request.Context(), c.GetString(userKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, CartResponse{Lines: cart.Lines, Total: cart.Total()})
}

func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	qty, err := h.cart.AddLine(c.Request.Context(), c.GetString(userKey), req.ProductID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuantityResponse{ProductID: req.ProductID, Quantity: qty})
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	qty, err := h.cart.UpdateQuantity(c.Request.Context(), c.GetString(userKey), id, req.Action)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuantityResponse{ProductID: id, Quantity: qty})
}

func (h *Handler) RemoveItem(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	amount := int64(1)
	if s := c.Query("amount"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
			return
		}
		amount = n
	}

	qty, err := h.cart.RemoveLine(c.Request.Context(), c.GetString(userKey), id, amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuantityResponse{ProductID: id, Quantity: qty})
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), c.GetString(userKey)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout removes the ordered lines from the cart only after the order
// committed; on any failure the cart is left as it was so the user can adjust
// and retry.
func (h *Handler) Checkout(c *gin.Context) {
	userID := c.GetString(userKey)
	ctx := c.Request.Context()

	lines, err := h.cart.Snapshot(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(lines) == 0 {
		writeError(c, domain.ErrEmptyCart)
		return
	}

	orderID, err := h.checkout.Checkout(ctx, userID, lines)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.cart.RemoveCheckedOut(context.WithoutCancel(ctx), userID, lines); err != nil {
		slog.Error("failed to clear cart after checkout", "user_id", userID, "order_id", orderID, "error", err)
	}
	c.JSON(http.StatusCreated, CheckoutResponse{OrderID: orderID})
}

func (h *Handler) ListOrders(c *gin.Context) {
	details, err := h.orders.OrdersWithDetails(c.Request.Context(), c.GetString(userKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) GetOrder(c *gin.Context) {
	d, err := h.orders.OrderDetail(c.Request.Context(), c.GetString(userKey), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) AdminOrders(c *gin.Context) {
	report, err := h.orders.AdminOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.orders.DeleteOrder(c.Request.Context(), c.Param("orderId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid productId"})
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var ce *domain.CheckoutError
	if errors.As(err, &ce) {
		status := http.StatusServiceUnavailable
		if errors.Is(ce, domain.ErrInsufficientStock) {
			status = http.StatusConflict
		}
		c.JSON(status, ErrorResponse{Error: ce.Kind.Error(), ProductID: ce.ProductID, Retryable: ce.Retryable()})
		return
	}

	switch {
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidCart),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrCartConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Retryable: true})
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service unavailable, try again", Retryable: true})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
