package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/access"
	domain "github.com/tableside/restaurant-pos/internal/domain/order"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/httpresp"
	"github.com/tableside/restaurant-pos/internal/middleware"
	"github.com/tableside/restaurant-pos/internal/models"
	ucOrder "github.com/tableside/restaurant-pos/internal/usecase/order"
)

// ======================================================
// HANDLER
// ======================================================

type OrderHandler struct {
	db *gorm.DB

	createUC  *ucOrder.CreateOrder
	addUC     *ucOrder.AddItem
	removeUC  *ucOrder.RemoveItem
	replaceUC *ucOrder.ReplaceItems
	deleteUC  *ucOrder.DeleteOrder
}

func NewOrderHandler(
	db *gorm.DB,
	createUC *ucOrder.CreateOrder,
	addUC *ucOrder.AddItem,
	removeUC *ucOrder.RemoveItem,
	replaceUC *ucOrder.ReplaceItems,
	deleteUC *ucOrder.DeleteOrder,
) *OrderHandler {
	return &OrderHandler{
		db:        db,
		createUC:  createUC,
		addUC:     addUC,
		removeUC:  removeUC,
		replaceUC: replaceUC,
		deleteUC:  deleteUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required"`
}

type IncreaseItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type DecreaseItemRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

func toItemInputs(items []OrderItemRequest) []ucOrder.ItemInput {
	out := make([]ucOrder.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, ucOrder.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return out
}

// ======================================================
// HANDLERS
// ======================================================

// List returns the caller's visible orders, newest first: staff see their
// own, owners everything placed in restaurants they own.
func (h *OrderHandler) List(c *gin.Context) {
	id := middleware.Identity(c)

	scope, err := access.OrdersScope(h.db.Model(&models.Order{}), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_orders", "Could not list orders.")
		return
	}

	var orders []models.Order
	if err := scope.
		Preload("Items").
		Preload("Items.Product").
		Preload("Staff").
		Order("orders.order_date DESC").
		Find(&orders).Error; err != nil {

		httperr.Internal(c, "failed_to_list_orders", "Could not list orders.")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Create(c *gin.Context) {
	id := middleware.Identity(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	order, err := h.createUC.Execute(c.Request.Context(), id, toItemInputs(req.Items))
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_order", "Could not create the order.")
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id := middleware.Identity(c)

	orderID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_order_id", "Invalid order id.")
		return
	}

	order, err := access.VisibleOrder(h.db, id, orderID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_order", "Could not load the order.")
		return
	}

	c.JSON(http.StatusOK, order)
}

// Replace swaps the whole item set (PUT semantics).
func (h *OrderHandler) Replace(c *gin.Context) {
	id := middleware.Identity(c)

	orderID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_order_id", "Invalid order id.")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	order, err := h.replaceUC.Execute(c.Request.Context(), id, orderID, toItemInputs(req.Items))
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_order", "Could not update the order.")
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id := middleware.Identity(c)

	orderID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_order_id", "Invalid order id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id, orderID); err != nil {
		httperr.FromError(c, err, "failed_to_delete_order", "Could not delete the order.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) IncreaseItem(c *gin.Context) {
	id := middleware.Identity(c)

	orderID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_order_id", "Invalid order id.")
		return
	}

	var req IncreaseItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	order, err := h.addUC.Execute(c.Request.Context(), id, orderID, req.ProductID, req.Quantity)
	if err != nil {
		httperr.FromError(c, err, "failed_to_add_item", "Could not add the item.")
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DecreaseItem(c *gin.Context) {
	id := middleware.Identity(c)

	orderID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_order_id", "Invalid order id.")
		return
	}

	var req DecreaseItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	order, err := h.removeUC.Execute(c.Request.Context(), id, orderID, req.ItemID, req.Quantity)
	if err != nil {
		httperr.FromError(c, err, "failed_to_remove_item", "Could not remove the item.")
		return
	}

	c.JSON(http.StatusOK, order)
}

// PrintBill renders the order as a printable text receipt.
func (h *OrderHandler) PrintBill(c *gin.Context) {
	id := middleware.Identity(c)

	orderID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_order_id", "Invalid order id.")
		return
	}

	order, err := access.VisibleOrder(h.db, id, orderID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_print_bill", "Could not render the bill.")
		return
	}

	httpresp.OK(c, gin.H{"bill_text": domain.RenderBill(order)})
}
