package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dennissavchenko/Bookshop-sub001/pkg/database"
	"github.com/dennissavchenko/Bookshop-sub001/pkg/inventory"
	"github.com/dennissavchenko/Bookshop-sub001/pkg/lifecycle"
	"github.com/dennissavchenko/Bookshop-sub001/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var db *gorm.DB

const timestampLayout = "2006-01-02T15:04:05"

var (
	errConcurrentTransition = errors.New("order was modified concurrently")
	errLineOutOfStock       = errors.New("insufficient stock for an order line")
)

func main() {
	log.Println("Starting order service...")

	db = database.InitBookshopDB()

	server := gin.Default()
	server.POST("/api/v1/cart/items", addCartItem)
	server.GET("/api/v1/orders", getOrders)
	server.GET("/api/v1/orders/:orderUid", getOrder)
	server.POST("/api/v1/orders/:orderUid/status", updateOrderStatus)
	server.POST("/api/v1/orders/:orderUid/payment", createPayment)
	server.GET("/api/v1/items/:itemUid/orders", getItemOrders)
	server.GET("/manage/health", healthCheck)

	log.Println("Order service starting on :8070")
	if err := server.Run(":8070"); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// addCartItem puts an item into the customer's cart. The cart order itself is
// created implicitly on the first add.
func addCartItem(c *gin.Context) {
	username := c.GetHeader("X-User-Name")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-Name header is required"})
		return
	}
	var request struct {
		ItemUid  string `json:"itemUid" binding:"required"`
		Quantity int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if request.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a positive integer"})
		return
	}

	var item models.Item
	if err := db.Where("item_uid = ?", request.ItemUid).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	customer, err := findOrCreateCustomer(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve customer"})
		return
	}

	var order models.Order
	err = db.Where("customer_id = ? AND status = ?", customer.ID, lifecycle.StatusCart).First(&order).Error
	if err != nil {
		order = models.Order{
			OrderUid:   uuid.New().String(),
			Status:     lifecycle.StatusCart,
			CustomerID: customer.ID,
		}
		if err := db.Create(&order).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create cart"})
			return
		}
	}

	var line models.OrderItem
	err = db.Where("order_id = ? AND item_id = ?", order.ID, item.ID).First(&line).Error
	if err != nil {
		line = models.OrderItem{
			OrderID:  order.ID,
			ItemID:   item.ID,
			Quantity: request.Quantity,
		}
		err = db.Create(&line).Error
	} else {
		line.Quantity += request.Quantity
		err = db.Save(&line).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderUid": order.OrderUid,
		"status":   order.Status,
		"itemUid":  item.ItemUid,
		"quantity": line.Quantity,
	})
}

func getOrders(c *gin.Context) {
	username := c.GetHeader("X-User-Name")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-Name header is required"})
		return
	}

	var customer models.Customer
	if err := db.Where("username = ?", username).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var orders []models.Order
	err := db.Where("customer_id = ?", customer.ID).
		Preload("Items").Preload("Items.Item").Preload("Customer").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]gin.H, len(orders))
	for i := range orders {
		summaries[i] = orderSummary(&orders[i])
	}
	c.JSON(http.StatusOK, summaries)
}

func getOrder(c *gin.Context) {
	orderUid := c.Param("orderUid")

	var order models.Order
	err := db.Where("order_uid = ?", orderUid).
		Preload("Items").Preload("Items.Item").Preload("Customer").Preload("Payment").
		First(&order).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, orderView(&order))
}

// updateOrderStatus runs the state machine. Confirming an order decrements
// stock for every line, all-or-nothing; cancelling a confirmed order puts the
// stock back. The status change itself is guarded by the previous status so
// that two concurrent transitions cannot both win.
func updateOrderStatus(c *gin.Context) {
	orderUid := c.Param("orderUid")

	var request struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if !lifecycle.ValidStatus(request.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
		return
	}

	var order models.Order
	err := db.Where("order_uid = ?", orderUid).
		Preload("Items").Preload("Items.Item").
		First(&order).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	previousStatus := order.Status
	wasConfirmed := order.ConfirmedAt != nil
	now := time.Now()
	if err := lifecycle.Transition(&order, request.Status, now); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("cannot move order from %s to %s", previousStatus, request.Status),
		})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": order.Status}
		if column := lifecycle.TimestampColumn(order.Status); column != "" {
			updates[column] = now
		}
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, previousStatus).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errConcurrentTransition
		}

		if order.Status == lifecycle.StatusConfirmed {
			for _, line := range order.Items {
				if _, err := inventory.DecreaseStock(tx, line.Item.ItemUid, line.Quantity); err != nil {
					if errors.Is(err, inventory.ErrInsufficientStock) {
						return errLineOutOfStock
					}
					return err
				}
			}
		}
		if order.Status == lifecycle.StatusCancelled && wasConfirmed {
			for _, line := range order.Items {
				if _, err := inventory.IncreaseStock(tx, line.Item.ItemUid, line.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errConcurrentTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "order status changed concurrently"})
		case errors.Is(err, errLineOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderUid":      order.OrderUid,
		"status":        order.Status,
		"lastUpdatedAt": lifecycle.LastUpdatedAt(&order).Format(timestampLayout),
	})
}

func createPayment(c *gin.Context) {
	orderUid := c.Param("orderUid")

	var request struct {
		Type   string  `json:"type" binding:"required"`
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if !models.ValidPaymentType(request.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be CARD, APPLE_PAY, GOOGLE_PAY, or BLIK"})
		return
	}
	if request.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	var order models.Order
	if err := db.Where("order_uid = ?", orderUid).Preload("Payment").First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.ConfirmedAt == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "order is not confirmed"})
		return
	}
	if order.Payment != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "order already has a payment"})
		return
	}

	payment := models.Payment{
		PaymentUid: uuid.New().String(),
		Type:       request.Type,
		Amount:     request.Amount,
		OrderID:    order.ID,
	}
	if err := db.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"paymentUid": payment.PaymentUid,
		"type":       payment.Type,
		"amount":     formatPrice(payment.Amount),
		"createdAt":  payment.CreatedAt.Format(timestampLayout),
	})
}

func getItemOrders(c *gin.Context) {
	itemUid := c.Param("itemUid")

	var item models.Item
	if err := db.Where("item_uid = ?", itemUid).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	var lines []models.OrderItem
	if err := db.Where("item_id = ?", item.ID).Find(&lines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	orderIDs := make([]uint, len(lines))
	for i, line := range lines {
		orderIDs[i] = line.OrderID
	}

	summaries := make([]gin.H, 0, len(orderIDs))
	if len(orderIDs) > 0 {
		var orders []models.Order
		err := db.Where("id IN ?", orderIDs).
			Preload("Items").Preload("Items.Item").Preload("Customer").
			Find(&orders).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for i := range orders {
			summaries = append(summaries, orderSummary(&orders[i]))
		}
	}
	c.JSON(http.StatusOK, summaries)
}

func findOrCreateCustomer(username string) (models.Customer, error) {
	var customer models.Customer
	if err := db.Where("username = ?", username).First(&customer).Error; err == nil {
		return customer, nil
	}
	customer = models.Customer{
		CustomerUid: uuid.New().String(),
		Username:    username,
	}
	if err := db.Create(&customer).Error; err != nil {
		return customer, err
	}
	return customer, nil
}

func orderSummary(order *models.Order) gin.H {
	return gin.H{
		"orderUid":      order.OrderUid,
		"status":        order.Status,
		"totalPrice":    formatPrice(lifecycle.TotalPrice(order)),
		"lastUpdatedAt": lifecycle.LastUpdatedAt(order).Format(timestampLayout),
		"customerUid":   order.Customer.CustomerUid,
	}
}

func orderView(order *models.Order) gin.H {
	lines := make([]gin.H, len(order.Items))
	for i, line := range order.Items {
		lines[i] = gin.H{
			"itemUid":  line.Item.ItemUid,
			"name":     line.Item.Name,
			"price":    formatPrice(line.Item.Price),
			"quantity": line.Quantity,
		}
	}

	view := gin.H{
		"orderUid":      order.OrderUid,
		"status":        order.Status,
		"createdAt":     order.CreatedAt.Format(timestampLayout),
		"totalPrice":    formatPrice(lifecycle.TotalPrice(order)),
		"lastUpdatedAt": lifecycle.LastUpdatedAt(order).Format(timestampLayout),
		"customerUid":   order.Customer.CustomerUid,
		"items":         lines,
	}
	if order.ConfirmedAt != nil {
		view["confirmedAt"] = order.ConfirmedAt.Format(timestampLayout)
	}
	if order.PreparationStartedAt != nil {
		view["preparationStartedAt"] = order.PreparationStartedAt.Format(timestampLayout)
	}
	if order.ShippedAt != nil {
		view["shippedAt"] = order.ShippedAt.Format(timestampLayout)
	}
	if order.DeliveredAt != nil {
		view["deliveredAt"] = order.DeliveredAt.Format(timestampLayout)
	}
	if order.CancelledAt != nil {
		view["cancelledAt"] = order.CancelledAt.Format(timestampLayout)
	}
	if order.Payment != nil {
		view["payment"] = gin.H{
			"paymentUid": order.Payment.PaymentUid,
			"type":       order.Payment.Type,
			"amount":     formatPrice(order.Payment.Amount),
			"createdAt":  order.Payment.CreatedAt.Format(timestampLayout),
		}
	}
	return view
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

func healthCheck(ctx *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"details": "Host localhost:8070 is active",
	})
}
