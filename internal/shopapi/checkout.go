package shopapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gamestore/internal/domain"
	"github.com/talkincode/gamestore/internal/events"
	"github.com/talkincode/gamestore/internal/webserver"
	"gorm.io/gorm"
)

func registerCheckoutRoutes() {
	webserver.POST("/checkout", checkout, webserver.CsrfProtect())
	webserver.GET("/pagar", paymentPage)
	webserver.GET("/pedidos", listOrders)
}

// checkout converts the session cart into an Order plus OrderItems in a
// single transaction, snapshotting the current unit price per line.
// Lines whose product disappeared since they were added are skipped.
func checkout(c echo.Context) error {
	ct := webserver.GetCart(c)
	if len(ct) == 0 {
		return fail(c, http.StatusBadRequest, "CART_EMPTY", "cart empty")
	}

	var userID *int64
	if uid := webserver.CurrentUserID(c); uid != 0 {
		userID = &uid
	}

	order := domain.Order{
		UserID:    userID,
		Status:    "pending",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := webserver.GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := 0.0
		for pidStr, qty := range ct {
			pid, err := strconv.ParseInt(pidStr, 10, 64)
			if err != nil {
				continue
			}
			var p domain.Product
			if err := tx.First(&p, pid).Error; err != nil {
				continue
			}
			item := domain.OrderItem{
				OrderID:   order.ID,
				ProductID: &p.ID,
				Quantity:  qty,
				Price:     p.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total += p.Price * float64(qty)
		}

		order.Total = total
		return tx.Model(&domain.Order{}).Where("id = ?", order.ID).Update("total", total).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order")
	}

	if err := webserver.ClearCart(c); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to clear cart")
	}

	events.Publish(events.TopicOrderCreated, webserver.CurrentUsername(c),
		fmt.Sprintf("order %d total %.2f", order.ID, order.Total))

	return ok(c, map[string]interface{}{
		"ok":       true,
		"order_id": order.ID,
		"total":    order.Total,
	})
}

// paymentPage mirrors the cart view for the payment screen. Payment
// itself is a stub; no processor is contacted.
func paymentPage(c echo.Context) error {
	items, total := cartLines(c)
	return ok(c, map[string]interface{}{
		"cart_items": items,
		"subtotal":   total,
		"total":      total,
		"csrf_token": webserver.CsrfToken(c),
	})
}

func listOrders(c echo.Context) error {
	uid := webserver.CurrentUserID(c)
	if uid == 0 {
		return redirectOr(c, "/login", map[string]interface{}{"ok": false})
	}

	var orders []domain.Order
	if err := webserver.GetDB(c).Preload("Items").
		Where("user_id = ?", uid).Order("created_at DESC").Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders")
	}
	return ok(c, map[string]interface{}{"orders": orders})
}
