package shopapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/talkincode/gamestore/internal/domain"
	"github.com/talkincode/gamestore/internal/webserver"
	"gorm.io/gorm"
)

func registerCartRoutes() {
	webserver.GET("/cart", viewCart)
	webserver.POST("/cart/add", cartAdd, webserver.CsrfProtect())
	webserver.POST("/cart/remove", cartRemove, webserver.CsrfProtect())
}

func cartAdd(c echo.Context) error {
	pid, err := requestID(c, "pid", "product_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid parameters")
	}
	qtyRaw := webserver.RequestValue(c, "qty", "quantity")
	qty := 1
	if qtyRaw != "" {
		qty, err = cast.ToIntE(qtyRaw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid parameters")
		}
	}

	var p domain.Product
	if err := webserver.GetDB(c).First(&p, pid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "product not found")
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product")
	}

	ct := webserver.GetCart(c)
	ct.Add(pid, qty)
	if err := webserver.SaveCart(c, ct); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save cart")
	}
	return ok(c, map[string]interface{}{
		"ok":          true,
		"total_items": ct.TotalItems(),
		"product_id":  pid,
	})
}

func cartRemove(c echo.Context) error {
	pid, err := requestID(c, "pid", "product_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid pid")
	}

	ct := webserver.GetCart(c)
	ct.Remove(pid)
	if err := webserver.SaveCart(c, ct); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save cart")
	}
	return ok(c, map[string]interface{}{
		"ok":          true,
		"total_items": ct.TotalItems(),
	})
}

type cartLine struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Img      string  `json:"img"`
	Category string  `json:"category,omitempty"`
	Qty      int     `json:"qty"`
	Subtotal float64 `json:"subtotal"`
}

// cartLines joins the session cart against the live catalog. Lines whose
// product no longer exists are dropped silently; prices here are live,
// not snapshots.
func cartLines(c echo.Context) ([]cartLine, float64) {
	ct := webserver.GetCart(c)
	db := webserver.GetDB(c)

	items := make([]cartLine, 0, len(ct))
	total := 0.0
	for pidStr, qty := range ct {
		pid, err := strconv.ParseInt(pidStr, 10, 64)
		if err != nil {
			continue
		}
		var p domain.Product
		if err := db.First(&p, pid).Error; err != nil {
			continue
		}
		subtotal := p.Price * float64(qty)
		items = append(items, cartLine{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price,
			Img:      p.Img,
			Category: p.Category,
			Qty:      qty,
			Subtotal: subtotal,
		})
		total += subtotal
	}
	return items, total
}

func viewCart(c echo.Context) error {
	items, total := cartLines(c)
	return ok(c, map[string]interface{}{
		"cart_items": items,
		"subtotal":   total,
		"total":      total,
		"csrf_token": webserver.CsrfToken(c),
	})
}
