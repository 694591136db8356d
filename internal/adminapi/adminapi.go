// Package adminapi implements the admin inventory surface and the JSON
// product API.
package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gamestore/internal/domain"
	"github.com/talkincode/gamestore/internal/webserver"
)

// InitRouter registers the admin and product API routes.
func InitRouter() {
	registerInventoryRoutes()
	registerProductAPIRoutes()
	registerImageRoutes()

	webserver.AdminGET("/admin", dashboard)
}

func ok(c echo.Context, data interface{}) error {
	return webserver.Ok(c, data)
}

func fail(c echo.Context, status int, code, message string) error {
	return webserver.Fail(c, status, code, message, nil)
}

func dashboard(c echo.Context) error {
	db := webserver.GetDB(c)
	var products, users, orders int64
	if err := db.Model(&domain.Product{}).Count(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count products")
	}
	if err := db.Model(&domain.User{}).Count(&users).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count users")
	}
	if err := db.Model(&domain.Order{}).Count(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count orders")
	}
	return ok(c, map[string]interface{}{
		"products": products,
		"users":    users,
		"orders":   orders,
	})
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
