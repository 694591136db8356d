// Package shopapi implements the public storefront surface: catalog
// browsing, the session cart and favorites, checkout and account routes.
package shopapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/talkincode/gamestore/internal/webserver"
)

// InitRouter registers all storefront routes.
func InitRouter() {
	registerCatalogRoutes()
	registerCartRoutes()
	registerFavoritesRoutes()
	registerCheckoutRoutes()
	registerAuthRoutes()
}

// wantsJSON reports whether the client expects a JSON response instead
// of a redirect-driven form flow.
func wantsJSON(c echo.Context) bool {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return true
	}
	if c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// requestID parses a product id that may arrive under multiple keys as
// either a string or a number.
func requestID(c echo.Context, keys ...string) (int64, error) {
	raw := webserver.RequestValue(c, keys...)
	return cast.ToInt64E(raw)
}

func ok(c echo.Context, data interface{}) error {
	return webserver.Ok(c, data)
}

func fail(c echo.Context, status int, code, message string) error {
	return webserver.Fail(c, status, code, message, nil)
}

func redirectOr(c echo.Context, target string, payload map[string]interface{}) error {
	if wantsJSON(c) {
		payload["redirect"] = target
		return ok(c, payload)
	}
	return c.Redirect(http.StatusSeeOther, target)
}
