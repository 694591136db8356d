package shopapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gamestore/internal/domain"
	"github.com/talkincode/gamestore/internal/webserver"
)

func registerFavoritesRoutes() {
	webserver.GET("/favorites", listFavorites)
	webserver.POST("/favorites/toggle", toggleFavorite, webserver.CsrfProtect())
	webserver.GET("/favoritos", favoritesPage)
}

func listFavorites(c echo.Context) error {
	return ok(c, map[string]interface{}{
		"favorites": webserver.GetFavorites(c).IDs(),
	})
}

// toggleFavorite flips membership without checking the catalog: an id
// whose product was deleted can stay favorited.
func toggleFavorite(c echo.Context) error {
	pid, err := requestID(c, "pid", "product_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid pid")
	}

	favs := webserver.GetFavorites(c)
	action := favs.Toggle(pid)
	if err := webserver.SaveFavorites(c, favs); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save favorites")
	}
	return ok(c, map[string]interface{}{
		"ok":     true,
		"action": action,
		"pid":    pid,
		"total":  len(favs),
	})
}

// favoritesPage resolves favorited ids against the catalog for display.
func favoritesPage(c echo.Context) error {
	favs := webserver.GetFavorites(c)
	ids := make([]int64, 0, len(favs))
	for _, s := range favs.IDs() {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}

	var rows []domain.Product
	if len(ids) > 0 {
		if err := webserver.GetDB(c).Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products")
		}
	}
	return ok(c, map[string]interface{}{
		"products": toCatalogProducts(rows),
	})
}
