package shopapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gamestore/internal/domain"
	"github.com/talkincode/gamestore/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.GET("/", listCatalog)
	webserver.GET("/category/:slug", listCategory)
	webserver.GET("/csrf", getCsrfToken)
}

type catalogProduct struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Img      string  `json:"img"`
	Category string  `json:"category,omitempty"`
	ImageURL string  `json:"image_url"`
}

func toCatalogProduct(p domain.Product) catalogProduct {
	return catalogProduct{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Img:      p.Img,
		Category: p.Category,
		ImageURL: p.ImageURL(),
	}
}

func toCatalogProducts(rows []domain.Product) []catalogProduct {
	out := make([]catalogProduct, 0, len(rows))
	for _, p := range rows {
		out = append(out, toCatalogProduct(p))
	}
	return out
}

func listCatalog(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))

	db := webserver.GetDB(c).Model(&domain.Product{})
	if q != "" {
		pattern := "%" + q + "%"
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("title ILIKE ? OR category ILIKE ?", pattern, pattern)
		} else {
			lower := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(title) LIKE ? OR LOWER(category) LIKE ?", lower, lower)
		}
	}

	var rows []domain.Product
	if err := db.Order("id DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products")
	}
	return ok(c, map[string]interface{}{
		"products":   toCatalogProducts(rows),
		"csrf_token": webserver.CsrfToken(c),
	})
}

func listCategory(c echo.Context) error {
	slug := strings.ToLower(c.Param("slug"))

	db := webserver.GetDB(c).Model(&domain.Product{})
	if name, okm := domain.CategorySlugs[slug]; okm {
		db = db.Where("category = ?", name)
	} else {
		// unknown slug: case-insensitive contains match, like the search box
		pattern := "%" + slug + "%"
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("category ILIKE ?", pattern)
		} else {
			db = db.Where("LOWER(category) LIKE ?", pattern)
		}
	}

	var rows []domain.Product
	if err := db.Order("id DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products")
	}
	return ok(c, map[string]interface{}{
		"category": slug,
		"products": toCatalogProducts(rows),
	})
}

func getCsrfToken(c echo.Context) error {
	return ok(c, map[string]interface{}{"csrf_token": webserver.CsrfToken(c)})
}
