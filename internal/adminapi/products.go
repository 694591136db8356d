package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gamestore/internal/domain"
	"github.com/talkincode/gamestore/internal/webserver"
	"gorm.io/gorm"
)

type productPayload struct {
	Title    *string  `json:"title"`
	Price    *float64 `json:"price"`
	Img      *string  `json:"img"`
	Category *string  `json:"category"`
}

type productDTO struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Img      string  `json:"img"`
	ImageURL string  `json:"image_url"`
}

func toProductDTO(p domain.Product) productDTO {
	return productDTO{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Img:      p.Img,
		ImageURL: p.ImageURL(),
	}
}

// registerProductAPIRoutes registers the JSON product CRUD endpoints.
func registerProductAPIRoutes() {
	webserver.GET("/api/products", listProductsAPI)
	webserver.POST("/api/products", createProductAPI)
	webserver.GET("/api/products/:id", getProductAPI)
	webserver.PUT("/api/products/:id", updateProductAPI)
	webserver.DELETE("/api/products/:id", deleteProductAPI)
}

func listProductsAPI(c echo.Context) error {
	var rows []domain.Product
	if err := webserver.GetDB(c).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products")
	}
	out := make([]productDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, toProductDTO(p))
	}
	return ok(c, out)
}

func getProductAPI(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
	}
	var p domain.Product
	if err := webserver.GetDB(c).First(&p, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
	}
	return ok(c, toProductDTO(p))
}

func createProductAPI(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product")
	}
	if payload.Title == nil || strings.TrimSpace(*payload.Title) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "title required")
	}

	p := domain.Product{
		Title:     strings.TrimSpace(*payload.Title),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if payload.Price != nil {
		p.Price = *payload.Price
	}
	if payload.Img != nil {
		p.Img = *payload.Img
	}
	if payload.Category != nil {
		p.Category = *payload.Category
	}
	if err := webserver.GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product")
	}
	return c.JSON(http.StatusCreated, toProductDTO(p))
}

func updateProductAPI(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
	}
	var p domain.Product
	if err := webserver.GetDB(c).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product")
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product")
	}
	// absent fields keep their stored values
	if payload.Title != nil {
		p.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Price != nil {
		p.Price = *payload.Price
	}
	if payload.Img != nil {
		p.Img = *payload.Img
	}
	if payload.Category != nil {
		p.Category = *payload.Category
	}
	p.UpdatedAt = time.Now()

	if err := webserver.GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product")
	}
	return ok(c, toProductDTO(p))
}

func deleteProductAPI(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
	}
	var p domain.Product
	if err := webserver.GetDB(c).First(&p, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
	}

	db := webserver.GetDB(c)
	if err := db.Model(&domain.OrderItem{}).
		Where("product_id = ?", id).Update("product_id", nil).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to detach order items")
	}
	if err := db.Delete(&domain.Product{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product")
	}
	return c.NoContent(http.StatusNoContent)
}
