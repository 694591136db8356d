package adminapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/talkincode/gamestore/internal/domain"
	"github.com/talkincode/gamestore/internal/events"
	"github.com/talkincode/gamestore/internal/webserver"
	"gorm.io/gorm"
)

// MaxImageBytes caps uploaded product images at 2 MiB.
const MaxImageBytes = 2 * 1024 * 1024

var allowedImageMimes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

const placeholderImg = "/static/img/Imagenes/placeholder.svg"

func registerInventoryRoutes() {
	webserver.AdminGET("/admin/inventario", listInventory)
	webserver.AdminPOST("/admin/inventario/add", addInventory, webserver.CsrfProtect())
	webserver.AdminPOST("/admin/inventario/edit/:id", editInventory, webserver.CsrfProtect())
	webserver.AdminPOST("/admin/inventario/delete/:id", deleteInventory, webserver.CsrfProtect())
}

func listInventory(c echo.Context) error {
	var rows []domain.Product
	if err := webserver.GetDB(c).Order("id DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products")
	}
	return ok(c, map[string]interface{}{
		"products":   rows,
		"csrf_token": webserver.CsrfToken(c),
	})
}

// readUploadedImage reads and validates the optional multipart image.
// A missing file yields (nil, "", ""). A rejected file yields a
// user-facing message instead of bytes.
func readUploadedImage(c echo.Context, field string) (data []byte, mime string, userMsg string) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil || fh.Filename == "" {
		return nil, "", ""
	}
	src, err := fh.Open()
	if err != nil {
		return nil, "", "could not read uploaded image"
	}
	defer src.Close()

	data, err = io.ReadAll(io.LimitReader(src, MaxImageBytes+1))
	if err != nil {
		return nil, "", "could not read uploaded image"
	}
	if len(data) > MaxImageBytes {
		return nil, "", "image too large, maximum size is 2MB"
	}
	mime = strings.ToLower(fh.Header.Get("Content-Type"))
	if !allowedImageMimes[mime] {
		return nil, "", "image type not allowed, use PNG, JPG or WEBP"
	}
	return data, mime, ""
}

// normalizeCategory applies the allow-list: empty values default,
// unknown values fall back to the general bucket with a warning.
func normalizeCategory(category string) (string, string) {
	if category == "" {
		return domain.DefaultCategory, ""
	}
	if domain.CategoryAllowed(category) {
		return category, ""
	}
	return domain.FallbackCategory,
		fmt.Sprintf("invalid category %q, using %q", category, domain.FallbackCategory)
}

func addInventory(c echo.Context) error {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "title required")
	}
	price := cast.ToFloat64(c.FormValue("price"))

	category, warning := normalizeCategory(strings.TrimSpace(c.FormValue("category")))

	data, mime, userMsg := readUploadedImage(c, "img_file")
	if userMsg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_IMAGE", userMsg)
	}

	p := domain.Product{
		Title:     title,
		Price:     price,
		Img:       placeholderImg,
		Category:  category,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if data != nil {
		p.ImageData = data
		p.ImageMime = mime
	}
	if err := webserver.GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product")
	}

	events.Publish(events.TopicProductCreated, webserver.CurrentUsername(c),
		fmt.Sprintf("product %d %q", p.ID, p.Title))

	resp := map[string]interface{}{"ok": true, "product": p}
	if warning != "" {
		resp["warning"] = warning
	}
	return ok(c, resp)
}

func editInventory(c echo.Context) error {
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

	// validate the upload before touching the row so a rejected image
	// leaves the product unchanged
	data, mime, userMsg := readUploadedImage(c, "img_file")
	if userMsg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_IMAGE", userMsg)
	}

	if title := strings.TrimSpace(c.FormValue("title")); title != "" {
		p.Title = title
	}
	p.Price = cast.ToFloat64(c.FormValue("price"))

	if data != nil {
		// uploaded blob replaces any previous image, the legacy URL is
		// reset to the placeholder
		p.ImageData = data
		p.ImageMime = mime
		p.Img = placeholderImg
	} else if img := strings.TrimSpace(c.FormValue("img")); img != "" {
		p.Img = img
	}

	var warning string
	category := strings.TrimSpace(c.FormValue("category"))
	switch {
	case category == "":
		if p.Category == "" {
			p.Category = domain.FallbackCategory
		}
	case domain.CategoryAllowed(category):
		p.Category = category
	default:
		// unknown category keeps the current one
		warning = fmt.Sprintf("invalid category %q, keeping %q", category, p.Category)
	}

	p.UpdatedAt = time.Now()
	if err := webserver.GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product")
	}

	events.Publish(events.TopicProductUpdated, webserver.CurrentUsername(c),
		fmt.Sprintf("product %d %q", p.ID, p.Title))

	resp := map[string]interface{}{"ok": true, "product": p}
	if warning != "" {
		resp["warning"] = warning
	}
	return ok(c, resp)
}

// deleteInventory removes the product row. Order items that reference
// it keep their price snapshot with a null product reference.
func deleteInventory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
	}

	db := webserver.GetDB(c)
	var p domain.Product
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product")
	}
	if err := db.Model(&domain.OrderItem{}).
		Where("product_id = ?", id).Update("product_id", nil).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to detach order items")
	}
	if err := db.Delete(&domain.Product{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product")
	}

	events.Publish(events.TopicProductDeleted, webserver.CurrentUsername(c),
		fmt.Sprintf("product %d", id))

	return ok(c, map[string]interface{}{"ok": true, "id": id})
}
