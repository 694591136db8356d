package adminapi

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gamestore/internal/domain"
	"github.com/talkincode/gamestore/internal/webserver"
)

//go:embed assets/placeholder.svg
var placeholderSVG []byte

func registerImageRoutes() {
	webserver.GET("/product_image/:id", serveProductImage)
}

// serveProductImage returns the stored blob with its MIME type, falls
// back to redirecting to the external image URL, and finally serves the
// embedded placeholder.
func serveProductImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return servePlaceholder(c)
	}

	var p domain.Product
	if err := webserver.GetDB(c).First(&p, id).Error; err != nil {
		return servePlaceholder(c)
	}

	if len(p.ImageData) > 0 {
		mime := p.ImageMime
		if mime == "" {
			mime = "application/octet-stream"
		}
		return c.Blob(http.StatusOK, mime, p.ImageData)
	}
	if p.Img != "" && p.Img != placeholderImg {
		return c.Redirect(http.StatusFound, p.Img)
	}
	return servePlaceholder(c)
}

func servePlaceholder(c echo.Context) error {
	return c.Blob(http.StatusOK, "image/svg+xml", placeholderSVG)
}
