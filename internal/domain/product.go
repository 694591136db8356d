package domain

import (
	"strconv"
	"time"
)

// Product is a catalog item. A binary image stored in the row takes
// precedence over the Img URL when rendering.
type Product struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:200;not null;index" json:"title" form:"title"`
	Price     float64   `gorm:"not null" json:"price" form:"price"`
	Img       string    `gorm:"size:400" json:"img" form:"img"`
	ImageData []byte    `json:"-"`
	ImageMime string    `gorm:"size:120" json:"-"`
	Category  string    `gorm:"size:120;index" json:"category" form:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// ImageURL returns the address a client should load the product picture
// from: the image-serving route when a blob is stored, otherwise the
// external URL, otherwise empty.
func (p *Product) ImageURL() string {
	if len(p.ImageData) > 0 {
		return "/product_image/" + strconv.FormatInt(p.ID, 10)
	}
	return p.Img
}

// AllowedCategories is the fixed set of catalog categories accepted from
// admin forms. Unrecognized non-empty values are normalized to
// FallbackCategory.
var AllowedCategories = []string{"Consolas", "Juegos", "Accesorios", "Controles"}

const (
	FallbackCategory = "General"
	DefaultCategory  = "Juegos"
)

// CategoryAllowed reports whether name is one of AllowedCategories.
func CategoryAllowed(name string) bool {
	for _, c := range AllowedCategories {
		if c == name {
			return true
		}
	}
	return false
}

// CategorySlugs maps friendly URL slugs to canonical category names.
var CategorySlugs = map[string]string{
	"juegos":     "Juegos",
	"consolas":   "Consolas",
	"accesorios": "Accesorios",
	"controles":  "Controles",
}

type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:120;uniqueIndex;not null" json:"name"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "categories"
}

type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"index" json:"product_id"`
	URL       string `gorm:"size:400;not null" json:"url"`
}

// TableName Specify table name
func (ProductImage) TableName() string {
	return "product_images"
}
