package adminapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gamestore/config"
	"github.com/talkincode/gamestore/internal/app"
	"github.com/talkincode/gamestore/internal/domain"
	"github.com/talkincode/gamestore/internal/shopapi"
	"github.com/talkincode/gamestore/internal/webserver"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testClient struct {
	t       *testing.T
	e       *echo.Echo
	db      *gorm.DB
	cookies []*http.Cookie
	csrf    string
}

func newTestClient(t *testing.T) *testClient {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(domain.Tables...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.AppConfig{}
	*cfg = *config.DefaultAppConfig
	cfg.Web.Secret = "test-secret"

	appx := app.NewApplication(cfg)
	appx.OverrideDB(db)

	server := webserver.Init(appx)
	shopapi.InitRouter()
	InitRouter()

	tc := &testClient{t: t, e: server.Echo(), db: db}
	tc.fetchCsrf()
	return tc
}

func (tc *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range tc.cookies {
		req.AddCookie(ck)
	}
	if tc.csrf != "" {
		req.Header.Set(webserver.CsrfHeaderName, tc.csrf)
	}
	rec := httptest.NewRecorder()
	tc.e.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		tc.cookies = cookies
	}
	return rec
}

func (tc *testClient) get(path string) *httptest.ResponseRecorder {
	return tc.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (tc *testClient) sendJSON(method, path string, payload map[string]interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return tc.do(req)
}

func (tc *testClient) fetchCsrf() {
	rec := tc.get("/csrf")
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		tc.t.Fatalf("failed to decode csrf response: %v", err)
	}
	tc.csrf = resp["csrf_token"]
}

func (tc *testClient) loginAs(username string, admin bool) {
	user := domain.User{Username: username, IsAdmin: admin}
	if err := user.SetPassword("secret123"); err != nil {
		tc.t.Fatal(err)
	}
	if err := tc.db.Create(&user).Error; err != nil {
		tc.t.Fatalf("failed to create user: %v", err)
	}
	rec := tc.sendJSON(http.MethodPost, "/login",
		map[string]interface{}{"username": username, "password": "secret123"})
	if rec.Code != http.StatusOK {
		tc.t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
}

// multipartBody builds an admin inventory form with an optional file part.
func multipartBody(t *testing.T, fields map[string]string, fileField, fileName, fileMime string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition",
			`form-data; name="`+fileField+`"; filename="`+fileName+`"`)
		hdr.Set("Content-Type", fileMime)
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf, w.FormDataContentType()
}

func (tc *testClient) postMultipart(path string, fields map[string]string, fileField, fileName, fileMime string, fileData []byte) *httptest.ResponseRecorder {
	body, contentType := multipartBody(tc.t, fields, fileField, fileName, fileMime, fileData)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	return tc.do(req)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return m
}

func TestAdminGuard(t *testing.T) {
	tc := newTestClient(t)

	rec := tc.get("/admin/inventario")
	if rec.Code != http.StatusFound {
		t.Errorf("anonymous status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}

	tc.loginAs("plainuser", false)
	rec = tc.get("/admin/inventario")
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rec.Code)
	}
}

func TestInventoryAddWithImage(t *testing.T) {
	tc := newTestClient(t)
	tc.loginAs("admin", true)

	png := []byte("\x89PNG fake image bytes")
	rec := tc.postMultipart("/admin/inventario/add",
		map[string]string{"title": "CONTROL PRO", "price": "1500", "category": "Controles"},
		"img_file", "control.png", "image/png", png)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var p domain.Product
	if err := tc.db.Where("title = ?", "CONTROL PRO").First(&p).Error; err != nil {
		t.Fatalf("product not created: %v", err)
	}
	if p.Category != "Controles" || p.ImageMime != "image/png" || len(p.ImageData) == 0 {
		t.Errorf("product = %+v", p)
	}

	img := tc.get("/product_image/" + strconv.FormatInt(p.ID, 10))
	if img.Code != http.StatusOK {
		t.Fatalf("image status = %d", img.Code)
	}
	if ct := img.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	if !bytes.Equal(img.Body.Bytes(), png) {
		t.Error("served image differs from upload")
	}
}

func TestInventoryRejectsOversizedImage(t *testing.T) {
	tc := newTestClient(t)
	tc.loginAs("admin", true)

	big := bytes.Repeat([]byte("a"), MaxImageBytes+1)
	rec := tc.postMultipart("/admin/inventario/add",
		map[string]string{"title": "TOO BIG", "price": "10"},
		"img_file", "big.png", "image/png", big)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var count int64
	tc.db.Model(&domain.Product{}).Where("title = ?", "TOO BIG").Count(&count)
	if count != 0 {
		t.Error("oversized upload still created a product")
	}
}

func TestInventoryRejectsWrongImageType(t *testing.T) {
	tc := newTestClient(t)
	tc.loginAs("admin", true)

	rec := tc.postMultipart("/admin/inventario/add",
		map[string]string{"title": "BAD TYPE", "price": "10"},
		"img_file", "notes.txt", "text/plain", []byte("not an image"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var count int64
	tc.db.Model(&domain.Product{}).Where("title = ?", "BAD TYPE").Count(&count)
	if count != 0 {
		t.Error("wrong-type upload still created a product")
	}
}

func TestInventoryEditRejectedImageLeavesProductUnchanged(t *testing.T) {
	tc := newTestClient(t)
	tc.loginAs("admin", true)

	p := domain.Product{Title: "ORIGINAL", Price: 99, Category: "Juegos"}
	tc.db.Create(&p)

	big := bytes.Repeat([]byte("b"), MaxImageBytes+1)
	rec := tc.postMultipart("/admin/inventario/edit/"+strconv.FormatInt(p.ID, 10),
		map[string]string{"title": "CHANGED", "price": "1"},
		"img_file", "big.png", "image/png", big)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var got domain.Product
	tc.db.First(&got, p.ID)
	if got.Title != "ORIGINAL" || got.Price != 99 {
		t.Errorf("product mutated despite rejected image: %+v", got)
	}
}

func TestCategoryNormalization(t *testing.T) {
	tc := newTestClient(t)
	tc.loginAs("admin", true)

	rec := tc.postMultipart("/admin/inventario/add",
		map[string]string{"title": "WEIRD CAT", "price": "5", "category": "Bogus"},
		"", "", "", nil)
	resp := decodeBody(t, rec)
	if resp["warning"] == nil {
		t.Error("expected a warning for unknown category")
	}
	var p domain.Product
	tc.db.Where("title = ?", "WEIRD CAT").First(&p)
	if p.Category != domain.FallbackCategory {
		t.Errorf("category = %q, want %q", p.Category, domain.FallbackCategory)
	}

	rec = tc.postMultipart("/admin/inventario/add",
		map[string]string{"title": "NO CAT", "price": "5"},
		"", "", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	p = domain.Product{}
	tc.db.Where("title = ?", "NO CAT").First(&p)
	if p.Category != domain.DefaultCategory {
		t.Errorf("category = %q, want %q", p.Category, domain.DefaultCategory)
	}
}

func TestInventoryEditKeepsCategoryOnUnknown(t *testing.T) {
	tc := newTestClient(t)
	tc.loginAs("admin", true)

	p := domain.Product{Title: "STAYS", Price: 10, Category: "Consolas"}
	tc.db.Create(&p)

	rec := tc.postMultipart("/admin/inventario/edit/"+strconv.FormatInt(p.ID, 10),
		map[string]string{"title": "STAYS", "price": "10", "category": "Nope"},
		"", "", "", nil)
	resp := decodeBody(t, rec)
	if resp["warning"] == nil {
		t.Error("expected a warning for unknown category")
	}

	var got domain.Product
	tc.db.First(&got, p.ID)
	if got.Category != "Consolas" {
		t.Errorf("category = %q, want Consolas", got.Category)
	}
}

func TestInventoryDeleteDetachesOrderItems(t *testing.T) {
	tc := newTestClient(t)
	tc.loginAs("admin", true)

	p := domain.Product{Title: "SOLD ONCE", Price: 250}
	tc.db.Create(&p)
	order := domain.Order{Total: 250, Status: "pending"}
	tc.db.Create(&order)
	item := domain.OrderItem{OrderID: order.ID, ProductID: &p.ID, Quantity: 1, Price: 250}
	tc.db.Create(&item)

	rec := tc.postMultipart("/admin/inventario/delete/"+strconv.FormatInt(p.ID, 10),
		map[string]string{}, "", "", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got domain.OrderItem
	if err := tc.db.First(&got, item.ID).Error; err != nil {
		t.Fatalf("order item vanished: %v", err)
	}
	if got.ProductID != nil {
		t.Error("order item still references the deleted product")
	}
	if got.Price != 250 {
		t.Errorf("price snapshot = %v, want 250", got.Price)
	}
}

func TestInventoryDeleteMissingProduct(t *testing.T) {
	tc := newTestClient(t)
	tc.loginAs("admin", true)

	rec := tc.postMultipart("/admin/inventario/delete/99999",
		map[string]string{}, "", "", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["code"] != "NOT_FOUND" {
		t.Errorf("code = %v, want NOT_FOUND", resp["code"])
	}
}

func TestDashboardCounts(t *testing.T) {
	tc := newTestClient(t)
	tc.loginAs("admin", true)

	p := domain.Product{Title: "COUNTED", Price: 1}
	tc.db.Create(&p)

	rec := tc.get("/admin")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	if resp["products"].(float64) != 1 || resp["users"].(float64) != 1 {
		t.Errorf("counts = %v", resp)
	}

	// a failing count must surface, not report zeros
	if err := tc.db.Migrator().DropTable(&domain.Product{}); err != nil {
		t.Fatal(err)
	}
	rec = tc.get("/admin")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status after dropped table = %d, want 500", rec.Code)
	}
	resp = decodeBody(t, rec)
	if resp["code"] != "DATABASE_ERROR" {
		t.Errorf("code = %v, want DATABASE_ERROR", resp["code"])
	}
}

func TestProductAPICrud(t *testing.T) {
	tc := newTestClient(t)

	rec := tc.sendJSON(http.MethodPost, "/api/products", map[string]interface{}{"price": 10})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing title status = %d, want 400", rec.Code)
	}

	rec = tc.sendJSON(http.MethodPost, "/api/products",
		map[string]interface{}{"title": "API GAME", "price": 60, "img": "http://example.com/x.png"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	id := strconv.Itoa(int(created["id"].(float64)))

	rec = tc.sendJSON(http.MethodPut, "/api/products/"+id, map[string]interface{}{"price": 45})
	updated := decodeBody(t, rec)
	if updated["price"].(float64) != 45 || updated["title"] != "API GAME" {
		t.Errorf("partial update = %v", updated)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+id, nil)
	rec = tc.do(req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}

	rec = tc.get("/api/products/" + id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestProductImageFallbacks(t *testing.T) {
	tc := newTestClient(t)

	p := domain.Product{Title: "URL ONLY", Price: 5, Img: "https://cdn.example.com/p.png"}
	tc.db.Create(&p)

	rec := tc.get("/product_image/" + strconv.FormatInt(p.ID, 10))
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302 redirect to external url", rec.Code)
	}

	rec = tc.get("/product_image/99999")
	if rec.Code != http.StatusOK {
		t.Fatalf("placeholder status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Errorf("placeholder content type = %q", ct)
	}
}
