package shopapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gamestore/internal/domain"
	"github.com/talkincode/gamestore/internal/events"
	"github.com/talkincode/gamestore/internal/webserver"
	"gorm.io/gorm"
)

func registerAuthRoutes() {
	webserver.GET("/login", loginPage)
	webserver.POST("/login", login)
	webserver.GET("/registro", registerPage)
	webserver.POST("/registro", register, webserver.CsrfProtect())
	webserver.GET("/logout", logout)
	webserver.GET("/perfiluser", profile)
}

func loginPage(c echo.Context) error {
	return ok(c, map[string]interface{}{
		"page":       "login",
		"csrf_token": webserver.CsrfToken(c),
	})
}

// login authenticates against the users table. Unknown usernames and
// wrong passwords yield the identical generic message so accounts
// cannot be enumerated.
func login(c echo.Context) error {
	username := strings.TrimSpace(webserver.RequestValue(c, "username"))
	password := strings.TrimSpace(webserver.RequestValue(c, "password"))

	var user domain.User
	err := webserver.GetDB(c).Where("username = ?", username).First(&user).Error
	if err != nil || !user.CheckPassword(password) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user")
		}
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	}

	if err := webserver.SetAuthUser(c, &user); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save session")
	}
	events.Publish(events.TopicUserLogin, user.Username, "login")

	target := "/perfiluser"
	if user.IsAdmin {
		target = "/admin"
	}
	return redirectOr(c, target, map[string]interface{}{"ok": true, "username": user.Username})
}

func registerPage(c echo.Context) error {
	return ok(c, map[string]interface{}{
		"page":       "registro",
		"csrf_token": webserver.CsrfToken(c),
	})
}

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func register(c echo.Context) error {
	creds := credentials{
		Username: strings.TrimSpace(webserver.RequestValue(c, "username")),
		Password: strings.TrimSpace(webserver.RequestValue(c, "password")),
	}
	if err := c.Validate(&creds); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "username and password required")
	}
	username, password := creds.Username, creds.Password

	db := webserver.GetDB(c)
	var existing domain.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return fail(c, http.StatusBadRequest, "USER_EXISTS", "user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user")
	}

	user := domain.User{Username: username}
	if err := user.SetPassword(password); err != nil {
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", "Failed to hash password")
	}
	if err := db.Create(&user).Error; err != nil {
		// a concurrent insert can still trip the unique index
		return fail(c, http.StatusBadRequest, "USER_EXISTS", "user already exists")
	}

	// auto-login the new account
	if err := webserver.SetAuthUser(c, &user); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save session")
	}
	events.Publish(events.TopicUserRegister, user.Username, "register")

	return redirectOr(c, "/perfiluser", map[string]interface{}{"ok": true, "username": user.Username})
}

func logout(c echo.Context) error {
	if err := webserver.ClearAuth(c); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to clear session")
	}
	return redirectOr(c, "/", map[string]interface{}{"ok": true})
}

func profile(c echo.Context) error {
	uid := webserver.CurrentUserID(c)
	if uid == 0 {
		return redirectOr(c, "/login", map[string]interface{}{"ok": false})
	}

	db := webserver.GetDB(c)
	var user domain.User
	if err := db.First(&user, uid).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "user not found")
	}
	var orders []domain.Order
	if err := db.Where("user_id = ?", uid).Order("created_at DESC").Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders")
	}

	return ok(c, map[string]interface{}{
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"is_admin": user.IsAdmin,
		},
		"orders":          orders,
		"favorites_count": len(webserver.GetFavorites(c)),
	})
}
