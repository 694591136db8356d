package webserver

import (
	"encoding/gob"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/gamestore/internal/cart"
	"github.com/talkincode/gamestore/internal/domain"
)

// SessionName is the cookie holding all per-visitor state.
const SessionName = "gamestore"

const (
	sessKeyCart      = "cart"
	sessKeyFavorites = "favorites"
	sessKeyUserID    = "user_id"
	sessKeyUsername  = "username"
	sessKeyIsAdmin   = "is_admin"
	sessKeyCsrf      = "csrf_token"
)

func init() {
	gob.Register(map[string]int{})
	gob.Register(map[string]bool{})
}

func getSession(c echo.Context) *sessions.Session {
	s, _ := session.Get(SessionName, c)
	return s
}

func saveSession(c echo.Context, s *sessions.Session) error {
	return s.Save(c.Request(), c.Response())
}

// GetCart decodes the session cart, returning an empty cart when absent.
func GetCart(c echo.Context) cart.Cart {
	if v, ok := getSession(c).Values[sessKeyCart].(map[string]int); ok {
		return cart.Cart(v)
	}
	return cart.Cart{}
}

// SaveCart writes the cart back into the session.
func SaveCart(c echo.Context, ct cart.Cart) error {
	s := getSession(c)
	s.Values[sessKeyCart] = map[string]int(ct)
	return saveSession(c, s)
}

// ClearCart drops the cart from the session.
func ClearCart(c echo.Context) error {
	s := getSession(c)
	delete(s.Values, sessKeyCart)
	return saveSession(c, s)
}

// GetFavorites decodes the session favorites set.
func GetFavorites(c echo.Context) cart.Favorites {
	if v, ok := getSession(c).Values[sessKeyFavorites].(map[string]bool); ok {
		return cart.Favorites(v)
	}
	return cart.Favorites{}
}

// SaveFavorites writes the favorites set back into the session.
func SaveFavorites(c echo.Context, f cart.Favorites) error {
	s := getSession(c)
	s.Values[sessKeyFavorites] = map[string]bool(f)
	return saveSession(c, s)
}

// SetAuthUser stores the authenticated identity in the session.
func SetAuthUser(c echo.Context, user *domain.User) error {
	s := getSession(c)
	s.Values[sessKeyUserID] = user.ID
	s.Values[sessKeyUsername] = user.Username
	s.Values[sessKeyIsAdmin] = user.IsAdmin
	return saveSession(c, s)
}

// ClearAuth removes the authenticated identity, keeping cart and
// favorites intact.
func ClearAuth(c echo.Context) error {
	s := getSession(c)
	delete(s.Values, sessKeyUserID)
	delete(s.Values, sessKeyUsername)
	delete(s.Values, sessKeyIsAdmin)
	return saveSession(c, s)
}

// CurrentUserID returns the logged-in user id, zero when anonymous.
func CurrentUserID(c echo.Context) int64 {
	if v, ok := getSession(c).Values[sessKeyUserID].(int64); ok {
		return v
	}
	return 0
}

// CurrentUsername returns the logged-in username, empty when anonymous.
func CurrentUsername(c echo.Context) string {
	if v, ok := getSession(c).Values[sessKeyUsername].(string); ok {
		return v
	}
	return ""
}

// IsAdmin reports whether the session belongs to an admin user.
func IsAdmin(c echo.Context) bool {
	v, ok := getSession(c).Values[sessKeyIsAdmin].(bool)
	return ok && v
}
