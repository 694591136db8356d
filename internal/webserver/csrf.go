package webserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"github.com/spf13/cast"
)

// CsrfHeaderName is checked first when extracting the request token.
const CsrfHeaderName = "X-CSRF-Token"

const csrfFieldName = "csrf_token"

const ctxKeyJSONBody = "jsonbody"

// EnsureCsrfToken lazily issues a session CSRF token so any page load
// can hand it to the client. The token is persistent for the session;
// it is not rotated per request.
func EnsureCsrfToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := getSession(c)
			if _, ok := s.Values[sessKeyCsrf].(string); !ok {
				s.Values[sessKeyCsrf] = random.String(32)
				if err := saveSession(c, s); err != nil {
					return err
				}
			}
			return next(c)
		}
	}
}

// CsrfToken returns the token issued to this session.
func CsrfToken(c echo.Context) string {
	v, _ := getSession(c).Values[sessKeyCsrf].(string)
	return v
}

// bodyJSON parses the request body as JSON once, restoring it so later
// binds still work. Non-JSON or unreadable bodies yield an empty map.
func bodyJSON(c echo.Context) map[string]interface{} {
	if m, ok := c.Get(ctxKeyJSONBody).(map[string]interface{}); ok {
		return m
	}
	m := map[string]interface{}{}
	req := c.Request()
	if req.Body != nil && strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		data, err := io.ReadAll(req.Body)
		if err == nil {
			req.Body = io.NopCloser(bytes.NewReader(data))
			_ = json.Unmarshal(data, &m)
		}
	}
	c.Set(ctxKeyJSONBody, m)
	return m
}

// RequestValue extracts a parameter that may arrive as a form field or a
// JSON body field, trying the given key aliases in order.
func RequestValue(c echo.Context, keys ...string) string {
	body := bodyJSON(c)
	for _, key := range keys {
		if v := c.FormValue(key); v != "" {
			return v
		}
		if v, ok := body[key]; ok {
			if s := cast.ToString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// requestCsrfToken extracts the client token from header, form field or
// JSON body, in that order.
func requestCsrfToken(c echo.Context) string {
	if tok := c.Request().Header.Get(CsrfHeaderName); tok != "" {
		return tok
	}
	if tok := c.FormValue(csrfFieldName); tok != "" {
		return tok
	}
	return cast.ToString(bodyJSON(c)[csrfFieldName])
}

// CsrfProtect rejects mutating requests whose token is missing or does
// not match the session token. No state change happens past this point.
func CsrfProtect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			want := CsrfToken(c)
			got := requestCsrfToken(c)
			if want == "" || got == "" || want != got {
				return fail(c, http.StatusBadRequest, "CSRF_INVALID", "CSRF token missing or invalid", nil)
			}
			return next(c)
		}
	}
}

// AdminRequired sends anonymous visitors to the login page and rejects
// authenticated non-admins.
func AdminRequired() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUserID(c) == 0 {
				return c.Redirect(http.StatusFound, "/login")
			}
			if !IsAdmin(c) {
				return fail(c, http.StatusForbidden, "FORBIDDEN", "Admin privileges required", nil)
			}
			return next(c)
		}
	}
}
