package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runAuth(t *testing.T, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestAuth_ExtractsToken(t *testing.T) {
	c, err := runAuth(t, "Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if Token(c) != "abc.def.ghi" {
		t.Fatalf("unexpected token: %q", Token(c))
	}
}

func TestAuth_CaseInsensitiveScheme(t *testing.T) {
	c, err := runAuth(t, "bearer xyz")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if Token(c) != "xyz" {
		t.Fatalf("unexpected token: %q", Token(c))
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := runAuth(t, "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Bearer ", "Basic abc", "abc"} {
		_, err := runAuth(t, header)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401 HTTPError, got %v", header, err)
		}
	}
}

func TestToken_EmptyWithoutMiddleware(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if Token(c) != "" {
		t.Fatalf("expected empty token, got %q", Token(c))
	}
}
