package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sample-intranet/identity-api/internal/core/domain"
)

func adminActor() *domain.User {
	u := sampleUser()
	u.ID = "admin-1"
	u.Role = domain.RoleAdmin
	return u
}

func protectedContext(e *echo.Echo, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("bearer_token", "tok")
	return c, rec
}

func TestUserHandler_List_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(_ context.Context, token string, op domain.Operation, targetID string) (*domain.User, error) {
			if token != "tok" || op != domain.OpList || targetID != "" {
				t.Fatalf("unexpected authorize args: %s %s %s", token, op, targetID)
			}
			return adminActor(), nil
		},
		listFn: func(_ context.Context, skip, limit int) ([]*domain.User, error) {
			if skip != 0 || limit != 100 {
				t.Fatalf("unexpected paging defaults: skip=%d limit=%d", skip, limit)
			}
			return []*domain.User{sampleUser()}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := protectedContext(e, http.MethodGet, "/api/v1/users", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["id"] != "u-1" {
		t.Fatalf("unexpected payload: %v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password material in list response: %s", rec.Body.String())
	}
}

func TestUserHandler_List_Forbidden(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(context.Context, string, domain.Operation, string) (*domain.User, error) {
			return nil, domain.ErrForbidden
		},
		listFn: func(context.Context, int, int) ([]*domain.User, error) {
			t.Fatalf("list must not run when authorization fails")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := protectedContext(e, http.MethodGet, "/api/v1/users", "")
	if err := h.List(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_List_Pagination(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(context.Context, string, domain.Operation, string) (*domain.User, error) {
			return adminActor(), nil
		},
		listFn: func(_ context.Context, skip, limit int) ([]*domain.User, error) {
			if skip != 4 || limit != 2 {
				t.Fatalf("paging params not forwarded: skip=%d limit=%d", skip, limit)
			}
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := protectedContext(e, http.MethodGet, "/api/v1/users?skip=4&limit=2", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_List_BadPagination(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(context.Context, string, domain.Operation, string) (*domain.User, error) {
			return adminActor(), nil
		},
		listFn: func(context.Context, int, int) ([]*domain.User, error) {
			t.Fatalf("list must not run for invalid paging params")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	for _, target := range []string{
		"/api/v1/users?skip=abc",
		"/api/v1/users?limit=-1",
		"/api/v1/users?skip=-5",
		"/api/v1/users?limit=1.5",
	} {
		c, _ := protectedContext(e, http.MethodGet, target, "")
		err := h.List(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 HTTPError, got %v", target, err)
		}
	}
}

func TestUserHandler_Search(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(_ context.Context, _ string, op domain.Operation, _ string) (*domain.User, error) {
			if op != domain.OpSearch {
				t.Fatalf("expected search operation, got %s", op)
			}
			return adminActor(), nil
		},
		searchFn: func(_ context.Context, term string) ([]*domain.User, error) {
			if term != "ali" {
				t.Fatalf("unexpected term: %s", term)
			}
			return []*domain.User{sampleUser()}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := protectedContext(e, http.MethodGet, "/api/v1/users/search?name=ali", "")
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Search_MissingTerm(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(context.Context, string, domain.Operation, string) (*domain.User, error) {
			return adminActor(), nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := protectedContext(e, http.MethodGet, "/api/v1/users/search", "")
	err := h.Search(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Get(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(_ context.Context, _ string, op domain.Operation, targetID string) (*domain.User, error) {
			if op != domain.OpReadAny || targetID != "u-1" {
				t.Fatalf("unexpected authorize args: %s %s", op, targetID)
			}
			return sampleUser(), nil
		},
		getFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != "u-1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := protectedContext(e, http.MethodGet, "/api/v1/users/u-1", "")
	c.SetParamNames("id")
	c.SetParamValues("u-1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(context.Context, string, domain.Operation, string) (*domain.User, error) {
			return adminActor(), nil
		},
		getFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	c, _ := protectedContext(e, http.MethodGet, "/api/v1/users/u-404", "")
	c.SetParamNames("id")
	c.SetParamValues("u-404")

	if err := h.Get(c); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Update(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(_ context.Context, _ string, op domain.Operation, targetID string) (*domain.User, error) {
			if op != domain.OpWriteAny || targetID != "u-1" {
				t.Fatalf("unexpected authorize args: %s %s", op, targetID)
			}
			return adminActor(), nil
		},
		updateFn: func(_ context.Context, actor *domain.User, id string, patch domain.UserPatch) (*domain.User, error) {
			if actor.ID != "admin-1" || id != "u-1" {
				t.Fatalf("unexpected args: %s %s", actor.ID, id)
			}
			if patch.Name == nil || *patch.Name != "New Name" {
				t.Fatalf("name not in patch: %+v", patch)
			}
			if patch.Role == nil || *patch.Role != domain.RoleAdmin {
				t.Fatalf("role not in patch: %+v", patch)
			}
			if patch.Active != nil {
				t.Fatalf("active unexpectedly set: %+v", patch)
			}
			u := sampleUser()
			u.Name = "New Name"
			u.Role = domain.RoleAdmin
			return u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := protectedContext(e, http.MethodPut, "/api/v1/users/u-1", `{"name":"New Name","role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("u-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_BadRole(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(context.Context, string, domain.Operation, string) (*domain.User, error) {
			return adminActor(), nil
		},
		updateFn: func(context.Context, *domain.User, string, domain.UserPatch) (*domain.User, error) {
			t.Fatalf("update must not run for an invalid role")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := protectedContext(e, http.MethodPut, "/api/v1/users/u-1", `{"role":"root"}`)
	c.SetParamNames("id")
	c.SetParamValues("u-1")

	err := h.Update(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newTestEcho()
	deleted := ""
	stub := &stubIdentityService{
		authorizeFn: func(_ context.Context, _ string, op domain.Operation, targetID string) (*domain.User, error) {
			if op != domain.OpDeleteAny {
				t.Fatalf("expected delete_any, got %s", op)
			}
			return adminActor(), nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := protectedContext(e, http.MethodDelete, "/api/v1/users/u-1", "")
	c.SetParamNames("id")
	c.SetParamValues("u-1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "u-1" {
		t.Fatalf("wrong id deleted: %s", deleted)
	}
}

func TestUserHandler_Delete_Unauthorized(t *testing.T) {
	e := newTestEcho()
	stub := &stubIdentityService{
		authorizeFn: func(context.Context, string, domain.Operation, string) (*domain.User, error) {
			return nil, domain.ErrInvalidToken
		},
		deleteFn: func(context.Context, string) error {
			t.Fatalf("delete must not run when authorization fails")
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := protectedContext(e, http.MethodDelete, "/api/v1/users/u-1", "")
	c.SetParamNames("id")
	c.SetParamValues("u-1")

	if err := h.Delete(c); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
