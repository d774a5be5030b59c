package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hostelmed/clinic/internal/platform/auth"
	"github.com/hostelmed/clinic/pkg/envelope"
)

func identity(rollNo, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.WithIdentity(c.Request().Context(), rollNo, role)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func newTestServer(repo Repository, rollNo, role string) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = envelope.ErrorHandler
	api := e.Group("/api/v1", identity(rollNo, role))
	NewHandler(NewService(repo)).RegisterRoutes(api)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRestockHandler(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(repo, "DOC01", auth.RoleStaff)

	rec, env := doJSON(e, http.MethodPut, "/api/v1/inventory",
		`{"medicine":"Paracetamol","quantity":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Error("expected success envelope")
	}
	if repo.stock["Paracetamol"] != 5 {
		t.Errorf("expected stock 5, got %d", repo.stock["Paracetamol"])
	}

	rec, _ = doJSON(e, http.MethodPut, "/api/v1/inventory",
		`{"medicine":"","quantity":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank medicine: expected 400, got %d", rec.Code)
	}
}

type failingItemRepo struct {
	Repository
}

func (failingItemRepo) Upsert(context.Context, string, int) (*Item, error) {
	return nil, errors.New("connection refused")
}

func TestRestockHandler_RepoFailureIsServerError(t *testing.T) {
	e := newTestServer(failingItemRepo{newMockRepo()}, "DOC01", auth.RoleStaff)

	rec, _ := doJSON(e, http.MethodPut, "/api/v1/inventory",
		`{"medicine":"Paracetamol","quantity":5}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("database failure must surface as 500, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInventoryHandler_StudentForbidden(t *testing.T) {
	e := newTestServer(newMockRepo(), "B19CS001", auth.RoleStudent)

	if rec, _ := doJSON(e, http.MethodGet, "/api/v1/inventory", ""); rec.Code != http.StatusForbidden {
		t.Errorf("list: expected 403, got %d", rec.Code)
	}
	if rec, _ := doJSON(e, http.MethodPut, "/api/v1/inventory", `{"medicine":"X","quantity":1}`); rec.Code != http.StatusForbidden {
		t.Errorf("restock: expected 403, got %d", rec.Code)
	}
}

func TestGetMedicineHandler_NotFound(t *testing.T) {
	e := newTestServer(newMockRepo(), "DOC01", auth.RoleStaff)

	rec, env := doJSON(e, http.MethodGet, "/api/v1/inventory/Unknownium", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env.Success {
		t.Error("expected failure envelope")
	}
}
