package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sableaudio/mixtape/internal/shared"
)

func TestCallbackHandler(t *testing.T) {
	t.Run("Delivers Code", func(t *testing.T) {
		h := NewCallbackHandler("state1")

		req := httptest.NewRequest(http.MethodGet, "/callback?code=ABC123&state=state1", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected success page")
		}

		result := <-h.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Code != "ABC123" {
			t.Errorf("expected code ABC123, got %q", result.Code)
		}
	})

	t.Run("Missing Code Is Denied With Error Page", func(t *testing.T) {
		h := NewCallbackHandler("state1")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state1&error=access_denied", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Failed") {
			t.Error("expected explicit error page, not a loading state")
		}

		result := <-h.Result()
		if !errors.Is(result.Error(), shared.ErrAuthorizationDenied) {
			t.Errorf("expected ErrAuthorizationDenied, got %v", result.Error())
		}
	})

	t.Run("Invalid State Is Rejected", func(t *testing.T) {
		h := NewCallbackHandler("state1")

		req := httptest.NewRequest(http.MethodGet, "/callback?code=ABC123&state=wrong", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		result := <-h.Result()
		if !errors.Is(result.Error(), shared.ErrAuthorizationDenied) {
			t.Errorf("expected ErrAuthorizationDenied, got %v", result.Error())
		}
	})

	t.Run("Second Callback Is Rejected", func(t *testing.T) {
		h := NewCallbackHandler("state1")

		first := httptest.NewRequest(http.MethodGet, "/callback?code=ABC123&state=state1", nil)
		h.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/callback?code=XYZ789&state=state1", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected replay to be rejected, got %d", rec.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Method Filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string

		mk := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mk("outer"), mk("inner"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})

	t.Run("Handler Registers Own Routes", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(NewCallbackHandler("s"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=c&state=s", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected callback route to be served, got %d", rec.Code)
		}
	})
}
