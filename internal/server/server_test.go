package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/osgirl/groupbuyer/internal/auth"
	"github.com/osgirl/groupbuyer/internal/storage/sqlite"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "groupbuyer-http-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)
	return New(store, jwtManager).Router()
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func register(t *testing.T, handler http.Handler, email string) string {
	t.Helper()
	rec := doJSON(t, handler, "POST", "/auth/register", "", map[string]string{
		"email": email, "displayName": email, "password": "longenough",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Register returned %d: %s", rec.Code, rec.Body.String())
	}
	var session struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &session)
	return session.Token
}

func TestHealthz(t *testing.T) {
	handler := newTestServer(t)
	rec := doJSON(t, handler, "GET", "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	handler := newTestServer(t)

	token := register(t, handler, "alice@example.com")
	if token == "" {
		t.Fatal("Expected a token")
	}

	t.Run("duplicate email maps to 409", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/auth/register", "", map[string]string{
			"email": "alice@example.com", "displayName": "Alice", "password": "longenough",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Name string `json:"name"`
		}
		decodeBody(t, rec, &body)
		if body.Name != "DuplicateError" {
			t.Errorf("Expected DuplicateError, got %q", body.Name)
		}
	})

	t.Run("bad login maps to 403", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "wrongpass",
		})
		if rec.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", rec.Code)
		}
	})

	t.Run("good login returns a session", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "longenough",
		})
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestGroupbuyEndpoints(t *testing.T) {
	handler := newTestServer(t)
	token := register(t, handler, "alice@example.com")

	t.Run("anonymous create maps to 401", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/groupbuys", "", map[string]string{"title": "x"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing title maps to 400 with field detail", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/groupbuys", token, map[string]string{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", rec.Code)
		}
		var body struct {
			Name   string            `json:"name"`
			Errors map[string]string `json:"errors"`
		}
		decodeBody(t, rec, &body)
		if body.Name != "ValidationError" || body.Errors["title"] == "" {
			t.Errorf("Expected ValidationError with title detail, got %+v", body)
		}
	})

	var groupbuyID string
	t.Run("create and fetch", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/groupbuys", token, map[string]string{"title": "Coffee beans"})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var view struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		decodeBody(t, rec, &view)
		groupbuyID = view.ID
		if view.Status != "new" {
			t.Errorf("Expected status new, got %q", view.Status)
		}

		get := doJSON(t, handler, "GET", "/groupbuys/"+groupbuyID, "", nil)
		if get.Code != http.StatusOK {
			t.Errorf("Expected 200 for anonymous read, got %d", get.Code)
		}
	})

	t.Run("illegal transition maps to 409", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/groupbuys/"+groupbuyID+"/go-to/paid", token, nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("legal transition succeeds", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/groupbuys/"+groupbuyID+"/go-to/published", token, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown groupbuy maps to 404", func(t *testing.T) {
		rec := doJSON(t, handler, "GET", "/groupbuys/no-such-id", token, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

func TestOrderEndpoints(t *testing.T) {
	handler := newTestServer(t)
	token := register(t, handler, "alice@example.com")

	var groupbuyID string
	{
		rec := doJSON(t, handler, "POST", "/groupbuys", token, map[string]string{"title": "Tea order"})
		var view struct {
			ID string `json:"id"`
		}
		decodeBody(t, rec, &view)
		groupbuyID = view.ID
	}

	var itemID string
	t.Run("manager creates an item", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/groupbuys/"+groupbuyID+"/items", token, map[string]any{
			"title": "Sencha 100g", "price": 8.50, "currency": "EUR",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var view struct {
			ID string `json:"id"`
		}
		decodeBody(t, rec, &view)
		itemID = view.ID
	})

	t.Run("request then calculate", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/groupbuys/"+groupbuyID+"/order/requests", token, map[string]any{
			"items": []map[string]any{{"itemId": itemID, "quantity": 3}},
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		calc := doJSON(t, handler, "POST", "/groupbuys/"+groupbuyID+"/order/calculate", token, nil)
		if calc.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", calc.Code, calc.Body.String())
		}
		var view struct {
			Summary []struct {
				ItemID   string `json:"itemId"`
				Quantity int64  `json:"quantity"`
			} `json:"summary"`
			Total float64 `json:"total"`
		}
		decodeBody(t, calc, &view)
		if len(view.Summary) != 1 || view.Summary[0].Quantity != 3 {
			t.Errorf("Expected summary [3], got %+v", view.Summary)
		}
		if view.Total != 25.50 {
			t.Errorf("Expected total 25.50, got %v", view.Total)
		}
	})

	t.Run("malformed JSON maps to 400", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/groupbuys/"+groupbuyID+"/order/requests", bytes.NewBufferString("{"))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestMessageEndpoints(t *testing.T) {
	handler := newTestServer(t)
	aliceToken := register(t, handler, "alice@example.com")
	bobToken := register(t, handler, "bob@example.com")

	var groupbuyID string
	{
		rec := doJSON(t, handler, "POST", "/groupbuys", aliceToken, map[string]string{"title": "Bulk order"})
		var view struct {
			ID string `json:"id"`
		}
		decodeBody(t, rec, &view)
		groupbuyID = view.ID
	}

	// bob joins himself
	var bobID string
	{
		rec := doJSON(t, handler, "POST", "/auth/login", "", map[string]string{
			"email": "bob@example.com", "password": "longenough",
		})
		var session struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
		}
		decodeBody(t, rec, &session)
		bobID = session.User.ID
	}
	if rec := doJSON(t, handler, "POST", "/groupbuys/"+groupbuyID+"/members", bobToken, map[string]string{"userId": bobID}); rec.Code != http.StatusOK {
		t.Fatalf("Join failed: %d %s", rec.Code, rec.Body.String())
	}

	t.Run("member broadcast and manager inbox", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/groupbuys/"+groupbuyID+"/messages", bobToken, map[string]string{
			"text": "when is the deadline?",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		inbox := doJSON(t, handler, "GET", "/groupbuys/"+groupbuyID+"/messages", aliceToken, nil)
		if inbox.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", inbox.Code)
		}
		var msgs []struct {
			Broadcast bool `json:"broadcast"`
			Unread    bool `json:"unread"`
		}
		decodeBody(t, inbox, &msgs)
		if len(msgs) != 1 || !msgs[0].Broadcast {
			t.Fatalf("Expected one broadcast message, got %+v", msgs)
		}
	})

	t.Run("mark read reports the count", func(t *testing.T) {
		rec := doJSON(t, handler, "POST", "/groupbuys/"+groupbuyID+"/messages/read", aliceToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var body struct {
			Marked int `json:"marked"`
		}
		decodeBody(t, rec, &body)
		if body.Marked != 1 {
			t.Errorf("Expected 1 marked, got %d", body.Marked)
		}
	})
}
