package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(ts *httptest.Server) *HTTPClient {
	c := NewHTTPClient(ts.URL)
	c.httpClient = ts.Client()
	c.maxAttempts = 3
	c.baseBackoff = 10 * time.Millisecond
	return c
}

func TestLoginReturnsToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "ana" || body["password"] != "secret123" {
			t.Errorf("body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	}))
	defer ts.Close()

	tok, err := newTestClient(ts).Login(context.Background(), "ana", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if tok != "tok" {
		t.Fatalf("token: %q", tok)
	}
}

func TestErrorDetailSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Login(context.Background(), "ana", "bad")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Error() != "Incorrect username or password" {
		t.Fatalf("error: %+v", apiErr)
	}
}

func TestGetUserDataSendsBearer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_user_data/ana" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header: %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"username": "ana", "name": "Ana", "bio": "hi"})
	}))
	defer ts.Close()

	// the leading sigil is stripped for the path
	u, err := newTestClient(ts).GetUserData(context.Background(), "tok", "@ana")
	if err != nil {
		t.Fatal(err)
	}
	if u.Username != "@ana" || u.Name != "Ana" || u.Bio != "hi" {
		t.Fatalf("user: %+v", u)
	}
}

func TestUpdateUserDataBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/update_user_data" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Username string        `json:"username"`
			Data     ProfileUpdate `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Username != "ana" || body.Data.Bio != "new bio" {
			t.Errorf("body: %+v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	err := newTestClient(ts).UpdateUserData(context.Background(), "tok", "@ana", ProfileUpdate{Bio: "new bio", Email: "a@b.c"})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRetryOn429ReplaysBody(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "ana" {
			t.Errorf("attempt %d lost the body: %v", attempts, body)
		}
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	}))
	defer ts.Close()

	tok, err := newTestClient(ts).Login(context.Background(), "ana", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if tok != "tok" || attempts < 2 {
		t.Fatalf("tok=%q attempts=%d", tok, attempts)
	}
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Login(context.Background(), "ana", "secret123")
	if err == nil {
		t.Fatal("expected failure")
	}
	if attempts != 3 {
		t.Fatalf("attempts=%d", attempts)
	}
}
