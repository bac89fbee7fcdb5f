package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/RoyDesCraft/chiche-client/internal/logging"
	"github.com/RoyDesCraft/chiche-client/internal/metrics"
	"github.com/RoyDesCraft/chiche-client/internal/model"
)

// ProfileUpdate is the mutable slice of a profile pushed to the backend.
type ProfileUpdate struct {
	Bio            string `json:"bio"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Preferences    string `json:"preferences,omitempty"`
}

// Backend defines the Chiche server operations the client uses.
type Backend interface {
	NewAccount(ctx context.Context, username, password, email string) error
	Login(ctx context.Context, username, password string) (string, error)
	LoginWithGoogle(ctx context.Context, idToken string) (string, error)
	GetUserData(ctx context.Context, token, username string) (model.User, error)
	UpdateUserData(ctx context.Context, token, username string, data ProfileUpdate) error
}

// APIError is a non-success backend response. Detail carries the server's
// {detail} message when present.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("chiche api status %d", e.Status)
}

// HTTPClient is a bearer-token client for the Chiche API.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     newDefaultLimiter(),
		maxAttempts: getEnvInt("CHICHE_API_MAX_ATTEMPTS", 5),
		baseBackoff: time.Duration(getEnvInt("CHICHE_API_BASE_BACKOFF_MS", 500)) * time.Millisecond,
	}
}

func auth(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
}

// NewAccount creates an account via POST /users/new_account.
func (c *HTTPClient) NewAccount(ctx context.Context, username, password, email string) error {
	body := map[string]string{"username": username, "password": password, "email": email}
	resp, err := c.postJSON(ctx, "/users/new_account", "", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	return nil
}

// Login exchanges credentials for a bearer token via POST /users/login.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.postJSON(ctx, "/users/login", "", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", decodeAPIError(resp)
	}
	var raw struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	if raw.AccessToken == "" {
		return "", errors.New("login response missing access_token")
	}
	return raw.AccessToken, nil
}

// LoginWithGoogle exchanges a Google ID token via POST /auth/google.
func (c *HTTPClient) LoginWithGoogle(ctx context.Context, idToken string) (string, error) {
	resp, err := c.postJSON(ctx, "/auth/google", "", map[string]string{"token": idToken})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", decodeAPIError(resp)
	}
	var raw struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	if raw.AccessToken == "" {
		return "", errors.New("google login response missing access_token")
	}
	return raw.AccessToken, nil
}

// GetUserData fetches profile fields via GET /get_user_data/{username}.
func (c *HTTPClient) GetUserData(ctx context.Context, token, username string) (model.User, error) {
	var out model.User
	if username == "" {
		return out, errors.New("empty username")
	}
	u := fmt.Sprintf("%s/get_user_data/%s", c.baseURL, url.PathEscape(model.BareHandle(username)))
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	auth(req, token)
	if err := c.limiter.Wait(ctx); err != nil {
		return out, err
	}
	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return out, decodeAPIError(resp)
	}
	var raw struct {
		Username       string `json:"username"`
		Name           string `json:"name"`
		Bio            string `json:"bio"`
		Email          string `json:"email"`
		ProfilePicture string `json:"profilePicture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return out, err
	}
	out = model.User{
		Username: model.CanonicalHandle(raw.Username),
		Name:     raw.Name,
		Bio:      raw.Bio,
		Email:    raw.Email,
		Picture:  raw.ProfilePicture,
	}
	return out, nil
}

// UpdateUserData pushes profile fields via PUT /update_user_data.
func (c *HTTPClient) UpdateUserData(ctx context.Context, token, username string, data ProfileUpdate) error {
	body := map[string]any{"username": model.BareHandle(username), "data": data}
	b, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/update_user_data", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	auth(req, token)
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	return nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path, token string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	auth(req, token)
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.doWithRetry(ctx, req)
}

func decodeAPIError(resp *http.Response) error {
	var raw struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&raw)
	return &APIError{Status: resp.StatusCode, Detail: raw.Detail}
}

func (c *HTTPClient) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	logging.Info("api_request", map[string]any{"method": req.Method, "path": req.URL.Path})
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			b, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = b
		}
		resp, err := c.httpClient.Do(attemptReq)
		if err == nil {
			if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599) {
				metrics.IncAPIRetry(req.URL.Path)
				ra := resp.Header.Get("Retry-After")
				_ = resp.Body.Close()
				wait := backoff
				if ra != "" {
					if secs, err := strconv.Atoi(ra); err == nil {
						wait = time.Duration(secs) * time.Second
					} else if t, err := http.ParseTime(ra); err == nil {
						if d := time.Until(t); d > 0 {
							wait = d
						}
					}
				}
				// jitter +/-20%
				jitter := time.Duration(float64(wait) * 0.2)
				if jitter > 0 {
					wait = wait - jitter + time.Duration(time.Now().UnixNano()%int64(2*jitter))
				}
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				backoff *= 2
				continue
			}
			return resp, nil
		}
		lastErr = err
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("request failed after %d attempts: %v", c.maxAttempts, lastErr)
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil && i > 0 {
		return i
	}
	return def
}
