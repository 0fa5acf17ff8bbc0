package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Note is the client-side read model of a note as the service serves it.
type Note struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Institute   string    `json:"institute"`
	State       string    `json:"state,omitempty"`
	District    string    `json:"district,omitempty"`
	Departments []string  `json:"departments,omitempty"`
	Stream      string    `json:"stream,omitempty"`
	Year        string    `json:"year,omitempty"`
	Semester    string    `json:"semester,omitempty"`
	ClassLevel  string    `json:"classLevel,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	FileName    string    `json:"fileName,omitempty"`
	FileSize    int64     `json:"fileSize,omitempty"`
	FileUrl     string    `json:"fileUrl,omitempty"`
	Views       int64     `json:"views"`
	Downloads   int64     `json:"downloads"`
	Status      string    `json:"status"`
	RejectReason string   `json:"rejectReason,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MetaCatalog mirrors GET /api/notes/meta.
type MetaCatalog struct {
	Years                   []string `json:"years"`
	Streams                 []string `json:"streams"`
	Classes                 []string `json:"classes"`
	EngineeringDepartments  []string `json:"engineeringDepartments"`
	IntermediateDepartments []string `json:"intermediateDepartments"`
	SchoolDepartments       []string `json:"schoolDepartments"`
}

// LoginResult mirrors the auth envelope data.
type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// Client speaks the notes service HTTP surface. The bearer token comes from
// the Session on every call, never cached.
type Client struct {
	baseURL string
	session *Session
	http    *http.Client
}

func NewClient(baseURL string, session *Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		session: session,
		http:    httpClient,
	}
}

func (c *Client) ListNotes(ctx context.Context, query url.Values) ([]Note, error) {
	var notes []Note
	path := "/api/notes"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	if err := c.getJSON(ctx, path, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) MyNotes(ctx context.Context) ([]Note, error) {
	var notes []Note
	if err := c.getJSON(ctx, "/api/notes/mine", &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) Meta(ctx context.Context) (*MetaCatalog, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/notes/meta", nil)
	if err != nil {
		return nil, err
	}
	var meta MetaCatalog
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, newError(KindNetworkFailure, "malformed meta response", 0, err)
	}
	return &meta, nil
}

func (c *Client) SuggestInstitutes(ctx context.Context, category, prefix string) ([]string, error) {
	return c.suggestList(ctx, "/api/notes/institutes", url.Values{
		"category": {category}, "prefix": {prefix},
	}, "institutes")
}

func (c *Client) SuggestStates(ctx context.Context, category, prefix string) ([]string, error) {
	return c.suggestList(ctx, "/api/notes/states", url.Values{
		"category": {category}, "prefix": {prefix},
	}, "states")
}

func (c *Client) SuggestDistricts(ctx context.Context, category, state, prefix string) ([]string, error) {
	return c.suggestList(ctx, "/api/notes/districts", url.Values{
		"category": {category}, "state": {state}, "prefix": {prefix},
	}, "districts")
}

func (c *Client) Departments(ctx context.Context, institute, category string) ([]string, error) {
	path := "/api/notes/departments/" + url.PathEscape(institute)
	return c.suggestList(ctx, path, url.Values{"category": {category}}, "departments")
}

func (c *Client) suggestList(ctx context.Context, path string, query url.Values, field string) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var payload map[string][]string
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, newError(KindNetworkFailure, "malformed suggestion response", 0, err)
	}
	return payload[field], nil
}

// DownloadNote returns the raw file bytes. Authorization failures, including
// the server-side reciprocity refusal, surface as KindAuthorizationDenied.
func (c *Client) DownloadNote(ctx context.Context, noteID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(noteID)+"/download", nil)
}

func (c *Client) RecordView(ctx context.Context, noteID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/notes/"+url.PathEscape(noteID)+"/view", nil)
	return err
}

// Login authenticates and installs the result into the session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	body, err := c.do(ctx, http.MethodPost, "/api/auth/login", payload)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, newError(KindNetworkFailure, "malformed login response", 0, err)
	}
	var result LoginResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, newError(KindNetworkFailure, "malformed login response", 0, err)
	}

	if err := c.session.SetToken(result.Token, result.User.ID, result.User.Name); err != nil {
		return nil, newError(KindNetworkFailure, "persist token", 0, err)
	}
	return &result, nil
}

// getJSON fetches an enveloped response and decodes its data field.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return newError(KindNetworkFailure, "malformed response envelope", 0, err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return newError(KindNetworkFailure, "malformed response data", 0, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, newError(KindNetworkFailure, "build request", 0, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, newError(KindNetworkFailure, "request failed", 0, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, newError(KindNetworkFailure, "read response", res.StatusCode, err)
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return body, nil
	}
	return nil, c.mapStatus(res.StatusCode, body)
}

// mapStatus folds a non-2xx response into the failure taxonomy, carrying the
// server's message through when the body has one.
func (c *Client) mapStatus(status int, body []byte) *Error {
	message := fmt.Sprintf("server returned %d", status)
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		message = env.Message
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newError(KindAuthorizationDenied, message, status, nil)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return newError(KindValidationFailure, message, status, nil)
	default:
		return newError(KindNetworkFailure, message, status, nil)
	}
}
