package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/civicnav/navigator/internal/model/incident"
)

// HTTPClient talks to the CivicNavigator backend over JSON HTTP. It
// implements both Dispatcher and IncidentService.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient builds a client against baseURL. token is optional; when set
// it is sent as a bearer token on every request.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// SendMessage posts a free-form utterance and returns the assistant reply.
func (c *HTTPClient) SendMessage(ctx context.Context, utterance, role, sessionID string) (Reply, error) {
	payload := map[string]string{
		"message":    utterance,
		"role":       role,
		"session_id": sessionID,
	}
	var out struct {
		Reply      string     `json:"reply"`
		Citations  []Citation `json:"citations"`
		Confidence float64    `json:"confidence"`
		Intent     string     `json:"intent"`
		IncidentID string     `json:"incident_id"`
	}
	if err := c.postJSON(ctx, "/api/chat/message", payload, &out); err != nil {
		return Reply{}, err
	}
	return Reply{
		Text:       out.Reply,
		Citations:  out.Citations,
		Confidence: out.Confidence,
		Intent:     ParseIntent(out.Intent),
		IncidentID: out.IncidentID,
	}, nil
}

// Create files a complete incident draft and returns the acknowledgement.
func (c *HTTPClient) Create(ctx context.Context, draft incident.Draft) (incident.Created, error) {
	var out incident.Created
	if err := c.postJSON(ctx, "/api/incidents", draft, &out); err != nil {
		return incident.Created{}, err
	}
	return out, nil
}

// Status looks up the current status and history of an incident.
func (c *HTTPClient) Status(ctx context.Context, incidentID string) (incident.Status, error) {
	var out incident.Status
	path := "/api/incidents/" + url.PathEscape(incidentID) + "/status"
	if err := c.getJSON(ctx, path, &out); err != nil {
		return incident.Status{}, err
	}
	if out.IncidentID == "" {
		out.IncidentID = incidentID
	}
	return out, nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
