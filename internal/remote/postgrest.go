package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"benfit/meustreinos/internal/config"
	"benfit/meustreinos/internal/domain"
)

const (
	defaultTable   = "benfit_user_state"
	defaultTimeout = 10 * time.Second
	// rows bigger than this are not user snapshots
	maxBodyBytes = 4 << 20
)

// PostgRESTClient talks to a PostgREST (Supabase) table with columns
// user_id (primary key), state (json or text) and updated_at.
type PostgRESTClient struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
	now        func() time.Time
}

// NewPostgRESTClient builds the client from config. It returns Disabled when the
// endpoint or key is missing.
func NewPostgRESTClient(cfg config.RemoteConfig) Gateway {
	if !cfg.Enabled() {
		return Disabled{}
	}
	return newPostgRESTClient(cfg, &http.Client{})
}

func newPostgRESTClient(cfg config.RemoteConfig, httpClient *http.Client) *PostgRESTClient {
	table := cfg.Table
	if table == "" {
		table = defaultTable
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient.Timeout = timeout

	return &PostgRESTClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		table:      table,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (c *PostgRESTClient) Enabled() bool { return true }

// stateRow is a row of the select; state may hold an object or a JSON string.
type stateRow struct {
	State json.RawMessage `json:"state"`
}

func (c *PostgRESTClient) Load(ctx context.Context, userID string) (*domain.RemoteSnapshot, error) {
	query := url.Values{}
	query.Set("user_id", "eq."+userID)
	query.Set("select", "state")
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, c.table, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load remote state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read remote state: %w", err)
	}

	row, err := firstRow(body)
	if err != nil || row == nil {
		return nil, err
	}
	return decodeState(row.State)
}

// firstRow reads the select result. PostgREST answers with an array, or with a single
// object when the request asked for one (Accept: application/vnd.pgrst.object+json).
func firstRow(body []byte) (*stateRow, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	if body[0] == '{' {
		var row stateRow
		if err := json.Unmarshal(body, &row); err != nil {
			return nil, ErrInvalidJSON
		}
		return &row, nil
	}

	var rows []stateRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, ErrInvalidJSON
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// decodeState accepts the state column either as a JSON object or as a string
// holding one. null and empty strings mean no snapshot.
func decodeState(raw json.RawMessage) (*domain.RemoteSnapshot, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, ErrInvalidJSON
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		raw = json.RawMessage(s)
	}

	var snapshot domain.RemoteSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, ErrInvalidJSON
	}
	return &snapshot, nil
}

type upsertBody struct {
	UserID    string                `json:"user_id"`
	State     domain.RemoteSnapshot `json:"state"`
	UpdatedAt string                `json:"updated_at"`
}

func (c *PostgRESTClient) Save(ctx context.Context, userID string, snapshot domain.RemoteSnapshot) error {
	payload, err := json.Marshal(upsertBody{
		UserID:    userID,
		State:     snapshot,
		UpdatedAt: c.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("encode remote state: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal,resolution=merge-duplicates")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("save remote state: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *PostgRESTClient) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
}
