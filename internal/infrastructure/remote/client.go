// Package remote is the HTTP client of the remote tabular service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/domain/sync"
	"golang.org/x/exp/slog"
)

const userAgent = "SPPG-Client/2.0"

// Client говорит с сервисом по контракту GET/POST на одном адресе.
// Ошибки транспорта и ответы {success:false} переводятся в ошибки пакета sync.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *slog.Logger
}

var _ sync.Remote = (*Client)(nil)

// New создает клиента. Пустой baseURL означает, что сервис не настроен.
func New(baseURL, apiKey string, log *slog.Logger) *Client {
	return &Client{
		client: &http.Client{
			// верхняя граница; настоящие таймауты задает контекст вызова
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 4,
			},
		},
		baseURL: strings.TrimSpace(baseURL),
		apiKey:  apiKey,
		log:     log.With("component", "remote"),
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// envelope - общий вид ответа сервиса
type envelope struct {
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Message   string          `json:"message,omitempty"`
	Version   string          `json:"version,omitempty"`
	Duplicate bool            `json:"duplicate,omitempty"`
	ID        any             `json:"id,omitempty"`
	Added     int             `json:"added,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func (c *Client) Ping(ctx context.Context) (sync.PingInfo, error) {
	env, err := c.get(ctx, url.Values{"action": {"ping"}})
	if err != nil {
		return sync.PingInfo{}, err
	}
	return sync.PingInfo{Message: env.Message, Version: env.Version}, nil
}

func (c *Client) GetAll(ctx context.Context, sheet string) ([]record.Record, error) {
	env, err := c.get(ctx, url.Values{"action": {"getAll"}, "sheet": {sheet}})
	if err != nil {
		return nil, err
	}

	rows := []record.Record{}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return rows, nil
	}
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, fmt.Errorf("%w: data of %s: %v", sync.ErrInvalidFormat, sheet, err)
	}
	return rows, nil
}

func (c *Client) AddItem(ctx context.Context, sheet string, item record.Record) (string, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("ошибка маршалинга записи: %w", err)
	}
	env, err := c.get(ctx, url.Values{
		"action": {"addItem"},
		"sheet":  {sheet},
		"data":   {string(data)},
		"apiKey": {c.apiKey},
	})
	if err != nil {
		return "", err
	}
	return record.Stringify(env.ID), nil
}

func (c *Client) UpdateItem(ctx context.Context, sheet, id string, item record.Record) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("ошибка маршалинга записи: %w", err)
	}
	_, err = c.get(ctx, url.Values{
		"action": {"updateItem"},
		"sheet":  {sheet},
		"id":     {id},
		"data":   {string(data)},
		"apiKey": {c.apiKey},
	})
	return err
}

func (c *Client) DeleteItem(ctx context.Context, sheet, id string) error {
	_, err := c.get(ctx, url.Values{
		"action": {"deleteItem"},
		"sheet":  {sheet},
		"id":     {id},
		"apiKey": {c.apiKey},
	})
	return err
}

func (c *Client) Sync(ctx context.Context, sheet string, items []record.Record) (int, error) {
	env, err := c.post(ctx, map[string]any{
		"action": "sync",
		"sheet":  sheet,
		"items":  items,
	})
	if err != nil {
		return 0, err
	}
	return env.Added, nil
}

func (c *Client) GetSettings(ctx context.Context) ([]record.Setting, error) {
	env, err := c.get(ctx, url.Values{"action": {"getSettings"}})
	if err != nil {
		return nil, err
	}

	var rows []record.Record
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &rows); err != nil {
			return nil, fmt.Errorf("%w: settings: %v", sync.ErrInvalidFormat, err)
		}
	}
	return record.DecodeAll[record.Setting](rows), nil
}

func (c *Client) SetSetting(ctx context.Context, id, value string) error {
	_, err := c.get(ctx, url.Values{"action": {"setSetting"}, "id": {id}, "value": {value}})
	return err
}

func (c *Client) GetBranding(ctx context.Context) (sync.Branding, error) {
	env, err := c.get(ctx, url.Values{"action": {"getBranding"}})
	if err != nil {
		return sync.Branding{}, err
	}
	var b sync.Branding
	if err := json.Unmarshal(env.Data, &b); err != nil {
		return sync.Branding{}, fmt.Errorf("%w: branding: %v", sync.ErrInvalidFormat, err)
	}
	return b, nil
}

func (c *Client) ResetData(ctx context.Context, user string) (string, error) {
	env, err := c.post(ctx, map[string]any{"action": "resetData", "user": user})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) get(ctx context.Context, q url.Values) (*envelope, error) {
	u, err := c.endpoint()
	if err != nil {
		return nil, err
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	return c.do(ctx, req, q.Get("action"))
}

func (c *Client) post(ctx context.Context, body map[string]any) (*envelope, error) {
	u, err := c.endpoint()
	if err != nil {
		return nil, err
	}
	body["apiKey"] = c.apiKey

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	action, _ := body["action"].(string)
	return c.do(ctx, req, action)
}

func (c *Client) endpoint() (*url.URL, error) {
	if !c.Configured() {
		return nil, sync.ErrNotConfigured
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad remote url: %v", sync.ErrNotConfigured, err)
	}
	return u, nil
}

func (c *Client) do(ctx context.Context, req *http.Request, action string) (*envelope, error) {
	req.Header.Set("User-Agent", userAgent)
	c.log.Debug("Отправка запроса", "method", req.Method, "action", action)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", sync.ErrTimeout, action)
		}
		return nil, fmt.Errorf("%w: %v", sync.ErrNetwork, err)
	}
	return c.parseResponse(resp, action)
}

func (c *Client) parseResponse(resp *http.Response, action string) (*envelope, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка чтения ответа: %v", sync.ErrNetwork, err)
	}

	c.log.Debug("Получен ответ", "action", action, "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s returned status %d", sync.ErrRemote, action, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(UnwrapJSONP(body), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", sync.ErrInvalidFormat, err)
	}
	if !env.Success {
		return nil, failure(&env)
	}
	return &env, nil
}

// failure maps a {success:false} reply onto the sync error taxonomy.
func failure(env *envelope) error {
	msg := env.Error
	switch {
	case env.Duplicate:
		return fmt.Errorf("%w: %s", sync.ErrDuplicate, msg)
	case msg == "Invalid API Key":
		return fmt.Errorf("%w: %s", sync.ErrUnauthorized, msg)
	case msg == "Record not found", strings.HasPrefix(msg, "Sheet not found"):
		return fmt.Errorf("%w: %s", sync.ErrNotFound, msg)
	case msg == "":
		msg = "unknown error"
	}
	return fmt.Errorf("%w: %s", sync.ErrRemote, msg)
}

// UnwrapJSONP returns the JSON inside name(...). Plain JSON passes through.
func UnwrapJSONP(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed
	}
	open := bytes.IndexByte(trimmed, '(')
	end := bytes.LastIndexByte(trimmed, ')')
	if open < 0 || end <= open {
		return trimmed
	}
	return bytes.TrimSpace(trimmed[open+1 : end])
}
