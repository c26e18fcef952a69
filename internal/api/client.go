// Package api is the typed client for the TransRural HTTP API. All business
// state lives behind that API; this client only shapes requests, decodes the
// canonical payloads and maps failures onto domain errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"transrural/internal/domain"
	"transrural/pkg/logger"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	log     logger.ILogger
}

func New(baseURL string, timeout time.Duration, log logger.ILogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// SetToken installs the session token sent on every subsequent request.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken drops the session token on logout.
func (c *Client) ClearToken() { c.token = "" }

// errorPayload is the error body shape the API returns on every failure.
type errorPayload struct {
	Error string `json:"error"`
}

// do issues one JSON request. body and out may be nil. Non-2xx responses
// become typed domain errors keyed on the HTTP status.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return domain.InternalError{Msg: "encode request", Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.InternalError{Msg: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warning("request failed", logger.String("path", path), logger.Error(err))
		return domain.UnavailableError{Msg: "no se pudo conectar con el servidor", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.UnavailableError{Msg: "respuesta incompleta", Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return domain.UnavailableError{Msg: "respuesta inválida del servidor", Err: err}
		}
		return nil
	}

	var ep errorPayload
	_ = json.Unmarshal(raw, &ep)
	msg := strings.TrimSpace(ep.Error)
	if msg == "" {
		msg = fmt.Sprintf("error %d", resp.StatusCode)
	}

	c.log.Warning("request rejected",
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.String("error", msg),
	)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.AuthError{Msg: msg}
	case http.StatusNotFound:
		return domain.NotFoundError{Resource: msg}
	case http.StatusConflict:
		return domain.ConflictError{Msg: msg}
	case http.StatusBadRequest:
		return domain.ValidationError{Msg: msg}
	default:
		return domain.InternalError{Msg: msg}
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
