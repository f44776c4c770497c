// Package rest implements backend.Backend against a PostgREST-compatible
// managed backend: tables under /rest/v1/<table>, functions under
// /rest/v1/rpc/<fn>, authenticated with an apikey header.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/pkg/errors"

	"coursetrack/apperr"
	"coursetrack/backend"
)

const (
	preferReturn = "return=representation"
	preferUpsert = "resolution=merge-duplicates,return=representation"
)

// Client talks to the managed backend. It is safe for concurrent use.
type Client struct {
	http *resty.Client
	now  func() time.Time
}

var _ backend.Backend = (*Client)(nil)

// New builds a client for baseURL (without the /rest/v1 suffix).
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	h := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")+"/rest/v1").
		SetTimeout(timeout).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: h, now: func() time.Time { return time.Now().UTC() }}
}

func (c *Client) Close() error { return nil }

// pgrstError is the error body PostgREST returns.
type pgrstError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func eq(v any) string { return fmt.Sprintf("eq.%v", v) }

func inList(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "in.(" + strings.Join(parts, ",") + ")"
}

// do sends the request and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, prefer string, body any) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if q != nil {
		req.SetQueryParamsFromValues(q)
	}
	if prefer != "" {
		req.SetHeader("Prefer", prefer)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, apperr.Backend(op, pkgerrors.Wrap(err, "request failed"))
	}
	if resp.IsError() {
		return nil, statusError(op, resp)
	}
	return resp.Body(), nil
}

func statusError(op string, resp *resty.Response) error {
	var body pgrstError
	_ = json.Unmarshal(resp.Body(), &body)
	msg := body.Message
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	if resp.StatusCode() == http.StatusConflict || body.Code == "23505" {
		return apperr.Conflict("%s: %s", op, msg)
	}
	return &apperr.BackendError{Op: op, StatusCode: resp.StatusCode(), Err: pkgerrors.New(msg)}
}

func (c *Client) list(ctx context.Context, op, table string, q url.Values) ([]byte, error) {
	if q == nil {
		q = url.Values{}
	}
	if q.Get("select") == "" {
		q.Set("select", "*")
	}
	return c.do(ctx, op, http.MethodGet, "/"+table, q, "", nil)
}

func (c *Client) insert(ctx context.Context, op, table string, body any) ([]byte, error) {
	return c.do(ctx, op, http.MethodPost, "/"+table, nil, preferReturn, body)
}

func (c *Client) upsert(ctx context.Context, op, table, onConflict string, body any) ([]byte, error) {
	q := url.Values{"on_conflict": {onConflict}}
	return c.do(ctx, op, http.MethodPost, "/"+table, q, preferUpsert, body)
}

func (c *Client) update(ctx context.Context, op, table string, filter url.Values, body any) ([]byte, error) {
	return c.do(ctx, op, http.MethodPatch, "/"+table, filter, preferReturn, body)
}

func (c *Client) remove(ctx context.Context, op, table string, filter url.Values) ([]byte, error) {
	return c.do(ctx, op, http.MethodDelete, "/"+table, filter, preferReturn, nil)
}

func (c *Client) rpc(ctx context.Context, op, fn string, args any) ([]byte, error) {
	return c.do(ctx, op, http.MethodPost, "/rpc/"+fn, nil, "", args)
}

// touched turns an empty representation into a NotFoundError.
func touched(op, entity string, id any, body []byte, err error) error {
	if err != nil {
		return err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return apperr.Backend(op, &apperr.ParseError{Entity: entity, Reason: err.Error()})
	}
	if len(rows) == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}
