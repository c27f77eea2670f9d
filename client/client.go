// Package client talks to the hireloop HTTP API as a single user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-errs"
)

type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
}

// New client for the API at baseURL authenticated with a bearer token.
// A nil httpClient uses [http.DefaultClient].
func New(baseURL *url.URL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, token: token, httpClient: httpClient}
}

func (c *Client) SearchContacts(ctx context.Context, in types.SearchContacts) ([]types.User, error) {
	q := url.Values{}
	q.Set("q", in.Query)
	if in.Role != nil {
		q.Set("role", string(*in.Role))
	}
	setLimit(q, in.Limit)

	var out []types.User
	err := c.do(ctx, http.MethodGet, "/api/contacts", q, nil, &out)
	return out, err
}

func (c *Client) Conversations(ctx context.Context, in types.ListConversations) ([]types.Conversation, error) {
	q := url.Values{}
	setLimit(q, in.Limit)

	var out []types.Conversation
	err := c.do(ctx, http.MethodGet, "/api/conversations", q, nil, &out)
	return out, err
}

func (c *Client) GetOrCreateConversation(ctx context.Context, in types.GetOrCreateConversation) (types.Conversation, error) {
	var out types.Conversation
	err := c.do(ctx, http.MethodPost, "/api/conversations", nil, in, &out)
	return out, err
}

func (c *Client) Conversation(ctx context.Context, conversationID string) (types.Conversation, error) {
	var out types.Conversation
	err := c.do(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(conversationID), nil, nil, &out)
	return out, err
}

// Messages fetches a page. Only one of in.Before and in.After may be set.
func (c *Client) Messages(ctx context.Context, in types.ListMessages) (types.MessagesPage, error) {
	q := url.Values{}
	setLimit(q, in.Limit)
	if in.Before != nil {
		q.Set("before", *in.Before)
	}
	if in.After != nil {
		q.Set("after", *in.After)
	}

	var out types.MessagesPage
	err := c.do(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(in.ConversationID)+"/messages", q, nil, &out)
	return out, err
}

func (c *Client) SendMessage(ctx context.Context, in types.SendMessage) (types.Message, error) {
	var out types.Message
	err := c.do(ctx, http.MethodPost, "/api/conversations/"+url.PathEscape(in.ConversationID)+"/messages", nil, in, &out)
	return out, err
}

func (c *Client) MarkConversationRead(ctx context.Context, conversationID string) (types.ReadAck, error) {
	var out types.ReadAck
	err := c.do(ctx, http.MethodPatch, "/api/conversations/"+url.PathEscape(conversationID)+"/read", nil, nil, &out)
	return out, err
}

func (c *Client) ScheduleInterview(ctx context.Context, in types.ScheduleInterview) (types.Message, error) {
	var out types.Message
	err := c.do(ctx, http.MethodPost, "/api/conversations/"+url.PathEscape(in.ConversationID)+"/interviews", nil, in, &out)
	return out, err
}

func (c *Client) UpdateInterviewStatus(ctx context.Context, in types.UpdateInterviewStatus) (types.Message, error) {
	var out types.Message
	err := c.do(ctx, http.MethodPatch, "/api/interviews/"+url.PathEscape(in.MessageID)+"/status", nil, in, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(q) != 0 {
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return statusError(resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json decode response body: %w", err)
	}

	return nil
}

// statusError maps the response back to the error kind the server answered with.
func statusError(code int, msg string) error {
	if msg == "" {
		msg = http.StatusText(code)
	}

	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errs.InvalidArgumentError(msg)
	case http.StatusUnauthorized:
		return errs.UnauthenticatedError(msg)
	case http.StatusForbidden:
		return errs.PermissionDeniedError(msg)
	case http.StatusNotFound:
		return errs.NotFoundError(msg)
	case http.StatusConflict:
		return errs.ConflictError(msg)
	}

	return fmt.Errorf("unexpected status %d: %s", code, msg)
}

func setLimit(q url.Values, limit uint) {
	if limit != 0 {
		q.Set("limit", strconv.FormatUint(uint64(limit), 10))
	}
}
