package boardapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/yanqian/jungle-board/internal/domain/auth"
	"github.com/yanqian/jungle-board/internal/domain/board"
	apperrors "github.com/yanqian/jungle-board/pkg/errors"
	"github.com/yanqian/jungle-board/pkg/metrics"
)

const (
	// DefaultBaseURL matches the board API's local development address.
	DefaultBaseURL = "http://localhost:3001"
	defaultTimeout = 10 * time.Second

	maxErrorBody = 4 << 10
	maxBody      = 4 << 20
)

var (
	_ board.API    = (*Client)(nil)
	_ auth.Gateway = (*Client)(nil)
)

// Client talks to the board REST API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// NewClient builds an API client.
func NewClient(baseURL string, timeout time.Duration, recorder *metrics.Recorder, logger *slog.Logger) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(url, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: recorder,
		logger:  logger.With("component", "boardapi.client"),
	}
}

// ListPosts fetches one page of posts. A bare JSON array is accepted as the data list.
func (c *Client) ListPosts(ctx context.Context, q board.ListQuery) (board.RawListResponse, error) {
	path := "/posts"
	if encoded := q.Values().Encode(); encoded != "" {
		path += "?" + encoded
	}
	var body json.RawMessage
	if err := c.do(ctx, "list_posts", http.MethodGet, path, "", nil, &body); err != nil {
		return board.RawListResponse{}, err
	}
	return decodeList(body)
}

func (c *Client) GetPost(ctx context.Context, id int64) (board.RawPostDetail, error) {
	var out board.RawPostDetail
	if err := c.do(ctx, "get_post", http.MethodGet, fmt.Sprintf("/posts/%d", id), "", nil, &out); err != nil {
		return board.RawPostDetail{}, err
	}
	return out, nil
}

func (c *Client) CreatePost(ctx context.Context, token string, in board.PostInput) (int64, error) {
	var out idResponse
	if err := c.do(ctx, "create_post", http.MethodPost, "/posts", token, in, &out); err != nil {
		return 0, err
	}
	if !out.ID.Valid || out.ID.Value <= 0 {
		return 0, apperrors.Wrap(apperrors.CodeAPIError, "create post response missing id", nil)
	}
	return out.ID.Value, nil
}

// UpdatePost returns the id echoed by the API, or 0 when the response carries none.
func (c *Client) UpdatePost(ctx context.Context, token string, id int64, in board.PostInput) (int64, error) {
	var out idResponse
	if err := c.do(ctx, "update_post", http.MethodPatch, fmt.Sprintf("/posts/%d", id), token, in, &out); err != nil {
		return 0, err
	}
	return out.ID.Value, nil
}

func (c *Client) DeletePost(ctx context.Context, token string, id int64) error {
	return c.do(ctx, "delete_post", http.MethodDelete, fmt.Sprintf("/posts/%d", id), token, nil, nil)
}

func (c *Client) CreateComment(ctx context.Context, token string, postID int64, in board.CommentInput) error {
	return c.do(ctx, "create_comment", http.MethodPost, fmt.Sprintf("/posts/%d/comments", postID), token, in, nil)
}

func (c *Client) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	var out auth.LoginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", req, &out); err != nil {
		return auth.LoginResponse{}, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, payload auth.RegisterPayload) error {
	return c.do(ctx, "register", http.MethodPost, "/auth/register", "", payload, nil)
}

type idResponse struct {
	ID board.OptInt `json:"id"`
}

func (c *Client) do(ctx context.Context, endpoint, method, path, token string, in, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		c.metrics.ObserveAPICall(endpoint, outcome, time.Since(start))
	}()

	var reqBody io.Reader
	if in != nil {
		payload, marshalErr := json.Marshal(in)
		if marshalErr != nil {
			outcome = "encode_error"
			return fmt.Errorf("encode %s request: %w", endpoint, marshalErr)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		outcome = "encode_error"
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.clientFor(ctx, token).Do(req)
	if err != nil {
		outcome = "network_error"
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("board api unreachable", "endpoint", endpoint, "error", err)
		return apperrors.Wrap(apperrors.CodeAPIError, "board api unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		outcome = fmt.Sprintf("status_%d", resp.StatusCode)
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		outcome = "read_error"
		return apperrors.Wrap(apperrors.CodeAPIError, "read board api response", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		outcome = "decode_error"
		return apperrors.Wrap(apperrors.CodeAPIError, "decode board api response", err)
	}
	return nil
}

// clientFor returns the shared client, or one that attaches token as a bearer credential.
func (c *Client) clientFor(ctx context.Context, token string) *http.Client {
	if token == "" {
		return c.httpClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	client.Timeout = c.timeout
	return client
}

// statusError turns a non-2xx response into a coded error. The message prefers a JSON "message"
// field, then the raw body text, then the status text.
func statusError(status int, payload []byte) error {
	message := errorMessage(payload)
	if message == "" {
		message = http.StatusText(status)
	}
	cause := fmt.Errorf("board api status=%d", status)
	if status == http.StatusNotFound {
		return apperrors.Wrap(apperrors.CodeNotFound, message, cause)
	}
	return apperrors.Wrap(apperrors.CodeAPIError, message, cause)
}

func errorMessage(payload []byte) string {
	text := strings.TrimSpace(string(payload))
	if text == "" {
		return ""
	}
	var envelope struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return text
	}
	for _, field := range []json.RawMessage{envelope.Message, envelope.Error} {
		var s string
		if json.Unmarshal(field, &s) == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		var list []string
		if json.Unmarshal(field, &list) == nil && len(list) > 0 {
			return strings.Join(list, ", ")
		}
	}
	return text
}

func decodeList(body json.RawMessage) (board.RawListResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return board.RawListResponse{}, nil
	}
	if trimmed[0] == '[' {
		var posts []board.RawPost
		if err := json.Unmarshal(trimmed, &posts); err != nil {
			return board.RawListResponse{}, apperrors.Wrap(apperrors.CodeAPIError, "decode post list", err)
		}
		return board.RawListResponse{Data: posts}, nil
	}
	var out board.RawListResponse
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return board.RawListResponse{}, apperrors.Wrap(apperrors.CodeAPIError, "decode post list", err)
	}
	return out, nil
}

