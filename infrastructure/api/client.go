// Package api implements the backend RPC surface over HTTP/JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"memoclient/application/ports"
	"memoclient/domain"
	pkgerrors "memoclient/pkg/errors"
)

// Client talks to a memo backend. It implements ports.Backend. No retries
// and no timeouts of its own; cancellation comes from the caller's context
// and timeouts from the injected http.Client.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	logger  *zap.Logger
}

var _ ports.Backend = (*Client)(nil)

// NewClient creates a backend client. A nil httpc falls back to a plain
// http.Client.
func NewClient(baseURL, accessToken string, httpc *http.Client, logger *zap.Logger) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{
		baseURL: baseURL,
		token:   accessToken,
		httpc:   httpc,
		logger:  logger,
	}
}

// errorBody is the backend's error envelope
type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.NewInternalError("encode request").WithCause(err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return pkgerrors.NewInternalError("build request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return pkgerrors.NewNetworkError(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		var errBody errorBody
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return pkgerrors.NewBackendError(resp.StatusCode, errBody.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.NewNetworkError("decode response", err)
	}
	return nil
}

// GetUser fetches a user by resource name
func (c *Client) GetUser(ctx context.Context, name string) (*domain.User, error) {
	var user domain.User
	path := "/api/v2/users/" + url.PathEscape(domain.ExtractUsername(name))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type updateUserBody struct {
	User       *domain.User `json:"user"`
	UpdateMask []string     `json:"updateMask"`
}

// UpdateUser sends a field-masked user update
func (c *Client) UpdateUser(ctx context.Context, user *domain.User, updateMask []string) (*domain.User, error) {
	var updated domain.User
	path := "/api/v2/users/" + url.PathEscape(user.Username())
	body := updateUserBody{User: user, UpdateMask: updateMask}
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetMemo fetches a memo by id
func (c *Client) GetMemo(ctx context.Context, id int64) (*domain.Memo, error) {
	var memo domain.Memo
	path := "/api/v2/memos/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

type listMemosBody struct {
	Memos         []*domain.Memo `json:"memos"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

// ListMemos fetches one page of memos matching the filter expression
func (c *Client) ListMemos(ctx context.Context, req ports.ListMemosRequest) (*ports.ListMemosResponse, error) {
	query := url.Values{}
	if req.Filter != "" {
		query.Set("filter", req.Filter)
	}
	if req.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(req.PageSize))
	}
	if req.PageToken != "" {
		query.Set("pageToken", req.PageToken)
	}

	var body listMemosBody
	if err := c.do(ctx, http.MethodGet, "/api/v2/memos", query, nil, &body); err != nil {
		return nil, err
	}
	return &ports.ListMemosResponse{Memos: body.Memos, NextPageToken: body.NextPageToken}, nil
}

type createMemoBody struct {
	Content        string                `json:"content"`
	Visibility     domain.Visibility     `json:"visibility"`
	ResourceIDList []int64               `json:"resourceIdList,omitempty"`
	RelationList   []domain.MemoRelation `json:"relationList,omitempty"`
}

// CreateMemo creates a memo and returns the server-assigned entity
func (c *Client) CreateMemo(ctx context.Context, draft ports.MemoDraft) (*domain.Memo, error) {
	var memo domain.Memo
	body := createMemoBody{
		Content:        draft.Content,
		Visibility:     draft.Visibility,
		ResourceIDList: draft.ResourceIDList,
		RelationList:   draft.RelationList,
	}
	if err := c.do(ctx, http.MethodPost, "/api/v2/memos", nil, body, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

type updateMemoBody struct {
	Content    *string            `json:"content,omitempty"`
	Visibility *domain.Visibility `json:"visibility,omitempty"`
	RowStatus  *domain.RowStatus  `json:"rowStatus,omitempty"`
	Pinned     *bool              `json:"pinned,omitempty"`
	CreatedTs  *int64             `json:"createdTs,omitempty"`
	UpdateMask []string           `json:"updateMask"`
}

// UpdateMemo sends a field-masked memo patch; only masked fields are set
func (c *Client) UpdateMemo(ctx context.Context, id int64, patch ports.MemoPatch, updateMask []string) (*domain.Memo, error) {
	var memo domain.Memo
	path := "/api/v2/memos/" + strconv.FormatInt(id, 10)
	body := updateMemoBody{
		Content:    patch.Content,
		Visibility: patch.Visibility,
		RowStatus:  patch.RowStatus,
		Pinned:     patch.Pinned,
		CreatedTs:  patch.CreatedTs,
		UpdateMask: updateMask,
	}
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

// DeleteMemo removes a memo permanently
func (c *Client) DeleteMemo(ctx context.Context, id int64) error {
	path := "/api/v2/memos/" + strconv.FormatInt(id, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

type memoStatsBody struct {
	Stats []int64 `json:"stats"`
}

// GetMemoStats returns one creation timestamp per memo of the user
func (c *Client) GetMemoStats(ctx context.Context, username string) ([]int64, error) {
	query := url.Values{}
	query.Set("creator", domain.FormatUserName(username))

	var body memoStatsBody
	if err := c.do(ctx, http.MethodGet, "/api/v2/memos/stats", query, nil, &body); err != nil {
		return nil, err
	}
	return body.Stats, nil
}

type listTagsBody struct {
	Tags []string `json:"tags"`
}

// ListTags returns the tag names of a creator
func (c *Client) ListTags(ctx context.Context, creator string) ([]string, error) {
	query := url.Values{}
	if creator != "" {
		query.Set("creator", creator)
	}

	var body listTagsBody
	if err := c.do(ctx, http.MethodGet, "/api/v2/tags", query, nil, &body); err != nil {
		return nil, err
	}
	return body.Tags, nil
}

type upsertTagBody struct {
	Name string `json:"name"`
}

// UpsertTag registers a tag name
func (c *Client) UpsertTag(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/api/v2/tags", nil, upsertTagBody{Name: name}, nil)
}

// DeleteTag removes a tag name. Tag paths may contain slashes, so the name
// travels as a query parameter rather than a path segment.
func (c *Client) DeleteTag(ctx context.Context, name string) error {
	query := url.Values{}
	query.Set("name", name)
	return c.do(ctx, http.MethodDelete, "/api/v2/tags", query, nil, nil)
}

type createResourceBody struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Blob     []byte `json:"blob"`
}

// CreateResource uploads a blob
func (c *Client) CreateResource(ctx context.Context, draft ports.ResourceDraft) (*domain.Resource, error) {
	var resource domain.Resource
	body := createResourceBody{Filename: draft.Filename, Type: draft.Type, Blob: draft.Blob}
	if err := c.do(ctx, http.MethodPost, "/api/v2/resources", nil, body, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

type updateResourceBody struct {
	Filename   *string  `json:"filename,omitempty"`
	MemoID     *int64   `json:"memoId,omitempty"`
	UpdateMask []string `json:"updateMask"`
}

// UpdateResource sends a field-masked resource update
func (c *Client) UpdateResource(ctx context.Context, id int64, patch ports.ResourcePatch, updateMask []string) (*domain.Resource, error) {
	var resource domain.Resource
	path := "/api/v2/resources/" + strconv.FormatInt(id, 10)
	body := updateResourceBody{Filename: patch.Filename, MemoID: patch.MemoID, UpdateMask: updateMask}
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}
