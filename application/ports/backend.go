// Package ports defines the backend RPC surface the stores consume. The
// exact schema is owned by the backend; implementations live under
// infrastructure.
package ports

import (
	"context"

	"memoclient/domain"
)

// ListMemosRequest is a backend memo listing call. Filter is the query
// expression built from a structured criteria; PageToken is the opaque
// cursor returned by a previous call, passed back verbatim.
type ListMemosRequest struct {
	Filter    string
	PageSize  int
	PageToken string
}

// ListMemosResponse is one page of memos. An empty NextPageToken signals
// the end of the list.
type ListMemosResponse struct {
	Memos         []*domain.Memo
	NextPageToken string
}

// MemoDraft is the payload of a memo creation call
type MemoDraft struct {
	Content        string
	Visibility     domain.Visibility
	ResourceIDList []int64
	RelationList   []domain.MemoRelation
}

// MemoPatch carries the fields a masked memo update may touch. Only fields
// named in the update mask are sent; nil pointers are omitted.
type MemoPatch struct {
	Content    *string
	Visibility *domain.Visibility
	RowStatus  *domain.RowStatus
	Pinned     *bool
	CreatedTs  *int64
}

// ResourceDraft is the payload of a resource upload
type ResourceDraft struct {
	Filename string
	Type     string
	Blob     []byte
}

// ResourcePatch carries the fields a masked resource update may touch
type ResourcePatch struct {
	Filename *string
	MemoID   *int64
}

// MemoService is the memo RPC surface
type MemoService interface {
	GetMemo(ctx context.Context, id int64) (*domain.Memo, error)
	ListMemos(ctx context.Context, req ListMemosRequest) (*ListMemosResponse, error)
	CreateMemo(ctx context.Context, draft MemoDraft) (*domain.Memo, error)
	UpdateMemo(ctx context.Context, id int64, patch MemoPatch, updateMask []string) (*domain.Memo, error)
	DeleteMemo(ctx context.Context, id int64) error
	GetMemoStats(ctx context.Context, username string) ([]int64, error)
}

// UserService is the user RPC surface
type UserService interface {
	GetUser(ctx context.Context, name string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User, updateMask []string) (*domain.User, error)
}

// TagService is the tag RPC surface
type TagService interface {
	ListTags(ctx context.Context, creator string) ([]string, error)
	UpsertTag(ctx context.Context, name string) error
	DeleteTag(ctx context.Context, name string) error
}

// ResourceService is the resource RPC surface
type ResourceService interface {
	CreateResource(ctx context.Context, draft ResourceDraft) (*domain.Resource, error)
	UpdateResource(ctx context.Context, id int64, patch ResourcePatch, updateMask []string) (*domain.Resource, error)
}

// Backend aggregates the full RPC surface consumed by a session
type Backend interface {
	MemoService
	UserService
	TagService
	ResourceService
}
