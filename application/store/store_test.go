package store

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"memoclient/application/ports"
	"memoclient/domain"
	pkgerrors "memoclient/pkg/errors"
)

// fakeBackend is an in-process ports.Backend for store tests. Every call is
// counted so tests can assert how often the network would have been hit.
type fakeBackend struct {
	getUserCalls  int32
	getMemoCalls  int32
	listCalls     int32
	nextMemoID    int64
	clock         int64
	users         map[string]*domain.User
	memos         map[int64]*domain.Memo
	tags          map[string]struct{}
	resources     map[int64]*domain.Resource
	nextResID     int64
	failNextWrite error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		clock:     1_700_000_000,
		users:     make(map[string]*domain.User),
		memos:     make(map[int64]*domain.Memo),
		tags:      make(map[string]struct{}),
		resources: make(map[int64]*domain.Resource),
	}
}

func (f *fakeBackend) tick() int64 {
	f.clock++
	return f.clock
}

func (f *fakeBackend) takeWriteError() error {
	err := f.failNextWrite
	f.failNextWrite = nil
	return err
}

func (f *fakeBackend) GetUser(ctx context.Context, name string) (*domain.User, error) {
	atomic.AddInt32(&f.getUserCalls, 1)
	user, ok := f.users[domain.ExtractUsername(name)]
	if !ok {
		return nil, pkgerrors.NewBackendError(404, "user not found")
	}
	return user.Clone(), nil
}

func (f *fakeBackend) UpdateUser(ctx context.Context, user *domain.User, updateMask []string) (*domain.User, error) {
	if err := f.takeWriteError(); err != nil {
		return nil, err
	}
	stored, ok := f.users[user.Username()]
	if !ok {
		return nil, pkgerrors.NewBackendError(404, "user not found")
	}
	for _, field := range updateMask {
		switch field {
		case "nickname":
			stored.Nickname = user.Nickname
		case "avatar_url":
			stored.AvatarURL = user.AvatarURL
		case "password":
			stored.Password = user.Password
		case "setting":
			stored.Setting = user.Setting
		}
	}
	result := stored.Clone()
	result.Password = ""
	return result, nil
}

func (f *fakeBackend) GetMemo(ctx context.Context, id int64) (*domain.Memo, error) {
	atomic.AddInt32(&f.getMemoCalls, 1)
	memo, ok := f.memos[id]
	if !ok {
		return nil, pkgerrors.NewBackendError(404, "memo not found")
	}
	return memo.Clone(), nil
}

func (f *fakeBackend) ListMemos(ctx context.Context, req ports.ListMemosRequest) (*ports.ListMemosResponse, error) {
	atomic.AddInt32(&f.listCalls, 1)
	memos := make([]*domain.Memo, 0, len(f.memos))
	for _, memo := range f.memos {
		memos = append(memos, memo.Clone())
	}
	return &ports.ListMemosResponse{Memos: memos}, nil
}

func (f *fakeBackend) CreateMemo(ctx context.Context, draft ports.MemoDraft) (*domain.Memo, error) {
	if err := f.takeWriteError(); err != nil {
		return nil, err
	}
	f.nextMemoID++
	memo := &domain.Memo{
		ID:         f.nextMemoID,
		Creator:    domain.FormatUserName("steven"),
		Content:    draft.Content,
		Visibility: draft.Visibility,
		RowStatus:  domain.RowStatusNormal,
		CreatedTs:  f.tick(),
	}
	memo.UpdatedTs = memo.CreatedTs
	memo.RelationList = domain.NormalizeRelations(memo.ID, draft.RelationList)
	f.memos[memo.ID] = memo
	return memo.Clone(), nil
}

func (f *fakeBackend) UpdateMemo(ctx context.Context, id int64, patch ports.MemoPatch, updateMask []string) (*domain.Memo, error) {
	if err := f.takeWriteError(); err != nil {
		return nil, err
	}
	memo, ok := f.memos[id]
	if !ok {
		return nil, pkgerrors.NewBackendError(404, "memo not found")
	}
	for _, field := range updateMask {
		switch field {
		case MaskContent:
			memo.Content = *patch.Content
		case MaskVisibility:
			memo.Visibility = *patch.Visibility
		case MaskRowStatus:
			memo.RowStatus = *patch.RowStatus
		case MaskPinned:
			memo.Pinned = *patch.Pinned
		case MaskCreatedTs:
			memo.CreatedTs = *patch.CreatedTs
		}
	}
	memo.UpdatedTs = f.tick()
	return memo.Clone(), nil
}

func (f *fakeBackend) DeleteMemo(ctx context.Context, id int64) error {
	if err := f.takeWriteError(); err != nil {
		return err
	}
	if _, ok := f.memos[id]; !ok {
		return pkgerrors.NewBackendError(404, "memo not found")
	}
	delete(f.memos, id)
	return nil
}

func (f *fakeBackend) GetMemoStats(ctx context.Context, username string) ([]int64, error) {
	var stats []int64
	for _, memo := range f.memos {
		if memo.CreatorUsername() == username && memo.RowStatus == domain.RowStatusNormal {
			stats = append(stats, memo.CreatedTs)
		}
	}
	return stats, nil
}

func (f *fakeBackend) ListTags(ctx context.Context, creator string) ([]string, error) {
	tags := make([]string, 0, len(f.tags))
	for tag := range f.tags {
		tags = append(tags, tag)
	}
	return tags, nil
}

func (f *fakeBackend) UpsertTag(ctx context.Context, name string) error {
	if err := f.takeWriteError(); err != nil {
		return err
	}
	f.tags[name] = struct{}{}
	return nil
}

func (f *fakeBackend) DeleteTag(ctx context.Context, name string) error {
	if err := f.takeWriteError(); err != nil {
		return err
	}
	delete(f.tags, name)
	return nil
}

func (f *fakeBackend) CreateResource(ctx context.Context, draft ports.ResourceDraft) (*domain.Resource, error) {
	if err := f.takeWriteError(); err != nil {
		return nil, err
	}
	f.nextResID++
	resource := &domain.Resource{
		ID:        f.nextResID,
		Filename:  draft.Filename,
		Type:      draft.Type,
		Size:      int64(len(draft.Blob)),
		CreatedTs: f.tick(),
	}
	f.resources[resource.ID] = resource
	result := *resource
	return &result, nil
}

func (f *fakeBackend) UpdateResource(ctx context.Context, id int64, patch ports.ResourcePatch, updateMask []string) (*domain.Resource, error) {
	if err := f.takeWriteError(); err != nil {
		return nil, err
	}
	resource, ok := f.resources[id]
	if !ok {
		return nil, pkgerrors.NewBackendError(404, "resource not found")
	}
	for _, field := range updateMask {
		switch field {
		case "filename":
			resource.Filename = *patch.Filename
		case "memo_id":
			resource.MemoID = patch.MemoID
		}
	}
	result := *resource
	return &result, nil
}

func (f *fakeBackend) seedMemo(content string) *domain.Memo {
	f.nextMemoID++
	memo := &domain.Memo{
		ID:         f.nextMemoID,
		Creator:    domain.FormatUserName("steven"),
		Content:    content,
		Visibility: domain.VisibilityPrivate,
		RowStatus:  domain.RowStatusNormal,
		CreatedTs:  f.tick(),
	}
	memo.UpdatedTs = memo.CreatedTs
	f.memos[memo.ID] = memo
	return memo.Clone()
}

func (f *fakeBackend) seedUser(username string) *domain.User {
	user := &domain.User{
		Name:     domain.FormatUserName(username),
		Nickname: username,
		Role:     domain.RoleUser,
	}
	f.users[username] = user
	return user.Clone()
}

var _ ports.Backend = (*fakeBackend)(nil)

func testLogger() *zap.Logger {
	return zap.NewNop()
}
