package store

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"memoclient/application/ports"
	"memoclient/domain"
	"memoclient/infrastructure/requestcache"
	pkgerrors "memoclient/pkg/errors"
)

// Field mask names recognized by memo patches
const (
	MaskContent    = "content"
	MaskVisibility = "visibility"
	MaskRowStatus  = "row_status"
	MaskPinned     = "pinned"
	MaskCreatedTs  = "created_ts"
)

// MemoStore caches memos by id and orchestrates confirm-then-apply
// mutations against the backend. Reads for the same id are coalesced;
// writes are not deduplicated, so concurrent writes to one memo race and
// the last response to resolve wins in the cache.
type MemoStore struct {
	mu       sync.RWMutex
	backend  ports.MemoService
	logger   *zap.Logger
	requests *requestcache.Group[*domain.Memo]

	memoByID map[int64]*domain.Memo
	order    []int64 // every known memo id, newest creations first
}

// NewMemoStore creates an empty memo store
func NewMemoStore(backend ports.MemoService, logger *zap.Logger) *MemoStore {
	return &MemoStore{
		backend:  backend,
		logger:   logger,
		requests: requestcache.New[*domain.Memo](),
		memoByID: make(map[int64]*domain.Memo),
	}
}

// Get returns the cached memo, if any
func (s *MemoStore) Get(id int64) (*domain.Memo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memo, ok := s.memoByID[id]
	if !ok {
		return nil, false
	}
	return memo.Clone(), true
}

// GetOrFetch returns the cached memo or fetches it from the backend.
// Concurrent fetches for the same id are coalesced.
func (s *MemoStore) GetOrFetch(ctx context.Context, id int64) (*domain.Memo, error) {
	if memo, ok := s.Get(id); ok {
		return memo, nil
	}

	return s.requests.GetOrFetch(ctx, strconv.FormatInt(id, 10), func(ctx context.Context) (*domain.Memo, error) {
		s.logger.Debug("fetching memo", zap.Int64("id", id))

		memo, err := s.backend.GetMemo(ctx, id)
		if err != nil {
			return nil, err
		}
		if memo == nil {
			return nil, pkgerrors.NewNotFoundError("memo")
		}

		s.merge(memo, false)
		return memo.Clone(), nil
	})
}

// FetchPage always hits the backend, merges the returned memos into the
// cache and returns the page in server order together with the next cursor.
// An empty next token signals the end of the list.
func (s *MemoStore) FetchPage(ctx context.Context, criteria ListCriteria, pageSize int, pageToken string) ([]*domain.Memo, string, error) {
	resp, err := s.backend.ListMemos(ctx, ports.ListMemosRequest{
		Filter:    criteria.Expression(),
		PageSize:  pageSize,
		PageToken: pageToken,
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Debug("fetched memo page",
		zap.Int("count", len(resp.Memos)),
		zap.Bool("hasMore", resp.NextPageToken != ""),
	)

	page := make([]*domain.Memo, 0, len(resp.Memos))
	for _, memo := range resp.Memos {
		s.merge(memo, false)
		page = append(page, memo.Clone())
	}
	return page, resp.NextPageToken, nil
}

// Create validates the draft locally, sends it, and merges the confirmed
// entity at the head of the known-memo list.
func (s *MemoStore) Create(ctx context.Context, draft ports.MemoDraft) (*domain.Memo, error) {
	if draft.Content == "" && len(draft.ResourceIDList) == 0 {
		return nil, pkgerrors.NewValidationError("memo needs content or at least one resource")
	}
	draft.RelationList = dedupeRelations(draft.RelationList)

	memo, err := s.backend.CreateMemo(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.logger.Info("memo created", zap.Int64("id", memo.ID))
	s.merge(memo, true)
	return memo.Clone(), nil
}

// Update sends only the masked fields, then merges the response into the
// cached memo by shallow replacement of exactly those fields. Fields outside
// the mask keep their cached value. The cache is untouched on failure.
func (s *MemoStore) Update(ctx context.Context, id int64, patch ports.MemoPatch, updateMask []string) (*domain.Memo, error) {
	if err := s.validatePatch(id, patch, updateMask); err != nil {
		return nil, err
	}

	updated, err := s.backend.UpdateMemo(ctx, id, patch, updateMask)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, pkgerrors.NewNotFoundError("memo")
	}

	s.logger.Info("memo updated", zap.Int64("id", id), zap.Strings("updateMask", updateMask))

	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.memoByID[id]
	if !ok {
		s.memoByID[id] = updated.Clone()
		s.order = append(s.order, id)
		return updated.Clone(), nil
	}

	applyMask(cached, updated, updateMask)
	cached.UpdatedTs = updated.UpdatedTs
	return cached.Clone(), nil
}

// Archive soft-deletes the memo through a masked row status update
func (s *MemoStore) Archive(ctx context.Context, id int64) (*domain.Memo, error) {
	archived := domain.RowStatusArchived
	return s.Update(ctx, id, ports.MemoPatch{RowStatus: &archived}, []string{MaskRowStatus})
}

// Delete removes the memo server-side, then from the cache and every
// ordered list view.
func (s *MemoStore) Delete(ctx context.Context, id int64) error {
	if err := s.backend.DeleteMemo(ctx, id); err != nil {
		return err
	}

	s.logger.Info("memo deleted", zap.Int64("id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.memoByID, id)
	for i, known := range s.order {
		if known == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Stats returns one creation timestamp per memo of the user, for heat-map
// aggregation. Never cached.
func (s *MemoStore) Stats(ctx context.Context, username string) ([]int64, error) {
	return s.backend.GetMemoStats(ctx, username)
}

// ListCached returns every known memo in list order. The result is a copy;
// mutating it does not touch the cache.
func (s *MemoStore) ListCached() []*domain.Memo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memos := make([]*domain.Memo, 0, len(s.order))
	for _, id := range s.order {
		if memo, ok := s.memoByID[id]; ok {
			memos = append(memos, memo.Clone())
		}
	}
	return memos
}

// Size returns the number of cached memos
func (s *MemoStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Reset drops the whole cache, e.g. when a feed is re-entered with new
// criteria
func (s *MemoStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memoByID = make(map[int64]*domain.Memo)
	s.order = nil
}

func (s *MemoStore) validatePatch(id int64, patch ports.MemoPatch, updateMask []string) error {
	for _, field := range updateMask {
		switch field {
		case MaskCreatedTs:
			if patch.CreatedTs == nil {
				return pkgerrors.NewValidationError("created_ts masked but not set")
			}
			change := createdTsChange{CreatedTs: *patch.CreatedTs}
			if err := validateStruct(change, "created timestamp must not be in the future"); err != nil {
				return err
			}
		case MaskContent:
			if patch.Content == nil {
				return pkgerrors.NewValidationError("content masked but not set")
			}
			if *patch.Content == "" {
				if cached, ok := s.Get(id); !ok || len(cached.ResourceList) == 0 {
					return pkgerrors.NewValidationError("memo needs content or at least one resource")
				}
			}
		}
	}
	return nil
}

// merge stores the server representation under its natural key. New ids are
// appended to the list, or prepended when the memo was just created here.
func (s *MemoStore) merge(memo *domain.Memo, createdHere bool) {
	memo.RelationList = domain.NormalizeRelations(memo.ID, memo.RelationList)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.memoByID[memo.ID]; !known {
		if createdHere {
			s.order = append([]int64{memo.ID}, s.order...)
		} else {
			s.order = append(s.order, memo.ID)
		}
	}
	s.memoByID[memo.ID] = memo.Clone()
}

// applyMask copies exactly the masked fields from the server response onto
// the cached memo
func applyMask(cached, updated *domain.Memo, updateMask []string) {
	for _, field := range updateMask {
		switch field {
		case MaskContent:
			cached.Content = updated.Content
		case MaskVisibility:
			cached.Visibility = updated.Visibility
		case MaskRowStatus:
			cached.RowStatus = updated.RowStatus
		case MaskPinned:
			cached.Pinned = updated.Pinned
		case MaskCreatedTs:
			cached.CreatedTs = updated.CreatedTs
		}
	}
}

// dedupeRelations keeps the first relation per related memo; the owning id
// is unknown before creation, so self-edges are filtered server-side.
func dedupeRelations(relations []domain.MemoRelation) []domain.MemoRelation {
	if len(relations) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(relations))
	out := make([]domain.MemoRelation, 0, len(relations))
	for _, relation := range relations {
		if _, ok := seen[relation.RelatedMemoID]; ok {
			continue
		}
		seen[relation.RelatedMemoID] = struct{}{}
		out = append(out, relation)
	}
	return out
}
