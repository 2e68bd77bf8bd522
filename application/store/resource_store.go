package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"memoclient/application/ports"
	"memoclient/domain"
	pkgerrors "memoclient/pkg/errors"
)

// ResourceStore tracks uploaded attachments. A resource without a memo id
// belongs to the in-progress edit session until linked.
type ResourceStore struct {
	mu      sync.RWMutex
	backend ports.ResourceService
	logger  *zap.Logger

	resourceByID map[int64]*domain.Resource
	order        []int64
}

// NewResourceStore creates an empty resource store
func NewResourceStore(backend ports.ResourceService, logger *zap.Logger) *ResourceStore {
	return &ResourceStore{
		backend:      backend,
		logger:       logger,
		resourceByID: make(map[int64]*domain.Resource),
	}
}

// Create uploads a blob and caches the confirmed resource
func (s *ResourceStore) Create(ctx context.Context, draft ports.ResourceDraft) (*domain.Resource, error) {
	if draft.Filename == "" {
		return nil, pkgerrors.NewValidationError("resource filename cannot be empty")
	}

	resource, err := s.backend.CreateResource(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.logger.Info("resource created",
		zap.Int64("id", resource.ID),
		zap.String("filename", resource.Filename),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, known := s.resourceByID[resource.ID]; !known {
		s.order = append([]int64{resource.ID}, s.order...)
	}
	stored := *resource
	s.resourceByID[resource.ID] = &stored
	return resource, nil
}

// Update sends a field-masked resource update and merges the response
func (s *ResourceStore) Update(ctx context.Context, id int64, patch ports.ResourcePatch, updateMask []string) (*domain.Resource, error) {
	updated, err := s.backend.UpdateResource(ctx, id, patch, updateMask)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, pkgerrors.NewNotFoundError("resource")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.resourceByID[id]
	if !ok {
		stored := *updated
		s.resourceByID[id] = &stored
		s.order = append(s.order, id)
		result := *updated
		return &result, nil
	}

	for _, field := range updateMask {
		switch field {
		case "filename":
			cached.Filename = updated.Filename
		case "memo_id":
			cached.MemoID = updated.MemoID
		}
	}
	result := *cached
	return &result, nil
}

// Link attaches a session-owned resource to its memo
func (s *ResourceStore) Link(ctx context.Context, resourceID, memoID int64) (*domain.Resource, error) {
	return s.Update(ctx, resourceID, ports.ResourcePatch{MemoID: &memoID}, []string{"memo_id"})
}

// Get returns the cached resource, if any
func (s *ResourceStore) Get(id int64) (*domain.Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resource, ok := s.resourceByID[id]
	if !ok {
		return nil, false
	}
	result := *resource
	return &result, true
}

// ListCached returns the known resources, newest first
func (s *ResourceStore) ListCached() []*domain.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resources := make([]*domain.Resource, 0, len(s.order))
	for _, id := range s.order {
		if resource, ok := s.resourceByID[id]; ok {
			result := *resource
			resources = append(resources, &result)
		}
	}
	return resources
}
