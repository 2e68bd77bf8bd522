package store

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"memoclient/application/ports"
	"memoclient/domain"
	pkgerrors "memoclient/pkg/errors"
)

// TagStore caches the known tag paths of a creator. The derived tree is
// recomputed from the path set on every read.
type TagStore struct {
	mu      sync.RWMutex
	backend ports.TagService
	logger  *zap.Logger

	tags map[string]struct{}
}

// NewTagStore creates an empty tag store
func NewTagStore(backend ports.TagService, logger *zap.Logger) *TagStore {
	return &TagStore{
		backend: backend,
		logger:  logger,
		tags:    make(map[string]struct{}),
	}
}

// Fetch replaces the cached tag set with the backend's current one
func (s *TagStore) Fetch(ctx context.Context, creator string) ([]string, error) {
	tags, err := s.backend.ListTags(ctx, creator)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetched tags", zap.Int("count", len(tags)))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		s.tags[tag] = struct{}{}
	}
	return s.sortedLocked(), nil
}

// Upsert registers a tag path server-side, then locally. Duplicates collapse.
func (s *TagStore) Upsert(ctx context.Context, name string) error {
	if name == "" {
		return pkgerrors.NewValidationError("tag name cannot be empty")
	}
	if err := s.backend.UpsertTag(ctx, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[name] = struct{}{}
	return nil
}

// Delete removes a tag path server-side, then locally
func (s *TagStore) Delete(ctx context.Context, name string) error {
	if err := s.backend.DeleteTag(ctx, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tags, name)
	return nil
}

// Tags returns the cached tag paths, sorted
func (s *TagStore) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Tree builds the hierarchical tag forest from the cached paths
func (s *TagStore) Tree() []*domain.TagNode {
	return domain.BuildTagTree(s.Tags())
}

func (s *TagStore) sortedLocked() []string {
	tags := make([]string, 0, len(s.tags))
	for tag := range s.tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
