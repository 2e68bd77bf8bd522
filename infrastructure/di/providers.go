package di

import (
	"net/http"

	"go.uber.org/zap"

	"memoclient/application/filter"
	"memoclient/application/ports"
	"memoclient/application/store"
	"memoclient/infrastructure/api"
	"memoclient/infrastructure/config"
	"memoclient/infrastructure/draftcache"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideBackend creates the HTTP backend client
func ProvideBackend(cfg *config.Config, logger *zap.Logger) ports.Backend {
	return api.NewClient(cfg.BackendURL, cfg.AccessToken, &http.Client{}, logger)
}

// ProvideUserStore creates the user store
func ProvideUserStore(backend ports.Backend, logger *zap.Logger) *store.UserStore {
	return store.NewUserStore(backend, logger)
}

// ProvideMemoStore creates the memo store
func ProvideMemoStore(backend ports.Backend, logger *zap.Logger) *store.MemoStore {
	return store.NewMemoStore(backend, logger)
}

// ProvideTagStore creates the tag store
func ProvideTagStore(backend ports.Backend, logger *zap.Logger) *store.TagStore {
	return store.NewTagStore(backend, logger)
}

// ProvideResourceStore creates the resource store
func ProvideResourceStore(backend ports.Backend, logger *zap.Logger) *store.ResourceStore {
	return store.NewResourceStore(backend, logger)
}

// ProvideFilter creates the shared filter state
func ProvideFilter() *filter.Filter {
	return filter.New()
}

// ProvideDraftCache opens the persistent draft store
func ProvideDraftCache(cfg *config.Config) (*draftcache.Cache, error) {
	return draftcache.Open(cfg.DraftCachePath)
}

// NewContainer wires a session by hand, mirroring InitializeContainer for
// callers that cannot run the wire generator
func NewContainer(cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	backend := ProvideBackend(cfg, logger)
	drafts, err := ProvideDraftCache(cfg)
	if err != nil {
		return nil, err
	}
	return &Container{
		Config:        cfg,
		Logger:        logger,
		Backend:       backend,
		UserStore:     ProvideUserStore(backend, logger),
		MemoStore:     ProvideMemoStore(backend, logger),
		TagStore:      ProvideTagStore(backend, logger),
		ResourceStore: ProvideResourceStore(backend, logger),
		Filter:        ProvideFilter(),
		Drafts:        drafts,
	}, nil
}

// Close releases session resources
func (c *Container) Close() error {
	_ = c.Logger.Sync()
	return c.Drafts.Close()
}
