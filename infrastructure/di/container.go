// Package di wires a client session from configuration.
package di

import (
	"go.uber.org/zap"

	"memoclient/application/filter"
	"memoclient/application/ports"
	"memoclient/application/store"
	"memoclient/infrastructure/config"
	"memoclient/infrastructure/draftcache"
)

// Container holds all session dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Backend       ports.Backend
	UserStore     *store.UserStore
	MemoStore     *store.MemoStore
	TagStore      *store.TagStore
	ResourceStore *store.ResourceStore
	Filter        *filter.Filter
	Drafts        *draftcache.Cache
}
