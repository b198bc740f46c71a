// Package nodes implements the four storage operations the host exposes
// as graph nodes: save, load, list and config-info. Nodes are stateless;
// every run re-reads the configuration file and opens a fresh storage
// client scoped to that single call.
package nodes

import (
	"go.uber.org/zap"

	"github.com/yourorg/s3-image-nodes/internal/config"
	"github.com/yourorg/s3-image-nodes/internal/storage"
)

// StoreOpener builds an ObjectStore from a validated profile; overridable
// so tests can inject fakes.
type StoreOpener func(p config.Profile) (storage.ObjectStore, error)

// Env carries the shared dependencies every node runs against.
type Env struct {
	Config *config.Store
	Open   StoreOpener
	Log    *zap.Logger
}

// NewEnv returns an Env backed by the real minio client. A nil logger
// means no logging.
func NewEnv(cfg *config.Store, log *zap.Logger) Env {
	if log == nil {
		log = zap.NewNop()
	}
	return Env{
		Config: cfg,
		Open: func(p config.Profile) (storage.ObjectStore, error) {
			return storage.New(p)
		},
		Log: log,
	}
}

// Node is the part of the host contract every operation node satisfies.
type Node interface {
	ID() string
	DisplayName() string
}

// Registry returns the node-identifier → node mapping the host discovers
// at load time.
func Registry(env Env) map[string]Node {
	ns := []Node{
		NewSave(env),
		NewLoad(env),
		NewList(env),
		NewConfigInfo(env),
	}
	reg := make(map[string]Node, len(ns))
	for _, n := range ns {
		reg[n.ID()] = n
	}
	return reg
}

// DisplayNames returns the node-identifier → display-label mapping.
func DisplayNames(env Env) map[string]string {
	labels := map[string]string{}
	for id, n := range Registry(env) {
		labels[id] = n.DisplayName()
	}
	return labels
}
