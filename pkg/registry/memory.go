package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/errors"
)

// Memory is an in-process [Repository] backed by a map. It is the
// repository of choice for tests and for feeding the change monitor
// with synthetic assets.
//
// The zero value is not usable; call [NewMemory].
type Memory struct {
	mu     sync.RWMutex
	assets map[string]*asset.ScriptAsset // keyed by asset path
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{assets: make(map[string]*asset.ScriptAsset)}
}

// Add registers an asset under its path, replacing any previous entry
// with the same path. Assets without a path are ignored.
func (m *Memory) Add(a *asset.ScriptAsset) {
	if a == nil || a.Path == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[a.Path] = a
}

// Remove deletes the asset registered under path. Removing an unknown
// path is a no-op.
func (m *Memory) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assets, path)
}

// Len reports the number of registered assets.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assets)
}

// QueryByKind lists registered assets sorted by path. Every asset in a
// Memory repository is a [KindBlueprint]; querying any other kind
// yields an empty result.
func (m *Memory) QueryByKind(_ context.Context, kind Kind) ([]Handle, error) {
	handles := make([]Handle, 0)
	if kind != KindBlueprint {
		return handles, nil
	}

	m.mu.RLock()
	for _, a := range m.assets {
		handles = append(handles, Handle{Name: a.Name, Path: a.Path, Kind: KindBlueprint})
	}
	m.mu.RUnlock()

	sort.Slice(handles, func(i, j int) bool { return handles[i].Path < handles[j].Path })
	return handles, nil
}

// Resolve returns the asset registered under the handle's path.
func (m *Memory) Resolve(_ context.Context, h Handle) (*asset.ScriptAsset, error) {
	m.mu.RLock()
	a, ok := m.assets[h.Path]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeAssetNotFound, "asset %q is not registered", h.Path)
	}
	return a, nil
}
