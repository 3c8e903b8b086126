package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/quantdesk/quantdesk/internal/types"
)

// favoritesFile is the on-disk shape of the favorites index.
type favoritesFile struct {
	Favorites []types.StrategyID `yaml:"favorites"`
}

// Favorites is the persisted set of starred strategy ids. Every mutation is
// written through to disk; reconciliation against the registry drops ids
// that no longer exist.
type Favorites struct {
	path string
	ids  map[types.StrategyID]struct{}
}

// LoadFavorites reads the favorites file at path, treating a missing file as
// an empty set. An empty path keeps the index in memory only.
func LoadFavorites(path string) (*Favorites, error) {
	f := &Favorites{
		path: path,
		ids:  make(map[types.StrategyID]struct{}),
	}

	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read favorites file: %w", err)
	}

	var file favoritesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal favorites: %w", err)
	}

	for _, id := range file.Favorites {
		f.ids[id] = struct{}{}
	}

	return f, nil
}

// IsFavorite reports whether id is starred.
func (f *Favorites) IsFavorite(id types.StrategyID) bool {
	_, ok := f.ids[id]

	return ok
}

// Items returns the starred ids in sorted order.
func (f *Favorites) Items() []types.StrategyID {
	items := make([]types.StrategyID, 0, len(f.ids))
	for id := range f.ids {
		items = append(items, id)
	}

	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	return items
}

// Toggle flips id's starred state, persists, and returns the new state.
func (f *Favorites) Toggle(id types.StrategyID) (bool, error) {
	if _, ok := f.ids[id]; ok {
		delete(f.ids, id)

		return false, f.persist()
	}

	f.ids[id] = struct{}{}

	return true, f.persist()
}

// Rename rewrites a starred id in place so favorite status survives a
// strategy rename. Relying on reconciliation alone would drop the old id
// without adding the new one.
func (f *Favorites) Rename(oldID, newID types.StrategyID) error {
	if _, ok := f.ids[oldID]; !ok {
		return nil
	}

	delete(f.ids, oldID)
	f.ids[newID] = struct{}{}

	return f.persist()
}

// Remove drops id from the set if present.
func (f *Favorites) Remove(id types.StrategyID) error {
	if _, ok := f.ids[id]; !ok {
		return nil
	}

	delete(f.ids, id)

	return f.persist()
}

// Reconcile intersects the set with the registry's current members and
// persists only when something was dropped.
func (f *Favorites) Reconcile(registryIDs []types.StrategyID) error {
	members := make(map[types.StrategyID]struct{}, len(registryIDs))
	for _, id := range registryIDs {
		members[id] = struct{}{}
	}

	changed := false

	for id := range f.ids {
		if _, ok := members[id]; !ok {
			delete(f.ids, id)

			changed = true
		}
	}

	if !changed {
		return nil
	}

	return f.persist()
}

// persist writes the current set to disk as YAML.
func (f *Favorites) persist() error {
	if f.path == "" {
		return nil
	}

	data, err := yaml.Marshal(favoritesFile{Favorites: f.Items()})
	if err != nil {
		return fmt.Errorf("failed to marshal favorites to YAML: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create favorites directory: %w", err)
		}
	}

	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write favorites file: %w", err)
	}

	return nil
}
