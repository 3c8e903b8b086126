package workspace

import "github.com/quantdesk/quantdesk/internal/types"

// Registry holds the ordered set of strategies known to the backend. It is
// the sole authority for which ids are valid; caches treat membership as
// their garbage-collection signal. The whole set is replaced on reload.
type Registry struct {
	items []types.StrategyMeta
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Replace swaps in a freshly listed set of strategies.
func (r *Registry) Replace(items []types.StrategyMeta) {
	r.items = make([]types.StrategyMeta, len(items))
	copy(r.items, items)
}

// Items returns a copy of the current entries in backend order.
func (r *Registry) Items() []types.StrategyMeta {
	items := make([]types.StrategyMeta, len(r.items))
	copy(items, r.items)

	return items
}

// IDs returns the current member ids in order.
func (r *Registry) IDs() []types.StrategyID {
	ids := make([]types.StrategyID, 0, len(r.items))
	for _, item := range r.items {
		ids = append(ids, item.Path)
	}

	return ids
}

// Has reports whether id is a current member.
func (r *Registry) Has(id types.StrategyID) bool {
	for _, item := range r.items {
		if item.Path == id {
			return true
		}
	}

	return false
}

// First returns the first entry, if any.
func (r *Registry) First() (types.StrategyMeta, bool) {
	if len(r.items) == 0 {
		return types.StrategyMeta{}, false
	}

	return r.items[0], true
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.items)
}

// Rename rewrites a member's id in place, keeping its position.
func (r *Registry) Rename(oldID, newID types.StrategyID) {
	for i := range r.items {
		if r.items[i].Path == oldID {
			r.items[i].Path = newID
			r.items[i].Name = baseName(newID)
		}
	}
}

// Remove drops a member, keeping the order of the rest.
func (r *Registry) Remove(id types.StrategyID) {
	kept := r.items[:0]
	for _, item := range r.items {
		if item.Path != id {
			kept = append(kept, item)
		}
	}

	r.items = kept
}

func baseName(id types.StrategyID) string {
	name := string(id)
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[i+1:]
		}
	}

	return name
}
