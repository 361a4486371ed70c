// Package groups classifies accounts under organizational groups by
// walking a parent-pointer forest held as a flat name-to-parent map.
package groups

import "github.com/ledgersync-dev/ledgersync/internal/model"

// MaxDepth bounds parent-chain traversal so cyclic or malformed group
// data terminates instead of looping forever.
const MaxDepth = 15

// Resolver answers classification queries over the group forest.
type Resolver struct {
	parent map[string]string
	known  map[string]struct{}
}

// NewResolver builds a resolver from group edges and the set of group
// names recognized as display buckets.
func NewResolver(nodes []model.GroupNode, knownGroups []string) *Resolver {
	r := &Resolver{
		parent: make(map[string]string, len(nodes)),
		known:  make(map[string]struct{}, len(knownGroups)),
	}
	for _, n := range nodes {
		r.parent[n.Name] = n.Parent
	}
	for _, g := range knownGroups {
		r.known[g] = struct{}{}
	}
	return r
}

// TracesToRoot reports whether following parent links from start
// reaches root within MaxDepth hops. Dangling references and empty
// parents terminate the walk.
func (r *Resolver) TracesToRoot(start, root string) bool {
	name := start
	for i := 0; i < MaxDepth; i++ {
		if name == root {
			return true
		}
		parent, ok := r.parent[name]
		if !ok || parent == "" {
			return false
		}
		name = parent
	}
	return false
}

// NearestKnownGroup returns the first ancestor of start (inclusive)
// that is a known group, or the ungrouped fallback when the chain
// terminates or exceeds MaxDepth without a match.
func (r *Resolver) NearestKnownGroup(start string) string {
	name := start
	for i := 0; i < MaxDepth; i++ {
		if _, ok := r.known[name]; ok {
			return name
		}
		parent, ok := r.parent[name]
		if !ok || parent == "" {
			return model.UngroupedBucket
		}
		name = parent
	}
	return model.UngroupedBucket
}
