package outline

import "github.com/vanderheijden86/kbtree/pkg/metrics"

// Merge copies fold state from prior trees onto fresh. For each node of
// fresh, the first prior tree (in order) holding the same id donates its
// status; unmatched nodes keep their default. The hidden flag is left alone.
//
// Priors are indexed once so the pass is linear in the total node count.
// It returns the number of nodes that inherited a status.
func Merge(fresh *Tree, priors []*Tree) int {
	defer metrics.Timer(metrics.StateMerge)()

	if fresh == nil {
		return 0
	}

	size := 0
	for _, p := range priors {
		if p != nil {
			size += len(p.nodes)
		}
	}
	index := make(map[NodeID]Status, size)
	for _, p := range priors {
		if p == nil {
			continue
		}
		for id, n := range p.nodes {
			if _, seen := index[id]; !seen {
				index[id] = n.Status
			}
		}
	}

	matched := 0
	for id, n := range fresh.nodes {
		if s, ok := index[id]; ok {
			n.Status = s
			matched++
		}
	}

	metrics.MergeMatched.Add(int64(matched))
	metrics.MergeUnmatched.Add(int64(len(fresh.nodes) - matched))
	return matched
}
