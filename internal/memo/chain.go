package memo

import (
	"context"
	"slices"
)

// chainLink records one Compute in progress on the current call path.
// Links are immutable, so a chain can be shared by goroutines forked from
// inside a compute function.
type chainLink struct {
	key    string
	node   string
	depth  int
	parent *chainLink
}

type chainKey struct{}

func chainFrom(ctx context.Context) *chainLink {
	l, _ := ctx.Value(chainKey{}).(*chainLink)
	return l
}

func withLink(ctx context.Context, key, node string) (context.Context, *chainLink) {
	parent := chainFrom(ctx)
	depth := 1
	if parent != nil {
		depth = parent.depth + 1
	}
	l := &chainLink{key: key, node: node, depth: depth, parent: parent}
	return context.WithValue(ctx, chainKey{}, l), l
}

// contains reports whether key is being computed anywhere on the chain.
func (l *chainLink) contains(key string) bool {
	for ; l != nil; l = l.parent {
		if l.key == key {
			return true
		}
	}
	return false
}

// nodes returns the node names on the chain, outermost first.
func (l *chainLink) nodes() []string {
	var out []string
	for ; l != nil; l = l.parent {
		out = append(out, l.node)
	}
	slices.Reverse(out)
	return out
}
