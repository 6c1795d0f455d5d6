package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/scenectx/internal/value"
)

// Result is one memoized evaluation result.
type Result struct {
	CacheKey string      // Context.Hash of the evaluation context
	Node     string      // name of the evaluated node
	Value    value.Value // computed value
	Seq      int64       // logical clock stamp of the write
	RunID    string      // run that computed the value
}

// WriteResult inserts a result record.
// Uses ON CONFLICT DO NOTHING for idempotency - a second result for the
// same (cache_key, node) is silently ignored and the first one wins.
//
// Returns true if the row was inserted.
func (s *Store) WriteResult(ctx context.Context, r Result) (bool, error) {
	if r.CacheKey == "" || r.Node == "" {
		return false, fmt.Errorf("write result: cache key and node are required")
	}

	kind, data, err := marshalValue(r.Value)
	if err != nil {
		return false, fmt.Errorf("write result: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO results
		(cache_key, node, kind, value, seq, run_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		r.CacheKey,
		r.Node,
		kind,
		data,
		r.Seq,
		r.RunID,
	)
	if err != nil {
		return false, fmt.Errorf("write result: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write result: %w", err)
	}

	slog.Debug("result written",
		"node", r.Node,
		"cache_key", r.CacheKey,
		"seq", r.Seq,
		"inserted", n > 0,
	)
	return n > 0, nil
}
