package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReadResult returns the result stored for (cacheKey, node).
// found is false when no such result exists.
func (s *Store) ReadResult(ctx context.Context, cacheKey, node string) (r Result, found bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT cache_key, node, kind, value, seq, run_id
		FROM results
		WHERE cache_key = ? AND node = ?
	`, cacheKey, node)

	r, err = scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("read result: %w", err)
	}
	return r, true, nil
}

// ListResults returns stored results ordered by seq, cache_key.
// An empty node lists results for every node.
//
// Returns an empty slice (not nil) if no results exist.
func (s *Store) ListResults(ctx context.Context, node string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cache_key, node, kind, value, seq, run_id
		FROM results
		WHERE ? = '' OR node = ?
		ORDER BY seq ASC, cache_key COLLATE BINARY ASC, node COLLATE BINARY ASC
	`, node, node)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return results, nil
}

// CountResults returns the number of stored results.
func (s *Store) CountResults(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results").Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

// MaxSeq returns the highest stored seq, or 0 for an empty store.
// Writers resume their logical clock from here.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM results").Scan(&seq); err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq.Int64, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (Result, error) {
	var (
		r    Result
		kind string
		data string
	)
	if err := sc.Scan(&r.CacheKey, &r.Node, &kind, &data, &r.Seq, &r.RunID); err != nil {
		return Result{}, err
	}

	v, err := unmarshalValue(kind, data)
	if err != nil {
		return Result{}, fmt.Errorf("result %s/%s: %w", r.Node, r.CacheKey, err)
	}
	r.Value = v
	return r, nil
}
