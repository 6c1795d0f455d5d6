package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/scenectx/internal/store"
	"github.com/roach88/scenectx/internal/value"
)

// CacheListOptions holds flags for the cache list command.
type CacheListOptions struct {
	*RootOptions
	Database string
	Node     string
}

// CachedResult is one stored result.
type CachedResult struct {
	Seq      int64           `json:"seq"`
	Node     string          `json:"node"`
	CacheKey string          `json:"cache_key"`
	RunID    string          `json:"run_id"`
	Value    json.RawMessage `json:"value"`
}

// CacheListResult holds the cache list command output.
type CacheListResult struct {
	Total   int            `json:"total"`
	Results []CachedResult `json:"results"`
}

// shortKeyLen is how much of a cache key text output shows.
const shortKeyLen = 12

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect stored results",
	}
	cmd.AddCommand(newCacheListCommand(rootOpts))
	return cmd
}

func newCacheListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored results in write order",
		Long: `List the results stored in a result database, oldest first.

Examples:
  scenectx cache list --db ./results.db
  scenectx cache list --db ./results.db --node beauty --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite result database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Node, "node", "", "only list results for this node")

	return cmd
}

func runCacheList(opts *CacheListOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	results, err := st.ListResults(ctx, opts.Node)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list results", err)
	}
	total, err := st.CountResults(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count results", err)
	}

	out := CacheListResult{Total: total, Results: make([]CachedResult, len(results))}
	for i, r := range results {
		data, err := value.Marshal(r.Value)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to encode result", err)
		}
		out.Results[i] = CachedResult{
			Seq:      r.Seq,
			Node:     r.Node,
			CacheKey: r.CacheKey,
			RunID:    r.RunID,
			Value:    data,
		}
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Success(out, func(w io.Writer) error {
		if len(results) == 0 {
			_, err := fmt.Fprintln(w, "No stored results.")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SEQ\tNODE\tCACHE KEY\tRUN\tVALUE")
		for _, r := range results {
			key := r.CacheKey
			if len(key) > shortKeyLen {
				key = key[:shortKeyLen]
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Seq, r.Node, key, r.RunID, value.Format(r.Value))
		}
		return tw.Flush()
	})
}
