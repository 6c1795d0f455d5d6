package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/scenectx/internal/evalctx"
	"github.com/roach88/scenectx/internal/memo"
	"github.com/roach88/scenectx/internal/store"
	"github.com/roach88/scenectx/internal/value"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	ContextOptions
	Database string
	Node     string

	// RunIDs overrides the run ID generator (for testing).
	// If nil, defaults to memo.UUIDv7Generator.
	RunIDs memo.RunIDGenerator

	// Clock overrides the write seq source (for testing).
	// If nil, the cache resumes after the highest stored seq.
	Clock memo.SeqSource
}

// ResolveResult holds the resolve command output.
type ResolveResult struct {
	Node     string          `json:"node"`
	CacheKey string          `json:"cache_key"`
	Value    json.RawMessage `json:"value"`
	Source   string          `json:"source"` // "computed" or "stored"
	RunID    string          `json:"run_id"` // run that computed Value
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	return newResolveCommand(&ResolveOptions{RootOptions: rootOpts})
}

func newResolveCommand(opts *ResolveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <template>",
		Short: "Expand a template, memoizing the result",
		Long: `Expand a template against a context and record the result in a
result database, keyed by the context hash and a node name.

A later resolve of the same node under an equal context reads the stored
result instead of expanding again. The node name defaults to the template.

Examples:
  scenectx resolve --db ./results.db --set shot=sh010 --frame 20 '/shots/$shot/beauty.####.exr'
  scenectx resolve --db ./results.db --node beauty --preset shot.yaml '/shots/$shot/beauty.####.exr'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], cmd)
		},
	}

	addContextFlags(cmd, &opts.ContextOptions)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite result database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Node, "node", "", "node name (default: the template)")

	return cmd
}

func runResolve(opts *ResolveOptions, template string, cmd *cobra.Command) error {
	c, err := opts.buildContext(cmd)
	if err != nil {
		return err
	}

	node := opts.Node
	if node == "" {
		node = template
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

	cacheOpts := []memo.Option{memo.WithStore(st)}
	if opts.RunIDs != nil {
		cacheOpts = append(cacheOpts, memo.WithRunIDGenerator(opts.RunIDs))
	}
	if opts.Clock != nil {
		cacheOpts = append(cacheOpts, memo.WithClock(opts.Clock))
	}
	cache := memo.New(cacheOpts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	v, err := cache.Compute(ctx, c, node, func(ctx context.Context, ec *evalctx.Context) (value.Value, error) {
		return value.String(ec.Substitute(template)), nil
	})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to resolve "+node, err)
	}

	data, err := value.Marshal(v)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode result", err)
	}

	source, runID := "computed", cache.RunID()
	if cache.Stats().Loads > 0 {
		// The stored row names the run that computed the value
		r, found, err := st.ReadResult(ctx, c.Hash(), node)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to read stored result", err)
		}
		if found {
			runID = r.RunID
		}
		source = "stored"
	}
	slog.Info("resolved", "node", node, "source", source, "run_id", runID)

	result := ResolveResult{
		Node:     node,
		CacheKey: c.Hash(),
		Value:    data,
		Source:   source,
		RunID:    runID,
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return out.Success(result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, value.Format(v))
		return err
	})
}
