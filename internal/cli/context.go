package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/scenectx/internal/evalctx"
	"github.com/roach88/scenectx/internal/preset"
)

// ContextOptions holds the flags that build an evaluation Context.
type ContextOptions struct {
	Presets []string
	Sets    []string
	Frame   float64
}

func addContextFlags(cmd *cobra.Command, opts *ContextOptions) {
	cmd.Flags().StringArrayVarP(&opts.Presets, "preset", "p", nil, "preset file (.yaml, .yml, .cue); repeatable")
	cmd.Flags().StringArrayVarP(&opts.Sets, "set", "s", nil, "entry assignment name=value; repeatable")
	cmd.Flags().Float64VarP(&opts.Frame, "frame", "f", evalctx.DefaultFrame, "frame number")
}

// buildContext applies presets in order, then assignments in order, then
// --frame if it was given. Later sources override earlier ones.
func (opts *ContextOptions) buildContext(cmd *cobra.Command) (*evalctx.Context, error) {
	c := evalctx.New()

	for _, path := range opts.Presets {
		entries, err := preset.Load(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load preset", err)
		}
		if err := preset.Apply(c, entries); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to apply preset "+path, err)
		}
		slog.Debug("preset applied", "path", path, "entries", len(entries))
	}

	for _, s := range opts.Sets {
		entry, err := preset.ParseAssignment(s)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --set", err)
		}
		if err := preset.Apply(c, []preset.Entry{entry}); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --set", err)
		}
	}

	if cmd.Flags().Changed("frame") {
		c.SetFrame(opts.Frame)
	}

	slog.Debug("context built", "context", c.String(), "hash", c.Hash())
	return c, nil
}
