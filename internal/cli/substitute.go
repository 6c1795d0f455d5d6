package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/scenectx/internal/evalctx"
)

// SubstituteOptions holds flags for the substitute command.
type SubstituteOptions struct {
	*RootOptions
	ContextOptions
	NoVariables bool
	NoFrame     bool
}

// SubstituteResult is one expanded template.
type SubstituteResult struct {
	Template string `json:"template"`
	Result   string `json:"result"`
}

// NewSubstituteCommand creates the substitute command.
func NewSubstituteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubstituteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "substitute <template>...",
		Short: "Expand templates against a context",
		Long: `Expand each template against a context built from presets and
assignments, printing one result per line.

$name and ${name} expand to the named entry, and runs of # expand to the
frame number zero padded to the run length.

Examples:
  scenectx substitute --set shot=sh010 --frame 20 '/shots/$shot/beauty.####.exr'
  scenectx substitute --preset shot.yaml --no-frame 'notes_#1.txt'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubstitute(opts, args, cmd)
		},
	}

	addContextFlags(cmd, &opts.ContextOptions)
	cmd.Flags().BoolVar(&opts.NoVariables, "no-variables", false, "leave $name and ${name} untouched")
	cmd.Flags().BoolVar(&opts.NoFrame, "no-frame", false, "leave # runs untouched")

	return cmd
}

func runSubstitute(opts *SubstituteOptions, templates []string, cmd *cobra.Command) error {
	c, err := opts.buildContext(cmd)
	if err != nil {
		return err
	}

	subs := evalctx.AllSubstitutions
	if opts.NoVariables {
		subs &^= evalctx.VariableSubstitutions
	}
	if opts.NoFrame {
		subs &^= evalctx.FrameSubstitutions
	}

	results := make([]SubstituteResult, len(templates))
	for i, tmpl := range templates {
		results[i] = SubstituteResult{Template: tmpl, Result: c.SubstituteWith(tmpl, subs)}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return out.Success(results, func(w io.Writer) error {
		for _, r := range results {
			if _, err := fmt.Fprintln(w, r.Result); err != nil {
				return err
			}
		}
		return nil
	})
}
