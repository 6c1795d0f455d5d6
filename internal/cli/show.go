package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/scenectx/internal/value"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	ContextOptions
}

// ShowEntry is one context entry. Value is the kind-tagged encoding, so
// Int(20) and Float(20) stay distinguishable.
type ShowEntry struct {
	Name  string          `json:"name"`
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// ShowResult holds the show command output.
type ShowResult struct {
	Hash    string      `json:"hash"`
	Entries []ShowEntry `json:"entries"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the entries of a context",
		Long: `Print the entries of a context built from presets and assignments,
in insertion order.

Examples:
  scenectx show --preset shot.yaml
  scenectx show --set variant=hero --frame 12 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	addContextFlags(cmd, &opts.ContextOptions)
	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	c, err := opts.buildContext(cmd)
	if err != nil {
		return err
	}

	pairs := c.Pairs()
	result := ShowResult{Hash: c.Hash(), Entries: make([]ShowEntry, len(pairs))}
	for i, p := range pairs {
		data, err := value.Marshal(p.Value)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to encode "+p.Name, err)
		}
		result.Entries[i] = ShowEntry{Name: p.Name, Kind: p.Value.Kind().String(), Value: data}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return out.Success(result, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, p := range pairs {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Value.Kind(), value.Format(p.Value))
		}
		return tw.Flush()
	})
}
