package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// HashOptions holds flags for the hash command.
type HashOptions struct {
	*RootOptions
	ContextOptions
}

// HashResult holds the hash command output.
type HashResult struct {
	Hash string `json:"hash"`
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HashOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the cache key of a context",
		Long: `Print the cache key of a context built from presets and assignments.

Contexts with the same entries have the same key, whatever order the
entries were set in.

Examples:
  scenectx hash --preset shot.yaml --frame 1001`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.buildContext(cmd)
			if err != nil {
				return err
			}
			result := HashResult{Hash: c.Hash()}
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(result, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, result.Hash)
				return err
			})
		},
	}

	addContextFlags(cmd, &opts.ContextOptions)
	return cmd
}
