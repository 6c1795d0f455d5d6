package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/scenectx/internal/memo"
	"github.com/roach88/scenectx/internal/preset"
)

// Error codes for failures that carry no more specific code.
const (
	ErrCodeGeneric = "E001" // Computation failed
	ErrCodeCommand = "E002" // Bad flags, arguments or database
)

// Execute runs cmd and reports any error in the format selected by its
// --format flag: JSON errors go to stdout beside JSON results, text errors
// go to stderr. It returns the process exit code.
func Execute(cmd *cobra.Command, stdout, stderr io.Writer) int {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	f := &OutputFormatter{Format: "text", Writer: stderr}
	if flag := cmd.PersistentFlags().Lookup("format"); flag != nil && flag.Value.String() == "json" {
		f = &OutputFormatter{Format: "json", Writer: stdout}
	}
	_ = f.Error(errorCode(err), err.Error())
	return GetExitCode(err)
}

// errorCode picks the most specific code carried by err.
func errorCode(err error) string {
	if code := preset.Code(err); code != "" {
		return code
	}
	var me *memo.Error
	if errors.As(err, &me) {
		return string(me.Code)
	}
	if GetExitCode(err) == ExitCommandError {
		return ErrCodeCommand
	}
	return ErrCodeGeneric
}
