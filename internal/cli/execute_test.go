package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenectx/internal/preset"
)

func TestExecute_Success(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"substitute", "--set", "a=apple", "$a"})

	code := Execute(cmd, stdout, stderr)
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "apple\n", stdout.String())
}

func TestExecute_TextErrorToStderr(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"show", "--preset", filepath.Join(t.TempDir(), "missing.yaml")})

	code := Execute(cmd, stdout, stderr)
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Error ["+preset.ErrCodeReadFailed+"]")
}

func TestExecute_JSONErrorToStdout(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"show", "--format", "json", "--set", "frame=[1, 2]"})

	code := Execute(cmd, stdout, stderr)
	assert.Equal(t, ExitCommandError, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, preset.ErrCodeApplyFailed, resp.Error.Code)
}

func TestErrorCode_Fallbacks(t *testing.T) {
	assert.Equal(t, ErrCodeCommand, errorCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ErrCodeGeneric, errorCode(NewExitError(ExitFailure, "failed")))
}
