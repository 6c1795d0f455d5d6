package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenectx/internal/evalctx"
)

func TestShow_Golden(t *testing.T) {
	out, err := execute(t, "show",
		"--set", "shot=sh010",
		"--set", "layers=[beauty, depth]",
		"--frame", "12",
		"--set", "samples=4",
	)
	require.NoError(t, err)

	newGoldie(t).Assert(t, "show_text", []byte(out))
}

func TestShow_JSON(t *testing.T) {
	out, err := execute(t, "show", "--format", "json", "--set", "count=20", "--frame", "20")
	require.NoError(t, err)

	var result ShowResult
	decodeData(t, out, &result)

	want := evalctx.New()
	want.MustSet("count", 20)
	want.SetFrame(20)
	assert.Equal(t, want.Hash(), result.Hash)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, "frame", result.Entries[0].Name)
	assert.Equal(t, "float", result.Entries[0].Kind)
	assert.JSONEq(t, `{"float":20}`, string(result.Entries[0].Value))
	assert.Equal(t, "count", result.Entries[1].Name)
	assert.Equal(t, "int", result.Entries[1].Kind)
	assert.JSONEq(t, `{"int":20}`, string(result.Entries[1].Value))
}

func TestShow_DefaultContext(t *testing.T) {
	out, err := execute(t, "show", "--format", "json")
	require.NoError(t, err)

	var result ShowResult
	decodeData(t, out, &result)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, json.RawMessage(`{"float":1}`), result.Entries[0].Value)
	assert.Equal(t, evalctx.New().Hash(), result.Hash)
}

func TestShow_RejectsArgs(t *testing.T) {
	_, err := execute(t, "show", "extra")
	require.Error(t, err)
}
