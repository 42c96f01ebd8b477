package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitCommandError, "bad input")
	assert.Equal(t, "bad input", err.Error())
	assert.Nil(t, err.Unwrap())

	cause := errors.New("boom")
	wrapped := WrapExitError(ExitFailure, "query failed", cause)
	assert.Equal(t, "query failed: boom", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("x"), ExitFailure},
		{"exit error", NewExitError(ExitCommandError, "x"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "x")), ExitCommandError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

type greeting struct {
	Name string `json:"name"`
}

func (g greeting) Text(w io.Writer) {
	fmt.Fprintf(w, "hello %s\n", g.Name)
}

func TestOutputFormatter_Success(t *testing.T) {
	t.Run("text uses Texter", func(t *testing.T) {
		var buf bytes.Buffer
		f := &OutputFormatter{Format: "text", Writer: &buf}
		require.NoError(t, f.Success(greeting{Name: "cat"}))
		assert.Equal(t, "hello cat\n", buf.String())
	})

	t.Run("text falls back to Println", func(t *testing.T) {
		var buf bytes.Buffer
		f := &OutputFormatter{Format: "text", Writer: &buf}
		require.NoError(t, f.Success("plain"))
		assert.Equal(t, "plain\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		f := &OutputFormatter{Format: "json", Writer: &buf}
		require.NoError(t, f.Success(greeting{Name: "cat"}))

		var got greeting
		resp := decodeResponse(t, buf.String(), &got)
		assert.Equal(t, "ok", resp.Status)
		assert.Nil(t, resp.Error)
		assert.Equal(t, "cat", got.Name)
	})
}

func TestOutputFormatter_Error(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		f := &OutputFormatter{Format: "text", Writer: &buf}
		require.NoError(t, f.Error(ErrCodeQuery, "bad query", "details"))
		assert.Equal(t, "Error [E020]: bad query\n", buf.String())
	})

	t.Run("text verbose shows details", func(t *testing.T) {
		var buf bytes.Buffer
		f := &OutputFormatter{Format: "text", Writer: &buf, Verbose: true}
		require.NoError(t, f.Error(ErrCodeQuery, "bad query", "details"))
		assert.Equal(t, "Error [E020]: bad query\nDetails: details\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		f := &OutputFormatter{Format: "json", Writer: &buf}
		require.NoError(t, f.Error(ErrCodeEval, "eval failed", nil))

		resp := decodeResponse(t, buf.String(), nil)
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeEval, resp.Error.Code)
		assert.Equal(t, "eval failed", resp.Error.Message)
	})
}

func TestOutputFormatter_Fail(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	cause := errors.New("no such column")

	err := f.Fail(ExitFailure, ErrCodeEval, "evaluation failed", cause)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, cause)

	resp := decodeResponse(t, buf.String(), nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "no such column", resp.Error.Details)
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut}

	f.VerboseLog("quiet %d", 1)
	assert.Empty(t, errOut.String())

	f.Verbose = true
	f.VerboseLog("loud %d", 2)
	assert.Equal(t, "loud 2\n", errOut.String())
	assert.Empty(t, out.String())

	f.ErrWriter = nil
	assert.Equal(t, &out, f.GetErrWriter())
}
