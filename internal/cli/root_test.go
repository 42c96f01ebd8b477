package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pathql", cmd.Use)
	assert.Contains(t, cmd.Long, "pathql.yaml")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"serialize", "eval", "validate", "test", "schema"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	flags := cmd.PersistentFlags()

	verboseFlag := flags.Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	tests := map[string]string{
		"format":     "text",
		"dialect":    "hql",
		"schema-dir": "schema",
		"convert":    "false",
		"config":     "",
	}
	for name, def := range tests {
		f := flags.Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, def, f.DefValue, name)
	}
}

func TestEvalCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	evalCmd, _, err := cmd.Find([]string{"eval"})
	require.NoError(t, err)

	backend := evalCmd.Flags().Lookup("backend")
	require.NotNil(t, backend)
	assert.Equal(t, "memory", backend.DefValue)

	data := evalCmd.Flags().Lookup("data")
	require.NotNil(t, data)
	assert.Equal(t, "", data.DefValue)
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, stderr, err := execute(t, "--format", "xml", "schema")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, `invalid format "xml"`)
}

func TestRoot_InvalidDialect(t *testing.T) {
	_, stderr, err := execute(t, "--dialect", "jpql", "schema")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, `invalid dialect "jpql"`)
}

func TestRoot_VerboseLogsToStderr(t *testing.T) {
	stdout, stderr, err := execute(t, "--verbose", "schema")
	require.NoError(t, err)
	assert.Contains(t, stderr, "configuration loaded")
	assert.Contains(t, stderr, "Loaded 2 entities")
	assert.NotContains(t, stdout, "configuration loaded")
}
