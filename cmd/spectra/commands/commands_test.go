package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spectra"
	"github.com/hupe1980/spectra/pipeline"
)

// executeCommand runs the root command with args and captures stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Reset flag state left over from earlier runs.
	flagConfig = ""
	flagLogLevel = "info"
	flagLogFormat = "text"
	flagKind = "random"
	flagCount = 5
	flagAdaptive = true
	flagOps = 10

	oldStdout := os.Stdout

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w

	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)

	return buf.String(), execErr
}

func writeConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	config := `store:
  dimension: 8
  max_size: 64
  backend: exhaustive
pipeline:
  samples: 200
  seed: 3
`
	require.NoError(t, os.WriteFile(path, []byte(config), 0o600))

	return path
}

func TestRunCommand(t *testing.T) {
	stdout, err := executeCommand(t, "run", "--kind", "impulse", "--count", "2", "--config", writeConfig(t))
	require.NoError(t, err)

	assert.Contains(t, stdout, "run 1")
	assert.Contains(t, stdout, "run 2")
	assert.Contains(t, stdout, "backend flat")
}

func TestRunCommandUnknownKind(t *testing.T) {
	_, err := executeCommand(t, "run", "--kind", "fractal", "--count", "1", "--config", writeConfig(t))
	assert.Error(t, err)
}

func TestBenchCommand(t *testing.T) {
	stdout, err := executeCommand(t, "bench", "--ops", "3", "--config", writeConfig(t))
	require.NoError(t, err)

	assert.Contains(t, stdout, "avg insert")
	assert.Contains(t, stdout, "inserts 3")
	assert.Contains(t, stdout, "backend flat")
}

func TestUnknownLogLevel(t *testing.T) {
	_, err := executeCommand(t, "run", "--count", "1", "--log-level", "loud")
	assert.Error(t, err)
}

func TestUnknownLogFormat(t *testing.T) {
	_, err := executeCommand(t, "bench", "--ops", "1", "--log-format", "xml")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Run("EmptyPath", func(t *testing.T) {
		config, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, &Config{}, config)
	})

	t.Run("AppliesSetFields", func(t *testing.T) {
		config, err := loadConfig(writeConfig(t))
		require.NoError(t, err)

		o := spectra.DefaultOptions
		config.Store.apply(&o)
		assert.Equal(t, 8, o.Dimension)
		assert.Equal(t, 64, o.MaxSize)
		assert.Equal(t, spectra.BackendExhaustive, o.Backend)

		// Unset fields keep their defaults.
		assert.Equal(t, spectra.DefaultOptions.Clusters, o.Clusters)

		po := pipeline.DefaultOptions
		config.Pipeline.apply(&po)
		assert.Equal(t, 200, po.Samples)
		assert.Equal(t, int64(3), po.Seed)
		assert.Equal(t, pipeline.DefaultOptions.Depth, po.Depth)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store: ["), 0o600))

		_, err := loadConfig(path)
		assert.Error(t, err)
	})
}
