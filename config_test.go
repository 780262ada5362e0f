package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidation(t *testing.T) {
	config := DefaultConfig()
	config.Prefix = "./graphs/test"
	require.NoError(t, config.Validate())

	config.Contraction.CoreFactor = 1.5
	require.Error(t, config.Validate())
	config.Contraction.CoreFactor = -0.1
	require.Error(t, config.Validate())
	config.Contraction.CoreFactor = 0.0
	require.NoError(t, config.Validate())

	config.Contraction.Threads = -1
	require.Error(t, config.Validate())

	config = DefaultConfig()
	require.Error(t, config.Validate(), "missing prefix has to fail")
}

func TestReadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	content := `
prefix: ./graphs/test
contraction:
  core-factor: 0.8
  use-cached-priority: true
  threads: 2
updater:
  speed-file: ./speeds.csv
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	config, err := ReadConfig(file)
	require.NoError(t, err)
	require.Equal(t, "./graphs/test", config.Prefix)
	require.Equal(t, 0.8, config.Contraction.CoreFactor)
	require.True(t, config.Contraction.UseCachedPriority)
	require.Equal(t, 2, config.Contraction.Threads)
	require.Equal(t, "./speeds.csv", config.Updater.SpeedFile)
}

func TestReadConfigDefaults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("prefix: ./x\n"), 0o644))

	config, err := ReadConfig(file)
	require.NoError(t, err)
	require.Equal(t, 1.0, config.Contraction.CoreFactor)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
