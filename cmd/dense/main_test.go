package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemo(t *testing.T) {
	for _, backend := range []string{"cpu", "naive"} {
		require.NoError(t, demo([]string{"-steps", "20", "-every", "10", "-backend", backend}), backend)
	}
}

func TestDemo_BadFlags(t *testing.T) {
	assert.Error(t, demo([]string{"-backend", "gpu"}))
	assert.Error(t, demo([]string{"-steps", "0"}))
	assert.Error(t, demo([]string{"-no-such-flag"}))
}

func TestDemo_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.dense")
	require.NoError(t, demo([]string{"-steps", "10", "-every", "5", "-save", path}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
