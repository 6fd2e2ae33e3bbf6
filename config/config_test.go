package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackvm/svm/memory"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal(memory.DEFAULT_SIZE, cfg.MemorySize)
	assert.Equal(0, cfg.MaxTicks)
	assert.False(cfg.Verbose)
	assert.False(cfg.ProtectText)
	assert.Equal("", cfg.Script)
	assert.NotNil(cfg.Defines)
	assert.NoError(cfg.Validate())
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Parse(`
memory_size = 1024
max_ticks = 500
verbose = true
protect_text = true
script = "traps.star"

[defines]
STDOUT = "1"
LIMIT = "$7F"
`)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(1024, cfg.MemorySize)
	assert.Equal(500, cfg.MaxTicks)
	assert.True(cfg.Verbose)
	assert.True(cfg.ProtectText)
	assert.Equal("traps.star", cfg.Script)
	assert.Equal(map[string]string{"STDOUT": "1", "LIMIT": "$7F"}, cfg.Defines)
}

func TestParse_KeepsDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Parse(`max_ticks = 10`)
	assert.NoError(err)
	assert.Equal(memory.DEFAULT_SIZE, cfg.MemorySize)
	assert.Equal(10, cfg.MaxTicks)
	assert.NotNil(cfg.Defines)
}

func TestParse_Errors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		text string
		err  error
	}{
		{"memory_size = 0", ErrMemorySize},
		{"memory_size = 65537", ErrMemorySize},
		{"max_ticks = -1", ErrMaxTicks},
	}

	for _, entry := range table {
		cfg, err := Parse(entry.text)
		assert.ErrorIs(err, entry.err, entry.text)
		assert.Nil(cfg, entry.text)
	}

	_, err := Parse("memory_size = \"big\"")
	assert.Error(err)

	_, err = Parse("this is not toml")
	assert.Error(err)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "svm.toml")
	err := os.WriteFile(path, []byte("memory_size = 256\n"), 0o644)
	assert.NoError(err)

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal(256, cfg.MemorySize)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(err, os.ErrNotExist)

	var ec *ErrConfig
	assert.True(errors.As(err, &ec))
	assert.Equal(filepath.Join(dir, "missing.toml"), ec.Path)
}
