package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Stock Tables", "initial stock schema")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_stock_tables.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_stock_tables.down.sql"))

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "Add Stock Tables")
	assert.Contains(t, string(upContent), "initial stock schema")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Add Stock Tables", "add_stock_tables"},
		{"add-holding-index", "add_holding_index"},
		{"Already_Snake", "already_snake"},
		{"trailing space ", "trailing_space"},
		{"weird!@#chars", "weirdchars"},
		{"double  space", "double_space"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"001_first.up.sql", "001_first.down.sql",
		"002_second.up.sql", "002_second.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_first", "002_second"}, migrations)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
