package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		assert.True(t, ParseBool(v), v)
	}
	for _, v := range []string{"", "0", "false", "off", "maybe"} {
		assert.False(t, ParseBool(v), v)
	}
}

func TestLoadEnvironmentReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("DAILY_POST_TEST_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DAILY_POST_TEST_KEY") })

	v := LoadEnvironment(file)
	assert.Equal(t, "from-file", v.GetString("daily_post_test_key"))
}

func TestLoadEnvironmentMissingFile(t *testing.T) {
	t.Setenv("DAILY_POST_OTHER_KEY", "env")
	v := LoadEnvironment(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "env", v.GetString("daily_post_other_key"))
}
