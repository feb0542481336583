package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Setenv("ENV_TEST_STRING", "  found-items ")
	assert.Equal(t, "found-items", String("ENV_TEST_STRING", "x"))

	t.Setenv("ENV_TEST_STRING", "   ")
	assert.Equal(t, "x", String("ENV_TEST_STRING", "x"))
	assert.Equal(t, "y", String("ENV_TEST_STRING_UNSET", "y"))
}

func TestInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"valid", "6", 6},
		{"zero", "0", 0},
		{"invalid", "six", 1},
		{"empty", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV_TEST_INT", tt.value)
			assert.Equal(t, tt.expected, Int("ENV_TEST_INT", 1))
		})
	}
}

func TestInt64(t *testing.T) {
	t.Setenv("ENV_TEST_INT64", "10485760")
	assert.Equal(t, int64(10485760), Int64("ENV_TEST_INT64", 1))

	t.Setenv("ENV_TEST_INT64", "10MB")
	assert.Equal(t, int64(1), Int64("ENV_TEST_INT64", 1))
}

func TestFloat(t *testing.T) {
	t.Setenv("ENV_TEST_FLOAT", "72.5")
	assert.InDelta(t, 72.5, Float("ENV_TEST_FLOAT", 70), 1e-9)

	t.Setenv("ENV_TEST_FLOAT", "high")
	assert.InDelta(t, 70, Float("ENV_TEST_FLOAT", 70), 1e-9)
}

func TestBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"1", true},
		{"FALSE", false},
		{"yes", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ENV_TEST_BOOL", tt.value)
			assert.Equal(t, tt.expected, Bool("ENV_TEST_BOOL", true))
		})
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("ENV_TEST_DURATION", "200ms")
	assert.Equal(t, 200*time.Millisecond, Duration("ENV_TEST_DURATION", time.Second))

	t.Setenv("ENV_TEST_DURATION", "15")
	assert.Equal(t, time.Second, Duration("ENV_TEST_DURATION", time.Second))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ENV_TEST_DOTENV=from-file\n"), 0o600))

	t.Setenv("ENV_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("ENV_TEST_DOTENV"))

	Load(path)
	assert.Equal(t, "from-file", String("ENV_TEST_DOTENV", ""))
	t.Cleanup(func() { _ = os.Unsetenv("ENV_TEST_DOTENV") })

	// 存在しないファイルはパニックしない
	Load(filepath.Join(t.TempDir(), "missing.env"))
}
