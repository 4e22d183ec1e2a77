package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain path untouched", in: "/var/lib/vimoney", want: "/var/lib/vimoney"},
		{name: "tilde prefix", in: "~/data", want: filepath.Join(home, "data")},
		{name: "bare tilde", in: "~", want: home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}

	t.Run("env var", func(t *testing.T) {
		t.Setenv("VIMONEY_TEST_DIR", "/tmp/vimoney")
		assert.Equal(t, "/tmp/vimoney/db", ExpandPath("$VIMONEY_TEST_DIR/db"))
	})
}

func TestDataDirOverride(t *testing.T) {
	viper.Set("data_dir", "/tmp/custom")
	defer viper.Reset()

	assert.Equal(t, "/tmp/custom", DataDir())
	assert.Equal(t, "/tmp/custom/vimoney.db", DatabasePath())
	assert.Equal(t, "/tmp/custom/models.db", ModelsPath())
}

func TestExplicitPathsWin(t *testing.T) {
	viper.Set("data_dir", "/tmp/custom")
	viper.Set("database.path", "/tmp/elsewhere/tx.db")
	viper.Set("models.path", "/tmp/elsewhere/m.db")
	defer viper.Reset()

	assert.Equal(t, "/tmp/elsewhere/tx.db", DatabasePath())
	assert.Equal(t, "/tmp/elsewhere/m.db", ModelsPath())
}
