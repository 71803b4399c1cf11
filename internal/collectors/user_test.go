package collectors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/config"
)

func TestUserCollector(t *testing.T) {
	t.Setenv("USER", "mira")
	t.Setenv("HOME", t.TempDir())

	cfg := config.Defaults()
	cfg.User.DisplayName = "Mira H."
	cfg.User.Email = "mira@onyxdigital.dev"

	c := NewUserCollector(cfg)
	info, err := c.Collect()
	require.NoError(t, err)

	require.Equal(t, "mira", info.Username)
	require.NotNil(t, info.DisplayName)
	require.Equal(t, "Mira H.", *info.DisplayName)
	require.Equal(t, "mira@onyxdigital.dev", info.Email)
	require.Equal(t, "https://github.com", info.GithubURL)
	require.Nil(t, info.AvatarPath)
}

func TestUserCollectorFallbacks(t *testing.T) {
	t.Setenv("USER", "")
	t.Setenv("HOME", t.TempDir())

	c := NewUserCollector(config.Defaults())
	info, err := c.Collect()
	require.NoError(t, err)

	require.Equal(t, "user", info.Username)
	require.Nil(t, info.DisplayName)
}

func TestUserCollectorFindsAvatar(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	face := filepath.Join(home, ".face")
	require.NoError(t, os.WriteFile(face, []byte("png"), 0o644))

	c := NewUserCollector(config.Defaults())
	info, err := c.Collect()
	require.NoError(t, err)

	require.NotNil(t, info.AvatarPath)
	require.Equal(t, face, *info.AvatarPath)
}
