package collectors

import (
	"os"
	"path/filepath"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/config"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// UserCollector combines the session user with configured identity fields.
type UserCollector struct {
	cfg *config.Config
}

func NewUserCollector(cfg *config.Config) *UserCollector {
	return &UserCollector{cfg: cfg}
}

// Collect never fails; every field has a fallback.
func (c *UserCollector) Collect() (state.UserInfo, error) {
	username := os.Getenv("USER")
	if username == "" {
		username = "user"
	}

	info := state.UserInfo{
		Username:   username,
		Email:      c.cfg.User.Email,
		GithubURL:  c.cfg.User.GithubURL,
		AvatarPath: avatarPath(),
	}
	if c.cfg.User.DisplayName != "" {
		info.DisplayName = state.StringPtr(c.cfg.User.DisplayName)
	}
	return info, nil
}

// avatarPath reports ~/.face when the user has one, the convention display
// managers read.
func avatarPath() *string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	face := filepath.Join(home, ".face")
	if _, err := os.Stat(face); err != nil {
		return nil
	}
	return state.StringPtr(face)
}
