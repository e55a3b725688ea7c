// Package sessionstore opens the configured session store driver for CLI
// commands.
package sessionstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quorumchat/quorum/pkg/config"
	"github.com/quorumchat/quorum/pkg/dotdir"
	"github.com/quorumchat/quorum/pkg/session"
	"github.com/quorumchat/quorum/pkg/session/inmemory"
	"github.com/quorumchat/quorum/pkg/session/jsonfile"
)

const sessionsFile = "sessions.json"

// Open returns the session store named by cfg. The file driver stores
// sessions.json in the resolved .quorum/ directory unless cfg.Path
// overrides it; a missing .quorum/ directory is created at ~/.quorum/.
func Open(cfg config.SessionsConfig, configDir string) (session.Store, error) {
	switch cfg.Driver {
	case "memory":
		return inmemory.New(), nil
	case "", "file":
		path := cfg.Path
		if path == "" {
			target, err := dotdir.NewManager().Target(configDir)
			if err != nil {
				return nil, err
			}
			if target == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return nil, fmt.Errorf("resolving home dir: %w", err)
				}
				target = filepath.Join(home, ".quorum")
				if err := os.MkdirAll(target, 0o755); err != nil {
					return nil, fmt.Errorf("creating quorum dir: %w", err)
				}
			}
			path = filepath.Join(target, sessionsFile)
		}
		return jsonfile.New(path)
	default:
		return nil, fmt.Errorf("unknown sessions driver %q (available: file, memory)", cfg.Driver)
	}
}
