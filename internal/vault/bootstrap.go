package vault

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/cryptox"
	"github.com/dmitrijs2005/propkeeper/internal/filex"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
)

// Bootstrap prepares a fresh or existing installation: every directory in
// dirs is created, the key is generated on first run and the preview
// directory is purged of leftovers from the previous session.
func Bootstrap(ctx context.Context, keys *cryptox.KeyStore, preview *PreviewManager, dirs []string, log logging.Logger) error {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if err := filex.EnsureDir(d, 0o700); err != nil {
			return common.WithKind(common.KindConfig, fmt.Errorf("failed to create %s: %w", d, err))
		}
	}

	created, err := keys.EnsureKey()
	if err != nil {
		return common.WithKind(common.KindConfig, err)
	}
	if created {
		log.Warn(ctx, "new encryption key generated; back it up, documents cannot be recovered without it", "key", keys.Path())
	}

	if err := preview.EnsureDir(); err != nil {
		return common.WithKind(common.KindConfig, fmt.Errorf("failed to create preview dir: %w", err))
	}
	if _, err := preview.Purge(ctx); err != nil {
		log.Warn(ctx, "startup preview purge failed", "err", err)
	}
	return nil
}
