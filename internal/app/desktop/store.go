package desktop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/goodhang-desktop/internal/config"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage/filestore"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage/redisstore"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage/vault"
)

// NewCredentialStore создает хранилище выбранного в конфиге бэкенда.
// Возвращаемая функция освобождает ресурсы бэкенда и всегда не nil.
func NewCredentialStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.CredentialStore, func() error, error) {
	const op = "desktop.NewCredentialStore"
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendFile:
		fs, err := filestore.New(cfg.Store.Path, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("%s: %w", op, err)
		}
		return fs, noop, nil
	case config.BackendVault:
		return vault.New(cfg.Store.ServiceName, logger), noop, nil
	case config.BackendRedis:
		rs, err := redisstore.InitServer(ctx, cfg.RedisConnection, cfg.Store.ServiceName, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("%s: %w", op, err)
		}
		return rs, rs.Close, nil
	default:
		return nil, noop, fmt.Errorf("%s: unknown store backend %q", op, cfg.Store.Backend)
	}
}
