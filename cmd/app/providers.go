package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/jungle-board/internal/domain/board"
	"github.com/yanqian/jungle-board/internal/domain/session"
	"github.com/yanqian/jungle-board/internal/infra/boardapi"
	"github.com/yanqian/jungle-board/internal/infra/config"
	"github.com/yanqian/jungle-board/internal/infra/sessionstore"
	"github.com/yanqian/jungle-board/pkg/metrics"
	"github.com/yanqian/jungle-board/pkg/util"
)

func provideBoardConfig(cfg *config.Config) (board.Config, error) {
	loc, err := util.LoadLocation(cfg.Board.Timezone)
	if err != nil {
		return board.Config{}, fmt.Errorf("load board timezone: %w", err)
	}
	return board.Config{
		PageSize:  cfg.Board.PageSize,
		GroupSize: cfg.Board.GroupSize,
		Location:  loc,
	}, nil
}

func provideAPIClient(cfg *config.Config, recorder *metrics.Recorder, logger *slog.Logger) *boardapi.Client {
	return boardapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout, recorder, logger)
}

func provideSessionStore(cfg *config.Config, storage session.Storage, logger *slog.Logger, recorder *metrics.Recorder) *session.Store {
	return session.NewStore(storage, cfg.Session.Key, logger, recorder)
}

// provideSessionStorage picks the configured backend. A nil Storage disables persistence.
func provideSessionStorage(cfg *config.Config, logger *slog.Logger) session.Storage {
	switch cfg.Session.Backend {
	case config.SessionBackendNone:
		logger.Warn("session persistence disabled")
		return nil
	case config.SessionBackendFile:
		storage, err := sessionstore.NewFileStorage(cfg.Session.Dir, cfg.Session.PollInterval, logger)
		if err != nil {
			logger.Error("file session storage unavailable, falling back to memory storage", "dir", cfg.Session.Dir, "error", err)
			return sessionstore.NewMemoryStorage()
		}
		logger.Info("file session storage enabled", "dir", cfg.Session.Dir)
		return storage
	case config.SessionBackendValkey:
		return provideValkeyStorage(cfg, logger)
	default:
		return sessionstore.NewMemoryStorage()
	}
}

func provideValkeyStorage(cfg *config.Config, logger *slog.Logger) session.Storage {
	opt, err := buildValkeyOptions(cfg.Session.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory storage", "error", err)
		return sessionstore.NewMemoryStorage()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory storage", "error", err)
		return sessionstore.NewMemoryStorage()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory storage", "error", err)
		client.Close()
		return sessionstore.NewMemoryStorage()
	}
	logger.Info("valkey session storage enabled", "addr", cfg.Session.Valkey.Addr)
	return sessionstore.NewValkeyStorage(client, cfg.Session.Valkey.Prefix, logger)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
