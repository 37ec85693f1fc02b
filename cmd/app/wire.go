//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/jungle-board/internal/bootstrap"
	"github.com/yanqian/jungle-board/internal/domain/auth"
	"github.com/yanqian/jungle-board/internal/domain/board"
	"github.com/yanqian/jungle-board/internal/domain/session"
	"github.com/yanqian/jungle-board/internal/infra/boardapi"
	"github.com/yanqian/jungle-board/internal/infra/config"
	httpiface "github.com/yanqian/jungle-board/internal/interface/http"
	"github.com/yanqian/jungle-board/pkg/logger"
	"github.com/yanqian/jungle-board/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewRecorder,
		provideBoardConfig,
		provideAPIClient,
		provideSessionStorage,
		provideSessionStore,
		board.NewService,
		auth.NewService,
		wire.Bind(new(board.API), new(*boardapi.Client)),
		wire.Bind(new(auth.Gateway), new(*boardapi.Client)),
		wire.Bind(new(board.SessionSource), new(*session.Store)),
		httpiface.NewBoardHandler,
		httpiface.NewAuthHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
