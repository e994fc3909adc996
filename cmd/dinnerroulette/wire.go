//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dinnerroulette/internal/config"
)

func initializeApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		newSource,
		newStore,
		newController,
		newDecoration,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
