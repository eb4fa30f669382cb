//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/Romer4ig/image-moderation/internal/bootstrap"
	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/logger"
)

// BuildApplication assembles the cover console with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		bootstrap.ProviderSet,
		NewApplication,
	)
	return nil, nil
}
