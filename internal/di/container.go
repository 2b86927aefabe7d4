// Package di provides dependency injection configuration for the Elise Reads server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/elisereads/elisereads-server/internal/api"
	"github.com/elisereads/elisereads-server/internal/auth"
	"github.com/elisereads/elisereads-server/internal/blob"
	"github.com/elisereads/elisereads-server/internal/config"
	"github.com/elisereads/elisereads-server/internal/di/providers"
	"github.com/elisereads/elisereads-server/internal/logger"
	"github.com/elisereads/elisereads-server/internal/search"
	"github.com/elisereads/elisereads-server/internal/service"
	"github.com/elisereads/elisereads-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideDatabase)
	do.Provide(injector, providers.ProvideSessionStore)
	do.Provide(injector, providers.ProvideBlobStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideArtworkService)
	do.Provide(injector, providers.ProvideSuggestionService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideGoalService)
	do.Provide(injector, providers.ProvideSettingsService)
	do.Provide(injector, providers.ProvideMigrationService)
	do.Provide(injector, providers.ProvideUploadService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideRateLimiters)
	do.Provide(injector, providers.ProvideAPIServices)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the background work.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.DatabaseHandle](injector)
	_ = do.MustInvoke[*providers.SessionStoreHandle](injector)
	_ = do.MustInvoke[blob.Store](injector)
	_ = do.MustInvoke[*search.Index](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*api.Services](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*api.RateLimiters](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
