package providers

import (
	"github.com/samber/do/v2"

	"github.com/elisereads/elisereads-server/internal/auth"
	"github.com/elisereads/elisereads-server/internal/blob"
	"github.com/elisereads/elisereads-server/internal/config"
	"github.com/elisereads/elisereads-server/internal/logger"
	"github.com/elisereads/elisereads-server/internal/service"
	"github.com/elisereads/elisereads-server/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	sessions := do.MustInvoke[*SessionStoreHandle](i)
	db := do.MustInvoke[*DatabaseHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(sessions.Store, db.Store, tokens, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	db := do.MustInvoke[*DatabaseHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(db.Store, tokens, sessionService, v, cfg.Auth.OpenRegistration, log.Logger), nil
}

// ProvideBookService provides the reading log service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	blobs := do.MustInvoke[blob.Store](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(db.Store, blobs, searchService, v, log.Logger), nil
}

// ProvideArtworkService provides the gallery service.
func ProvideArtworkService(i do.Injector) (*service.ArtworkService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	db := do.MustInvoke[*DatabaseHandle](i)
	blobs := do.MustInvoke[blob.Store](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewArtworkService(db.Store, blobs, cfg.Storage.PublicURL, searchService, v, log.Logger), nil
}

// ProvideSuggestionService provides the visitor suggestion service.
func ProvideSuggestionService(i do.Injector) (*service.SuggestionService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSuggestionService(db.Store, searchService, v, log.Logger), nil
}

// ProvideProfileService provides the profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(db.Store, v, log.Logger), nil
}

// ProvideGoalService provides the reading goal service.
func ProvideGoalService(i do.Injector) (*service.GoalService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGoalService(db.Store, v, log.Logger), nil
}

// ProvideSettingsService provides the site settings service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	db := do.MustInvoke[*DatabaseHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(db.Store, cfg.Storage.PublicURL, v, log.Logger), nil
}

// ProvideMigrationService provides the orphaned-record migration service.
func ProvideMigrationService(i do.Injector) (*service.MigrationService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMigrationService(db.Store, log.Logger), nil
}

// ProvideUploadService provides the image upload service.
func ProvideUploadService(i do.Injector) (*service.UploadService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	blobs := do.MustInvoke[blob.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUploadService(blobs, cfg.Storage.PublicURL, cfg.Storage.MaxUploadBytes, log.Logger), nil
}
