package api

import (
	"github.com/elisereads/elisereads-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth       *service.AuthService
	Book       *service.BookService
	Artwork    *service.ArtworkService
	Suggestion *service.SuggestionService
	Profile    *service.ProfileService
	Goal       *service.GoalService
	Settings   *service.SettingsService
	Migration  *service.MigrationService
	Upload     *service.UploadService
	Search     *service.SearchService
}
