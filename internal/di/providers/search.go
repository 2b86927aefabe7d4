package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/elisereads/elisereads-server/internal/config"
	"github.com/elisereads/elisereads-server/internal/logger"
	"github.com/elisereads/elisereads-server/internal/search"
	"github.com/elisereads/elisereads-server/internal/service"
)

// ProvideSearchIndex opens the Bleve index. The index shuts itself down.
func ProvideSearchIndex(i do.Injector) (*search.Index, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.Open(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}

	docCount, _ := index.Count()
	log.Info("Search index initialized", "documents", docCount)

	return index, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	index := do.MustInvoke[*search.Index](i)
	db := do.MustInvoke[*DatabaseHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(index, db.Store, log.Logger), nil
}

// TriggerSearchReindexIfNeeded rebuilds the index in the background when it
// was recreated at open. Call after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !searchService.NeedsReindex() {
		return
	}

	log.Info("Search index needs rebuilding, triggering reindex")

	go func() {
		count, err := searchService.Reindex(context.Background())
		if err != nil {
			log.Error("Initial search reindex failed", "error", err)
			return
		}
		log.Info("Initial search reindex completed", "documents", count)
	}()
}
