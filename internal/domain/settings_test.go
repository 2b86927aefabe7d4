package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSiteSettings_WithDefaults(t *testing.T) {
	t.Run("nil yields defaults", func(t *testing.T) {
		var s *SiteSettings
		got := s.WithDefaults()
		assert.Equal(t, DefaultSiteName, got.SiteName)
		assert.Equal(t, DefaultHeroTitle, got.HeroTitle)
		assert.Equal(t, DefaultHeroSubtitle, got.HeroSubtitle)
		assert.Equal(t, DefaultHeroDescription, got.HeroDescription)
		assert.Empty(t, got.HeroImageURL)
	})

	t.Run("fills only unset fields", func(t *testing.T) {
		s := &SiteSettings{SiteName: "Elise's Shelf", HeroImageURL: "/img.png"}
		got := s.WithDefaults()
		assert.Equal(t, "Elise's Shelf", got.SiteName)
		assert.Equal(t, DefaultHeroTitle, got.HeroTitle)
		assert.Equal(t, "/img.png", got.HeroImageURL)
		assert.Empty(t, s.HeroTitle, "receiver is not modified")
	})
}
