package domain

import "time"

// Default public page copy used when settings are unset.
const (
	DefaultSiteName        = "Elise Reads"
	DefaultHeroTitle       = "Welcome to My Reading World"
	DefaultHeroSubtitle    = "Books & Art"
	DefaultHeroDescription = "A place to track my reading adventures and share my artwork"
)

// SiteSettings is the singleton holding the public page copy.
type SiteSettings struct {
	SiteName           string    `json:"siteName,omitempty"`
	HeroTitle          string    `json:"heroTitle,omitempty"`
	HeroSubtitle       string    `json:"heroSubtitle,omitempty"`
	HeroDescription    string    `json:"heroDescription,omitempty"`
	HeroImageURL       string    `json:"heroImageUrl,omitempty"`
	HeroImageStorageID string    `json:"heroImageStorageId,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitzero"`
}

// WithDefaults returns a copy with empty copy fields filled in. A nil
// receiver yields the full default settings.
func (s *SiteSettings) WithDefaults() *SiteSettings {
	out := SiteSettings{}
	if s != nil {
		out = *s
	}
	if out.SiteName == "" {
		out.SiteName = DefaultSiteName
	}
	if out.HeroTitle == "" {
		out.HeroTitle = DefaultHeroTitle
	}
	if out.HeroSubtitle == "" {
		out.HeroSubtitle = DefaultHeroSubtitle
	}
	if out.HeroDescription == "" {
		out.HeroDescription = DefaultHeroDescription
	}
	return &out
}

// SiteSettingsPatch lists the fields an update may change.
type SiteSettingsPatch struct {
	SiteName           *string
	HeroTitle          *string
	HeroSubtitle       *string
	HeroDescription    *string
	HeroImageURL       *string
	HeroImageStorageID *string
}

// Apply copies the set fields of p onto s.
func (p *SiteSettingsPatch) Apply(s *SiteSettings) {
	setString(&s.SiteName, p.SiteName)
	setString(&s.HeroTitle, p.HeroTitle)
	setString(&s.HeroSubtitle, p.HeroSubtitle)
	setString(&s.HeroDescription, p.HeroDescription)
	setString(&s.HeroImageURL, p.HeroImageURL)
	setString(&s.HeroImageStorageID, p.HeroImageStorageID)
}
