package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/elisereads/elisereads-server/cmd/elisectl/output"
	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/service"
)

var (
	seedFile string
	seedUser string
)

// seedData is the layout of a seed file.
type seedData struct {
	Books    []seedBook    `yaml:"books"`
	Series   []seedSeries  `yaml:"series"`
	Artworks []seedArtwork `yaml:"artworks"`
	Goals    []seedGoal    `yaml:"goals"`
}

type seedBook struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Status      string `yaml:"status"`
	CoverURL    string `yaml:"cover_url"`
	ISBN        string `yaml:"isbn"`
	Genre       string `yaml:"genre"`
	Series      string `yaml:"series"`
	PageCount   *int   `yaml:"page_count"`
	Description string `yaml:"description"`
	Rating      *int   `yaml:"rating"`
	Review      string `yaml:"review"`
	Favorite    bool   `yaml:"favorite"`
	GiftedBy    string `yaml:"gifted_by"`
}

type seedSeries struct {
	Title         string        `yaml:"title"`
	Description   string        `yaml:"description"`
	CoverImageURL string        `yaml:"cover_image_url"`
	Artworks      []seedArtwork `yaml:"artworks"`
}

type seedArtwork struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"image_url"`
	Style       string   `yaml:"style"`
	Medium      string   `yaml:"medium"`
	Tags        []string `yaml:"tags"`
	Published   bool     `yaml:"published"`
}

type seedGoal struct {
	Year        int  `yaml:"year"`
	TargetBooks int  `yaml:"target_books"`
	TargetPages *int `yaml:"target_pages"`
}

// seedSummary counts what a seed run did.
type seedSummary struct {
	Books    int      `json:"books"`
	Series   int      `json:"series"`
	Artworks int      `json:"artworks"`
	Goals    int      `json:"goals"`
	Skipped  []string `json:"skipped,omitempty"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load books, artworks, series and goals from a YAML file",
	Long: `Load content from a YAML file through the same validation and duplicate
rules as the API. Records that already exist are skipped.

Example file:
  books:
    - title: Piranesi
      author: Susanna Clarke
      status: read
      rating: 5
  series:
    - title: Harbour Studies
      artworks:
        - title: Low Tide
          image_url: https://example.com/low-tide.jpg
          published: true
  goals:
    - year: 2026
      target_books: 24`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadSeedFile(seedFile)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		userID, err := a.seedOwner(cmd.Context(), seedUser)
		if err != nil {
			return err
		}

		summary, err := a.seed(cmd.Context(), userID, data)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(summary)
		}

		output.Success("Seeded %d books, %d series, %d artworks and %d goals",
			summary.Books, summary.Series, summary.Artworks, summary.Goals)
		for _, s := range summary.Skipped {
			output.Warning("Skipped %s", s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Seed file (required)")
	seedCmd.Flags().StringVar(&seedUser, "user", "", "Owning user ID (default: the site owner)")
	_ = seedCmd.MarkFlagRequired("file")
}

func loadSeedFile(path string) (*seedData, error) {
	raw, err := os.ReadFile(path) //#nosec G304 -- seed file path is given by the operator
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &data, nil
}

// seedOwner resolves the user the seeded content belongs to.
func (a *app) seedOwner(ctx context.Context, userID string) (string, error) {
	if userID != "" {
		if _, err := a.db.GetUser(ctx, userID); err != nil {
			return "", fmt.Errorf("user %s: %w", userID, err)
		}
		return userID, nil
	}

	users, err := a.db.ListUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if u.IsAdmin() {
			return u.ID, nil
		}
	}
	return "", errors.New("no site owner yet, finish setup first or pass --user")
}

// seed writes data through the services. Duplicates are recorded in the
// summary and skipped; any other error stops the run.
func (a *app) seed(ctx context.Context, userID string, data *seedData) (*seedSummary, error) {
	summary := &seedSummary{}

	for _, b := range data.Books {
		req := service.AddBookRequest{
			Title:       b.Title,
			Author:      b.Author,
			Status:      domain.BookStatus(b.Status),
			CoverURL:    b.CoverURL,
			ISBN:        b.ISBN,
			Genre:       b.Genre,
			Series:      b.Series,
			PageCount:   b.PageCount,
			Description: b.Description,
			Rating:      b.Rating,
			Review:      b.Review,
			GiftedBy:    b.GiftedBy,
		}
		if b.Favorite {
			req.IsFavorite = &b.Favorite
		}
		_, err := a.books.Add(ctx, userID, req)
		if skip, err := skippable(err); err != nil {
			return nil, fmt.Errorf("book %q: %w", b.Title, err)
		} else if skip {
			summary.Skipped = append(summary.Skipped, "book "+b.Title)
			continue
		}
		summary.Books++
	}

	for _, s := range data.Series {
		series, err := a.artworks.CreateSeries(ctx, userID, service.CreateSeriesRequest{
			Title:         s.Title,
			Description:   s.Description,
			CoverImageURL: s.CoverImageURL,
		})
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Title, err)
		}
		summary.Series++

		for _, art := range s.Artworks {
			if err := a.seedArtwork(ctx, userID, series.ID, art); err != nil {
				return nil, err
			}
			summary.Artworks++
		}
	}

	for _, art := range data.Artworks {
		if err := a.seedArtwork(ctx, userID, "", art); err != nil {
			return nil, err
		}
		summary.Artworks++
	}

	for _, g := range data.Goals {
		_, err := a.goals.Set(ctx, userID, service.SetGoalRequest{
			Year:        g.Year,
			TargetBooks: g.TargetBooks,
			TargetPages: g.TargetPages,
		})
		if err != nil {
			return nil, fmt.Errorf("goal %d: %w", g.Year, err)
		}
		summary.Goals++
	}

	return summary, nil
}

func (a *app) seedArtwork(ctx context.Context, userID, seriesID string, art seedArtwork) error {
	_, err := a.artworks.Create(ctx, userID, service.CreateArtworkRequest{
		Title:       art.Title,
		Description: art.Description,
		ImageURL:    art.ImageURL,
		Style:       art.Style,
		Medium:      art.Medium,
		SeriesID:    seriesID,
		Tags:        art.Tags,
		IsPublished: art.Published,
	})
	if err != nil {
		return fmt.Errorf("artwork %q: %w", art.Title, err)
	}
	return nil
}

// skippable reports whether err only says the record already exists.
func skippable(err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, domainerrors.ErrAlreadyExists), errors.Is(err, domainerrors.ErrDuplicate):
		return true, nil
	default:
		return false, err
	}
}
