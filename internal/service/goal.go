package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/id"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
	"github.com/elisereads/elisereads-server/internal/validation"
)

// GoalService manages yearly reading goals. Years are calendar years in
// the server's local time zone.
type GoalService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
	loc       *time.Location
	now       clock
}

// NewGoalService creates a new goal service.
func NewGoalService(store *sqlite.Store, validator *validation.Validator, logger *slog.Logger) *GoalService {
	return &GoalService{
		store:     store,
		validator: validator,
		logger:    discardLogger(logger),
		loc:       time.Local,
		now:       time.Now,
	}
}

// SetGoalRequest sets the targets for one year.
type SetGoalRequest struct {
	Year        int  `json:"year" validate:"gte=1900,lte=3000"`
	TargetBooks int  `json:"targetBooks" validate:"required,gte=1,lte=10000"`
	TargetPages *int `json:"targetPages,omitempty" validate:"omitempty,gte=1,lte=10000000"`
}

func (s *GoalService) currentYear() int {
	return s.now().In(s.loc).Year()
}

// GetCurrent returns this year's goal, or nil when none is set.
func (s *GoalService) GetCurrent(ctx context.Context) (*domain.ReadingGoal, error) {
	goal, err := s.store.GetGoalByYear(ctx, s.currentYear())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return goal, nil
}

// ListAll returns every goal, newest year first.
func (s *GoalService) ListAll(ctx context.Context) ([]*domain.ReadingGoal, error) {
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// Progress tallies the books finished this year against this year's goal.
func (s *GoalService) Progress(ctx context.Context) (*domain.GoalProgress, error) {
	year := s.currentYear()
	goal, err := s.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	start, end := domain.YearBounds(year, s.loc)
	books, err := s.store.ListBooksFinishedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list finished books: %w", err)
	}
	return domain.ComputeProgress(goal, books, year, s.loc), nil
}

// Set creates or replaces the goal for req.Year.
func (s *GoalService) Set(ctx context.Context, userID string, req SetGoalRequest) (*domain.ReadingGoal, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	goalID, err := id.Generate(id.PrefixGoal)
	if err != nil {
		return nil, fmt.Errorf("generate goal ID: %w", err)
	}
	goal, err := s.store.UpsertGoal(ctx, &domain.ReadingGoal{
		ID:          goalID,
		UserID:      userID,
		Year:        req.Year,
		TargetBooks: req.TargetBooks,
		TargetPages: req.TargetPages,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reading goal set", "year", goal.Year, "target_books", goal.TargetBooks)
	return goal, nil
}

// Delete removes a goal by ID. Unknown IDs are ignored.
func (s *GoalService) Delete(ctx context.Context, goalID string) error {
	if err := s.store.DeleteGoal(ctx, goalID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}
