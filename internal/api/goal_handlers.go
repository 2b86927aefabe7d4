package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/service"
)

func (s *Server) registerGoalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentGoal",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals/current",
		Summary:     "Get this year's goal",
		Description: "Returns the goal for the current year, or null data",
		Tags:        []string{"Goals"},
	}, s.handleGetCurrentGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGoals",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals",
		Summary:     "List goals",
		Description: "Returns every goal, newest year first",
		Tags:        []string{"Goals"},
	}, s.handleListGoals)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGoalProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals/progress",
		Summary:     "Get goal progress",
		Description: "Counts books read this year against this year's goal",
		Tags:        []string{"Goals"},
	}, s.handleGetGoalProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "setGoal",
		Method:      http.MethodPut,
		Path:        "/api/v1/goals/{year}",
		Summary:     "Set goal",
		Description: "Creates or replaces the goal for a year",
		Tags:        []string{"Goals"},
		Security:    bearer,
	}, s.handleSetGoal)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteGoal",
		Method:        http.MethodDelete,
		Path:          "/api/v1/goals/by-id/{id}",
		Summary:       "Delete goal",
		Description:   "Deletes a goal. Deleting an unknown goal succeeds.",
		Tags:          []string{"Goals"},
		Security:      bearer,
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteGoal)
}

// === DTOs ===

// GoalsOutput wraps a list of goals for Huma.
type GoalsOutput struct {
	Body []*domain.ReadingGoal
}

// GoalOutput wraps a goal for Huma.
type GoalOutput struct {
	Body *domain.ReadingGoal
}

// GoalProgressOutput wraps goal progress for Huma.
type GoalProgressOutput struct {
	Body *domain.GoalProgress
}

// SetGoalRequest holds the targets for one year.
type SetGoalRequest struct {
	TargetBooks int  `json:"targetBooks" doc:"Books to read this year"`
	TargetPages *int `json:"targetPages,omitempty" doc:"Optional page target"`
}

// SetGoalInput wraps the set goal request for Huma.
type SetGoalInput struct {
	Year int `path:"year" doc:"Calendar year"`
	Body SetGoalRequest
}

// GoalIDInput addresses one goal.
type GoalIDInput struct {
	ID string `path:"id" doc:"Goal ID"`
}

// === Handlers ===

func (s *Server) handleGetCurrentGoal(ctx context.Context, _ *struct{}) (*NullableOutput, error) {
	goal, err := s.services.Goal.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}
	return &NullableOutput{Body: nullable(goal)}, nil
}

func (s *Server) handleListGoals(ctx context.Context, _ *struct{}) (*GoalsOutput, error) {
	goals, err := s.services.Goal.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &GoalsOutput{Body: goals}, nil
}

func (s *Server) handleGetGoalProgress(ctx context.Context, _ *struct{}) (*GoalProgressOutput, error) {
	progress, err := s.services.Goal.Progress(ctx)
	if err != nil {
		return nil, err
	}
	return &GoalProgressOutput{Body: progress}, nil
}

func (s *Server) handleSetGoal(ctx context.Context, input *SetGoalInput) (*GoalOutput, error) {
	userID, err := RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	goal, err := s.services.Goal.Set(ctx, userID, service.SetGoalRequest{
		Year:        input.Year,
		TargetBooks: input.Body.TargetBooks,
		TargetPages: input.Body.TargetPages,
	})
	if err != nil {
		return nil, err
	}
	return &GoalOutput{Body: goal}, nil
}

func (s *Server) handleDeleteGoal(ctx context.Context, input *GoalIDInput) (*struct{}, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Goal.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
