package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/elisereads/elisereads-server/internal/domain"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "checkOrphans",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/orphans",
		Summary:     "Check orphaned data",
		Description: "Counts books, artworks and series attributed to another account",
		Tags:        []string{"Admin"},
		Security:    bearer,
	}, s.handleCheckOrphans)

	huma.Register(s.api, huma.Operation{
		OperationID: "claimOrphans",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/orphans/claim",
		Summary:     "Claim orphaned data",
		Description: "Reassigns every orphaned record to the caller in one transaction",
		Tags:        []string{"Admin"},
		Security:    bearer,
	}, s.handleClaimOrphans)
}

// OrphanReportOutput wraps the orphan report for Huma.
type OrphanReportOutput struct {
	Body *domain.OrphanReport
}

// ClaimResultOutput wraps the claim result for Huma.
type ClaimResultOutput struct {
	Body *domain.ClaimResult
}

func (s *Server) handleCheckOrphans(ctx context.Context, _ *struct{}) (*OrphanReportOutput, error) {
	userID, err := RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.services.Migration.CheckOrphans(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &OrphanReportOutput{Body: report}, nil
}

func (s *Server) handleClaimOrphans(ctx context.Context, _ *struct{}) (*ClaimResultOutput, error) {
	userID, err := RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Migration.ClaimOrphans(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ClaimResultOutput{Body: result}, nil
}
