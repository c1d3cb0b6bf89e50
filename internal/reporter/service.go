// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reporter implements the NIH RePORTER search pipeline: criteria
// building, the projects and publications clients, the publication join,
// and markdown rendering of result envelopes.
package reporter

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/nih-reporter-mcp/pkg/types"
)

// relatedPublicationLimit is the page size for the dependent publication
// query of a combined search. Larger than the project page because several
// publications typically hang off each project.
const relatedPublicationLimit = 100

// Enricher fills bibliographic fields into publication records in place.
// Implementations must preserve record order and leave records without a
// PMID untouched.
type Enricher interface {
	EnrichPublications(ctx context.Context, pubs []types.PublicationRecord) error
}

// Service sequences the search pipeline behind the public operations. All
// dependencies are explicit so tests can substitute stubs.
type Service struct {
	client   *Client
	enricher Enricher
	logger   *zap.Logger
}

// NewService wires the search pipeline. A nil logger disables logging and
// a nil enricher skips bibliographic enrichment.
func NewService(client *Client, enricher Enricher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, enricher: enricher, logger: logger}
}

// SearchProjects validates the options, runs the project query, and
// renders the report.
func (s *Service) SearchProjects(ctx context.Context, opts ProjectSearchOptions) (string, error) {
	q, err := BuildProjectQuery(opts)
	if err != nil {
		s.logger.Error("rejecting project search options", zap.Error(err))
		return "", err
	}

	s.logger.Info("searching projects", zap.Int("limit", q.Limit))
	env, err := s.client.SearchProjects(ctx, q)
	if err != nil {
		s.logger.Error("project search failed", zap.Error(err))
		return "", err
	}
	s.logger.Info("project search returned",
		zap.Int("total", env.Meta.Total),
		zap.Int("page", len(env.Results)))

	includeAbstracts := opts.IncludeAbstracts == nil || *opts.IncludeAbstracts
	return FormatProjects(env, FormatOptions{IncludeAbstracts: includeAbstracts})
}

// SearchPublications validates the options, runs the publication query,
// enriches the records, and renders the report. An enrichment failure
// aborts the whole operation.
func (s *Service) SearchPublications(ctx context.Context, opts PublicationSearchOptions) (string, error) {
	q, err := BuildPublicationQuery(opts)
	if err != nil {
		s.logger.Error("rejecting publication search options", zap.Error(err))
		return "", err
	}

	s.logger.Info("searching publications", zap.Int("limit", q.Limit))
	env, err := s.client.SearchPublications(ctx, q)
	if err != nil {
		s.logger.Error("publication search failed", zap.Error(err))
		return "", err
	}
	s.logger.Info("publication search returned",
		zap.Int("total", env.Meta.Total),
		zap.Int("page", len(env.Results)))

	if err := s.enrich(ctx, env.Results); err != nil {
		s.logger.Error("publication enrichment failed", zap.Error(err))
		return "", err
	}

	return FormatPublications(env)
}

// SearchCombined runs the project query, then the dependent publication
// query parameterized by the returned project numbers, joins the two
// result sets, and renders the report. The publication phase cannot start
// until the project numbers are known, so the fan-out is strictly
// sequential.
func (s *Service) SearchCombined(ctx context.Context, opts CombinedSearchOptions) (string, error) {
	q, err := BuildCombinedQuery(opts)
	if err != nil {
		s.logger.Error("rejecting combined search options", zap.Error(err))
		return "", err
	}

	s.logger.Info("searching projects for combined report", zap.Int("limit", q.Projects.Limit))
	env, err := s.client.SearchProjects(ctx, q.Projects)
	if err != nil {
		s.logger.Error("combined project search failed", zap.Error(err))
		return "", err
	}

	if q.IncludePublications {
		if err := s.attachRelatedPublications(ctx, env, q.PublicationYears); err != nil {
			return "", err
		}
	}

	return FormatProjects(env, FormatOptions{
		IncludeAbstracts:    true,
		IncludePublications: q.IncludePublications,
	})
}

// CheckConnection issues a minimal one-project query to verify the API is
// reachable.
func (s *Service) CheckConnection(ctx context.Context) error {
	_, err := s.client.SearchProjects(ctx, ProjectQuery{Limit: 1})
	return err
}

// attachRelatedPublications runs the dependent publication query for the
// projects in env and joins the results in place.
func (s *Service) attachRelatedPublications(ctx context.Context, env *types.ProjectEnvelope, years []int) error {
	var nums []string
	for _, p := range env.Results {
		if p.ProjectNum != "" {
			nums = append(nums, p.ProjectNum)
		}
	}
	if len(nums) == 0 {
		return nil
	}

	s.logger.Info("searching related publications",
		zap.Int("projects", len(nums)),
		zap.Ints("publication_years", years))
	pubEnv, err := s.client.SearchPublications(ctx, PublicationQuery{
		Criteria: PublicationCriteria{
			CoreProjectNums:  nums,
			PublicationYears: years,
		},
		Limit: relatedPublicationLimit,
	})
	if err != nil {
		s.logger.Error("related publication search failed", zap.Error(err))
		return err
	}

	if err := s.enrich(ctx, pubEnv.Results); err != nil {
		s.logger.Error("related publication enrichment failed", zap.Error(err))
		return err
	}

	AttachPublications(env.Results, pubEnv.Results)
	return nil
}

func (s *Service) enrich(ctx context.Context, pubs []types.PublicationRecord) error {
	if s.enricher == nil || len(pubs) == 0 {
		return nil
	}
	return s.enricher.EnrichPublications(ctx, pubs)
}
