// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reporter

import (
	"context"
	"net/http"
	"strings"

	"github.com/pdiddy/nih-reporter-mcp/internal/httputil"
	"github.com/pdiddy/nih-reporter-mcp/pkg/types"
)

// Fixed sort for project searches: newest projects first.
const (
	projectSortField = "project_start_date"
	projectSortOrder = "desc"
)

// Client issues search requests against the NIH RePORTER v2 API. The zero
// value is not usable; construct with NewClient.
type Client struct {
	http    httputil.JSONClient
	baseURL string
}

// NewClient builds a RePORTER client from transport settings. The client
// is safe for concurrent use.
func NewClient(cfg types.ReporterConfig) *Client {
	return &Client{
		http: httputil.JSONClient{
			Client:     &http.Client{Timeout: cfg.Timeout},
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// NIH RePORTER request payloads. Pagination and sort ride alongside the
// criteria object, never inside it.
type projectSearchPayload struct {
	Criteria  ProjectCriteria `json:"criteria"`
	Limit     int             `json:"limit"`
	Offset    int             `json:"offset"`
	SortField string          `json:"sort_field"`
	SortOrder string          `json:"sort_order"`
}

type publicationSearchPayload struct {
	Criteria PublicationCriteria `json:"criteria"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
}

// SearchProjects posts the query to projects/search and returns the raw
// result envelope.
func (c *Client) SearchProjects(ctx context.Context, q ProjectQuery) (*types.ProjectEnvelope, error) {
	payload := projectSearchPayload{
		Criteria:  q.Criteria,
		Limit:     q.Limit,
		Offset:    q.Offset,
		SortField: projectSortField,
		SortOrder: projectSortOrder,
	}

	var env types.ProjectEnvelope
	if err := c.http.PostJSON(ctx, "NIH RePORTER projects/search", c.baseURL+"/projects/search", payload, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// SearchPublications posts the query to publications/search and returns
// the raw result envelope. Records come back as link stubs; bibliographic
// fields are filled in by a separate enrichment pass.
func (c *Client) SearchPublications(ctx context.Context, q PublicationQuery) (*types.PublicationEnvelope, error) {
	payload := publicationSearchPayload{
		Criteria: q.Criteria,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}

	var env types.PublicationEnvelope
	if err := c.http.PostJSON(ctx, "NIH RePORTER publications/search", c.baseURL+"/publications/search", payload, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
