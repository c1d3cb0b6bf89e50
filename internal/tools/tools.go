// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools exposes the search pipeline as MCP tools. Each tool
// decodes loosely typed client arguments into the reporter options
// structs, runs the corresponding service operation, and returns the
// rendered markdown report.
package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pdiddy/nih-reporter-mcp/internal/reporter"
)

// SearchService is the slice of the reporter service the tools call.
type SearchService interface {
	SearchProjects(ctx context.Context, opts reporter.ProjectSearchOptions) (string, error)
	SearchPublications(ctx context.Context, opts reporter.PublicationSearchOptions) (string, error)
	SearchCombined(ctx context.Context, opts reporter.CombinedSearchOptions) (string, error)
	CheckConnection(ctx context.Context) error
}

// NewServer builds the MCP server with all four search tools registered.
func NewServer(svc SearchService, version string) *server.MCPServer {
	s := server.NewMCPServer("NIH RePORTER", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	h := &handlers{svc: svc}
	s.AddTool(projectSearchTool(), h.searchProjects)
	s.AddTool(publicationSearchTool(), h.searchPublications)
	s.AddTool(combinedSearchTool(), h.searchCombined)
	s.AddTool(connectionTestTool(), h.testConnection)
	return s
}

type handlers struct {
	svc SearchService
}

func projectSearchTool() mcp.Tool {
	return mcp.NewTool("search_projects",
		mcp.WithDescription("Search for NIH funded projects with advanced criteria"),
		mcp.WithString("fiscal_years",
			mcp.Description(`Comma-separated list of fiscal years (e.g., "2022,2023")`)),
		mcp.WithString("pi_names",
			mcp.Description("Comma-separated list of PI names (will match any of the names)")),
		mcp.WithString("organization",
			mcp.Description("Name of the organization")),
		mcp.WithString("org_state",
			mcp.Description(`Two-letter state code (e.g., "CA", "NY")`)),
		mcp.WithString("org_city",
			mcp.Description("City name")),
		mcp.WithString("org_type",
			mcp.Description("Organization type")),
		mcp.WithString("org_department",
			mcp.Description("Department name")),
		mcp.WithNumber("min_amount",
			mcp.Description("Minimum award amount")),
		mcp.WithNumber("max_amount",
			mcp.Description("Maximum award amount")),
		mcp.WithString("covid_response",
			mcp.Description(`COVID-19 response category (options: "Reg-CV", "CV", "C3", "C4", "C5", "C6")`)),
		mcp.WithString("funding_mechanism",
			mcp.Description(`Type of funding (e.g., "R01", "F32", "K99")`)),
		mcp.WithString("ic_code",
			mcp.Description(`Institute or Center code (e.g., "NCI", "NIMH")`)),
		mcp.WithString("rcdc_terms",
			mcp.Description("Comma-separated RCDC terms for research categorization")),
		mcp.WithString("start_date",
			mcp.Description("Project start date (YYYY-MM-DD)")),
		mcp.WithString("end_date",
			mcp.Description("Project end date (YYYY-MM-DD)")),
		mcp.WithBoolean("newly_added_only",
			mcp.Description("Only show recently added projects"),
			mcp.DefaultBool(false)),
		mcp.WithBoolean("include_abstracts",
			mcp.Description("Include project abstracts in results"),
			mcp.DefaultBool(true)),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10, max: 50)"),
			mcp.DefaultNumber(10),
			mcp.Min(1),
			mcp.Max(50)),
	)
}

func publicationSearchTool() mcp.Tool {
	return mcp.NewTool("search_publications",
		mcp.WithDescription("Search for publications linked to NIH projects"),
		mcp.WithString("pmids",
			mcp.Description("Comma-separated list of PubMed IDs")),
		mcp.WithString("core_project_nums",
			mcp.Description("Comma-separated list of NIH core project numbers")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10, max: 50)"),
			mcp.DefaultNumber(10),
			mcp.Min(1),
			mcp.Max(50)),
	)
}

func combinedSearchTool() mcp.Tool {
	return mcp.NewTool("search_combined",
		mcp.WithDescription("Search for NIH projects and their related publications in a single query"),
		mcp.WithString("fiscal_years",
			mcp.Description(`Comma-separated list of fiscal years (e.g., "2022,2023")`)),
		mcp.WithString("pi_names",
			mcp.Description("Comma-separated list of PI names")),
		mcp.WithString("organization",
			mcp.Description("Name of the organization")),
		mcp.WithString("org_state",
			mcp.Description(`Two-letter state code (e.g., "CA", "NY")`)),
		mcp.WithString("funding_mechanism",
			mcp.Description(`Type of funding (e.g., "R01", "F32", "K99")`)),
		mcp.WithString("ic_code",
			mcp.Description(`Institute or Center code (e.g., "NCI", "NIMH")`)),
		mcp.WithNumber("min_amount",
			mcp.Description("Minimum award amount")),
		mcp.WithNumber("max_amount",
			mcp.Description("Maximum award amount")),
		mcp.WithString("covid_response",
			mcp.Description("COVID-19 response category")),
		mcp.WithBoolean("include_publications",
			mcp.Description("Whether to include related publications"),
			mcp.DefaultBool(true)),
		mcp.WithString("publication_years",
			mcp.Description("Comma-separated list of publication years")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10, max: 50)"),
			mcp.DefaultNumber(10),
			mcp.Min(1),
			mcp.Max(50)),
	)
}

func connectionTestTool() mcp.Tool {
	return mcp.NewTool("test_connection",
		mcp.WithDescription("Test the connection to the NIH RePORTER API"),
	)
}

func (h *handlers) searchProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var opts reporter.ProjectSearchOptions
	if err := decodeArguments(req.GetArguments(), &opts); err != nil {
		return errorResult("Project search", err), nil
	}
	report, err := h.svc.SearchProjects(ctx, opts)
	if err != nil {
		return errorResult("Project search", err), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (h *handlers) searchPublications(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var opts reporter.PublicationSearchOptions
	if err := decodeArguments(req.GetArguments(), &opts); err != nil {
		return errorResult("Publication search", err), nil
	}
	report, err := h.svc.SearchPublications(ctx, opts)
	if err != nil {
		return errorResult("Publication search", err), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (h *handlers) searchCombined(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var opts reporter.CombinedSearchOptions
	if err := decodeArguments(req.GetArguments(), &opts); err != nil {
		return errorResult("Combined search", err), nil
	}
	report, err := h.svc.SearchCombined(ctx, opts)
	if err != nil {
		return errorResult("Combined search", err), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (h *handlers) testConnection(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.svc.CheckConnection(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Connection test failed: %v", err)), nil
	}
	return mcp.NewToolResultText("Successfully connected to NIH RePORTER API"), nil
}

// decodeArguments fills an options struct from the raw tool arguments.
// Clients are loose about argument types, sending numbers for string
// parameters and strings for numbers, so decoding is weakly typed.
func decodeArguments(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("building argument decoder: %w", err)
	}
	if err := dec.Decode(args); err != nil {
		return &reporter.ValidationError{Field: "tool arguments", Hint: err.Error()}
	}
	return nil
}

// errorResult renders a failed operation for the client. Validation
// problems carry their own user-facing message; anything else is wrapped
// with the operation name.
func errorResult(operation string, err error) *mcp.CallToolResult {
	var verr *reporter.ValidationError
	if errors.As(err, &verr) {
		return mcp.NewToolResultError("Error: " + verr.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v\nPlease check the logs for more details.", operation, err))
}
