package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pdiddy/nih-reporter-mcp/internal/reporter"
)

// --- stubs ---

// stubService records the decoded options handed to each operation.
type stubService struct {
	projectOpts  *reporter.ProjectSearchOptions
	pubOpts      *reporter.PublicationSearchOptions
	combinedOpts *reporter.CombinedSearchOptions

	report  string
	err     error
	connErr error
}

func (s *stubService) SearchProjects(_ context.Context, opts reporter.ProjectSearchOptions) (string, error) {
	s.projectOpts = &opts
	return s.report, s.err
}

func (s *stubService) SearchPublications(_ context.Context, opts reporter.PublicationSearchOptions) (string, error) {
	s.pubOpts = &opts
	return s.report, s.err
}

func (s *stubService) SearchCombined(_ context.Context, opts reporter.CombinedSearchOptions) (string, error) {
	s.combinedOpts = &opts
	return s.report, s.err
}

func (s *stubService) CheckConnection(_ context.Context) error {
	return s.connErr
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content items = %d, want 1", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// --- argument decoding ---

func TestSearchProjectsDecodesArguments(t *testing.T) {
	svc := &stubService{report: "report body"}
	h := &handlers{svc: svc}

	res, err := h.searchProjects(context.Background(), callReq(map[string]any{
		"fiscal_years":     "2022,2023",
		"org_state":        "ca",
		"min_amount":       500000.0,
		"newly_added_only": true,
		"limit":            5.0,
	}))
	if err != nil {
		t.Fatalf("searchProjects: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != "report body" {
		t.Errorf("text = %q", got)
	}

	opts := svc.projectOpts
	if opts == nil {
		t.Fatal("service was not called")
	}
	if opts.FiscalYears == nil || *opts.FiscalYears != "2022,2023" {
		t.Errorf("FiscalYears = %v", opts.FiscalYears)
	}
	if opts.OrgState == nil || *opts.OrgState != "ca" {
		t.Errorf("OrgState = %v", opts.OrgState)
	}
	if opts.MinAmount == nil || *opts.MinAmount != 500000 {
		t.Errorf("MinAmount = %v", opts.MinAmount)
	}
	if opts.NewlyAddedOnly == nil || !*opts.NewlyAddedOnly {
		t.Errorf("NewlyAddedOnly = %v", opts.NewlyAddedOnly)
	}
	// JSON numbers arrive as float64 and must land in the int field.
	if opts.Limit == nil || *opts.Limit != 5 {
		t.Errorf("Limit = %v", opts.Limit)
	}
	if opts.PINames != nil {
		t.Errorf("PINames = %v, want nil for an absent argument", opts.PINames)
	}
}

func TestSearchProjectsWeaklyTypedArguments(t *testing.T) {
	svc := &stubService{}
	h := &handlers{svc: svc}

	// Clients sometimes send a bare number for a list of years and a
	// quoted number for the limit.
	if _, err := h.searchProjects(context.Background(), callReq(map[string]any{
		"fiscal_years": 2021.0,
		"limit":        "25",
	})); err != nil {
		t.Fatalf("searchProjects: %v", err)
	}

	opts := svc.projectOpts
	if opts.FiscalYears == nil || *opts.FiscalYears != "2021" {
		t.Errorf("FiscalYears = %v", opts.FiscalYears)
	}
	if opts.Limit == nil || *opts.Limit != 25 {
		t.Errorf("Limit = %v", opts.Limit)
	}
}

func TestSearchProjectsNoArguments(t *testing.T) {
	svc := &stubService{report: "all defaults"}
	h := &handlers{svc: svc}

	res, err := h.searchProjects(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("searchProjects: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if svc.projectOpts == nil {
		t.Fatal("service was not called")
	}
	if svc.projectOpts.FiscalYears != nil || svc.projectOpts.Limit != nil {
		t.Errorf("options should be empty, got %+v", svc.projectOpts)
	}
}

func TestSearchProjectsUndecodableArguments(t *testing.T) {
	h := &handlers{svc: &stubService{}}

	res, err := h.searchProjects(context.Background(), callReq(map[string]any{
		"min_amount": "not a number",
	}))
	if err != nil {
		t.Fatalf("searchProjects: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	if got := resultText(t, res); !strings.Contains(got, "Invalid tool arguments") {
		t.Errorf("text = %q", got)
	}
}

// --- error rendering ---

func TestSearchProjectsValidationError(t *testing.T) {
	svc := &stubService{err: &reporter.ValidationError{
		Field: "fiscal years format",
		Input: "abc",
		Hint:  "Please provide comma-separated years (e.g., 2020,2021)",
	}}
	h := &handlers{svc: svc}

	res, err := h.searchProjects(context.Background(), callReq(map[string]any{"fiscal_years": "abc"}))
	if err != nil {
		t.Fatalf("searchProjects: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result")
	}

	got := resultText(t, res)
	if !strings.HasPrefix(got, "Error: Invalid fiscal years format") {
		t.Errorf("text = %q", got)
	}
	if !strings.Contains(got, "abc") {
		t.Errorf("text should identify the rejected input: %q", got)
	}
	if strings.Contains(got, "failed") {
		t.Errorf("validation problems are not operation failures: %q", got)
	}
}

func TestSearchProjectsFailureWrapped(t *testing.T) {
	svc := &stubService{err: errors.New("boom")}
	h := &handlers{svc: svc}

	res, err := h.searchProjects(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("searchProjects: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	want := "Project search failed: boom\nPlease check the logs for more details."
	if got := resultText(t, res); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

// --- publication and combined tools ---

func TestSearchPublicationsDecodesArguments(t *testing.T) {
	svc := &stubService{report: "pubs"}
	h := &handlers{svc: svc}

	res, err := h.searchPublications(context.Background(), callReq(map[string]any{
		"pmids":             "31191182,33264544",
		"core_project_nums": "R01CA123456",
		"limit":             3.0,
	}))
	if err != nil {
		t.Fatalf("searchPublications: %v", err)
	}
	if got := resultText(t, res); got != "pubs" {
		t.Errorf("text = %q", got)
	}

	opts := svc.pubOpts
	if opts == nil {
		t.Fatal("service was not called")
	}
	if opts.PMIDs == nil || *opts.PMIDs != "31191182,33264544" {
		t.Errorf("PMIDs = %v", opts.PMIDs)
	}
	if opts.CoreProjectNums == nil || *opts.CoreProjectNums != "R01CA123456" {
		t.Errorf("CoreProjectNums = %v", opts.CoreProjectNums)
	}
	if opts.Limit == nil || *opts.Limit != 3 {
		t.Errorf("Limit = %v", opts.Limit)
	}
}

func TestSearchPublicationsFailureWrapped(t *testing.T) {
	h := &handlers{svc: &stubService{err: errors.New("upstream down")}}

	res, err := h.searchPublications(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("searchPublications: %v", err)
	}
	want := "Publication search failed: upstream down\nPlease check the logs for more details."
	if got := resultText(t, res); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestSearchCombinedDecodesArguments(t *testing.T) {
	svc := &stubService{report: "combined"}
	h := &handlers{svc: svc}

	res, err := h.searchCombined(context.Background(), callReq(map[string]any{
		"pi_names":             "Smith, Jones",
		"include_publications": false,
		"publication_years":    "2020,2021",
	}))
	if err != nil {
		t.Fatalf("searchCombined: %v", err)
	}
	if got := resultText(t, res); got != "combined" {
		t.Errorf("text = %q", got)
	}

	opts := svc.combinedOpts
	if opts == nil {
		t.Fatal("service was not called")
	}
	if opts.PINames == nil || *opts.PINames != "Smith, Jones" {
		t.Errorf("PINames = %v", opts.PINames)
	}
	if opts.IncludePublications == nil || *opts.IncludePublications {
		t.Errorf("IncludePublications = %v, want explicit false", opts.IncludePublications)
	}
	if opts.PublicationYears == nil || *opts.PublicationYears != "2020,2021" {
		t.Errorf("PublicationYears = %v", opts.PublicationYears)
	}
}

func TestSearchCombinedFailureWrapped(t *testing.T) {
	h := &handlers{svc: &stubService{err: errors.New("boom")}}

	res, err := h.searchCombined(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("searchCombined: %v", err)
	}
	want := "Combined search failed: boom\nPlease check the logs for more details."
	if got := resultText(t, res); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

// --- connection test ---

func TestTestConnection(t *testing.T) {
	h := &handlers{svc: &stubService{}}

	res, err := h.testConnection(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("testConnection: %v", err)
	}
	if res.IsError {
		t.Fatal("unexpected error result")
	}
	if got := resultText(t, res); got != "Successfully connected to NIH RePORTER API" {
		t.Errorf("text = %q", got)
	}
}

func TestTestConnectionFailure(t *testing.T) {
	h := &handlers{svc: &stubService{connErr: errors.New("dial tcp: timeout")}}

	res, err := h.testConnection(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("testConnection: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	if got := resultText(t, res); got != "Connection test failed: dial tcp: timeout" {
		t.Errorf("text = %q", got)
	}
}

// --- server registration ---

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(&stubService{}, "0.1.0")

	msg := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshaling tools/list response: %v", err)
	}

	for _, name := range []string{"search_projects", "search_publications", "search_combined", "test_connection"} {
		if !strings.Contains(string(data), `"`+name+`"`) {
			t.Errorf("tools/list response missing %s", name)
		}
	}
}

func TestNewServerDispatchesCalls(t *testing.T) {
	s := NewServer(&stubService{}, "0.1.0")

	msg := s.HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"test_connection","arguments":{}}}`))
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshaling tools/call response: %v", err)
	}
	if !strings.Contains(string(data), "Successfully connected to NIH RePORTER API") {
		t.Errorf("tools/call response = %s", data)
	}
}
