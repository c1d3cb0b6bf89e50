package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/nih-reporter-mcp/pkg/types"
)

// --- fixtures ---

// sampleSummaryJSON is a trimmed esummary response. The result object
// carries a "uids" index entry alongside the per-PMID documents.
const sampleSummaryJSON = `{
	"header": {"type": "esummary", "version": "0.3"},
	"result": {
		"uids": ["31191182", "33264544"],
		"31191182": {
			"uid": "31191182",
			"title": "Deep learning for tumor classification.",
			"authors": [
				{"name": "Smith J", "authtype": "Author"},
				{"name": "Jones K", "authtype": "Author"}
			],
			"fulljournalname": "Nature Medicine",
			"pubdate": "2023 Jan 15"
		},
		"33264544": {
			"uid": "33264544",
			"title": "Cohort outcomes after immunotherapy.",
			"authors": [],
			"fulljournalname": "Cell",
			"pubdate": "2021 Nov-Dec"
		}
	}
}`

type summaryStub struct {
	ts        *httptest.Server
	body      string
	status    int
	calls     int
	lastPath  string
	lastQuery url.Values
}

func newSummaryStub(body string) *summaryStub {
	s := &summaryStub{body: body, status: http.StatusOK}
	s.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls++
		s.lastPath = r.URL.Path
		s.lastQuery = r.URL.Query()
		w.WriteHeader(s.status)
		fmt.Fprint(w, s.body)
	}))
	return s
}

func (s *summaryStub) client(apiKey string) *Client {
	return NewClient(types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    5 * time.Second,
			UserAgent:  "test/0.1",
			MaxRetries: 1,
		},
		BaseURL: s.ts.URL,
		APIKey:  apiKey,
	})
}

// --- enrichment ---

func TestEnrichPublicationsMergesSummaries(t *testing.T) {
	stub := newSummaryStub(sampleSummaryJSON)
	defer stub.ts.Close()

	pubs := []types.PublicationRecord{
		{Pmid: 31191182, CoreProjectNum: "R01CA123456"},
		{Pmid: 33264544, CoreProjectNum: "R01CA123456"},
	}
	if err := stub.client("").EnrichPublications(context.Background(), pubs); err != nil {
		t.Fatalf("EnrichPublications: %v", err)
	}

	if stub.lastPath != "/esummary.fcgi" {
		t.Errorf("path = %q, want /esummary.fcgi", stub.lastPath)
	}
	if got := stub.lastQuery.Get("db"); got != "pubmed" {
		t.Errorf("db = %q", got)
	}
	if got := stub.lastQuery.Get("id"); got != "31191182,33264544" {
		t.Errorf("id = %q, want comma-joined PMIDs", got)
	}
	if got := stub.lastQuery.Get("retmode"); got != "json" {
		t.Errorf("retmode = %q", got)
	}
	if stub.lastQuery.Has("api_key") {
		t.Error("api_key must not be sent when unset")
	}

	first := pubs[0]
	if first.Title != "Deep learning for tumor classification." {
		t.Errorf("Title = %q", first.Title)
	}
	if strings.Join(first.Authors, "|") != "Smith J|Jones K" {
		t.Errorf("Authors = %v", first.Authors)
	}
	if first.JournalTitle != "Nature Medicine" {
		t.Errorf("JournalTitle = %q", first.JournalTitle)
	}
	if first.PublicationYear != "2023" {
		t.Errorf("PublicationYear = %q, want first pubdate token", first.PublicationYear)
	}
	// Untouched by enrichment.
	if first.CoreProjectNum != "R01CA123456" {
		t.Errorf("CoreProjectNum = %q", first.CoreProjectNum)
	}

	second := pubs[1]
	if second.Title != "Cohort outcomes after immunotherapy." {
		t.Errorf("Title = %q", second.Title)
	}
	if second.Authors != nil {
		t.Errorf("Authors = %v, want none for an empty author list", second.Authors)
	}
	if second.PublicationYear != "2021" {
		t.Errorf("PublicationYear = %q", second.PublicationYear)
	}
}

func TestEnrichPublicationsBatchesOneRequest(t *testing.T) {
	stub := newSummaryStub(sampleSummaryJSON)
	defer stub.ts.Close()

	pubs := []types.PublicationRecord{{Pmid: 31191182}, {Pmid: 33264544}}
	if err := stub.client("").EnrichPublications(context.Background(), pubs); err != nil {
		t.Fatalf("EnrichPublications: %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want a single batched lookup", stub.calls)
	}
}

func TestEnrichPublicationsSkipsRecordsWithoutPmid(t *testing.T) {
	stub := newSummaryStub(sampleSummaryJSON)
	defer stub.ts.Close()

	pubs := []types.PublicationRecord{
		{CoreProjectNum: "R01CA123456"},
		{Pmid: 31191182},
	}
	if err := stub.client("").EnrichPublications(context.Background(), pubs); err != nil {
		t.Fatalf("EnrichPublications: %v", err)
	}

	if got := stub.lastQuery.Get("id"); got != "31191182" {
		t.Errorf("id = %q, records without a PMID must not be looked up", got)
	}
	if pubs[0].Title != "" {
		t.Errorf("record without PMID was modified: %+v", pubs[0])
	}
	if pubs[1].Title == "" {
		t.Error("record with PMID should be enriched")
	}
}

func TestEnrichPublicationsNoPmidsSkipsRequest(t *testing.T) {
	stub := newSummaryStub(sampleSummaryJSON)
	defer stub.ts.Close()

	pubs := []types.PublicationRecord{{CoreProjectNum: "R01CA123456"}}
	if err := stub.client("").EnrichPublications(context.Background(), pubs); err != nil {
		t.Fatalf("EnrichPublications: %v", err)
	}
	if stub.calls != 0 {
		t.Errorf("calls = %d, want no request without PMIDs", stub.calls)
	}
}

func TestEnrichPublicationsUnknownPmidLeftUnmodified(t *testing.T) {
	stub := newSummaryStub(`{
		"result": {
			"uids": ["99"],
			"99": {"uid": "99", "error": "cannot get document summary"}
		}
	}`)
	defer stub.ts.Close()

	pubs := []types.PublicationRecord{{Pmid: 99, CoreProjectNum: "R01CA123456"}}
	if err := stub.client("").EnrichPublications(context.Background(), pubs); err != nil {
		t.Fatalf("EnrichPublications: %v", err)
	}
	if pubs[0].Title != "" || pubs[0].Authors != nil {
		t.Errorf("record with failed lookup was modified: %+v", pubs[0])
	}
}

func TestEnrichPublicationsAbsentPmidLeftUnmodified(t *testing.T) {
	stub := newSummaryStub(`{"result": {"uids": []}}`)
	defer stub.ts.Close()

	pubs := []types.PublicationRecord{{Pmid: 12345}}
	if err := stub.client("").EnrichPublications(context.Background(), pubs); err != nil {
		t.Fatalf("EnrichPublications: %v", err)
	}
	if pubs[0].Title != "" {
		t.Errorf("record absent from the result was modified: %+v", pubs[0])
	}
}

func TestEnrichPublicationsBlankPubdate(t *testing.T) {
	stub := newSummaryStub(`{
		"result": {
			"uids": ["7"],
			"7": {"uid": "7", "title": "No date on record.", "pubdate": "   "}
		}
	}`)
	defer stub.ts.Close()

	pubs := []types.PublicationRecord{{Pmid: 7}}
	if err := stub.client("").EnrichPublications(context.Background(), pubs); err != nil {
		t.Fatalf("EnrichPublications: %v", err)
	}
	if pubs[0].Title != "No date on record." {
		t.Errorf("Title = %q", pubs[0].Title)
	}
	if pubs[0].PublicationYear != "" {
		t.Errorf("PublicationYear = %q, want empty for a blank pubdate", pubs[0].PublicationYear)
	}
}

func TestEnrichPublicationsSendsAPIKey(t *testing.T) {
	stub := newSummaryStub(sampleSummaryJSON)
	defer stub.ts.Close()

	pubs := []types.PublicationRecord{{Pmid: 31191182}}
	if err := stub.client("secret-key").EnrichPublications(context.Background(), pubs); err != nil {
		t.Fatalf("EnrichPublications: %v", err)
	}
	if got := stub.lastQuery.Get("api_key"); got != "secret-key" {
		t.Errorf("api_key = %q", got)
	}
}

func TestEnrichPublicationsUpstreamFailure(t *testing.T) {
	stub := newSummaryStub(`{"error": "rate limit"}`)
	stub.status = http.StatusInternalServerError
	defer stub.ts.Close()

	pubs := []types.PublicationRecord{{Pmid: 31191182}}
	err := stub.client("").EnrichPublications(context.Background(), pubs)
	if err == nil {
		t.Fatal("expected error from failed lookup")
	}
	if !strings.Contains(err.Error(), "PubMed esummary") {
		t.Errorf("error should name the endpoint: %v", err)
	}
}
