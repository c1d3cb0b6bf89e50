// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed enriches publication records with bibliographic detail
// from the NCBI E-utilities esummary endpoint. RePORTER's publication
// search returns little more than PMIDs and project numbers; titles,
// authors, journals, and publication years come from here.
package pubmed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/nih-reporter-mcp/internal/httputil"
	"github.com/pdiddy/nih-reporter-mcp/pkg/types"
)

// Client looks up publication summaries in batched esummary calls.
type Client struct {
	http    httputil.JSONClient
	baseURL string
	apiKey  string
}

// NewClient builds an E-utilities client from configuration. The API key
// is optional; NCBI grants a higher request rate when one is sent.
func NewClient(cfg types.PubMedConfig) *Client {
	return &Client{
		http: httputil.JSONClient{
			Client:     &http.Client{Timeout: cfg.Timeout},
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// EnrichPublications fills title, authors, journal, and publication year
// into every record that carries a PMID, using a single batched lookup for
// the whole slice. Records without a PMID, and PMIDs the endpoint does not
// recognize, are left unmodified. A failed lookup fails the enrichment.
func (c *Client) EnrichPublications(ctx context.Context, pubs []types.PublicationRecord) error {
	var ids []string
	for _, pub := range pubs {
		if pub.Pmid != 0 {
			ids = append(ids, strconv.FormatInt(pub.Pmid, 10))
		}
	}
	if len(ids) == 0 {
		return nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"json"},
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	var resp summaryResponse
	reqURL := c.baseURL + "/esummary.fcgi?" + params.Encode()
	if err := c.http.GetJSON(ctx, "PubMed esummary", reqURL, &resp); err != nil {
		return err
	}

	for i := range pubs {
		if pubs[i].Pmid == 0 {
			continue
		}
		doc, ok := summaryFor(resp.Result, strconv.FormatInt(pubs[i].Pmid, 10))
		if !ok {
			continue
		}
		merge(&pubs[i], doc)
	}
	return nil
}

// summaryFor decodes the summary document for one PMID. The result object
// keys documents by PMID but also carries a "uids" index array, so each
// value is decoded on demand rather than into a typed map.
func summaryFor(result map[string]json.RawMessage, pmid string) (summaryDoc, bool) {
	raw, ok := result[pmid]
	if !ok {
		return summaryDoc{}, false
	}
	var doc summaryDoc
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Error != "" {
		return summaryDoc{}, false
	}
	return doc, true
}

// merge copies the summary fields into the record. The publication year is
// the first whitespace-separated token of the pubdate, which arrives in
// forms like "2023 Jan 15" or "2021 Nov-Dec".
func merge(pub *types.PublicationRecord, doc summaryDoc) {
	pub.Title = doc.Title
	pub.JournalTitle = doc.FullJournalName

	var authors []string
	for _, a := range doc.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}
	pub.Authors = authors

	if fields := strings.Fields(doc.PubDate); len(fields) > 0 {
		pub.PublicationYear = fields[0]
	}
}

// E-utilities esummary JSON structures.
type summaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type summaryDoc struct {
	Title           string          `json:"title"`
	Authors         []summaryAuthor `json:"authors"`
	FullJournalName string          `json:"fulljournalname"`
	PubDate         string          `json:"pubdate"`
	// Error is set on per-PMID lookup failures, e.g. "cannot get document
	// summary" for an unknown identifier.
	Error string `json:"error"`
}

type summaryAuthor struct {
	Name string `json:"name"`
}
