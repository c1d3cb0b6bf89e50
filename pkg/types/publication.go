// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PublicationRecord mirrors one element of the results array returned by the
// RePORTER v2 publications/search endpoint. The endpoint itself returns only
// the identifier fields (pmid, core_project_num); title, authors, journal,
// and year are filled in afterwards from the PubMed esummary lookup.
type PublicationRecord struct {
	// Pmid is the PubMed identifier; 0 when the record carries none.
	Pmid int64 `json:"pmid"`

	// CoreProjectNum links the publication back to its funding project.
	// May be empty or reference a project outside the current result page.
	CoreProjectNum string `json:"core_project_num"`

	// Title, Authors, JournalTitle, and PublicationYear come from the
	// PubMed esummary enrichment; un-enriched records leave them empty.
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	JournalTitle    string   `json:"journal_title"`
	PublicationYear string   `json:"publication_year"`

	// DOI is rendered as a doi.org link when present.
	DOI string `json:"doi"`
}

// PublicationEnvelope is the response shape of publications/search.
type PublicationEnvelope struct {
	Meta    ResultMeta          `json:"meta"`
	Results []PublicationRecord `json:"results"`
}
