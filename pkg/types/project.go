// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the NIH RePORTER search
// pipeline: wire-format records returned by the RePORTER v2 API, the result
// envelopes that wrap them, and service configuration.
package types

// ProjectRecord mirrors one element of the results array returned by the
// RePORTER v2 projects/search endpoint. Fields the API omits decode to their
// zero values; AwardAmount and FiscalYear stay pointers because a reported
// zero is a real value and must not collapse into "absent".
type ProjectRecord struct {
	// ProjectNum is the core project number (e.g. "5R01CA123456-03"), the
	// stable identifier used to join publications onto projects.
	ProjectNum string `json:"project_num"`

	// ProjectTitle is the funded project title.
	ProjectTitle string `json:"project_title"`

	// FiscalYear is the funding fiscal year; nil when the API omits it.
	FiscalYear *int `json:"fiscal_year"`

	// AwardAmount is the award in dollars; nil when the API omits it.
	AwardAmount *float64 `json:"award_amount"`

	// Organization is the grantee organization.
	Organization Organization `json:"organization"`

	// PrincipalInvestigators lists the named investigators in API order.
	PrincipalInvestigators []PrincipalInvestigator `json:"principal_investigators"`

	// ProjectStartDate and ProjectEndDate are the project period bounds as
	// returned by the API (date strings, rendered verbatim).
	ProjectStartDate string `json:"project_start_date"`
	ProjectEndDate   string `json:"project_end_date"`

	// StudySection identifies the review group, when reported.
	StudySection *StudySection `json:"study_section"`

	// FundingMechanism is the mechanism code (e.g. "R01").
	FundingMechanism string `json:"funding_mechanism"`

	// AgencyICAdmin is the administering institute or center.
	AgencyICAdmin *AgencyIC `json:"agency_ic_admin"`

	// RCDCTerms lists research categorization terms.
	RCDCTerms []string `json:"rcdc_terms"`

	// AbstractText and PHRText are the long free-text sections.
	AbstractText string `json:"abstract_text"`
	PHRText      string `json:"phr_text"`

	// RelatedPublications is synthesized by the combined search join; it is
	// never part of the wire format and is never sent back to the API.
	RelatedPublications []PublicationRecord `json:"related_publications,omitempty"`
}

// Organization is the grantee organization block of a project record.
type Organization struct {
	OrgName  string `json:"org_name"`
	OrgCity  string `json:"org_city"`
	OrgState string `json:"org_state"`
}

// PrincipalInvestigator is one entry of a project's investigator list.
type PrincipalInvestigator struct {
	FullName string `json:"full_name"`
}

// StudySection is the scientific review group that evaluated the project.
type StudySection struct {
	StudySectionName string `json:"study_section_name"`
	SRGCode          string `json:"srg_code"`
}

// AgencyIC is an NIH institute or center reference.
type AgencyIC struct {
	Code         string `json:"code"`
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
}

// ResultMeta is the meta block of a search response. Total counts all
// matches, which can exceed the number of records in the page.
type ResultMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ProjectEnvelope is the response shape of projects/search.
type ProjectEnvelope struct {
	Meta    ResultMeta      `json:"meta"`
	Results []ProjectRecord `json:"results"`
}
