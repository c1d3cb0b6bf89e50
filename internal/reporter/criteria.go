// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reporter

import (
	"math"
	"strconv"
	"strings"
)

const (
	// defaultLimit applies when the caller omits the page size.
	defaultLimit = 10
	// maxLimit caps a single result page.
	maxLimit = 50
)

// ProjectSearchOptions holds the caller-supplied filters for a project
// search. Pointer fields distinguish "not provided" from zero values; an
// absent field never emits a criteria key, because the upstream API treats
// an omitted filter as "no constraint" and an empty list as "match
// nothing".
type ProjectSearchOptions struct {
	FiscalYears      *string  `mapstructure:"fiscal_years" yaml:"fiscal_years"`
	PINames          *string  `mapstructure:"pi_names" yaml:"pi_names"`
	Organization     *string  `mapstructure:"organization" yaml:"organization"`
	OrgState         *string  `mapstructure:"org_state" yaml:"org_state"`
	OrgCity          *string  `mapstructure:"org_city" yaml:"org_city"`
	OrgType          *string  `mapstructure:"org_type" yaml:"org_type"`
	OrgDepartment    *string  `mapstructure:"org_department" yaml:"org_department"`
	MinAmount        *float64 `mapstructure:"min_amount" yaml:"min_amount"`
	MaxAmount        *float64 `mapstructure:"max_amount" yaml:"max_amount"`
	CovidResponse    *string  `mapstructure:"covid_response" yaml:"covid_response"`
	FundingMechanism *string  `mapstructure:"funding_mechanism" yaml:"funding_mechanism"`
	ICCode           *string  `mapstructure:"ic_code" yaml:"ic_code"`
	RCDCTerms        *string  `mapstructure:"rcdc_terms" yaml:"rcdc_terms"`
	StartDate        *string  `mapstructure:"start_date" yaml:"start_date"`
	EndDate          *string  `mapstructure:"end_date" yaml:"end_date"`
	NewlyAddedOnly   *bool    `mapstructure:"newly_added_only" yaml:"newly_added_only"`
	IncludeAbstracts *bool    `mapstructure:"include_abstracts" yaml:"include_abstracts"`
	Limit            *int     `mapstructure:"limit" yaml:"limit"`
}

// PublicationSearchOptions holds the caller-supplied filters for a
// publication search.
type PublicationSearchOptions struct {
	PMIDs           *string `mapstructure:"pmids" yaml:"pmids"`
	CoreProjectNums *string `mapstructure:"core_project_nums" yaml:"core_project_nums"`
	Limit           *int    `mapstructure:"limit" yaml:"limit"`
}

// CombinedSearchOptions holds the caller-supplied filters for a combined
// project-plus-publications search.
type CombinedSearchOptions struct {
	FiscalYears         *string  `mapstructure:"fiscal_years" yaml:"fiscal_years"`
	PINames             *string  `mapstructure:"pi_names" yaml:"pi_names"`
	Organization        *string  `mapstructure:"organization" yaml:"organization"`
	OrgState            *string  `mapstructure:"org_state" yaml:"org_state"`
	FundingMechanism    *string  `mapstructure:"funding_mechanism" yaml:"funding_mechanism"`
	ICCode              *string  `mapstructure:"ic_code" yaml:"ic_code"`
	MinAmount           *float64 `mapstructure:"min_amount" yaml:"min_amount"`
	MaxAmount           *float64 `mapstructure:"max_amount" yaml:"max_amount"`
	CovidResponse       *string  `mapstructure:"covid_response" yaml:"covid_response"`
	IncludePublications *bool    `mapstructure:"include_publications" yaml:"include_publications"`
	PublicationYears    *string  `mapstructure:"publication_years" yaml:"publication_years"`
	Limit               *int     `mapstructure:"limit" yaml:"limit"`
}

// PIName matches a single investigator name. The upstream API gives a list
// of these OR semantics: a project matches when any of its investigators
// matches any entry.
type PIName struct {
	AnyName string `json:"any_name"`
}

// AmountRange bounds the award amount filter.
type AmountRange struct {
	MinAmount float64 `json:"min_amount"`
	MaxAmount float64 `json:"max_amount"`
}

// DateRange bounds the project period filter. Each side is independently
// optional and is sent as null when absent.
type DateRange struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// ProjectCriteria is the wire-format filter object for projects/search.
// Every key is emitted only when the corresponding filter was supplied.
type ProjectCriteria struct {
	FiscalYears            []int        `json:"fiscal_years,omitempty"`
	PINames                []PIName     `json:"pi_names,omitempty"`
	OrgNames               []string     `json:"org_names,omitempty"`
	OrgStates              []string     `json:"org_states,omitempty"`
	OrgCities              []string     `json:"org_cities,omitempty"`
	OrgTypes               []string     `json:"org_types,omitempty"`
	OrgDepts               []string     `json:"org_depts,omitempty"`
	AwardAmountRange       *AmountRange `json:"award_amount_range,omitempty"`
	CovidResponse          []string     `json:"covid_response,omitempty"`
	FundingMechanism       string       `json:"funding_mechanism,omitempty"`
	AgencyICAdmin          string       `json:"agency_ic_admin,omitempty"`
	RCDCTerms              []string     `json:"rcdc_terms,omitempty"`
	DateRange              *DateRange   `json:"date_range,omitempty"`
	NewlyAddedProjectsOnly bool         `json:"newly_added_projects_only,omitempty"`
}

// PublicationCriteria is the wire-format filter object for
// publications/search.
type PublicationCriteria struct {
	PMIDs            []string `json:"pmids,omitempty"`
	CoreProjectNums  []string `json:"core_project_nums,omitempty"`
	PublicationYears []int    `json:"publication_years,omitempty"`
}

// ProjectQuery is a validated project search ready to send.
type ProjectQuery struct {
	Criteria ProjectCriteria
	Limit    int
	Offset   int
}

// PublicationQuery is a validated publication search ready to send.
type PublicationQuery struct {
	Criteria PublicationCriteria
	Limit    int
	Offset   int
}

// CombinedQuery pairs a validated project query with the publication
// filters applied during the join phase.
type CombinedQuery struct {
	Projects            ProjectQuery
	IncludePublications bool
	PublicationYears    []int
}

// BuildProjectQuery normalizes raw project search options into a query.
// Malformed list parameters return a *ValidationError before any request
// is sent.
func BuildProjectQuery(opts ProjectSearchOptions) (ProjectQuery, error) {
	var crit ProjectCriteria

	if strSet(opts.FiscalYears) {
		years, err := parseYearList(*opts.FiscalYears)
		if err != nil {
			return ProjectQuery{}, &ValidationError{
				Field: "fiscal years format",
				Input: *opts.FiscalYears,
				Hint:  "Please provide comma-separated years (e.g., 2020,2021)",
			}
		}
		crit.FiscalYears = years
	}

	if strSet(opts.PINames) {
		names := parseList(*opts.PINames)
		if len(names) == 0 {
			return ProjectQuery{}, &ValidationError{
				Field: "PI names format",
				Input: *opts.PINames,
				Hint:  "Please provide comma-separated names",
			}
		}
		crit.PINames = make([]PIName, len(names))
		for i, name := range names {
			crit.PINames[i] = PIName{AnyName: name}
		}
	}

	if strSet(opts.Organization) {
		crit.OrgNames = []string{cleanScalar(*opts.Organization)}
	}
	if strSet(opts.OrgState) {
		crit.OrgStates = []string{strings.ToUpper(cleanScalar(*opts.OrgState))}
	}
	if strSet(opts.OrgCity) {
		crit.OrgCities = []string{cleanScalar(*opts.OrgCity)}
	}
	if strSet(opts.OrgType) {
		crit.OrgTypes = []string{cleanScalar(*opts.OrgType)}
	}
	if strSet(opts.OrgDepartment) {
		crit.OrgDepts = []string{cleanScalar(*opts.OrgDepartment)}
	}

	if opts.MinAmount != nil || opts.MaxAmount != nil {
		crit.AwardAmountRange = buildAmountRange(opts.MinAmount, opts.MaxAmount)
	}

	if strSet(opts.CovidResponse) {
		crit.CovidResponse = []string{cleanScalar(*opts.CovidResponse)}
	}
	if strSet(opts.FundingMechanism) {
		crit.FundingMechanism = cleanScalar(*opts.FundingMechanism)
	}
	if strSet(opts.ICCode) {
		crit.AgencyICAdmin = strings.ToUpper(cleanScalar(*opts.ICCode))
	}

	if strSet(opts.RCDCTerms) {
		terms := parseList(*opts.RCDCTerms)
		if len(terms) == 0 {
			return ProjectQuery{}, &ValidationError{
				Field: "RCDC terms format",
				Input: *opts.RCDCTerms,
				Hint:  "Please provide comma-separated terms without quotes",
			}
		}
		crit.RCDCTerms = terms
	}

	if strSet(opts.StartDate) || strSet(opts.EndDate) {
		dr := &DateRange{}
		if strSet(opts.StartDate) {
			s := cleanScalar(*opts.StartDate)
			dr.StartDate = &s
		}
		if strSet(opts.EndDate) {
			e := cleanScalar(*opts.EndDate)
			dr.EndDate = &e
		}
		crit.DateRange = dr
	}

	if opts.NewlyAddedOnly != nil && *opts.NewlyAddedOnly {
		crit.NewlyAddedProjectsOnly = true
	}

	return ProjectQuery{Criteria: crit, Limit: clampLimit(opts.Limit)}, nil
}

// BuildPublicationQuery normalizes raw publication search options into a
// query.
func BuildPublicationQuery(opts PublicationSearchOptions) (PublicationQuery, error) {
	var crit PublicationCriteria

	if strSet(opts.PMIDs) {
		pmids := parseList(*opts.PMIDs)
		if len(pmids) == 0 {
			return PublicationQuery{}, &ValidationError{
				Field: "PMIDs format",
				Input: *opts.PMIDs,
				Hint:  "Please provide comma-separated PubMed IDs (e.g., 12345678,23456789)",
			}
		}
		crit.PMIDs = pmids
	}

	if strSet(opts.CoreProjectNums) {
		nums := parseList(*opts.CoreProjectNums)
		if len(nums) == 0 {
			return PublicationQuery{}, &ValidationError{
				Field: "core project numbers format",
				Input: *opts.CoreProjectNums,
				Hint:  "Please provide comma-separated project numbers",
			}
		}
		crit.CoreProjectNums = nums
	}

	return PublicationQuery{Criteria: crit, Limit: clampLimit(opts.Limit)}, nil
}

// BuildCombinedQuery normalizes combined search options. All parameters,
// including the publication year filter, are validated here so a bad value
// fails before the first request.
func BuildCombinedQuery(opts CombinedSearchOptions) (CombinedQuery, error) {
	pq, err := BuildProjectQuery(ProjectSearchOptions{
		FiscalYears:      opts.FiscalYears,
		PINames:          opts.PINames,
		Organization:     opts.Organization,
		OrgState:         opts.OrgState,
		FundingMechanism: opts.FundingMechanism,
		ICCode:           opts.ICCode,
		MinAmount:        opts.MinAmount,
		MaxAmount:        opts.MaxAmount,
		CovidResponse:    opts.CovidResponse,
		Limit:            opts.Limit,
	})
	if err != nil {
		return CombinedQuery{}, err
	}

	q := CombinedQuery{
		Projects:            pq,
		IncludePublications: opts.IncludePublications == nil || *opts.IncludePublications,
	}

	if strSet(opts.PublicationYears) {
		years, err := parseYearList(*opts.PublicationYears)
		if err != nil {
			return CombinedQuery{}, &ValidationError{
				Field: "publication years format",
				Input: *opts.PublicationYears,
				Hint:  "Please provide comma-separated years without quotes (e.g., 2020,2021)",
			}
		}
		q.PublicationYears = years
	}

	return q, nil
}

// buildAmountRange fills the unspecified side of an award amount filter.
// JSON cannot represent +Inf, so an absent maximum becomes the largest
// finite float.
func buildAmountRange(minAmount, maxAmount *float64) *AmountRange {
	r := &AmountRange{MinAmount: 0, MaxAmount: math.MaxFloat64}
	if minAmount != nil {
		r.MinAmount = *minAmount
	}
	if maxAmount != nil {
		r.MaxAmount = *maxAmount
	}
	return r
}

// clampLimit resolves the caller's page size to the allowed range.
func clampLimit(limit *int) int {
	if limit == nil {
		return defaultLimit
	}
	n := *limit
	if n < 1 {
		return 1
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// strSet reports whether an optional string parameter carries a value.
func strSet(p *string) bool {
	return p != nil && strings.TrimSpace(*p) != ""
}

// cleanListInput strips backslash-escaped quotes, stray double quotes, and
// surrounding single quotes from a raw comma-separated parameter. Callers
// often paste values straight from shell-quoted strings.
func cleanListInput(s string) string {
	s = strings.ReplaceAll(s, `\"`, "")
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.TrimSpace(s)
	return strings.Trim(s, "'")
}

// cleanScalar trims whitespace and surrounding quote characters from a
// free-text parameter, preserving interior case and punctuation.
func cleanScalar(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	return strings.Trim(s, "'")
}

// parseList splits a comma-separated string into trimmed, non-empty
// elements.
func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(cleanListInput(raw), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseYearList parses a comma-separated list of integer years. Any
// non-numeric element fails the whole list.
func parseYearList(raw string) ([]int, error) {
	parts := parseList(raw)
	if len(parts) == 0 {
		return nil, errNoEntries
	}
	years := make([]int, len(parts))
	for i, p := range parts {
		year, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		years[i] = year
	}
	return years, nil
}
