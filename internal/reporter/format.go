// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/nih-reporter-mcp/pkg/types"
)

// Public article link prefixes used in rendered reports.
const (
	pubmedLinkBase = "https://pubmed.ncbi.nlm.nih.gov/"
	doiLinkBase    = "https://doi.org/"
)

// FormatOptions controls which optional report sections are rendered.
type FormatOptions struct {
	// IncludeAbstracts renders the abstract and public health relevance
	// sections when a record carries them.
	IncludeAbstracts bool
	// IncludePublications renders publications attached by a combined
	// search under each project.
	IncludePublications bool
}

// FormatProjects renders a project result envelope as a markdown report.
// The header reports the envelope's total match count, which may exceed
// the number of rendered records when the page was truncated. An empty
// result set renders a fixed message with no header or separators.
func FormatProjects(env *types.ProjectEnvelope, opts FormatOptions) (string, error) {
	if env == nil {
		return "", &FormatError{Reason: "missing project result envelope"}
	}
	if len(env.Results) == 0 {
		return "No projects found.", nil
	}

	blocks := make([]string, 0, len(env.Results))
	for _, p := range env.Results {
		blocks = append(blocks, formatProjectBlock(p, opts))
	}

	header := fmt.Sprintf("# NIH RePORTER Search Results\n\n**Total matching projects:** %d", env.Meta.Total)
	return header + "\n\n" + strings.Join(blocks, "\n"), nil
}

// FormatPublications renders a publication result envelope as a markdown
// report.
func FormatPublications(env *types.PublicationEnvelope) (string, error) {
	if env == nil {
		return "", &FormatError{Reason: "missing publication result envelope"}
	}
	if len(env.Results) == 0 {
		return "No publications found.", nil
	}

	blocks := make([]string, 0, len(env.Results))
	for _, pub := range env.Results {
		blocks = append(blocks, formatPublicationBlock(pub))
	}

	header := fmt.Sprintf("# NIH RePORTER Publication Results\n\n**Total matching publications:** %d", env.Meta.Total)
	return header + "\n\n" + strings.Join(blocks, "\n"), nil
}

// formatProjectBlock renders one project record. Field order is fixed; a
// line is emitted only when its source value is present, and each block
// ends with a horizontal rule.
func formatProjectBlock(p types.ProjectRecord, opts FormatOptions) string {
	lines := []string{
		"### " + textOr(p.ProjectTitle, "Untitled Project"),
		fmt.Sprintf("**Project Number:** `%s`", textOr(p.ProjectNum, "N/A")),
		"**Principal Investigator(s):** " + formatInvestigators(p.PrincipalInvestigators),
		"**Organization:** " + formatOrganization(p.Organization),
		"**Fiscal Year:** " + formatFiscalYear(p.FiscalYear),
		"**Award Amount:** " + formatAwardAmount(p.AwardAmount),
		fmt.Sprintf("**Project Period:** %s to %s", textOr(p.ProjectStartDate, "N/A"), textOr(p.ProjectEndDate, "N/A")),
		"**Study Section:** " + formatStudySection(p.StudySection),
	}

	if p.FundingMechanism != "" {
		lines = append(lines, "**Funding Mechanism:** "+p.FundingMechanism)
	}
	if ic := formatAgencyIC(p.AgencyICAdmin); ic != "" {
		lines = append(lines, "**Institute/Center:** "+ic)
	}
	if terms := formatRCDCTerms(p.RCDCTerms); terms != "" {
		lines = append(lines, "**RCDC Terms:** "+terms)
	}

	if opts.IncludeAbstracts {
		if p.AbstractText != "" {
			lines = append(lines, "#### Abstract", p.AbstractText)
		}
		if p.PHRText != "" {
			lines = append(lines, "#### Public Health Relevance", p.PHRText)
		}
	}

	if opts.IncludePublications && len(p.RelatedPublications) > 0 {
		lines = append(lines, "#### Related Publications")
		for _, pub := range p.RelatedPublications {
			lines = append(lines, relatedPublicationLines(pub)...)
		}
	}

	lines = append(lines, "---")
	return strings.Join(lines, "\n")
}

// formatPublicationBlock renders one standalone publication record.
func formatPublicationBlock(pub types.PublicationRecord) string {
	lines := []string{
		"### " + textOr(pub.Title, "Untitled Publication"),
		"**Authors:** " + formatAuthors(pub.Authors),
		"**PMID:** `" + formatPMID(pub.Pmid) + "`",
		fmt.Sprintf("**Core Project Number:** `%s`", textOr(pub.CoreProjectNum, "N/A")),
	}

	if pub.PublicationYear != "" {
		lines = append(lines, "**Publication Year:** "+pub.PublicationYear)
	}
	if pub.JournalTitle != "" {
		lines = append(lines, "**Journal:** "+pub.JournalTitle)
	}
	if pub.DOI != "" {
		lines = append(lines, fmt.Sprintf("**DOI:** [%s](%s%s)", pub.DOI, doiLinkBase, pub.DOI))
	}

	if pub.CoreProjectNum != "" {
		lines = append(lines,
			"#### Related NIH Projects",
			fmt.Sprintf("- Core Project: `%s`", pub.CoreProjectNum),
		)
	}

	lines = append(lines, "---")
	return strings.Join(lines, "\n")
}

// relatedPublicationLines renders a publication nested under its project.
func relatedPublicationLines(pub types.PublicationRecord) []string {
	title := textOr(pub.Title, "Untitled Publication")

	var lines []string
	if pub.Pmid != 0 {
		lines = append(lines, fmt.Sprintf("##### %s (PMID: [%d](%s%d/))", title, pub.Pmid, pubmedLinkBase, pub.Pmid))
	} else {
		lines = append(lines, "##### "+title)
	}

	if len(pub.Authors) > 0 {
		lines = append(lines, "**Authors:** "+strings.Join(pub.Authors, ", "))
	}
	if pub.JournalTitle != "" {
		lines = append(lines, "**Journal:** "+pub.JournalTitle)
	}
	if pub.PublicationYear != "" {
		lines = append(lines, "**Year:** "+pub.PublicationYear)
	}
	if pub.DOI != "" {
		lines = append(lines, fmt.Sprintf("**DOI:** [%s](%s%s)", pub.DOI, doiLinkBase, pub.DOI))
	}
	return lines
}

// formatAwardAmount distinguishes an absent amount from an explicit zero:
// nil renders N/A, zero renders $0.00.
func formatAwardAmount(amount *float64) string {
	if amount == nil {
		return "N/A"
	}
	return formatMoney(*amount)
}

// formatMoney renders an amount as currency with two decimal places and
// thousands separators, e.g. 1500000.5 as $1,500,000.50.
func formatMoney(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	return "$" + sign + b.String() + fracPart
}

// formatOrganization joins name, city, and state with commas, skipping
// absent parts. All three absent renders N/A.
func formatOrganization(org types.Organization) string {
	var parts []string
	if org.OrgName != "" {
		parts = append(parts, org.OrgName)
	}
	if org.OrgCity != "" {
		parts = append(parts, org.OrgCity)
	}
	if org.OrgState != "" {
		parts = append(parts, org.OrgState)
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, ", ")
}

// formatInvestigators joins investigator full names; N/A when none have a
// usable name.
func formatInvestigators(pis []types.PrincipalInvestigator) string {
	var names []string
	for _, pi := range pis {
		if pi.FullName != "" {
			names = append(names, pi.FullName)
		}
	}
	if len(names) == 0 {
		return "N/A"
	}
	return strings.Join(names, ", ")
}

// formatStudySection renders the study section name with its SRG code in
// parentheses when the code is present.
func formatStudySection(ss *types.StudySection) string {
	name, code := "N/A", ""
	if ss != nil {
		if ss.StudySectionName != "" {
			name = ss.StudySectionName
		}
		code = ss.SRGCode
	}
	if code != "" {
		return fmt.Sprintf("%s (%s)", name, code)
	}
	return name
}

// formatAgencyIC renders the administering institute or center, preferring
// the abbreviation over the full name.
func formatAgencyIC(ic *types.AgencyIC) string {
	if ic == nil {
		return ""
	}
	switch {
	case ic.Abbreviation != "":
		return ic.Abbreviation
	case ic.Name != "":
		return ic.Name
	default:
		return ic.Code
	}
}

// formatRCDCTerms backtick-wraps and comma-joins non-empty terms.
func formatRCDCTerms(terms []string) string {
	var wrapped []string
	for _, t := range terms {
		if t != "" {
			wrapped = append(wrapped, "`"+t+"`")
		}
	}
	return strings.Join(wrapped, ", ")
}

func formatAuthors(authors []string) string {
	if len(authors) == 0 {
		return "N/A"
	}
	return strings.Join(authors, ", ")
}

// formatFiscalYear distinguishes an absent year from a reported zero:
// nil renders N/A, any reported value renders as-is.
func formatFiscalYear(year *int) string {
	if year == nil {
		return "N/A"
	}
	return strconv.Itoa(*year)
}

func formatPMID(pmid int64) string {
	if pmid == 0 {
		return "N/A"
	}
	return strconv.FormatInt(pmid, 10)
}

// textOr returns s, or fallback when s is empty.
func textOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
