package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nih-reporter-mcp/internal/reporter"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a search and print the markdown report",
	Long: `Search runs the same pipeline the MCP tools use and prints the markdown
report to stdout. Recurring queries can live in a YAML file passed with
--file instead of long flag lists.`,
}

var searchProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Search NIH funded projects",
	RunE:  runSearchProjects,
}

var searchPublicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "Search publications linked to NIH projects",
	RunE:  runSearchPublications,
}

var searchCombinedCmd = &cobra.Command{
	Use:   "combined",
	Short: "Search projects together with their related publications",
	RunE:  runSearchCombined,
}

func init() {
	f := searchProjectsCmd.Flags()
	f.String("fiscal-years", "", `comma-separated fiscal years (e.g. "2022,2023")`)
	f.String("pi-names", "", "comma-separated PI names (matches any of the names)")
	f.String("organization", "", "organization name")
	f.String("org-state", "", `two-letter state code (e.g. "CA")`)
	f.String("org-city", "", "city name")
	f.String("org-type", "", "organization type")
	f.String("org-department", "", "department name")
	f.Float64("min-amount", 0, "minimum award amount")
	f.Float64("max-amount", 0, "maximum award amount")
	f.String("covid-response", "", "COVID-19 response category (Reg-CV, CV, C3, C4, C5, C6)")
	f.String("funding-mechanism", "", `funding mechanism (e.g. "R01")`)
	f.String("ic-code", "", `institute or center code (e.g. "NCI")`)
	f.String("rcdc-terms", "", "comma-separated RCDC terms")
	f.String("start-date", "", "project start date (YYYY-MM-DD)")
	f.String("end-date", "", "project end date (YYYY-MM-DD)")
	f.Bool("newly-added-only", false, "only show recently added projects")
	f.Bool("include-abstracts", true, "include project abstracts in results")
	f.Int("limit", 10, "maximum number of results (1-50)")
	f.String("file", "", "read search options from a YAML file (overrides other flags)")

	f = searchPublicationsCmd.Flags()
	f.String("pmids", "", "comma-separated PubMed IDs")
	f.String("core-project-nums", "", "comma-separated NIH core project numbers")
	f.Int("limit", 10, "maximum number of results (1-50)")
	f.String("file", "", "read search options from a YAML file (overrides other flags)")

	f = searchCombinedCmd.Flags()
	f.String("fiscal-years", "", `comma-separated fiscal years (e.g. "2022,2023")`)
	f.String("pi-names", "", "comma-separated PI names")
	f.String("organization", "", "organization name")
	f.String("org-state", "", `two-letter state code (e.g. "CA")`)
	f.String("funding-mechanism", "", `funding mechanism (e.g. "R01")`)
	f.String("ic-code", "", `institute or center code (e.g. "NCI")`)
	f.Float64("min-amount", 0, "minimum award amount")
	f.Float64("max-amount", 0, "maximum award amount")
	f.String("covid-response", "", "COVID-19 response category")
	f.Bool("include-publications", true, "include related publications")
	f.String("publication-years", "", "comma-separated publication years")
	f.Int("limit", 10, "maximum number of results (1-50)")
	f.String("file", "", "read search options from a YAML file (overrides other flags)")

	searchCmd.AddCommand(searchProjectsCmd)
	searchCmd.AddCommand(searchPublicationsCmd)
	searchCmd.AddCommand(searchCombinedCmd)
	rootCmd.AddCommand(searchCmd)
}

func runSearchProjects(cmd *cobra.Command, args []string) error {
	opts := reporter.ProjectSearchOptions{
		FiscalYears:      stringFlag(cmd, "fiscal-years"),
		PINames:          stringFlag(cmd, "pi-names"),
		Organization:     stringFlag(cmd, "organization"),
		OrgState:         stringFlag(cmd, "org-state"),
		OrgCity:          stringFlag(cmd, "org-city"),
		OrgType:          stringFlag(cmd, "org-type"),
		OrgDepartment:    stringFlag(cmd, "org-department"),
		MinAmount:        floatFlag(cmd, "min-amount"),
		MaxAmount:        floatFlag(cmd, "max-amount"),
		CovidResponse:    stringFlag(cmd, "covid-response"),
		FundingMechanism: stringFlag(cmd, "funding-mechanism"),
		ICCode:           stringFlag(cmd, "ic-code"),
		RCDCTerms:        stringFlag(cmd, "rcdc-terms"),
		StartDate:        stringFlag(cmd, "start-date"),
		EndDate:          stringFlag(cmd, "end-date"),
		NewlyAddedOnly:   boolFlag(cmd, "newly-added-only"),
		IncludeAbstracts: boolFlag(cmd, "include-abstracts"),
		Limit:            intFlag(cmd, "limit"),
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		sf, err := reporter.ReadSearchFile(path)
		if err != nil {
			return err
		}
		if sf.Projects == nil {
			return fmt.Errorf("search file %s has no projects block", path)
		}
		opts = *sf.Projects
	}

	report, err := newService().SearchProjects(cmd.Context(), opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report)
	return nil
}

func runSearchPublications(cmd *cobra.Command, args []string) error {
	opts := reporter.PublicationSearchOptions{
		PMIDs:           stringFlag(cmd, "pmids"),
		CoreProjectNums: stringFlag(cmd, "core-project-nums"),
		Limit:           intFlag(cmd, "limit"),
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		sf, err := reporter.ReadSearchFile(path)
		if err != nil {
			return err
		}
		if sf.Publications == nil {
			return fmt.Errorf("search file %s has no publications block", path)
		}
		opts = *sf.Publications
	}

	report, err := newService().SearchPublications(cmd.Context(), opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report)
	return nil
}

func runSearchCombined(cmd *cobra.Command, args []string) error {
	opts := reporter.CombinedSearchOptions{
		FiscalYears:         stringFlag(cmd, "fiscal-years"),
		PINames:             stringFlag(cmd, "pi-names"),
		Organization:        stringFlag(cmd, "organization"),
		OrgState:            stringFlag(cmd, "org-state"),
		FundingMechanism:    stringFlag(cmd, "funding-mechanism"),
		ICCode:              stringFlag(cmd, "ic-code"),
		MinAmount:           floatFlag(cmd, "min-amount"),
		MaxAmount:           floatFlag(cmd, "max-amount"),
		CovidResponse:       stringFlag(cmd, "covid-response"),
		IncludePublications: boolFlag(cmd, "include-publications"),
		PublicationYears:    stringFlag(cmd, "publication-years"),
		Limit:               intFlag(cmd, "limit"),
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		sf, err := reporter.ReadSearchFile(path)
		if err != nil {
			return err
		}
		if sf.Combined == nil {
			return fmt.Errorf("search file %s has no combined block", path)
		}
		opts = *sf.Combined
	}

	report, err := newService().SearchCombined(cmd.Context(), opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report)
	return nil
}

// Flag helpers translate "flag not set" into nil options so the pipeline
// can tell an omitted filter from a zero value.

func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func floatFlag(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}
