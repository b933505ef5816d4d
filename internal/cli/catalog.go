package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yigit/rankpredictor/internal/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate and summarize filter catalogs",
	}
	cmd.AddCommand(newCatalogValidateCmd(a), newCatalogSummaryCmd(a))
	return cmd
}

type catalogReport struct {
	Valid    bool             `json:"valid"`
	Problems []string         `json:"problems"`
	Summary  *catalog.Summary `json:"summary,omitempty"`
}

func newCatalogValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a catalog overlay without applying it",
		Long: `Validate merges the overlay over the built-in catalog and reports
every problem found. Use "-" to read the overlay from stdin. Without an
argument the built-in catalog (or --catalog) is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat *catalog.Catalog
				err error
			)
			switch {
			case len(args) == 0:
				cat, err = a.loadCatalogQuiet()
			case args[0] == "-":
				var data []byte
				data, err = io.ReadAll(cmd.InOrStdin())
				if err == nil {
					cat, err = catalog.Parse(data, catalog.DefaultDefinition())
				}
			default:
				cat, err = catalog.LoadFile(args[0], catalog.DefaultDefinition())
			}

			report := catalogReport{Valid: err == nil, Problems: catalog.Problems(err)}
			if report.Problems == nil {
				report.Problems = []string{}
			}
			if cat != nil {
				s := cat.Summarize()
				report.Summary = &s
			}

			if a.printer.JSON() {
				if encErr := a.printer.Encode(report); encErr != nil {
					return encErr
				}
			} else if report.Valid {
				a.printer.Success("catalog is valid: %d exams, %d colleges, %d groups",
					len(report.Summary.Exams), report.Summary.Colleges, report.Summary.Groups)
			} else {
				for _, p := range report.Problems {
					a.printer.Error("%s", p)
				}
			}

			if !report.Valid {
				return fmt.Errorf("catalog has %d problem(s)", len(report.Problems))
			}
			return nil
		},
	}
}

func newCatalogSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Summarize the active catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			s := cat.Summarize()
			if a.printer.JSON() {
				return a.printer.Encode(s)
			}

			t := a.printer.Table("FIELD", "VALUE")
			t.AddRow("exams", strings.Join(s.Exams, ", "))
			t.AddRow("tags", strings.Join(s.Tags, ", "))
			t.AddRow("colleges", strconv.Itoa(s.Colleges))
			t.AddRow("shared groups", strconv.Itoa(s.Groups))
			t.AddRow("grouped slugs", strconv.Itoa(s.GroupedSlugs))
			t.AddRow("default years", strings.Join(s.DefaultYears, ", "))
			t.AddRow("sub-categories", strings.Join(s.SubCategories, ", "))
			t.AddRow("states", strconv.Itoa(s.States))
			return t.Render()
		},
	}
}

// loadCatalogQuiet loads the active catalog without printing problems,
// leaving the report to the caller.
func (a *app) loadCatalogQuiet() (*catalog.Catalog, error) {
	if a.catalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(a.catalogPath, catalog.DefaultDefinition())
}
