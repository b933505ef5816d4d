package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/pkg/validation"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <college-slug> <exam-type>",
		Short: "Show the filter options a college offers for an exam",
		Long: `Resolve walks the override chain (individual config, shared group,
slug tag, fallback tag) and prints the resulting filter options.

Examples:
  predictorctl resolve iit-bombay JEE-Advanced
  predictorctl resolve dtu-delhi JEE-Main -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, err := slugArg(args[0])
			if err != nil {
				return err
			}
			svc, err := a.filterService()
			if err != nil {
				return err
			}

			opts, err := svc.Resolve(slug, args[1])
			if err != nil {
				return err
			}
			if a.printer.JSON() {
				return a.printer.Encode(opts)
			}
			return renderFilterOptions(a, opts)
		},
	}
}

func newExamTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exam-types <college-slug>",
		Short: "List the exam types configured for a college",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, err := slugArg(args[0])
			if err != nil {
				return err
			}
			svc, err := a.filterService()
			if err != nil {
				return err
			}

			examTypes := svc.AvailableExamTypes(slug)
			if a.printer.JSON() {
				return a.printer.Encode(map[string]any{"collegeSlug": slug, "examTypes": examTypes})
			}
			if len(examTypes) == 0 {
				a.printer.Warning("no exam types configured for %s", slug)
				return nil
			}
			for _, examType := range examTypes {
				a.printer.Print("%s", examType)
			}
			return nil
		},
	}
}

func renderFilterOptions(a *app, opts *models.FilterOptions) error {
	title := opts.ExamType
	if opts.CollegeSlug != "" {
		title = opts.CollegeSlug + " / " + opts.ExamType
	}
	a.printer.Header(title)

	t := a.printer.Table("FIELD", "VALUE")
	t.AddRow("source", opts.Source)
	t.AddRow("years", joinOrDash(opts.Years))
	t.AddRow("seat types", joinOrDash(opts.SeatTypeOptions))
	t.AddRow("sub-categories", joinOrDash(opts.SubCategories))
	t.AddRow("requires sub-category", strconv.FormatBool(opts.RequiresSubCategory))
	t.AddRow("quotas", joinOrDash(opts.QuotaOptions))
	t.AddRow("requires quota", strconv.FormatBool(opts.RequiresQuota))
	return t.Render()
}

func slugArg(s string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(s))
	if !validation.IsSlug(slug) {
		return "", fmt.Errorf("invalid college slug %q", s)
	}
	return slug, nil
}

func joinOrDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ", ")
}
