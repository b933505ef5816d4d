package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/yigit/rankpredictor/internal/pkg/rounds"
)

func newRoundsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rounds",
		Short: "Inspect counselling round ordering",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sort <label>...",
		Short: "Print round labels in canonical order",
		Long: `Sort orders round labels the way prediction tables show them:
numbered rounds, CSAB, upgradation and spot rounds, then unknown labels
alphabetically. Arguments may also be comma separated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var labels []string
			for _, arg := range args {
				for _, part := range strings.Split(arg, ",") {
					if part = strings.TrimSpace(part); part != "" {
						labels = append(labels, part)
					}
				}
			}
			sorted := rounds.Sorted(labels)

			if a.printer.JSON() {
				return a.printer.Encode(map[string][]string{"labels": sorted})
			}
			for _, label := range sorted {
				if rounds.IsKnown(label) {
					a.printer.Print("%s", label)
				} else {
					a.printer.Print("%s %s", label, a.printer.Dim("(unknown)"))
				}
			}
			return nil
		},
	})
	return cmd
}
