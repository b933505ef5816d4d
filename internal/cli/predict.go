package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yigit/rankpredictor/internal/app/models"
	"github.com/yigit/rankpredictor/internal/app/repositories"
	"github.com/yigit/rankpredictor/internal/app/services"
	"github.com/yigit/rankpredictor/internal/config"
	"github.com/yigit/rankpredictor/internal/db"
	"github.com/yigit/rankpredictor/internal/pkg/rounds"
	"github.com/yigit/rankpredictor/internal/seed"
)

type predictOptions struct {
	dataPath string
	sample   bool

	rank        int
	examType    string
	seatType    string
	subCategory string
	quota       string
	homeState   string
	mode        string
	page        int
	pageSize    int
	tags        []string
	maxFees     int64
	colleges    []string
}

func newPredictCmd(a *app) *cobra.Command {
	o := &predictOptions{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict colleges for a rank",
		Long: `Predict matches a rank against historical closing ranks and prints
one page of scored candidates. Cutoffs come from --data, the bundled
sample (--sample) or the database in the config file.

Examples:
  predictorctl predict --sample --rank 5000 --exam JEE-Main --seat-type OPEN --home-state Delhi
  predictorctl predict --data cutoffs.yaml --rank 900 --exam JEE-Advanced \
    --seat-type OPEN --sub-category Gender-Neutral --home-state Maharashtra --mode risk`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := o.request()
			if cmd.Flags().Changed("max-fees") {
				fees := o.maxFees
				req.MaxFees = &fees
			}
			return a.runPredict(cmd.Context(), o, req)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.dataPath, "data", "", "cutoff fixture file (YAML or JSON)")
	f.BoolVar(&o.sample, "sample", false, "use the bundled sample cutoffs")
	f.IntVar(&o.rank, "rank", 0, "candidate rank")
	f.StringVar(&o.examType, "exam", "", "exam type, e.g. JEE-Main")
	f.StringVar(&o.seatType, "seat-type", "", "seat type, e.g. OPEN")
	f.StringVar(&o.subCategory, "sub-category", "", "sub-category, e.g. Gender-Neutral")
	f.StringVar(&o.quota, "quota", "", "quota")
	f.StringVar(&o.homeState, "home-state", "", "candidate home state")
	f.StringVar(&o.mode, "mode", string(models.ModeSafe), "closest round selection (safe, risk)")
	f.IntVar(&o.page, "page", 1, "page number")
	f.IntVar(&o.pageSize, "page-size", 20, "results per page")
	f.StringSliceVar(&o.tags, "tag", nil, "restrict to college tags (repeatable)")
	f.Int64Var(&o.maxFees, "max-fees", 0, "maximum annual fees")
	f.StringSliceVar(&o.colleges, "college", nil, "restrict to college slugs (repeatable)")
	_ = cmd.MarkFlagRequired("rank")
	_ = cmd.MarkFlagRequired("exam")
	_ = cmd.MarkFlagRequired("seat-type")
	_ = cmd.MarkFlagRequired("home-state")
	cmd.MarkFlagsMutuallyExclusive("data", "sample")

	return cmd
}

func (o *predictOptions) request() *models.PredictionRequest {
	return &models.PredictionRequest{
		Rank:         o.rank,
		ExamType:     o.examType,
		SeatType:     o.seatType,
		SubCategory:  o.subCategory,
		Quota:        o.quota,
		HomeState:    o.homeState,
		Mode:         models.Mode(o.mode),
		Page:         o.page,
		PageSize:     o.pageSize,
		Tags:         o.tags,
		CollegeSlugs: o.colleges,
	}
}

func (a *app) runPredict(ctx context.Context, o *predictOptions, req *models.PredictionRequest) error {
	scoring := config.DefaultScoring()
	maxPageSize := 0

	var store services.CutoffStore
	switch {
	case o.dataPath != "":
		s, err := repositories.LoadMemoryCutoffStore(o.dataPath)
		if err != nil {
			return err
		}
		store = s
	case o.sample:
		s, err := seed.SampleStore()
		if err != nil {
			return err
		}
		store = s
	default:
		cfg, err := a.loadConfig()
		if err != nil {
			return err
		}
		scoring = cfg.Scoring
		maxPageSize = cfg.Pagination.MaxPageSize

		s, closeFn, err := a.configuredStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeFn()
		store = s
	}

	svc, err := a.filterService()
	if err != nil {
		return err
	}
	scorer, err := services.NewScorer(scoring)
	if err != nil {
		return err
	}
	engine := services.NewPredictionService(store, svc, scorer, maxPageSize, a.logger)

	page, err := engine.Predict(ctx, req)
	if err != nil {
		return err
	}

	if a.printer.JSON() {
		return a.printer.Encode(page)
	}
	if page.PartialData() {
		a.printer.Warning("%d malformed cutoff value(s) skipped", page.SkippedRecords)
	}
	return renderPredictions(a, page)
}

// configuredStore opens the cutoff store named by the config file. Unlike
// the server it never migrates or seeds.
func (a *app) configuredStore(ctx context.Context, cfg *config.Config) (services.CutoffStore, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		if cfg.Database.FixturePath == "" {
			s, err := seed.SampleStore()
			return s, func() {}, err
		}
		s, err := repositories.LoadMemoryCutoffStore(cfg.Database.FixturePath)
		return s, func() {}, err
	}

	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug().Str("host", cfg.Database.Host).Msg("Connected to cutoff database")
	return repositories.NewRepositories(database.Pool).CutoffRepository, database.Close, nil
}

// renderPredictions prints one row per candidate with the latest year's
// closing ranks in canonical round columns. The closest round is
// highlighted.
func renderPredictions(a *app, page *models.ResultPage) error {
	if len(page.Colleges) == 0 {
		a.printer.Print("no matching colleges (page %d of %d, %d total)", page.Page, page.TotalPages, page.TotalResults)
		return nil
	}

	seen := make(map[string]bool)
	var labels []string
	for _, c := range page.Colleges {
		for _, label := range c.RoundOrder[c.ClosestYear] {
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}
	rounds.Sort(labels)

	headers := []string{"#", "COLLEGE", "BRANCH", "SEAT", "SUB-CATEGORY", "QUOTA", "YEAR"}
	headers = append(headers, labels...)
	headers = append(headers, "CLASS", "SCORE")
	t := a.printer.Table(headers...)

	offset := (page.Page - 1) * page.PageSize
	for i, c := range page.Colleges {
		row := []string{
			strconv.Itoa(offset + i + 1),
			c.CollegeName,
			c.Branch,
			c.SeatType,
			dash(c.SubCategory),
			dash(c.Quota),
			c.ClosestYear,
		}
		byRound := c.CutoffsByYear[c.ClosestYear]
		for _, label := range labels {
			closing, ok := byRound[label]
			switch {
			case !ok:
				row = append(row, "-")
			case label == c.ClosestRound:
				row = append(row, a.printer.Highlight(strconv.Itoa(closing)))
			default:
				row = append(row, strconv.Itoa(closing))
			}
		}
		class := string(c.Classification)
		if c.Stretch {
			class += " (stretch)"
		}
		row = append(row, class, fmt.Sprintf("%.3f", c.FinalScore))
		t.AddRow(row...)
	}
	if err := t.Render(); err != nil {
		return err
	}

	a.printer.Print("page %d of %d, %d total", page.Page, page.TotalPages, page.TotalResults)
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
