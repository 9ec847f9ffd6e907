package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"waitstat/adapters/excel"
	"waitstat/adapters/postgres"
	"waitstat/adapters/stats/engine"
	"waitstat/adapters/stats/hypothesis"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
	"waitstat/internal"
	"waitstat/internal/config"
	"waitstat/internal/errors"
	"waitstat/internal/report"
)

type analyzeOptions struct {
	file       string
	survey     string
	profile    string
	groupA     string
	groupB     string
	levels     string
	thresholds string
	alpha      float64
	center     string
	format     string
	save       bool
	timeout    time.Duration
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [data-file]",
		Short: "Run the full two-group comparison on a CSV or XLSX file",
		Long: `Run descriptives, confidence intervals, threshold compliance, hypothesis
tests and effect sizes for two groups read from a two-column file
(group label, wait in minutes; first row is a header).

Example: waitstat analyze waits.csv --survey survey.json --levels 0.9,0.95 --format html > report.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.file = args[0]
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}

			ctx := cmd.Context()
			if opts.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.timeout)
				defer cancel()
			}
			return runAnalyze(ctx, cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.survey, "survey", "", "Survey counts JSON file (default $SURVEY_FILE or the profile's survey_a/survey_b)")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "YAML analysis profile")
	cmd.Flags().StringVar(&opts.groupA, "group-a", "", "Label of the first group (default $GROUP_A)")
	cmd.Flags().StringVar(&opts.groupB, "group-b", "", "Label of the second group (default $GROUP_B)")
	cmd.Flags().StringVar(&opts.levels, "levels", "", "Comma-separated confidence levels")
	cmd.Flags().StringVar(&opts.thresholds, "thresholds", "", "Comma-separated wait thresholds in minutes")
	cmd.Flags().Float64Var(&opts.alpha, "alpha", 0, "Significance level for the conclusions")
	cmd.Flags().StringVar(&opts.center, "levene-center", "", "Levene centering: median or mean")
	cmd.Flags().StringVar(&opts.format, "format", "markdown", "Output format: markdown (or text), html or json")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Persist the report to DATABASE_URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the comparison after this long")

	return cmd
}

// apply overlays the flags that were set onto the loaded configuration
func (o *analyzeOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if o.profile != "" {
		if err := config.LoadProfile(o.profile, &cfg.Analysis); err != nil {
			return err
		}
	}
	if o.file != "" {
		cfg.Data.File = o.file
	}
	if o.survey != "" {
		cfg.Data.SurveyFile = o.survey
	}
	if o.groupA != "" {
		cfg.Data.GroupA = o.groupA
	}
	if o.groupB != "" {
		cfg.Data.GroupB = o.groupB
	}
	if flags.Changed("levels") {
		levels, err := config.ParseFloatList(o.levels)
		if err != nil {
			return err
		}
		cfg.Analysis.Levels = levels
	}
	if flags.Changed("thresholds") {
		thresholds, err := config.ParseFloatList(o.thresholds)
		if err != nil {
			return err
		}
		cfg.Analysis.Thresholds = thresholds
	}
	if flags.Changed("alpha") {
		cfg.Analysis.Alpha = o.alpha
	}
	if o.center != "" {
		cfg.Analysis.LeveneCenter = o.center
	}
	switch o.format {
	case "markdown", "md", "text", "html", "json":
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown format %q", o.format))
	}
	if cfg.Data.File == "" {
		return errors.InvalidInput("a data file is required (argument or $DATA_FILE)")
	}
	return config.Validate(cfg)
}

func runAnalyze(ctx context.Context, out io.Writer, cfg *config.Config, opts analyzeOptions) error {
	labelA, err := core.ParseGroupLabel(cfg.Data.GroupA)
	if err != nil {
		return errors.InvalidInput(err.Error())
	}
	labelB, err := core.ParseGroupLabel(cfg.Data.GroupB)
	if err != nil {
		return errors.InvalidInput(err.Error())
	}

	groups, err := excel.NewDataReader(cfg.Data.File).ReadGroups(ctx, labelA, labelB)
	if err != nil {
		return err
	}
	surveyA, surveyB, err := loadSurvey(ctx, cfg, labelA, labelB)
	if err != nil {
		return err
	}

	eng := engine.NewStatsEngine(engine.WithLogger(internal.DefaultLogger))
	r, err := eng.Compare(ctx, engine.ComparisonInput{
		LabelA:       labelA,
		LabelB:       labelB,
		A:            groups.A,
		B:            groups.B,
		SurveyA:      surveyA,
		SurveyB:      surveyB,
		Levels:       cfg.Analysis.Levels,
		Thresholds:   cfg.Analysis.Thresholds,
		Alpha:        cfg.Analysis.Alpha,
		LeveneCenter: hypothesis.Center(cfg.Analysis.LeveneCenter),
	})
	if err != nil {
		return err
	}

	if opts.save {
		if err := saveReport(ctx, cfg, r); err != nil {
			return err
		}
	}
	return writeReport(out, opts.format, r)
}

// loadSurvey prefers the survey file and falls back to the profile counts
func loadSurvey(ctx context.Context, cfg *config.Config, labelA, labelB core.GroupLabel) (domain.CountPair, domain.CountPair, error) {
	if cfg.Data.SurveyFile != "" {
		return excel.NewSurveyReader(cfg.Data.SurveyFile).ReadSurvey(ctx, labelA, labelB)
	}
	if cfg.Analysis.SurveyA != nil && cfg.Analysis.SurveyB != nil {
		return *cfg.Analysis.SurveyA, *cfg.Analysis.SurveyB, nil
	}
	return domain.CountPair{}, domain.CountPair{}, errors.InvalidInput("survey counts are required (--survey, $SURVEY_FILE or profile survey_a/survey_b)")
}

func saveReport(ctx context.Context, cfg *config.Config, r *engine.ComparisonReport) error {
	db, err := openDatabase(ctx, cfg.Database, true)
	if err != nil {
		return err
	}
	defer db.Close()

	stored, err := r.Stored()
	if err != nil {
		return err
	}
	if err := postgres.NewReportRepository(db).SaveReport(ctx, stored); err != nil {
		return err
	}
	internal.DefaultLogger.Info("saved report %s", r.ID)
	return nil
}

func writeReport(out io.Writer, format string, r *engine.ComparisonReport) error {
	switch format {
	case "html":
		_, err := out.Write(report.HTML(r))
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default:
		_, err := io.WriteString(out, report.Markdown(r))
		return err
	}
}
