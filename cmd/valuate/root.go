package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/fairdeal/internal/adapters/repository"
	service "github.com/okian/fairdeal/internal/app"
	"github.com/okian/fairdeal/internal/config"
	"github.com/okian/fairdeal/internal/domain/category"
	"github.com/okian/fairdeal/internal/domain/profile"
	"github.com/okian/fairdeal/internal/domain/types"
	"github.com/okian/fairdeal/internal/domain/valuation"
	"github.com/okian/fairdeal/pkg/logger"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type options struct {
	data        string
	subject     string
	position    string
	cohort      []string
	categories  []string
	inflation   float64
	presentYear int
	noAAV       bool
	noYears     bool
	format      string
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "valuate",
		Short: "Value a player against comparable signed contracts",
		Long: `Value a stored player against the reference contracts at their position
and print the fair annual value, fair contract length and per-category breakdown.

Examples:
  valuate --subject p-ss-01
  valuate --subject p-ss-01 --cohort c-ss-01,c-ss-02 --inflation 3.5
  valuate --subject p-sp-01 --no-years --format json`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValuate(cmd, opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.data, "data", "", "Reference data YAML (default: data_file from config)")
	f.StringVar(&opts.format, "format", formatTable, "Output format (table|json)")

	f = cmd.Flags()
	f.StringVar(&opts.subject, "subject", "", "Stored player ID to value")
	f.StringVar(&opts.position, "position", "", "Override the player's position")
	f.StringSliceVar(&opts.cohort, "cohort", nil, "Reference contract IDs to compare against (default: all at the position)")
	f.StringSliceVar(&opts.categories, "categories", nil, "Compare only these categories, at registry weights")
	f.Float64Var(&opts.inflation, "inflation", 0, "Annual inflation percent used to present-value contracts")
	f.IntVar(&opts.presentYear, "present-year", 0, "Valuation year (default: current year)")
	f.BoolVar(&opts.noAAV, "no-aav", false, "Keep the baseline annual value")
	f.BoolVar(&opts.noYears, "no-years", false, "Keep the baseline contract length")
	_ = cmd.MarkFlagRequired("subject")

	cmd.AddCommand(newCategoriesCommand(opts), newProfileCommand(opts))
	return cmd
}

func newCategoriesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the performance categories and their weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context(), cmd.ErrOrStderr(), opts)
			if err != nil {
				return err
			}
			cats := svc.Categories()
			if opts.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), cats)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL\tWEIGHT\tBETTER\tSCALE")
			for _, c := range cats {
				better := "higher"
				if !c.HigherIsBetter {
					better = "lower"
				}
				fmt.Fprintf(tw, "%s\t%s\t%g\t%s\t%s\n", c.Key, c.Label, c.Weight, better, c.Scale)
			}
			return tw.Flush()
		},
	}
}

func newProfileCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profile POSITION",
		Short: "Show the category weights used for a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context(), cmd.ErrOrStderr(), opts)
			if err != nil {
				return err
			}
			p := svc.Profile(args[0])
			if opts.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if p.Fallback {
				fmt.Fprintf(tw, "%s has no profile; using %s\n", p.Position, profile.DefaultKey)
			}
			fmt.Fprintln(tw, "CATEGORY\tWEIGHT")
			for _, k := range p.Keys() {
				fmt.Fprintf(tw, "%s\t%g\n", k, p.Weights[k])
			}
			return tw.Flush()
		},
	}
}

func runValuate(cmd *cobra.Command, opts *options) error {
	const op = "valuate.run"
	ctx := cmd.Context()

	svc, err := buildService(ctx, cmd.ErrOrStderr(), opts)
	if err != nil {
		return err
	}

	req := types.ValuationRequest{
		SubjectID:  opts.subject,
		Position:   opts.position,
		CohortIDs:  opts.cohort,
		Categories: opts.categories,
	}
	flags := cmd.Flags()
	if flags.Changed("inflation") {
		req.InflationPercent = &opts.inflation
	}
	if flags.Changed("present-year") {
		req.PresentYear = &opts.presentYear
	}
	if opts.noAAV {
		off := false
		req.AdjustAAV = &off
	}
	if opts.noYears {
		off := false
		req.AdjustYears = &off
	}

	v, err := svc.Value(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch opts.format {
	case formatJSON:
		return writeJSON(cmd.OutOrStdout(), v)
	case formatTable:
		return writeTable(cmd.OutOrStdout(), v)
	default:
		return fmt.Errorf("%s: unknown format %q", op, opts.format)
	}
}

// buildService loads config and reference data and wires a service that
// logs to stderr.
func buildService(ctx context.Context, stderr io.Writer, opts *options) (*service.Service, error) {
	const op = "valuate.build"

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(stderr)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("warn")
	}

	path := opts.data
	if path == "" {
		path = cfg.DataFile
	}
	store, err := repository.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	registry := category.NewRegistry(category.WithWeights(cfg.CategoryWeights))
	return service.New(
		service.WithLogger(logger.Get()),
		service.WithStore(store),
		service.WithEngine(valuation.New(valuation.WithRegistry(registry))),
		service.WithProfiles(profile.NewSelector(profile.WithProfiles(cfg.PositionProfiles))),
		service.WithDefaults(service.Defaults{
			InflationPercent: cfg.InflationPercent,
			AdjustAAV:        cfg.AdjustAAV,
			AdjustYears:      cfg.AdjustYears,
			PresentYear:      cfg.PresentYear,
		}),
	), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, v types.Valuation) error {
	r := v.Result
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Subject\t%s (%s)\n", v.SubjectID, v.Position)
	fmt.Fprintf(tw, "Cohort\t%d contracts, mean signing age %.1f\n", r.CohortSize, r.CohortSigningAge)
	fmt.Fprintf(tw, "Baseline AAV\t$%.2fM\n", r.BaselineAAV)
	fmt.Fprintf(tw, "Fair AAV\t$%.2fM (x%.3f, raw %.3f)\n", r.FairAAV, r.AAVMultiplier, r.RawMultiplier)
	fmt.Fprintf(tw, "Baseline years\t%.1f\n", r.BaselineYears)
	fmt.Fprintf(tw, "Fair years\t%.1f\n", r.FairYears)
	fmt.Fprintf(tw, "Weights\t%s\n", v.WeightSource)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "CATEGORY\tSUBJECT\tCOHORT\tDIFF\tRATIO\tWEIGHT\tIMPACT")
	for _, c := range r.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%+.1f%%\t%.3f\t%g\t%+.2f\n",
			c.Label, c.Scale.Format(c.SubjectValue), c.Scale.Format(c.CohortValue),
			c.PctDiff, c.Ratio, c.Weight, c.AAVImpact)
	}
	fmt.Fprintln(tw)

	y := r.Years
	fmt.Fprintln(tw, "YEARS\t")
	fmt.Fprintf(tw, "Age delta\t%+.1f\n", y.AgeDelta)
	fmt.Fprintf(tw, "Age multiplier\t%.3f\n", y.AgeMultiplier)
	fmt.Fprintf(tw, "Absolute age penalty\t%.2f\n", y.AbsoluteAgePenalty)
	fmt.Fprintf(tw, "Performance adjustment\t%+.2f\n", y.PerformanceAdjustment)
	fmt.Fprintf(tw, "Proposed\t%.2f\n", y.ProposedYears)
	fmt.Fprintf(tw, "Capped\t%.2f\n", y.CappedYears)
	return tw.Flush()
}
