package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cx-luo/go-chem/internal/vf2"
)

type matchOptions struct {
	queryPath     string
	targetPath    string
	restHPath     string
	mode          string
	iterationCap  int64
	chargeExact   bool
	isotopeExact  bool
	stereoStrict  bool
	withRGroups   bool
	jsonOutput    bool
}

func newMatchCmd() *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a query molecule against a target molecule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.queryPath, "query", "q", "", "path to the query wire-format blob (required)")
	flags.StringVarP(&opts.targetPath, "target", "t", "", "path to the target wire-format blob (required)")
	flags.StringVar(&opts.restHPath, "resth", "", "path to an optional restH byte blob, one byte per query atom")
	flags.StringVarP(&opts.mode, "mode", "m", "", "match mode: \"exact\" or \"substructure\" (default: config match.default_mode)")
	flags.Int64Var(&opts.iterationCap, "iteration-limit", 0, "override config match.max_iterations (0 = use config)")
	flags.BoolVar(&opts.chargeExact, "charges", false, "compare formal charges")
	flags.BoolVar(&opts.isotopeExact, "isotopes", false, "compare isotope masses")
	flags.BoolVar(&opts.stereoStrict, "stereo", false, "validate tetrahedral/cis-trans stereo on candidate mappings")
	flags.BoolVar(&opts.withRGroups, "rgroups", false, "switch to an explicit-hydrogen search when the query or target has pseudo-atoms")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print the result as JSON instead of text")

	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

type matchReport struct {
	Matched     bool    `json:"matched"`
	Score       float64 `json:"score,omitempty"`
	AtomMapping []int   `json:"atom_mapping,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

func runMatch(cmd *cobra.Command, opts *matchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	log := cliCtx.Logger.Named("match")

	queryBytes, err := os.ReadFile(opts.queryPath)
	if err != nil {
		return fmt.Errorf("reading query file: %w", err)
	}
	targetBytes, err := os.ReadFile(opts.targetPath)
	if err != nil {
		return fmt.Errorf("reading target file: %w", err)
	}

	var restH []byte
	if opts.restHPath != "" {
		restH, err = os.ReadFile(opts.restHPath)
		if err != nil {
			return fmt.Errorf("reading restH file: %w", err)
		}
	}

	mode := opts.mode
	if mode == "" {
		mode = cliCtx.Config.Match.DefaultMode
	}
	graphMode, err := parseGraphMode(mode)
	if err != nil {
		return err
	}

	handleOpts := vf2.HandleOptions{
		GraphMode:   graphMode,
		WithRGroups: opts.withRGroups,
	}
	if opts.chargeExact {
		handleOpts.ChargeMode = vf2.ChargeDefaultAsUncharged
	}
	if opts.isotopeExact {
		handleOpts.IsotopeMode = vf2.IsotopeDefaultAsStandard
	}
	if opts.stereoStrict {
		handleOpts.StereoMode = vf2.StereoStrict
	}

	handle, err := vf2.NewHandle(queryBytes, restH, handleOpts)
	if err != nil {
		return fmt.Errorf("building query handle: %w", err)
	}

	iterationLimit := opts.iterationCap
	if iterationLimit == 0 {
		iterationLimit = int64(cliCtx.Config.Match.MaxIterations)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	log.Info("running match",
		zap.String("mode", mode),
		zap.Int64("iteration_limit", iterationLimit),
	)

	result, matchErr := handle.Match(ctx, targetBytes, iterationLimit)
	report := matchReport{}

	switch {
	case matchErr == nil:
		report.Matched = true
		report.Score = result.Score
		report.AtomMapping = result.AtomMapping
		log.Info("match succeeded", zap.Float64("score", result.Score))
	case errors.Is(matchErr, vf2.ErrNoMatch):
		report.Reason = "no match"
	case errors.Is(matchErr, vf2.ErrLimitExceeded):
		report.Reason = "iteration limit exceeded"
		log.Warn("iteration limit exceeded")
	default:
		return fmt.Errorf("match: %w", matchErr)
	}

	return printMatchReport(cmd, opts, report)
}

func printMatchReport(cmd *cobra.Command, opts *matchOptions, report matchReport) error {
	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	out := cmd.OutOrStdout()
	if !report.Matched {
		fmt.Fprintf(out, "no match (%s)\n", report.Reason)
		return nil
	}
	fmt.Fprintf(out, "match: score=%.4f mapping=%v\n", report.Score, report.AtomMapping)
	return nil
}

func parseGraphMode(mode string) (vf2.GraphMode, error) {
	switch mode {
	case "exact":
		return vf2.GraphExact, nil
	case "substructure":
		return vf2.GraphSubstructure, nil
	default:
		return 0, fmt.Errorf("unknown match mode %q (want \"exact\" or \"substructure\")", mode)
	}
}
