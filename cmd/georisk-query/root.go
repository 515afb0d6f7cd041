package main

import (
	"encoding/json"
	"strings"

	"github.com/izzystu/geo-change-risk-sub000/internal/nlq"
	"github.com/spf13/cobra"
)

// serviceFactory builds the query service once flags are parsed.
type serviceFactory func(configPath string) (*nlq.Service, error)

type rootOptions struct {
	ConfigPath string
	AOI        string
	Compact    bool
}

func newRootCommand(build serviceFactory) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "georisk-query",
		Short: "Ask natural-language questions about change detection and infrastructure risk",
		Long: `georisk-query runs the same translation and execution pipeline as the
POST /query endpoint, against DATABASE_URL, and prints the JSON envelope.

Examples:
  georisk-query ask "critical risks near hospitals"
  georisk-query plan --aoi paradise-ca "burn scars larger than 1 hectare"
  georisk-query health`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", nlq.ConfigPath(), "query backend config file")
	root.PersistentFlags().StringVar(&opts.AOI, "aoi", "", "area of interest the question is asked from")
	root.PersistentFlags().BoolVar(&opts.Compact, "compact", false, "print single-line JSON")

	root.AddCommand(
		newAskCommand(opts, build),
		newPlanCommand(opts, build),
		newHealthCommand(opts, build),
	)
	return root
}

func newAskCommand(opts *rootOptions, build serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Translate and execute a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(opts.ConfigPath)
			if err != nil {
				return err
			}
			resp := svc.Query(cmd.Context(), nlq.QueryRequest{Query: strings.Join(args, " "), AOIID: opts.AOI})
			return printJSON(cmd, opts, resp)
		},
	}
}

func newPlanCommand(opts *rootOptions, build serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <question>",
		Short: "Show the query plan for a question without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(opts.ConfigPath)
			if err != nil {
				return err
			}
			resp := svc.Plan(cmd.Context(), nlq.QueryRequest{Query: strings.Join(args, " "), AOIID: opts.AOI})
			return printJSON(cmd, opts, resp)
		},
	}
}

func newHealthCommand(opts *rootOptions, build serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the language model and database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(opts.ConfigPath)
			if err != nil {
				return err
			}
			return printJSON(cmd, opts, svc.Health(cmd.Context()))
		},
	}
}

func printJSON(cmd *cobra.Command, opts *rootOptions, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if !opts.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
