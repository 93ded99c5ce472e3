package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/inspect"
)

func newGraphCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print every stack and resource as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			top, err := opts.assemble()
			if err != nil {
				return err
			}
			return inspect.YAML(cmd.OutOrStdout(), top.Graph)
		},
	}
}

func newDotCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dot",
		Short: "Print the dependency graph in Graphviz format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			top, err := opts.assemble()
			if err != nil {
				return err
			}
			return inspect.DOT(cmd.OutOrStdout(), top.Graph)
		},
	}
}

func newOrderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print the resource creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			top, err := opts.assemble()
			if err != nil {
				return err
			}
			return inspect.Order(cmd.OutOrStdout(), top.Graph)
		},
	}
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the graph and the security baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			top, err := opts.assemble()
			if err != nil {
				return err
			}
			report, checkErr := inspect.Check(top.Graph)
			if report == nil {
				return checkErr
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				raw, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(raw))
				return checkErr
			}

			fmt.Fprintf(out, "environment: %s\n", report.Environment)
			fmt.Fprintf(out, "stacks:      %d\n", report.Stacks)
			fmt.Fprintf(out, "resources:   %d\n", report.Resources)
			fmt.Fprintf(out, "edges:       %d (%d across stacks)\n", report.Edges, report.CrossStackEdges)
			for _, f := range report.Findings {
				fmt.Fprintf(out, "  ✗ %s: %s\n", f.Resource, f.Message)
			}
			if checkErr == nil {
				fmt.Fprintln(out, "✓ topology is valid")
			}
			return checkErr
		},
	}
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output the report as JSON")
	return cmd
}
