package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newWorkflowsCmd groups the workflow-design subcommands.
func newWorkflowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflows",
		Short: "Work with published workflow designs",
	}

	cmd.AddCommand(newWorkflowsListCmd())
	cmd.AddCommand(newWorkflowsGetCmd())
	cmd.AddCommand(newWorkflowsDeleteCmd())

	return cmd
}

func newWorkflowsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published workflow designs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			workflows, err := client.ListWorkflows(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(cmd.OutOrStdout(), workflows)
			}

			rows := make([][]string, 0, len(workflows))
			for _, wf := range workflows {
				rows = append(rows, []string{
					wf.ID,
					wf.Name,
					formatTime(wf.LastModified),
				})
			}

			printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "MODIFIED"}, rows)

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum designs to list")

	return cmd
}

func newWorkflowsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <workflow-id>",
		Short: "Show a workflow design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			design, err := client.GetWorkflow(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), design)
		},
	}
}

func newWorkflowsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <workflow-id>",
		Short: "Delete a workflow design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("deleting a design is permanent; re-run with --yes to confirm")
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			if err := client.DeleteWorkflow(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	return cmd
}
