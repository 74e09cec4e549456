package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pepsimidamerica/nacwrap-go/pkg/nintex"
)

// newInstancesCmd groups the workflow-instance subcommands.
func newInstancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instances",
		Short: "Work with workflow instances",
	}

	cmd.AddCommand(newInstancesListCmd())
	cmd.AddCommand(newInstancesGetCmd())
	cmd.AddCommand(newInstancesCreateCmd())
	cmd.AddCommand(newInstancesResolveCmd())
	cmd.AddCommand(newInstancesStartDataCmd())

	return cmd
}

// parseTimeFlag parses a --from/--to value, accepting RFC3339 or a bare
// date. Empty values return the zero time.
func parseTimeFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use RFC3339 or YYYY-MM-DD", value)
	}

	return t, nil
}

func newInstancesListCmd() *cobra.Command {
	var (
		workflowName string
		status       string
		order        string
		fromStr      string
		toStr        string
		pageSize     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflow instances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := parseTimeFlag(fromStr)
			if err != nil {
				return err
			}

			to, err := parseTimeFlag(toStr)
			if err != nil {
				return err
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			instances, err := client.ListInstances(cmd.Context(), nintex.InstanceListOptions{
				WorkflowName: workflowName,
				Status:       nintex.WorkflowStatus(status),
				Order:        order,
				From:         from,
				To:           to,
				PageSize:     pageSize,
			})
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(cmd.OutOrStdout(), instances)
			}

			rows := make([][]string, 0, len(instances))
			for _, inst := range instances {
				rows = append(rows, []string{
					inst.InstanceID,
					inst.Workflow.Name,
					string(inst.Status),
					formatTime(inst.StartDateTime),
				})
			}

			printTable(cmd.OutOrStdout(), []string{"ID", "WORKFLOW", "STATUS", "STARTED"}, rows)

			return nil
		},
	}

	cmd.Flags().StringVar(&workflowName, "workflow", "", "filter by workflow name")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (running, completed, failed, terminated)")
	cmd.Flags().StringVar(&order, "order", "", "result order (ASC or DESC)")
	cmd.Flags().StringVar(&fromStr, "from", "", "start of the time range")
	cmd.Flags().StringVar(&toStr, "to", "", "end of the time range")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "page size hint")

	return cmd
}

func newInstancesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <instance-id>",
		Short: "Show one workflow instance with its actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			detail, err := client.GetInstance(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(cmd.OutOrStdout(), detail)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Instance: %s\n", detail.InstanceID)
			fmt.Fprintf(out, "Workflow: %s (v%s)\n", detail.Workflow.Name, detail.Workflow.Version)
			fmt.Fprintf(out, "Status:   %s\n", detail.Status)
			fmt.Fprintf(out, "Started:  %s\n", formatTime(detail.StartDateTime))

			if detail.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:    %s\n", detail.ErrorMessage)
			}

			rows := make([][]string, 0, len(detail.Actions))
			for _, action := range detail.Actions {
				rows = append(rows, []string{
					action.Name,
					action.Type,
					formatTime(action.StartDateTime),
					formatTime(action.EndDateTime),
				})
			}

			fmt.Fprintln(out)
			printTable(out, []string{"ACTION", "TYPE", "STARTED", "ENDED"}, rows)

			return nil
		},
	}
}

func newInstancesCreateCmd() *cobra.Command {
	var dataJSON string

	cmd := &cobra.Command{
		Use:   "create <workflow-id>",
		Short: "Start a new instance of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var startData map[string]any

			if dataJSON != "" {
				if err := json.Unmarshal([]byte(dataJSON), &startData); err != nil {
					return fmt.Errorf("parsing --data: %w", err)
				}
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			created, err := client.CreateInstance(cmd.Context(), args[0], startData)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), created)
		},
	}

	cmd.Flags().StringVar(&dataJSON, "data", "", "start data as a JSON object")

	return cmd
}

func newInstancesResolveCmd() *cobra.Command {
	var (
		resolveAs string
		message   string
	)

	cmd := &cobra.Command{
		Use:   "resolve <instance-id>",
		Short: "Resolve a paused workflow instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resolveType nintex.ResolveType

			switch resolveAs {
			case "retry":
				resolveType = nintex.ResolveRetry
			case "fail":
				resolveType = nintex.ResolveFail
			default:
				return fmt.Errorf("invalid --as %q: use retry or fail", resolveAs)
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			if err := client.ResolveInstance(cmd.Context(), args[0], resolveType, message); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resolved %s (%s)\n", args[0], resolveAs)

			return nil
		},
	}

	cmd.Flags().StringVar(&resolveAs, "as", "retry", "resolution: retry the failed action, or fail the instance")
	cmd.Flags().StringVar(&message, "message", "", "message shown on the instance page")

	return cmd
}

func newInstancesStartDataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-data <instance-id>",
		Short: "Show the start data of a workflow instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			data, err := client.InstanceStartData(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), data)
		},
	}
}
