package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pepsimidamerica/nacwrap-go/pkg/nintex"
)

// newTasksCmd groups the task subcommands.
func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Work with workflow tasks",
	}

	cmd.AddCommand(newTasksSearchCmd())
	cmd.AddCommand(newTasksGetCmd())
	cmd.AddCommand(newTasksCompleteCmd())
	cmd.AddCommand(newTasksDelegateCmd())

	return cmd
}

func newTasksSearchCmd() *cobra.Command {
	var (
		workflowName string
		instanceID   string
		status       string
		assignee     string
		fromStr      string
		toStr        string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search tasks",
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

			tasks, err := client.SearchTasks(cmd.Context(), nintex.TaskSearchOptions{
				WorkflowName: workflowName,
				InstanceID:   instanceID,
				Status:       nintex.TaskStatus(status),
				Assignee:     assignee,
				From:         from,
				To:           to,
			})
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(cmd.OutOrStdout(), tasks)
			}

			rows := make([][]string, 0, len(tasks))
			for _, task := range tasks {
				assigned := "-"
				if len(task.TaskAssignments) > 0 {
					assigned = task.TaskAssignments[0].Assignee
				}

				rows = append(rows, []string{
					task.ID,
					task.Name,
					task.WorkflowName,
					string(task.Status),
					assigned,
					formatTime(task.CreatedDate),
				})
			}

			printTable(cmd.OutOrStdout(),
				[]string{"ID", "NAME", "WORKFLOW", "STATUS", "ASSIGNEE", "CREATED"}, rows)

			return nil
		},
	}

	cmd.Flags().StringVar(&workflowName, "workflow", "", "filter by workflow name")
	cmd.Flags().StringVar(&instanceID, "instance", "", "filter by workflow instance ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by task status")
	cmd.Flags().StringVar(&assignee, "assignee", "", "filter by assignee email")
	cmd.Flags().StringVar(&fromStr, "from", "", "start of the time range")
	cmd.Flags().StringVar(&toStr, "to", "", "end of the time range")

	return cmd
}

func newTasksGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <task-id>",
		Short: "Show one task with its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			task, err := client.GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(cmd.OutOrStdout(), task)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Task:     %s\n", task.Name)
			fmt.Fprintf(out, "Workflow: %s\n", task.WorkflowName)
			fmt.Fprintf(out, "Status:   %s\n", task.Status)
			fmt.Fprintf(out, "Created:  %s\n", formatTime(task.CreatedDate))

			rows := make([][]string, 0, len(task.TaskAssignments))
			for _, assignment := range task.TaskAssignments {
				rows = append(rows, []string{
					assignment.ID,
					assignment.Assignee,
					assignment.Status,
					assignment.Outcome,
				})
			}

			fmt.Fprintln(out)
			printTable(out, []string{"ASSIGNMENT", "ASSIGNEE", "STATUS", "OUTCOME"}, rows)

			return nil
		},
	}
}

func newTasksCompleteCmd() *cobra.Command {
	var outcome string

	cmd := &cobra.Command{
		Use:   "complete <task-id> <assignment-id>",
		Short: "Complete a task assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			result, err := client.CompleteTask(cmd.Context(), args[0], args[1], outcome)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&outcome, "outcome", "", "outcome to record (must match a task outcome)")
	_ = cmd.MarkFlagRequired("outcome")

	return cmd
}

func newTasksDelegateCmd() *cobra.Command {
	var (
		assignees []string
		message   string
	)

	cmd := &cobra.Command{
		Use:   "delegate <task-id> <assignment-id>",
		Short: "Delegate a task assignment to other users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			if err := client.DelegateTask(cmd.Context(), args[0], args[1], assignees, message); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Delegated %s to %d user(s)\n", args[0], len(assignees))

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&assignees, "to", nil, "assignee emails to delegate to")
	cmd.Flags().StringVar(&message, "message", "", "message included with the delegation")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
