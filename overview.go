package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pepsimidamerica/nacwrap-go/pkg/nintex"
)

// newOverviewCmd builds the overview command, which fetches running
// instances, active tasks, and published designs concurrently and
// prints a tenant summary.
func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show a tenant summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			var (
				running   []nintex.Instance
				failed    []nintex.Instance
				active    []nintex.Task
				workflows []nintex.Workflow
			)

			g, ctx := errgroup.WithContext(cmd.Context())

			g.Go(func() error {
				var err error
				running, err = client.ListInstances(ctx, nintex.InstanceListOptions{
					Status: nintex.StatusRunning,
				})
				return err
			})

			g.Go(func() error {
				var err error
				failed, err = client.ListInstances(ctx, nintex.InstanceListOptions{
					Status: nintex.StatusFailed,
				})
				return err
			})

			g.Go(func() error {
				var err error
				active, err = client.SearchTasks(ctx, nintex.TaskSearchOptions{
					Status: nintex.TaskActive,
				})
				return err
			})

			g.Go(func() error {
				var err error
				workflows, err = client.ListWorkflows(ctx, 0)
				return err
			})

			if err := g.Wait(); err != nil {
				return err
			}

			if flagJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"runningInstances": len(running),
					"failedInstances":  len(failed),
					"activeTasks":      len(active),
					"publishedDesigns": len(workflows),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running instances:  %d\n", len(running))
			fmt.Fprintf(out, "Failed instances:   %d\n", len(failed))
			fmt.Fprintf(out, "Active tasks:       %d\n", len(active))
			fmt.Fprintf(out, "Published designs:  %d\n", len(workflows))

			if len(failed) > 0 {
				fmt.Fprintln(out)

				rows := make([][]string, 0, len(failed))
				for _, inst := range failed {
					rows = append(rows, []string{
						inst.InstanceID,
						inst.Workflow.Name,
						formatTime(inst.StartDateTime),
					})
				}

				printTable(out, []string{"FAILED INSTANCE", "WORKFLOW", "STARTED"}, rows)
			}

			return nil
		},
	}
}
