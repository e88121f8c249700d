// cmd/todo/commands.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/service"
	"github.com/gurkanbulca/todo/internal/tools"
)

func addCmd(a *app) *cobra.Command {
	var (
		description string
		tags        string
		priority    string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Long: `Add a task to the list.

Examples:
  todo add "Buy milk" --tags shopping,home
  todo add "Pay rent" -p high -d "before the 5th"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePriorityFlag(priority)
			if err != nil {
				return err
			}

			m, err := a.manager(cmd.Context())
			if err != nil {
				return err
			}
			task, err := m.Add(cmd.Context(), service.NewTaskInput{
				Title:       strings.Join(args, " "),
				Description: description,
				Tags:        models.ParseTagList(tags),
				Priority:    p,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Added ")+renderTask(task))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "desc", "d", "", "description")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "comma separated tags")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "LOW, MEDIUM or HIGH (default MEDIUM)")

	return cmd
}

func listCmd(a *app) *cobra.Command {
	var (
		tag    string
		status string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks by priority, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := models.ParseStatusFilter(status)
			if err != nil {
				return err
			}

			m, err := a.manager(cmd.Context())
			if err != nil {
				return err
			}
			tasks := m.ListFiltered(service.ListFilter{Tag: tag, Status: filter})

			fmt.Fprint(cmd.OutOrStdout(), renderList(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "only tasks carrying this tag")
	cmd.Flags().StringVarP(&status, "status", "s", "all", "all, pending or completed")

	return cmd
}

func editCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		tags        string
		priority    string
	)

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Change the title, description, tags or priority of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(m, args[0])
			if err != nil {
				return err
			}

			var update models.TaskUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				update.Title = &title
			}
			if flags.Changed("desc") {
				update.Description = &description
			}
			if flags.Changed("tags") {
				update.Tags = models.ParseTagList(tags)
			}
			if flags.Changed("priority") {
				p, err := models.ParsePriority(priority)
				if err != nil {
					return err
				}
				update.Priority = &p
			}
			if update.IsEmpty() {
				return fmt.Errorf("nothing to change, pass --title, --desc, --tags or --priority")
			}

			task, err := m.Update(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Updated ")+renderTask(task))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "desc", "d", "", "new description")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "new comma separated tags (empty clears)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")

	return cmd
}

func toggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [id]",
		Short: "Flip a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(m, args[0])
			if err != nil {
				return err
			}

			task, err := m.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTask(task))
			return nil
		},
	}
}

func rmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveID(m, args[0])
			if err != nil {
				return err
			}

			removed, err := m.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(tools.ReplyNotFound))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Deleted "+id.String()))
			return nil
		},
	}
}

func clearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd.Context())
			if err != nil {
				return err
			}

			n, err := m.ClearCompleted(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Cleared %d completed task(s)", n)))
			return nil
		},
	}
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStats(m.Stats()))
			return nil
		},
	}
}

func mcpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the task tools over stdio (JSON-RPC)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := tools.NewMCPServer(tools.NewToolSet(a.open()), localOwner, Version)
			return server.Serve(cmd.Context(), os.Stdin, cmd.OutOrStdout())
		},
	}
}

func parsePriorityFlag(s string) (models.Priority, error) {
	if s == "" {
		return models.DefaultPriority, nil
	}
	return models.ParsePriority(s)
}
