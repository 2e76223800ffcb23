package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"task-tracker/internal/model"
	"task-tracker/internal/output"
	"task-tracker/internal/repository"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := a.tasks.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), tasks, func(w io.Writer) {
				output.TaskTable(w, tasks)
			})
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a task with its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.tasks.GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderTask(cmd.OutOrStdout(), task)
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		in       repository.TaskInput
		assignee string
		subtasks []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task, optionally with subtasks",
		Long: `Creates a task. Repeat --subtask to create subtasks in the same step;
either all of them are stored together with the task or none are.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("assignee") {
				in.AssignedTo = &assignee
			}
			for _, title := range subtasks {
				in.Subtasks = append(in.Subtasks, repository.SubtaskInput{Title: title})
			}
			task, err := a.tasks.CreateTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.renderTask(cmd.OutOrStdout(), task)
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "task title")
	cmd.Flags().StringVar(&in.Description, "description", "", "task description")
	cmd.Flags().StringVar(&in.Status, "status", "", "not-started, in-progress or done")
	cmd.Flags().StringVar(&in.Priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "person responsible")
	cmd.Flags().StringArrayVar(&subtasks, "subtask", nil, "subtask title (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update fields of a task",
		Long: `Modifies fields of an existing task. Only specified fields are changed.
Pass an empty --due or --assignee to clear it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := repository.TaskUpdate{
				Title:       changedString(cmd, "title"),
				Description: changedString(cmd, "description"),
				Status:      changedString(cmd, "status"),
				Priority:    changedString(cmd, "priority"),
				DueDate:     changedString(cmd, "due"),
				AssignedTo:  changedString(cmd, "assignee"),
			}
			task, err := a.tasks.UpdateTask(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}
			return a.renderTask(cmd.OutOrStdout(), task)
		},
	}
	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("description", "", "new description")
	cmd.Flags().String("status", "", "new status")
	cmd.Flags().String("priority", "", "new priority")
	cmd.Flags().String("due", "", "new due date")
	cmd.Flags().String("assignee", "", "new assignee")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task and its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.tasks.DeleteTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), task, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted task %s %q with %d subtask(s).\n", task.ID, task.Title, len(task.Subtasks))
			})
		},
	}
}

func (a *app) renderTask(w io.Writer, task *model.Task) error {
	return a.render(w, task, func(w io.Writer) {
		output.TaskDetail(w, task)
	})
}

// changedString returns the flag value only when it was set on the command line.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
