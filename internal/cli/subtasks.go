package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"task-tracker/internal/model"
	"task-tracker/internal/output"
	"task-tracker/internal/repository"
)

func newSubtaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"sub"},
		Short:   "Manage subtasks",
	}
	cmd.AddCommand(
		newSubtaskAddCmd(a),
		newSubtaskUpdateCmd(a),
		newSubtaskDeleteCmd(a),
	)
	return cmd
}

func newSubtaskAddCmd(a *app) *cobra.Command {
	var (
		in        repository.SubtaskInput
		completed bool
	)
	cmd := &cobra.Command{
		Use:   "add TASK_ID",
		Short: "Add a subtask to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("completed") {
				in.Completed = &completed
			}
			sub, err := a.tasks.CreateSubtask(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return a.renderSubtask(cmd.OutOrStdout(), sub)
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "subtask title")
	cmd.Flags().StringVar(&in.Description, "description", "", "subtask description")
	cmd.Flags().BoolVar(&completed, "completed", false, "mark as completed")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newSubtaskUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update fields of a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := repository.SubtaskUpdate{
				Title:       changedString(cmd, "title"),
				Description: changedString(cmd, "description"),
			}
			if cmd.Flags().Changed("completed") {
				completed, _ := cmd.Flags().GetBool("completed")
				upd.Completed = &completed
			}
			sub, err := a.tasks.UpdateSubtask(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}
			return a.renderSubtask(cmd.OutOrStdout(), sub)
		},
	}
	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("description", "", "new description")
	cmd.Flags().Bool("completed", false, "completion flag (--completed=false to reopen)")
	return cmd
}

func newSubtaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a subtask",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := a.tasks.DeleteSubtask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), sub, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted subtask %s %q.\n", sub.ID, sub.Title)
			})
		},
	}
}

func (a *app) renderSubtask(w io.Writer, sub *model.Subtask) error {
	return a.render(w, sub, func(w io.Writer) {
		output.SubtaskLine(w, sub)
	})
}
