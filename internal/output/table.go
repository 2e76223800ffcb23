package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"task-tracker/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusStyles = map[model.Status]lipgloss.Style{
		model.StatusNotStarted: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		model.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		model.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	priorityStyles = map[model.Priority]lipgloss.Style{
		model.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[model.Status]lipgloss.Style{}
	priorityStyles = map[model.Priority]lipgloss.Style{}
}

const maxTitleWidth = 50

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	const pad = 2
	idW, statusW, prioW, titleW, assigneeW, dueW := 4, 8, 10, 7, 10, 12
	for _, t := range tasks {
		idW = max(idW, len(t.ID)+pad)
		statusW = max(statusW, len(t.Status.String())+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(lipgloss.Width(t.Title)+pad, maxTitleWidth))
		assigneeW = max(assigneeW, lipgloss.Width(assignee(t))+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", statusW, "STATUS", prioW, "PRIORITY",
		titleW, "TITLE", assigneeW, "ASSIGNEE", dueW, "DUE", "SUBTASKS")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range tasks {
		row := fmt.Sprintf("%-*s %s %s %s %s %-*s %s",
			idW, t.ID,
			padRight(styledStatus(t.Status), statusW),
			padRight(styledPriority(t.Priority), prioW),
			padRight(truncate(t.Title, titleW-pad), titleW),
			padRight(assignee(t), assigneeW),
			dueW, due(t),
			progress(t))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with its subtasks.
func TaskDetail(w io.Writer, t *model.Task) {
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render(t.Title), dimStyle.Render("("+t.ID+")"))
	fmt.Fprintf(w, "Status:    %s\n", styledStatus(t.Status))
	fmt.Fprintf(w, "Priority:  %s\n", styledPriority(t.Priority))
	fmt.Fprintf(w, "Assignee:  %s\n", assignee(*t))
	fmt.Fprintf(w, "Due:       %s\n", due(*t))
	fmt.Fprintf(w, "Created:   %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", t.Description)
	}
	if len(t.Subtasks) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSubtasks (%s):\n", progress(*t))
	for i := range t.Subtasks {
		SubtaskLine(w, &t.Subtasks[i])
	}
}

// SubtaskLine renders one subtask as a checklist line.
func SubtaskLine(w io.Writer, s *model.Subtask) {
	mark := "[ ]"
	if s.Completed {
		mark = "[x]"
	}
	fmt.Fprintf(w, "  %s %s %s\n", mark, s.Title, dimStyle.Render("("+s.ID+")"))
}

func styledStatus(s model.Status) string {
	if st, ok := statusStyles[s]; ok {
		return st.Render(s.String())
	}
	return s.String()
}

func styledPriority(p model.Priority) string {
	if st, ok := priorityStyles[p]; ok {
		return st.Render(string(p))
	}
	return string(p)
}

// padRight pads by visible width so ANSI codes do not disturb alignment.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func assignee(t model.Task) string {
	if t.AssignedTo == nil {
		return "-"
	}
	return *t.AssignedTo
}

func due(t model.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	return t.DueDate.Format("2006-01-02")
}

func progress(t model.Task) string {
	if len(t.Subtasks) == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", t.CompletedSubtasks(), len(t.Subtasks))
}

// truncate shortens s to at most n terminal cells.
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	limit, ellipsis := n-1, "…"
	if n <= 1 {
		limit, ellipsis = n, ""
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > limit {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + ellipsis
}
