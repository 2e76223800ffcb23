package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/model"
)

func sampleTask() model.Task {
	due := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	alice := "alice"
	return model.Task{
		ID:         "0192f0c4-aaaa-7bbb-8ccc-000000000001",
		Title:      "Write release notes",
		Status:     model.StatusInProgress,
		Priority:   model.PriorityHigh,
		DueDate:    &due,
		AssignedTo: &alice,
		CreatedAt:  time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
		Subtasks: []model.Subtask{
			{ID: "s1", Title: "collect changes", Completed: true},
			{ID: "s2", Title: "draft"},
		},
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatJSON, Detect(true, true, "yaml"))
	assert.Equal(t, FormatYAML, Detect(false, true, "json"))
	assert.Equal(t, FormatJSON, Detect(false, false, "json"))
	assert.Equal(t, FormatYAML, Detect(false, false, "yaml"))
	assert.Equal(t, FormatTable, Detect(false, false, ""))
}

func TestTaskTable(t *testing.T) {
	DisableColor()
	var buf bytes.Buffer

	TaskTable(&buf, []model.Task{sampleTask()})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	for _, col := range []string{"STATUS", "PRIORITY", "TITLE", "ASSIGNEE", "DUE", "SUBTASKS"} {
		assert.Contains(t, lines[0], col)
	}
	for _, cell := range []string{"in-progress", "high", "Write release notes", "alice", "2026-11-02", "1/2"} {
		assert.Contains(t, lines[1], cell)
	}
}

func TestTaskTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	TaskTable(&buf, nil)
	assert.Equal(t, "No tasks found.\n", buf.String())
}

func TestTaskDetail(t *testing.T) {
	DisableColor()
	task := sampleTask()
	task.Description = "Summarize user-facing changes."
	var buf bytes.Buffer

	TaskDetail(&buf, &task)

	out := buf.String()
	assert.Contains(t, out, "Write release notes")
	assert.Contains(t, out, "Status:    in-progress")
	assert.Contains(t, out, "Summarize user-facing changes.")
	assert.Contains(t, out, "Subtasks (1/2):")
	assert.Contains(t, out, "[x] collect changes")
	assert.Contains(t, out, "[ ] draft")
}

func TestJSONUsesExternalStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleTask()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "in-progress", decoded["status"])
	assert.Equal(t, "alice", decoded["assignedTo"])
	assert.Len(t, decoded["subtasks"], 2)
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, sampleTask()))

	out := buf.String()
	assert.Contains(t, out, "status: in-progress\n")
	assert.Contains(t, out, "title: Write release notes\n")
	assert.Contains(t, out, "completed: true\n")
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "NOT_FOUND", "retrieve task: task not found")
	assert.JSONEq(t, `{"error":"retrieve task: task not found","code":"NOT_FOUND"}`, buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "日本…", truncate("日本語のタイトル", 5))
	assert.Equal(t, "a", truncate("abc", 1))
}

func TestTaskTableWideTitles(t *testing.T) {
	DisableColor()
	var buf bytes.Buffer

	wide := sampleTask()
	wide.Title = "日本語のタイトル"
	zoe := "Zoë"
	wide.AssignedTo = &zoe
	plain := sampleTask()
	plain.Title = "plain"

	TaskTable(&buf, []model.Task{wide, plain})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	col := func(line, cell string) int {
		i := strings.Index(line, cell)
		require.GreaterOrEqual(t, i, 0, "%q not in %q", cell, line)
		return lipgloss.Width(line[:i])
	}
	assert.Equal(t, col(lines[0], "ASSIGNEE"), col(lines[1], "Zoë"))
	assert.Equal(t, col(lines[0], "ASSIGNEE"), col(lines[2], "alice"))
	assert.Equal(t, col(lines[0], "DUE"), col(lines[1], "2026-11-02"))
	assert.Equal(t, col(lines[0], "DUE"), col(lines[2], "2026-11-02"))
}
