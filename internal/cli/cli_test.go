package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/config"
	"task-tracker/internal/model"
)

type harness struct {
	t      *testing.T
	dbPath string
}

func newHarness(t *testing.T) *harness {
	return &harness{t: t, dbPath: filepath.Join(t.TempDir(), "tasks.db")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	a := &app{loadConfig: func() (config.Config, error) {
		return config.Config{DatabaseURL: h.dbPath, DigestInterval: time.Hour}, nil
	}}
	h.t.Cleanup(a.close)

	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) runJSON(dest interface{}, args ...string) {
	h.t.Helper()
	out, err := h.run(append(args, "--json")...)
	require.NoError(h.t, err, out)
	require.NoError(h.t, json.Unmarshal([]byte(out), dest), out)
}

func TestCLI_TaskLifecycle(t *testing.T) {
	h := newHarness(t)

	var created model.Task
	h.runJSON(&created, "create", "--title", "Plan launch", "--status", "in-progress",
		"--priority", "high", "--due", "2026-11-30", "--assignee", "dana",
		"--subtask", "budget", "--subtask", "venue")
	require.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusInProgress, created.Status)
	require.Len(t, created.Subtasks, 2)
	assert.False(t, created.Subtasks[0].Completed)

	var shown model.Task
	h.runJSON(&shown, "show", created.ID)
	assert.Equal(t, created.ID, shown.ID)
	assert.Equal(t, "Plan launch", shown.Title)
	require.NotNil(t, shown.AssignedTo)
	assert.Equal(t, "dana", *shown.AssignedTo)

	var updated model.Task
	h.runJSON(&updated, "update", created.ID, "--status", "done", "--assignee", "")
	assert.Equal(t, model.StatusDone, updated.Status)
	assert.Nil(t, updated.AssignedTo)
	assert.Equal(t, "Plan launch", updated.Title)

	var sub model.Subtask
	h.runJSON(&sub, "subtask", "add", created.ID, "--title", "catering")
	assert.Equal(t, created.ID, sub.TaskID)

	var toggled model.Subtask
	h.runJSON(&toggled, "subtask", "update", sub.ID, "--completed")
	assert.True(t, toggled.Completed)

	var removedSub model.Subtask
	h.runJSON(&removedSub, "subtask", "delete", created.Subtasks[0].ID)
	assert.Equal(t, "budget", removedSub.Title)

	var listed []model.Task
	h.runJSON(&listed, "list")
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].Subtasks, 2)

	var deleted model.Task
	h.runJSON(&deleted, "delete", created.ID)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Len(t, deleted.Subtasks, 2)

	h.runJSON(&listed, "list")
	assert.Empty(t, listed)
}

func TestCLI_ListOrder(t *testing.T) {
	h := newHarness(t)

	var first, second model.Task
	h.runJSON(&first, "create", "--title", "first")
	h.runJSON(&second, "create", "--title", "second")

	var listed []model.Task
	h.runJSON(&listed, "list")
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)
}

func TestCLI_Errors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantKind string
	}{
		{name: "show missing task", args: []string{"show", "nope"}, wantCode: exitNotFound, wantKind: "NOT_FOUND"},
		{name: "update missing task", args: []string{"update", "nope", "--title", "x"}, wantCode: exitNotFound, wantKind: "NOT_FOUND"},
		{name: "delete missing task", args: []string{"delete", "nope"}, wantCode: exitNotFound, wantKind: "NOT_FOUND"},
		{name: "subtask for missing task", args: []string{"subtask", "add", "nope", "--title", "x"}, wantCode: exitRejected, wantKind: "CONSTRAINT_VIOLATION"},
		{name: "update missing subtask", args: []string{"subtask", "update", "nope", "--completed"}, wantCode: exitNotFound, wantKind: "NOT_FOUND"},
		{name: "invalid status", args: []string{"create", "--title", "x", "--status", "paused"}, wantCode: exitRejected, wantKind: "INVALID_INPUT"},
		{name: "invalid due date", args: []string{"create", "--title", "x", "--due", "tomorrow"}, wantCode: exitRejected, wantKind: "INVALID_INPUT"},
		{name: "missing title", args: []string{"create"}, wantCode: exitFailure, wantKind: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, exitCode(err))
			assert.Equal(t, tt.wantKind, errorCode(err))
		})
	}
}

func TestCLI_TableOutput(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("create", "--title", "Water plants", "--no-color")
	require.NoError(t, err)

	out, err := h.run("list", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "Water plants")
	assert.Contains(t, out, "not-started")
}

func TestCLI_YAMLOutput(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("create", "--title", "Backup", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Backup\n")
	assert.Contains(t, out, "status: not-started\n")
}

func TestCLI_DigestOnce(t *testing.T) {
	h := newHarness(t)

	var late, onTime, finished model.Task
	h.runJSON(&late, "create", "--title", "late", "--due", "2000-01-01")
	h.runJSON(&onTime, "create", "--title", "future", "--due", "2999-01-01")
	h.runJSON(&finished, "create", "--title", "finished", "--due", "2000-01-01", "--status", "done")

	var overdue []model.Task
	h.runJSON(&overdue, "digest")
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
}
