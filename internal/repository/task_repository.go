package repository

import (
	"context"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// TaskRepository handles CRUD for tasks and their subtasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func withSubtasks(db *gorm.DB) *gorm.DB {
	return db.Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

// ListTasks returns every task with its subtasks, newest first.
func (r *TaskRepository) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := withSubtasks(r.db.WithContext(ctx)).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error; err != nil {
		return nil, wrap("list tasks", err, errTaskNotFound)
	}
	return tasks, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := withSubtasks(r.db.WithContext(ctx)).Take(&task, "id = ?", id).Error; err != nil {
		return nil, wrap("retrieve task", err, errTaskNotFound)
	}
	return &task, nil
}

// CreateTask inserts the task and all of its subtasks in one nested create.
func (r *TaskRepository) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	const op = "create task"
	task, err := in.task()
	if err != nil {
		return nil, invalid(op, err)
	}
	if err := r.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, wrap(op, err, errTaskNotFound)
	}
	return &task, nil
}

// UpdateTask applies a partial update. The existence check, the update and
// the reload share one transaction.
func (r *TaskRepository) UpdateTask(ctx context.Context, id string, upd TaskUpdate) (*model.Task, error) {
	const op = "update task"
	cols, err := upd.columns()
	if err != nil {
		return nil, invalid(op, err)
	}

	var task model.Task
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&model.Task{}, "id = ?", id).Error; err != nil {
			return err
		}
		if len(cols) > 0 {
			if err := tx.Model(&model.Task{ID: id}).Updates(cols).Error; err != nil {
				return err
			}
		}
		return withSubtasks(tx).Take(&task, "id = ?", id).Error
	})
	if err != nil {
		return nil, wrap(op, err, errTaskNotFound)
	}
	return &task, nil
}

// DeleteTask removes the task and returns it as it was before deletion.
// Subtasks go with it through the cascading foreign key.
func (r *TaskRepository) DeleteTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := withSubtasks(tx).Take(&task, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Task{}).Error
	})
	if err != nil {
		return nil, wrap("delete task", err, errTaskNotFound)
	}
	return &task, nil
}

// CreateSubtask attaches a new subtask to taskID. A missing parent is
// rejected by the foreign key and reported as KindConstraint.
func (r *TaskRepository) CreateSubtask(ctx context.Context, taskID string, in SubtaskInput) (*model.Subtask, error) {
	subtask := in.subtask()
	subtask.TaskID = taskID
	if err := r.db.WithContext(ctx).Create(&subtask).Error; err != nil {
		return nil, wrap("create subtask", err, errTaskNotFound)
	}
	return &subtask, nil
}

func (r *TaskRepository) UpdateSubtask(ctx context.Context, id string, upd SubtaskUpdate) (*model.Subtask, error) {
	cols := upd.columns()

	var subtask model.Subtask
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(cols) > 0 {
			res := tx.Model(&model.Subtask{}).Where("id = ?", id).Updates(cols)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Take(&subtask, "id = ?", id).Error
	})
	if err != nil {
		return nil, wrap("update subtask", err, errSubtaskNotFound)
	}
	return &subtask, nil
}

// DeleteSubtask removes a subtask and returns it as it was before deletion.
func (r *TaskRepository) DeleteSubtask(ctx context.Context, id string) (*model.Subtask, error) {
	var subtask model.Subtask
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&subtask, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Subtask{}).Error
	})
	if err != nil {
		return nil, wrap("delete subtask", err, errSubtaskNotFound)
	}
	return &subtask, nil
}
