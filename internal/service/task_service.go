package service

import (
	"context"
	"strings"

	"todolist/internal/models"
)

// TaskStore is the data access surface the task service delegates to.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, in models.UpdateTaskInput) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// TaskService exposes task operations to the HTTP layer.
type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.store.ListTasks(ctx)
}

func (s *TaskService) Get(ctx context.Context, id int64) (models.Task, error) {
	return s.store.GetTask(ctx, id)
}

// Create checks the title is present before inserting.
func (s *TaskService) Create(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Task{}, models.Invalid("title", "is required")
	}
	return s.store.CreateTask(ctx, in)
}

// Update rejects an empty payload and a blank or null title or completed
// flag. Description and category may be cleared with null.
func (s *TaskService) Update(ctx context.Context, id int64, in models.UpdateTaskInput) (models.Task, error) {
	if in.Empty() {
		return models.Task{}, models.Invalid("", "no fields to update")
	}
	if in.Title.Set && (in.Title.Null || strings.TrimSpace(in.Title.Value) == "") {
		return models.Task{}, models.Invalid("title", "must not be empty")
	}
	if in.Completed.Null {
		return models.Task{}, models.Invalid("completed", "must not be null")
	}
	return s.store.UpdateTask(ctx, id, in)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteTask(ctx, id)
}
