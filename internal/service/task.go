package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/maplehr/maplehr/internal/model"
	"github.com/maplehr/maplehr/internal/store"
)

// TaskService handles task business logic. Every operation is scoped to
// the acting user resolved by the auth middleware; tasks owned by other
// users are indistinguishable from absent ones.
type TaskService struct {
	tasks store.TaskStore
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks store.TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

// ListTasks returns the user's tasks, most recently created first.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	tasks, err := s.tasks.ListTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTaskInput defines input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	UserID      string
}

// CreateTask creates a new task owned by the acting user.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	priority := model.PriorityMedium
	if input.Priority != "" {
		priority = model.Priority(input.Priority)
		if !priority.IsValid() {
			return nil, ErrInvalidPriority
		}
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:          ulid.Make().String(),
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		Priority:    priority,
		UserID:      input.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput defines input for a partial task update.
// Nil fields are left unchanged.
type UpdateTaskInput struct {
	ID          string
	UserID      string
	Title       *string
	Description *string
	Completed   *bool
	Priority    *string
}

// UpdateTask applies a partial update to a task the user owns.
// UpdatedAt is always refreshed, even when no field changed.
func (s *TaskService) UpdateTask(ctx context.Context, input UpdateTaskInput) (*model.Task, error) {
	task, err := s.tasks.GetTask(ctx, input.ID, input.UserID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}

	if input.Description != nil {
		task.Description = *input.Description
	}

	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if input.Priority != nil {
		priority := model.Priority(*input.Priority)
		if !priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = priority
	}

	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task the user owns.
func (s *TaskService) DeleteTask(ctx context.Context, id, userID string) error {
	if err := s.tasks.DeleteTask(ctx, id, userID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
