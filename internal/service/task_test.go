package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maplehr/maplehr/internal/model"
	"github.com/maplehr/maplehr/internal/store/memory"
)

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestTaskService_CreateTask_Defaults(t *testing.T) {
	t.Parallel()
	svc := NewTaskService(memory.New())
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskInput{Title: "Write report", UserID: "u1"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if task.Priority != model.PriorityMedium {
		t.Errorf("default priority should be medium, got %s", task.Priority)
	}
	if task.Completed {
		t.Error("new tasks should not be completed")
	}
	if task.UserID != "u1" {
		t.Errorf("task owner should be u1, got %s", task.UserID)
	}
	if task.ID == "" {
		t.Error("task should get an id")
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Error("createdAt and updatedAt should match at creation")
	}
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	t.Parallel()
	svc := NewTaskService(memory.New())
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "", UserID: "u1"}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}

	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "x", Priority: "urgent", UserID: "u1"}); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestTaskService_ListTasks_MostRecentFirst(t *testing.T) {
	t.Parallel()
	svc := NewTaskService(memory.New())
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: title, UserID: "u1"}); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		// ULIDs created in the same millisecond are monotonic per
		// process, but creation times may collide; space them out.
		time.Sleep(2 * time.Millisecond)
	}

	tasks, err := svc.ListTasks(ctx, "u1")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}

	want := []string{"third", "second", "first"}
	for i, title := range want {
		if tasks[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, tasks[i].Title)
		}
	}
}

func TestTaskService_OwnershipIsolation(t *testing.T) {
	t.Parallel()
	svc := NewTaskService(memory.New())
	ctx := context.Background()

	aliceTask, err := svc.CreateTask(ctx, CreateTaskInput{Title: "alice's task", UserID: "alice"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "bob's task", UserID: "bob"}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	bobTasks, err := svc.ListTasks(ctx, "bob")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	for _, task := range bobTasks {
		if task.UserID != "bob" {
			t.Errorf("bob's list contains a task owned by %s", task.UserID)
		}
	}

	// Bob guesses alice's task id: must look like not-found.
	if _, err := svc.UpdateTask(ctx, UpdateTaskInput{ID: aliceTask.ID, UserID: "bob", Title: strptr("hijacked")}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if err := svc.DeleteTask(ctx, aliceTask.ID, "bob"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskService_UpdateTask_Partial(t *testing.T) {
	t.Parallel()
	svc := NewTaskService(memory.New())
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskInput{
		Title:       "original",
		Description: "desc",
		Priority:    "low",
		UserID:      "u1",
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	time.Sleep(2 * time.Millisecond)

	updated, err := svc.UpdateTask(ctx, UpdateTaskInput{
		ID:        task.ID,
		UserID:    "u1",
		Completed: boolptr(true),
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	// Only the supplied field changes.
	if !updated.Completed {
		t.Error("completed should be set")
	}
	if updated.Title != "original" || updated.Description != "desc" || updated.Priority != model.PriorityLow {
		t.Errorf("unsupplied fields changed: %+v", updated)
	}

	// updatedAt refreshes, createdAt does not.
	if !updated.UpdatedAt.After(task.UpdatedAt) {
		t.Error("updatedAt should be refreshed")
	}
	if !updated.CreatedAt.Equal(task.CreatedAt) {
		t.Error("createdAt should never change")
	}
	if updated.UserID != "u1" {
		t.Error("ownership should never change")
	}
}

func TestTaskService_UpdateTask_Validation(t *testing.T) {
	t.Parallel()
	svc := NewTaskService(memory.New())
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskInput{Title: "x", UserID: "u1"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := svc.UpdateTask(ctx, UpdateTaskInput{ID: task.ID, UserID: "u1", Title: strptr("")}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := svc.UpdateTask(ctx, UpdateTaskInput{ID: task.ID, UserID: "u1", Priority: strptr("critical")}); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}

	// Failed validation leaves the task untouched.
	got, err := svc.UpdateTask(ctx, UpdateTaskInput{ID: task.ID, UserID: "u1"})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if got.Title != "x" || got.Priority != model.PriorityMedium {
		t.Errorf("task mutated by failed updates: %+v", got)
	}
}

func TestTaskService_DeleteTask(t *testing.T) {
	t.Parallel()
	svc := NewTaskService(memory.New())
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskInput{Title: "x", UserID: "u1"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := svc.DeleteTask(ctx, task.ID, "u1"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	if err := svc.DeleteTask(ctx, task.ID, "u1"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for deleted task, got %v", err)
	}

	tasks, err := svc.ListTasks(ctx, "u1")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list, got %d tasks", len(tasks))
	}
}

func TestSeedDemoData(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	if err := SeedDemoData(ctx, s); err != nil {
		t.Fatalf("SeedDemoData failed: %v", err)
	}
	// Re-seeding is a no-op, not an error.
	if err := SeedDemoData(ctx, s); err != nil {
		t.Fatalf("repeat SeedDemoData failed: %v", err)
	}

	authSvc := NewAuthService(s, s, s)
	result, err := authSvc.Login(ctx, DemoEmail, DemoPassword)
	if err != nil {
		t.Fatalf("demo login failed: %v", err)
	}
	if result.User.ID != DemoUserID {
		t.Errorf("expected %s, got %s", DemoUserID, result.User.ID)
	}

	taskSvc := NewTaskService(s)
	tasks, err := taskSvc.ListTasks(ctx, DemoUserID)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 seeded tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Explore the features" {
		t.Errorf("newest seeded task should come first, got %q", tasks[0].Title)
	}
}
