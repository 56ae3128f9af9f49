package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/maplehr/maplehr/internal/auth"
	"github.com/maplehr/maplehr/internal/model"
	"github.com/maplehr/maplehr/internal/store"
)

// Demo account credentials for development environments.
const (
	DemoUserID   = "demo-user-1"
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
	DemoName     = "Demo User"
)

// SeedDemoData inserts the demo account and its welcome tasks.
// Safe to call repeatedly: a no-op when the demo user already exists.
func SeedDemoData(ctx context.Context, s store.Store) error {
	user := &model.User{
		ID:        DemoUserID,
		Email:     DemoEmail,
		Name:      DemoName,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("seed credential hash: %w", err)
	}

	cred := &model.Credential{Email: DemoEmail, PasswordHash: hash}
	if err := s.CreateUserWithCredential(ctx, user, cred); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil
		}
		return fmt.Errorf("seed user: %w", err)
	}

	welcome := []*model.Task{
		{
			ID:          ulid.Make().String(),
			Title:       "Welcome to Task Manager",
			Description: "This is your first task! Try marking it as complete.",
			Priority:    model.PriorityMedium,
			UserID:      DemoUserID,
			CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          ulid.Make().String(),
			Title:       "Explore the features",
			Description: "Check out task creation, editing, and filtering options.",
			Priority:    model.PriorityHigh,
			UserID:      DemoUserID,
			CreatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, task := range welcome {
		if err := s.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("seed task %q: %w", task.Title, err)
		}
	}

	return nil
}
