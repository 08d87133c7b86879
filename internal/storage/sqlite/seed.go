package sqlite

import (
	"context"
	"fmt"
	"log/slog"
)

type seedCategory struct {
	machineName string
	displayName string
}

type seedTask struct {
	title       string
	description string
	completed   bool
}

var (
	seedCategories = []seedCategory{
		{"work", "Work"},
		{"personal", "Personal"},
		{"shopping", "Shopping"},
	}
	seedTasks = []seedTask{
		{"Task 1", "Description for Task 1", false},
		{"Task 2", "Description for Task 2", true},
		{"Task 3", "Description for Task 3", false},
	}
)

// Seed replaces all tasks and categories with the demo data set.
func (s *Store) Seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM tasks`, `DELETE FROM categories`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	for _, c := range seedCategories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories(machine_name, display_name) VALUES(?, ?)`, c.machineName, c.displayName); err != nil {
			return fmt.Errorf("seed category %s: %w", c.machineName, err)
		}
	}
	for _, t := range seedTasks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(title, description, completed) VALUES(?, ?, ?)`, t.title, t.description, t.completed); err != nil {
			return fmt.Errorf("seed task %s: %w", t.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	s.logger.Info("seeded database", slog.Int("categories", len(seedCategories)), slog.Int("tasks", len(seedTasks)))
	return nil
}
