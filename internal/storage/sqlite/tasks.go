package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"todolist/internal/models"
)

const taskColumns = `id, title, description, completed, category_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t           models.Task
		description sql.NullString
		categoryID  sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.Title, &description, &t.Completed, &categoryID,
		timestamp{&t.CreatedAt}, timestamp{&t.UpdatedAt})
	if err != nil {
		return models.Task{}, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	return t, nil
}

// ListTasks retrieves all tasks ordered by id.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask fetches a single task by id.
func (s *Store) GetTask(ctx context.Context, id int64) (models.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.NotFound("task")
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// CreateTask inserts a task and returns the stored row.
func (s *Store) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	completed := false
	if in.Completed != nil {
		completed = *in.Completed
	}

	t, err := scanTask(s.db.QueryRowContext(ctx,
		`INSERT INTO tasks(title, description, completed, category_id) VALUES(?, ?, ?, ?) RETURNING `+taskColumns,
		in.Title, nullString(in.Description), completed, nullInt64(in.CategoryID)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("failed to create task")
	}
	if err != nil {
		return models.Task{}, classify("insert task", err)
	}
	return t, nil
}

// UpdateTask applies the supplied fields in a single statement and returns
// the updated row. Null fields are written as NULL. updated_at is always
// refreshed, so an input with no fields only touches the timestamp.
func (s *Store) UpdateTask(ctx context.Context, id int64, in models.UpdateTaskInput) (models.Task, error) {
	var (
		sets []string
		args []any
	)
	if in.Title.Set {
		sets = append(sets, "title = ?")
		args = append(args, in.Title.Arg())
	}
	if in.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, in.Description.Arg())
	}
	if in.Completed.Set {
		sets = append(sets, "completed = ?")
		args = append(args, in.Completed.Arg())
	}
	if in.CategoryID.Set {
		sets = append(sets, "category_id = ?")
		args = append(args, in.CategoryID.Arg())
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = ? RETURNING %s`, strings.Join(sets, ", "), taskColumns)
	t, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.NotFound("task")
	}
	if err != nil {
		return models.Task{}, classify("update task", err)
	}
	return t, nil
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NotFound("task")
	}
	return nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
