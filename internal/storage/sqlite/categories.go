package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"todolist/internal/models"
)

const categoryColumns = `id, machine_name, display_name`

func scanCategory(row rowScanner) (models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.MachineName, &c.DisplayName); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// ListCategories retrieves all categories ordered by id.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory fetches a single category by id.
func (s *Store) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, models.NotFound("category")
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// CreateCategory inserts a category. A duplicate machine name is rejected by
// the unique index and returned as a storage error.
func (s *Store) CreateCategory(ctx context.Context, in models.CreateCategoryInput) (models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`INSERT INTO categories(machine_name, display_name) VALUES(?, ?) RETURNING `+categoryColumns,
		in.MachineName, in.DisplayName))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, fmt.Errorf("failed to create category")
	}
	if err != nil {
		return models.Category{}, classify("insert category", err)
	}
	return c, nil
}

// UpdateCategory applies the supplied fields and returns the updated row.
// With no fields it returns the current row.
func (s *Store) UpdateCategory(ctx context.Context, id int64, in models.UpdateCategoryInput) (models.Category, error) {
	var (
		sets []string
		args []any
	)
	if in.MachineName != nil {
		sets = append(sets, "machine_name = ?")
		args = append(args, *in.MachineName)
	}
	if in.DisplayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, *in.DisplayName)
	}
	if len(sets) == 0 {
		return s.GetCategory(ctx, id)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE categories SET %s WHERE id = ? RETURNING %s`, strings.Join(sets, ", "), categoryColumns)
	c, err := scanCategory(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, models.NotFound("category")
	}
	if err != nil {
		return models.Category{}, classify("update category", err)
	}
	return c, nil
}

// DeleteCategory removes a category by id. Tasks pointing at it are not
// touched; the foreign key rejects the delete while references exist.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NotFound("category")
	}
	return nil
}
