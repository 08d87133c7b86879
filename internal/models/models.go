package models

import "time"

// Task represents a single to-do item.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category groups tasks under a stable machine name.
type Category struct {
	ID          int64  `json:"id"`
	MachineName string `json:"machine_name"`
	DisplayName string `json:"display_name"`
}

// CreateTaskInput is the payload accepted when creating a task.
type CreateTaskInput struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	CategoryID  *int64  `json:"category_id"`
}

// UpdateTaskInput carries a partial task update. Fields absent from the
// payload are left untouched; an explicit null clears description and
// category_id.
type UpdateTaskInput struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Completed   Optional[bool]   `json:"completed"`
	CategoryID  Optional[int64]  `json:"category_id"`
}

// Empty reports whether no field was supplied.
func (in UpdateTaskInput) Empty() bool {
	return !in.Title.Set && !in.Description.Set && !in.Completed.Set && !in.CategoryID.Set
}

// CreateCategoryInput is the payload accepted when creating a category.
type CreateCategoryInput struct {
	MachineName string `json:"machine_name" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

// UpdateCategoryInput carries a partial category update.
type UpdateCategoryInput struct {
	MachineName *string `json:"machine_name"`
	DisplayName *string `json:"display_name"`
}

// Empty reports whether no field was supplied.
func (in UpdateCategoryInput) Empty() bool {
	return in.MachineName == nil && in.DisplayName == nil
}
