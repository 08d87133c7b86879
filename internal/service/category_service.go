package service

import (
	"context"
	"strings"

	"todolist/internal/models"
)

// CategoryStore is the data access surface the category service delegates to.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	CreateCategory(ctx context.Context, in models.CreateCategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, id int64, in models.UpdateCategoryInput) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// CategoryService exposes category operations to the HTTP layer.
type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (models.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in models.CreateCategoryInput) (models.Category, error) {
	if strings.TrimSpace(in.MachineName) == "" {
		return models.Category{}, models.Invalid("machine_name", "is required")
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return models.Category{}, models.Invalid("display_name", "is required")
	}
	return s.store.CreateCategory(ctx, in)
}

func (s *CategoryService) Update(ctx context.Context, id int64, in models.UpdateCategoryInput) (models.Category, error) {
	if in.Empty() {
		return models.Category{}, models.Invalid("", "no fields to update")
	}
	if in.MachineName != nil && strings.TrimSpace(*in.MachineName) == "" {
		return models.Category{}, models.Invalid("machine_name", "must not be empty")
	}
	if in.DisplayName != nil && strings.TrimSpace(*in.DisplayName) == "" {
		return models.Category{}, models.Invalid("display_name", "must not be empty")
	}
	return s.store.UpdateCategory(ctx, id, in)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteCategory(ctx, id)
}
