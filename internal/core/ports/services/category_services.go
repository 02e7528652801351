package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// CategoryReaderSvc defines read operations for categories
type CategoryReaderSvc interface {
	GetCategoryByID(ctx context.Context, categoryID string, userID string) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string, categoryType domain.CategoryType) ([]domain.Category, error)
}

// CategoryWriterSvc defines write operations for categories
type CategoryWriterSvc interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error)

	// UpdateCategory edits a user category. Default categories are read-only.
	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error)

	// DeleteCategory removes a user category that no transaction references.
	DeleteCategory(ctx context.Context, categoryID string, userID string) error

	// EnsureDefaultCategories creates the missing default categories of a user.
	EnsureDefaultCategories(ctx context.Context, userID string) (*dto.SeedCategoriesResponse, error)
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
