package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CategoryReader defines read operations for categories
type CategoryReader interface {
	// FindCategoryByID retrieves a category by its ID.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategories lists the categories of a user, optionally restricted to one type.
	ListCategories(ctx context.Context, userID string, categoryType domain.CategoryType) ([]domain.Category, error)

	// CategoryNameExists reports whether the user already has a category, of either type,
	// with the same name compared case-insensitively. excludeID is ignored in the match.
	CategoryNameExists(ctx context.Context, userID, name string, excludeID string) (bool, error)

	// CountTransactionsByCategory returns how many transactions reference the category.
	CountTransactionsByCategory(ctx context.Context, categoryID string) (int, error)
}

// CategoryWriter defines write operations for categories
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, categoryID string) error

	// SaveCategoriesIfMissing inserts the given categories, skipping those that already
	// exist, and returns how many were created.
	SaveCategoriesIfMissing(ctx context.Context, categories []domain.Category) (int, error)
}

// CategoryTransactionSupport defines the category reads and writes that run inside a
// database transaction.
type CategoryTransactionSupport interface {
	// FindCategoryByIDForShare reads a category and share-locks it until the tx ends.
	FindCategoryByIDForShare(ctx context.Context, tx pgx.Tx, categoryID string) (*domain.Category, error)

	// FindCategoryByIDForUpdate reads a category and locks it for update until the tx ends.
	FindCategoryByIDForUpdate(ctx context.Context, tx pgx.Tx, categoryID string) (*domain.Category, error)

	CountTransactionsByCategoryInTx(ctx context.Context, tx pgx.Tx, categoryID string) (int, error)
	UpdateCategoryInTx(ctx context.Context, tx pgx.Tx, category domain.Category) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
	CategoryTransactionSupport
}

// CategoryRepositoryWithTx extends CategoryRepositoryFacade with transaction capabilities
type CategoryRepositoryWithTx interface {
	CategoryRepositoryFacade
	TransactionManager
}
