package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/SscSPs/finance_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `category_id, user_id, name, category_type, color, is_default, created_at, updated_at`

const insertCategoryQuery = `
	INSERT INTO categories (` + categoryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const updateCategoryQuery = `
	UPDATE categories
	SET name = $2, category_type = $3, color = $4, updated_at = $5
	WHERE category_id = $1;`

// seedCategoryQuery inserts a default category unless the owner already has one of their
// own categories under that name, or the same default.
const seedCategoryQuery = `
	INSERT INTO categories (` + categoryColumns + `)
	SELECT $1::varchar, $2::varchar, $3::varchar, $4::varchar, $5::varchar, $6::boolean, $7::timestamptz, $8::timestamptz
	WHERE NOT EXISTS (
		SELECT 1 FROM categories
		WHERE user_id = $2 AND LOWER(name) = LOWER($3) AND NOT is_default
	)
	ON CONFLICT DO NOTHING;`

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryWithTx {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryWithTx = (*PgxCategoryRepository)(nil)

func categoryArgs(m models.Category) []any {
	return []any{m.CategoryID, m.UserID, m.Name, m.CategoryType, m.Color, m.IsDefault, m.CreatedAt, m.UpdatedAt}
}

// SaveCategory inserts a new category. A case-insensitive name clash yields ErrDuplicate.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	if _, err := r.Pool.Exec(ctx, insertCategoryQuery+";", categoryArgs(m)...); err != nil {
		return mapPgError(err, "failed to save category "+m.Name)
	}
	return nil
}

// SaveCategoriesIfMissing inserts the categories in one batch, skipping the defaults the
// owner already has and names the owner already uses. It returns how many rows were created.
func (r *PgxCategoryRepository) SaveCategoriesIfMissing(ctx context.Context, categories []domain.Category) (int, error) {
	if len(categories) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(seedCategoryQuery, categoryArgs(mapping.ToModelCategory(c))...)
	}

	br := r.Pool.SendBatch(ctx, batch)
	created := 0
	var batchErr error
	for _, c := range categories {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = mapPgError(err, "failed to save category "+c.Name)
			}
			continue
		}
		created += int(ct.RowsAffected())
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = mapPgError(err, "failed to close category batch")
	}
	if batchErr != nil {
		return 0, batchErr
	}
	return created, nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1;`

	rows, err := r.Pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, mapPgError(err, "failed to find category "+categoryID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("category " + categoryID + " not found")
		}
		return nil, mapPgError(err, "failed to scan category "+categoryID)
	}

	c := mapping.ToDomainCategory(m)
	return &c, nil
}

// ListCategories lists a user's categories by type then name. An empty type lists both.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context, userID string, categoryType domain.CategoryType) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND ($2::text = '' OR category_type = $2::text)
		ORDER BY category_type, name, category_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID, string(categoryType))
	if err != nil {
		return nil, mapPgError(err, "failed to query categories for user "+userID)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, mapPgError(err, "failed to scan categories for user "+userID)
	}
	return mapping.ToDomainCategorySlice(ms), nil
}

// CategoryNameExists checks the case-insensitive uniqueness of a name among all of a
// user's categories, defaults included.
func (r *PgxCategoryRepository) CategoryNameExists(ctx context.Context, userID, name string, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE user_id = $1 AND LOWER(name) = LOWER($2) AND category_id <> $3
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, userID, name, excludeID).Scan(&exists); err != nil {
		return false, mapPgError(err, "failed to check category name "+name)
	}
	return exists, nil
}

// CountTransactionsByCategory returns how many transactions reference the category.
func (r *PgxCategoryRepository) CountTransactionsByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = $1;`, categoryID).Scan(&count)
	if err != nil {
		return 0, mapPgError(err, "failed to count transactions of category "+categoryID)
	}
	return count, nil
}

// UpdateCategory updates name, type and color.
func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	cmdTag, err := r.Pool.Exec(ctx, updateCategoryQuery, m.CategoryID, m.Name, m.CategoryType, m.Color, m.UpdatedAt)
	if err != nil {
		return mapPgError(err, "failed to update category "+m.CategoryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category " + m.CategoryID + " not found for update")
	}
	return nil
}

// DeleteCategory removes a category. A category still referenced by a transaction
// is protected by the foreign key and yields ErrReferential.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM categories WHERE category_id = $1;`, categoryID)
	if err != nil {
		return mapPgError(err, "failed to delete category "+categoryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category " + categoryID + " not found")
	}
	return nil
}

// FindCategoryByIDForShare reads a category and holds a share lock on it until the tx
// ends. Transaction writers take it so the category type cannot change under them.
func (r *PgxCategoryRepository) FindCategoryByIDForShare(ctx context.Context, tx pgx.Tx, categoryID string) (*domain.Category, error) {
	return r.findCategoryLocked(ctx, tx, categoryID, "FOR SHARE")
}

// FindCategoryByIDForUpdate reads a category and locks it for update until the tx ends.
// It waits for every writer holding the share lock.
func (r *PgxCategoryRepository) FindCategoryByIDForUpdate(ctx context.Context, tx pgx.Tx, categoryID string) (*domain.Category, error) {
	return r.findCategoryLocked(ctx, tx, categoryID, "FOR UPDATE")
}

func (r *PgxCategoryRepository) findCategoryLocked(ctx context.Context, tx pgx.Tx, categoryID string, lock string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1 ` + lock + `;`

	rows, err := tx.Query(ctx, query, categoryID)
	if err != nil {
		return nil, mapPgError(err, "failed to lock category "+categoryID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("category " + categoryID + " not found")
		}
		return nil, mapPgError(err, "failed to lock category "+categoryID)
	}

	c := mapping.ToDomainCategory(m)
	return &c, nil
}

// CountTransactionsByCategoryInTx counts the transactions referencing the category
// within a transaction.
func (r *PgxCategoryRepository) CountTransactionsByCategoryInTx(ctx context.Context, tx pgx.Tx, categoryID string) (int, error) {
	var count int
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = $1;`, categoryID).Scan(&count)
	if err != nil {
		return 0, mapPgError(err, "failed to count transactions of category "+categoryID)
	}
	return count, nil
}

// UpdateCategoryInTx updates name, type and color within a transaction.
func (r *PgxCategoryRepository) UpdateCategoryInTx(ctx context.Context, tx pgx.Tx, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	cmdTag, err := tx.Exec(ctx, updateCategoryQuery, m.CategoryID, m.Name, m.CategoryType, m.Color, m.UpdatedAt)
	if err != nil {
		return mapPgError(err, "failed to update category "+m.CategoryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category " + m.CategoryID + " not found for update")
	}
	return nil
}
