package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/validation"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/google/uuid"
)

// categoryService implements the CategorySvcFacade interface
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryWithTx
}

// CategoryServiceOption is a functional option for configuring the category service
type CategoryServiceOption func(*categoryService)

// WithCategoryClock sets the clock used for timestamps.
func WithCategoryClock(clock func() time.Time) CategoryServiceOption {
	return func(s *categoryService) {
		s.Clock = clock
	}
}

// NewCategoryService creates a new category service
func NewCategoryService(repo portsrepo.CategoryRepositoryWithTx, options ...CategoryServiceOption) portssvc.CategorySvcFacade {
	svc := &categoryService{categoryRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Color = validation.NormalizeColor(req.Color)

	taken := false
	if req.Name != "" && req.CategoryType.IsValid() {
		var err error
		taken, err = s.categoryRepo.CategoryNameExists(ctx, userID, req.Name, "")
		if err != nil {
			return nil, err
		}
	}
	if result := validation.ValidateCategory(req, taken); !result.Valid() {
		return nil, result.Err()
	}

	now := s.Now()
	category := domain.Category{
		CategoryID:   uuid.NewString(),
		UserID:       userID,
		Name:         req.Name,
		CategoryType: req.CategoryType,
		Color:        req.Color,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category",
			slog.String("user_id", userID),
			slog.String("name", category.Name))
		return nil, err
	}
	return &category, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID string, userID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, apperrors.NewNotFoundError("category " + categoryID + " not found")
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, userID string, categoryType domain.CategoryType) ([]domain.Category, error) {
	if categoryType != "" && !categoryType.IsValid() {
		return nil, apperrors.NewValidationErrors(map[string]string{"categoryType": "must be one of: income, expense"})
	}
	return s.categoryRepo.ListCategories(ctx, userID, categoryType)
}

// UpdateCategory edits name, type and color of a user category.
// The type cannot change while transactions reference the category.
func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error) {
	category, err := s.GetCategoryByID(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault {
		return nil, apperrors.NewImmutableError("default category " + category.Name + " cannot be edited")
	}

	updated := *category
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.CategoryType != nil {
		updated.CategoryType = *req.CategoryType
	}
	if req.Color != nil {
		updated.Color = validation.NormalizeColor(*req.Color)
	}

	taken := false
	if !strings.EqualFold(updated.Name, category.Name) && updated.Name != "" {
		taken, err = s.categoryRepo.CategoryNameExists(ctx, userID, updated.Name, categoryID)
		if err != nil {
			return nil, err
		}
	}
	if result := validation.ValidateCategoryUpdate(req, taken); !result.Valid() {
		return nil, result.Err()
	}

	updated.UpdatedAt = s.Now()
	if updated.CategoryType != category.CategoryType {
		if err := s.changeCategoryType(ctx, updated); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	if err := s.categoryRepo.UpdateCategory(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	return &updated, nil
}

// changeCategoryType writes a category whose type changes. The row is locked for update
// first, which waits out any transaction writer holding it and blocks new ones, so the
// reference count read afterwards cannot go stale before the update commits.
func (s *categoryService) changeCategoryType(ctx context.Context, updated domain.Category) error {
	tx, err := s.categoryRepo.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := s.categoryRepo.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back category update", slog.String("category_id", updated.CategoryID))
		}
	}()

	locked, err := s.categoryRepo.FindCategoryByIDForUpdate(ctx, tx, updated.CategoryID)
	if err != nil {
		return err
	}
	if locked.IsDefault {
		return apperrors.NewImmutableError("default category " + locked.Name + " cannot be edited")
	}

	count, err := s.categoryRepo.CountTransactionsByCategoryInTx(ctx, tx, updated.CategoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewReferentialError(fmt.Sprintf("category %s has %d transactions, its type cannot change", locked.Name, count))
	}

	if err := s.categoryRepo.UpdateCategoryInTx(ctx, tx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", updated.CategoryID))
		return err
	}
	if err := s.categoryRepo.Commit(ctx, tx); err != nil {
		return err
	}
	committed = true
	return nil
}

// DeleteCategory removes a user category that no transaction references.
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string, userID string) error {
	category, err := s.GetCategoryByID(ctx, categoryID, userID)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return apperrors.NewImmutableError("default category " + category.Name + " cannot be deleted")
	}

	count, err := s.categoryRepo.CountTransactionsByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewReferentialError(fmt.Sprintf("category %s has %d transactions and cannot be deleted", category.Name, count))
	}

	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}
	s.LogInfo(ctx, "Category deleted", slog.String("category_id", categoryID))
	return nil
}

// EnsureDefaultCategories creates whichever default categories the user lacks.
// Running it again is harmless.
func (s *categoryService) EnsureDefaultCategories(ctx context.Context, userID string) (*dto.SeedCategoriesResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationErrors(map[string]string{"userID": "this field is required"})
	}

	now := s.Now()
	categories := make([]domain.Category, len(domain.DefaultCategories))
	for i, d := range domain.DefaultCategories {
		categories[i] = domain.Category{
			CategoryID:   uuid.NewString(),
			UserID:       userID,
			Name:         d.Name,
			CategoryType: d.CategoryType,
			Color:        d.Color,
			IsDefault:    true,
			AuditFields: domain.AuditFields{
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
	}

	created, err := s.categoryRepo.SaveCategoriesIfMissing(ctx, categories)
	if err != nil {
		s.LogError(ctx, err, "Failed to seed default categories", slog.String("user_id", userID))
		return nil, err
	}

	resp := &dto.SeedCategoriesResponse{
		UserID:   userID,
		Created:  created,
		Existing: len(categories) - created,
	}
	s.LogInfo(ctx, "Default categories ensured",
		slog.String("user_id", userID),
		slog.Int("created", resp.Created),
		slog.Int("existing", resp.Existing))
	return resp, nil
}
