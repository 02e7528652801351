package dto

import (
	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name         string              `json:"name" validate:"required,max=100"`
	CategoryType domain.CategoryType `json:"categoryType" validate:"required,oneof=income expense"`
	Color        string              `json:"color" validate:"required,hexcolor,len=7"`
}

// UpdateCategoryRequest holds the optional fields of a category edit.
type UpdateCategoryRequest struct {
	Name         *string              `json:"name" validate:"omitnil,min=1,max=100"`
	CategoryType *domain.CategoryType `json:"categoryType" validate:"omitnil,oneof=income expense"`
	Color        *string              `json:"color" validate:"omitnil,hexcolor,len=7"`
}

// SeedCategoriesResponse reports the outcome of seeding the default categories.
type SeedCategoriesResponse struct {
	UserID   string `json:"userID"`
	Created  int    `json:"created"`
	Existing int    `json:"existing"`
}
