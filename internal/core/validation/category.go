package validation

import (
	"strings"

	"github.com/SscSPs/finance_tracker/internal/dto"
)

// NormalizeColor lowercases a #rrggbb color.
func NormalizeColor(color string) string {
	return strings.ToLower(strings.TrimSpace(color))
}

// ValidateCategory checks a new category. nameTaken is the caller's case-insensitive
// lookup of the name among the owner's categories of the same type.
func ValidateCategory(req dto.CreateCategoryRequest, nameTaken bool) Result {
	r := newResult()
	req.Name = strings.TrimSpace(req.Name)
	req.Color = NormalizeColor(req.Color)

	checkStruct(&r, req)
	if nameTaken {
		r.addError("name", "a category with this name already exists")
	}
	return r
}

// ValidateCategoryUpdate checks the provided fields of a category edit.
func ValidateCategoryUpdate(req dto.UpdateCategoryRequest, nameTaken bool) Result {
	r := newResult()
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if req.Color != nil {
		color := NormalizeColor(*req.Color)
		req.Color = &color
	}

	checkStruct(&r, req)
	if nameTaken {
		r.addError("name", "a category with this name already exists")
	}
	return r
}
