package domain

// CategoryType classifies a category as income or expense.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// IsValid reports whether t is income or expense.
func (t CategoryType) IsValid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

// Category labels transactions. Default categories are seeded per user and are read-only.
type Category struct {
	CategoryID   string       `json:"categoryID"`
	UserID       string       `json:"userID"`
	Name         string       `json:"name"`
	CategoryType CategoryType `json:"categoryType"`
	Color        string       `json:"color"` // #rrggbb, lowercase
	IsDefault    bool         `json:"isDefault"`
	AuditFields
}

// DefaultCategory describes one entry of the per-user seed set.
type DefaultCategory struct {
	Name         string
	CategoryType CategoryType
	Color        string
}

// DefaultCategories is the fixed seed set created once per user.
var DefaultCategories = []DefaultCategory{
	{Name: "Salário", CategoryType: CategoryIncome, Color: "#10b981"},
	{Name: "Freelance", CategoryType: CategoryIncome, Color: "#3b82f6"},
	{Name: "Investimentos", CategoryType: CategoryIncome, Color: "#8b5cf6"},
	{Name: "Outros", CategoryType: CategoryIncome, Color: "#6b7280"},

	{Name: "Alimentação", CategoryType: CategoryExpense, Color: "#ef4444"},
	{Name: "Transporte", CategoryType: CategoryExpense, Color: "#f59e0b"},
	{Name: "Moradia", CategoryType: CategoryExpense, Color: "#06b6d4"},
	{Name: "Saúde", CategoryType: CategoryExpense, Color: "#ec4899"},
	{Name: "Lazer", CategoryType: CategoryExpense, Color: "#14b8a6"},
	{Name: "Educação", CategoryType: CategoryExpense, Color: "#6366f1"},
	{Name: "Outros", CategoryType: CategoryExpense, Color: "#6b7280"},
}
