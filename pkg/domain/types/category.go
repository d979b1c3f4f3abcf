package types

import "fmt"

// Category classifies an idea by business domain
type Category string

const (
	CategoryStrategy     Category = "strategy"
	CategoryProduct      Category = "product"
	CategorySales        Category = "sales"
	CategoryPartnerships Category = "partnerships"
	CategoryCompetitive  Category = "competitive"
	CategoryMarket       Category = "market"
	CategoryTeam         Category = "team"
	CategoryOperations   Category = "operations"
)

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{
		CategoryStrategy,
		CategoryProduct,
		CategorySales,
		CategoryPartnerships,
		CategoryCompetitive,
		CategoryMarket,
		CategoryTeam,
		CategoryOperations,
	}
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryStrategy,
		CategoryProduct,
		CategorySales,
		CategoryPartnerships,
		CategoryCompetitive,
		CategoryMarket,
		CategoryTeam,
		CategoryOperations:
		return true
	default:
		return false
	}
}

// Normalize returns the category, treating empty as CategoryStrategy
func (c Category) Normalize() Category {
	if c == "" {
		return CategoryStrategy
	}
	return c
}

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}
