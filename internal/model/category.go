package model

import "strings"

// Category groups transactions for reporting. Names are unique.
type Category struct {
	Name string `json:"nome"`
	ID   int    `json:"id"`
}

// Validate checks the fields a category needs before it is written.
func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ValidationError{Field: "nome", Message: "category name is required"}
	}
	if len([]rune(name)) > MaxNameLength {
		return &ValidationError{Field: "nome", Message: "category name must be at most 100 characters"}
	}
	return nil
}

// CategoryTotal is one row of the spend-by-category aggregate.
type CategoryTotal struct {
	Category string `json:"categoria"`
	Total    Amount `json:"total"`
}
