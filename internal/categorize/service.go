// Package categorize assigns expense categories to statement descriptions.
package categorize

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyRule = errors.New("pattern and category are required")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=categorize
type Repository interface {
	// FindCategory returns the category of the longest pattern contained in description,
	// or "" when none matches.
	FindCategory(ctx context.Context, description string) (string, error)
	CreateRule(ctx context.Context, pattern, category string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category for description, or "" if no rule matches.
func (s *Service) Suggest(ctx context.Context, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", nil
	}

	return s.repo.FindCategory(ctx, description)
}

// Learn remembers that descriptions containing pattern belong to category.
func (s *Service) Learn(ctx context.Context, pattern, category string) error {
	pattern = strings.TrimSpace(pattern)
	category = strings.TrimSpace(category)

	if pattern == "" || category == "" {
		return ErrEmptyRule
	}

	return s.repo.CreateRule(ctx, pattern, category)
}
