package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

var ErrParentCategoryNotFound = errors.New("parent category not found")

type CategoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, category *domain.Category) error {
	category.ID = uuid.New()
	category.IsDefault = false
	category.NormalizeParent()
	if err := category.Validate(); err != nil {
		return err
	}
	if err := s.checkParent(ctx, category); err != nil {
		return err
	}

	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	return s.repo.Create(ctx, category)
}

func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID, userID string) (*domain.Category, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *CategoryService) GetCategories(ctx context.Context, userID, categoryType string) ([]domain.Category, error) {
	if categoryType != "" && !domain.IsValidCategoryType(categoryType) {
		return nil, financeErrors.NewValidationError("Invalid category_type value")
	}
	return s.repo.List(ctx, userID, categoryType)
}

// GetCategoryTree returns the root categories with their subcategories nested.
func (s *CategoryService) GetCategoryTree(ctx context.Context, userID, categoryType string) ([]*domain.CategoryNode, error) {
	categories, err := s.GetCategories(ctx, userID, categoryType)
	if err != nil {
		return nil, err
	}
	return domain.BuildCategoryTree(categories), nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, userID string, update domain.CategoryUpdate) (*domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault {
		return nil, financeErrors.NewValidationError("Default categories cannot be modified")
	}

	previousType := category.CategoryType
	update.Apply(category)
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if category.CategoryType != previousType {
		hasChildren, err := s.repo.HasSubcategories(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if hasChildren {
			return nil, financeErrors.NewValidationError("Cannot change the type of a category with subcategories")
		}
		inUse, err := s.repo.IsInUse(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, financeErrors.NewValidationError("Cannot change the type of a category that is in use")
		}
	}

	if category.ParentID != nil {
		if err := s.checkParent(ctx, category); err != nil {
			return nil, err
		}
		all, err := s.repo.List(ctx, userID, "")
		if err != nil {
			return nil, err
		}
		if domain.IsAncestor(all, category.ID, *category.ParentID) {
			return nil, financeErrors.NewValidationError("Category cannot be moved under its own subcategory")
		}
	}

	category.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID, userID string) error {
	category, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return financeErrors.NewValidationError("Default categories cannot be deleted")
	}

	hasChildren, err := s.repo.HasSubcategories(ctx, id, userID)
	if err != nil {
		return err
	}
	if hasChildren {
		return financeErrors.NewValidationError("Category has subcategories and cannot be deleted")
	}

	inUse, err := s.repo.IsInUse(ctx, id, userID)
	if err != nil {
		return err
	}
	if inUse {
		return financeErrors.NewValidationError("Category is in use and cannot be deleted")
	}
	return s.repo.Delete(ctx, id, userID)
}

func (s *CategoryService) DoesCategoryExist(ctx context.Context, id uuid.UUID, userID, categoryType string) (bool, error) {
	return s.repo.Exists(ctx, id, userID, categoryType)
}

// SeedDefaultCategories creates the starter categories of a new account.
func (s *CategoryService) SeedDefaultCategories(ctx context.Context, userID string) error {
	return s.repo.CreateMany(ctx, domain.DefaultCategories(userID, time.Now().UTC()))
}

func (s *CategoryService) checkParent(ctx context.Context, category *domain.Category) error {
	if category.ParentID == nil {
		return nil
	}
	parent, err := s.repo.FindByID(ctx, *category.ParentID, category.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return ErrParentCategoryNotFound
		}
		return err
	}
	if parent.CategoryType != category.CategoryType {
		return financeErrors.NewValidationError("Parent category must have the same category type")
	}
	return nil
}
