package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type IncomeService struct {
	repo            domain.IncomeRepository
	categoryService CategoryServiceInterface
	tagService      TagServiceInterface
}

func NewIncomeService(repo domain.IncomeRepository, categoryService CategoryServiceInterface, tagService TagServiceInterface) *IncomeService {
	return &IncomeService{repo: repo, categoryService: categoryService, tagService: tagService}
}

func (s *IncomeService) CreateIncome(ctx context.Context, income *domain.Income) error {
	income.ID = uuid.New()
	income.Normalize()
	if err := income.Validate(); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, income); err != nil {
		return err
	}

	now := time.Now().UTC()
	income.CreatedAt = now
	income.UpdatedAt = now
	return s.repo.Create(ctx, income)
}

func (s *IncomeService) GetIncome(ctx context.Context, id uuid.UUID, userID string) (*domain.Income, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *IncomeService) GetIncomes(ctx context.Context, userID string, filter domain.IncomeFilter) ([]domain.Income, error) {
	return s.repo.List(ctx, userID, filter)
}

func (s *IncomeService) UpdateIncome(ctx context.Context, id uuid.UUID, userID string, update domain.IncomeUpdate) (*domain.Income, error) {
	income, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	update.Apply(income)
	income.Normalize()
	if err := income.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, income); err != nil {
		return nil, err
	}

	income.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, income); err != nil {
		return nil, err
	}
	return income, nil
}

func (s *IncomeService) DeleteIncome(ctx context.Context, id uuid.UUID, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *IncomeService) GetIncomeSummary(ctx context.Context, userID, groupBy string, dateRange domain.DateRange) ([]domain.SummaryRow, error) {
	if groupBy == "" {
		groupBy = domain.IncomeGroupBySource
	}
	if !domain.IsValidIncomeGroupBy(groupBy) {
		return nil, ErrInvalidGroupBy
	}
	return s.repo.Summary(ctx, userID, groupBy, dateRange)
}

func (s *IncomeService) checkReferences(ctx context.Context, income *domain.Income) error {
	if income.CategoryID != nil {
		if err := requireCategory(ctx, s.categoryService, *income.CategoryID, income.UserID, domain.CategoryTypeIncome); err != nil {
			return err
		}
	}
	return requireTags(ctx, s.tagService, income.TagIDs, income.UserID)
}
