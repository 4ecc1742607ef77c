package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

type TagService struct {
	repo domain.TagRepository
}

func NewTagService(repo domain.TagRepository) *TagService {
	return &TagService{repo: repo}
}

func (s *TagService) CreateTag(ctx context.Context, tag *domain.Tag) error {
	tag.ID = uuid.New()
	if err := tag.Validate(); err != nil {
		return err
	}
	if err := s.checkNameAvailable(ctx, tag); err != nil {
		return err
	}

	now := time.Now().UTC()
	tag.CreatedAt = now
	tag.UpdatedAt = now
	return s.repo.Create(ctx, tag)
}

func (s *TagService) GetTag(ctx context.Context, id uuid.UUID, userID string) (*domain.Tag, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *TagService) GetTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	return s.repo.List(ctx, userID)
}

func (s *TagService) GetTagsWithUsage(ctx context.Context, userID string) ([]domain.TagWithUsage, error) {
	return s.repo.ListWithUsage(ctx, userID)
}

func (s *TagService) UpdateTag(ctx context.Context, id uuid.UUID, userID string, update domain.TagUpdate) (*domain.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	update.Apply(tag)
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	if update.Name != nil {
		if err := s.checkNameAvailable(ctx, tag); err != nil {
			return nil, err
		}
	}

	tag.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) DeleteTag(ctx context.Context, id uuid.UUID, userID string) error {
	if _, err := s.repo.FindByID(ctx, id, userID); err != nil {
		return err
	}
	inUse, err := s.repo.IsInUse(ctx, id, userID)
	if err != nil {
		return err
	}
	if inUse {
		return financeErrors.NewValidationError("Tag is in use and cannot be deleted")
	}
	return s.repo.Delete(ctx, id, userID)
}

// DoTagsExist reports whether every id names a tag of the user.
func (s *TagService) DoTagsExist(ctx context.Context, ids []uuid.UUID, userID string) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	count, err := s.repo.CountOwned(ctx, ids, userID)
	if err != nil {
		return false, err
	}
	return count == len(ids), nil
}

func (s *TagService) checkNameAvailable(ctx context.Context, tag *domain.Tag) error {
	existing, err := s.repo.FindByName(ctx, tag.UserID, tag.Name)
	if err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != tag.ID {
		return financeErrors.NewValidationError("Tag with this name already exists")
	}
	return nil
}
