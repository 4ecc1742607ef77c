package interfaces

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceLedger/internal/api"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
)

type TagServiceInterface interface {
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id uuid.UUID, userID string) (*domain.Tag, error)
	GetTags(ctx context.Context, userID string) ([]domain.Tag, error)
	GetTagsWithUsage(ctx context.Context, userID string) ([]domain.TagWithUsage, error)
	UpdateTag(ctx context.Context, id uuid.UUID, userID string, update domain.TagUpdate) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID, userID string) error
}

type TagHandler struct {
	responder
	service TagServiceInterface
}

func NewTagHandler(service TagServiceInterface, respondJSON api.JSONResponder, respondError api.ErrorResponder) *TagHandler {
	if service == nil {
		panic("tag service must not be nil")
	}
	return &TagHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}

	tag := domain.Tag{IsActive: true}
	if !h.decode(w, r, &tag) {
		return
	}
	tag.UserID = userID

	if err := h.service.CreateTag(r.Context(), &tag); err != nil {
		h.serviceError(w, r, err, "Failed to create tag")
		return
	}
	h.respondJSON(w, http.StatusCreated, api.Success("Tag successfully created.", tag))
}

func (h *TagHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	includeUsage, ok := h.queryBool(w, r, "include_usage")
	if !ok {
		return
	}

	var (
		tags any
		err  error
	)
	if includeUsage != nil && *includeUsage {
		tags, err = h.service.GetTagsWithUsage(r.Context(), userID)
	} else {
		tags, err = h.service.GetTags(r.Context(), userID)
	}
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve tags")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Tags retrieved successfully.", tags))
}

func (h *TagHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "tagID")
	if !ok {
		return
	}

	tag, err := h.service.GetTag(r.Context(), id, userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve tag")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Tag retrieved successfully.", tag))
}

func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "tagID")
	if !ok {
		return
	}

	var update domain.TagUpdate
	if !h.decode(w, r, &update) {
		return
	}

	tag, err := h.service.UpdateTag(r.Context(), id, userID, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update tag")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Tag successfully updated.", tag))
}

func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	userID := api.RequireUserID(w, r, h.respondError)
	if userID == "" {
		return
	}
	id, ok := h.pathID(w, r, "tagID")
	if !ok {
		return
	}

	if err := h.service.DeleteTag(r.Context(), id, userID); err != nil {
		h.serviceError(w, r, err, "Failed to delete tag")
		return
	}
	h.respondJSON(w, http.StatusOK, api.Success("Tag successfully deleted.", nil))
}
