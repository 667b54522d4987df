package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kylejryan/image-groups/internal/api"
	"github.com/kylejryan/image-groups/internal/logging"
	"github.com/kylejryan/image-groups/internal/models"
)

// Groups creates and lists groups.
type Groups struct {
	store GroupStore
	newID func() string
	log   *zap.Logger
}

// NewGroups creates a Groups service over store.
func NewGroups(store GroupStore, log *zap.Logger) *Groups {
	return &Groups{store: store, newID: NewID, log: logging.OrNop(log)}
}

// Create stores a new group under a generated id.
func (s *Groups) Create(ctx context.Context, req api.CreateGroupRequest) (models.Group, error) {
	g := models.Group{
		ID:          s.newID(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.store.Put(ctx, g); err != nil {
		return models.Group{}, fmt.Errorf("create group: %w", err)
	}
	s.log.Info("group created", zap.String("group_id", g.ID))
	return g, nil
}

// List returns every group in store order.
func (s *Groups) List(ctx context.Context) ([]models.Group, error) {
	groups, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}
