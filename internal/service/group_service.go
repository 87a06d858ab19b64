package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// GroupService implements group and membership management.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// CreateGroup creates a new group with the given members.
func (s *GroupService) CreateGroup(ctx context.Context, name, currency string, members []models.Member) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name required", ErrInvalidInput)
	}
	if currency == "" {
		return nil, fmt.Errorf("%w: group currency required", ErrInvalidInput)
	}
	for i, m := range members {
		if m.Email == "" {
			return nil, fmt.Errorf("%w: every member needs an email", ErrInvalidInput)
		}
		// Adopt the account id of an already-registered user.
		if m.AccountID == "" {
			if user, err := s.store.GetUserByEmail(ctx, m.Email); err == nil {
				members[i].AccountID = user.ID
				if members[i].DisplayName == "" {
					members[i].DisplayName = user.DisplayName
				}
			}
		}
	}

	group := &models.Group{
		Name:     name,
		Currency: currency,
		Members:  members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("create group failed", "name", name, "error", err)
		return nil, err
	}

	s.logger.Info("group created", "group_id", group.ID, "members", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// UpdateGroup updates a group's name and currency.
func (s *GroupService) UpdateGroup(ctx context.Context, groupID, name, currency string) (*models.Group, error) {
	if name == "" || currency == "" {
		return nil, fmt.Errorf("%w: name and currency required", ErrInvalidInput)
	}

	if err := s.store.UpdateGroup(ctx, &models.Group{ID: groupID, Name: name, Currency: currency}); err != nil {
		return nil, err
	}

	s.logger.Info("group updated", "group_id", groupID)
	return s.store.GetGroup(ctx, groupID)
}

// DeleteGroup removes a group and all of its ledger history.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) error {
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	s.logger.Info("group deleted", "group_id", groupID)
	return nil
}

// AddMembers invites members to the group by email. Emails already present
// are skipped; an invited email that belongs to a registered user is linked
// to their account.
func (s *GroupService) AddMembers(ctx context.Context, groupID string, members []models.Member) (*models.Group, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: no members given", ErrInvalidInput)
	}
	for i, m := range members {
		if m.Email == "" {
			return nil, fmt.Errorf("%w: every member needs an email", ErrInvalidInput)
		}
		// Adopt the account id of an already-registered user.
		if m.AccountID == "" {
			if user, err := s.store.GetUserByEmail(ctx, m.Email); err == nil {
				members[i].AccountID = user.ID
				if members[i].DisplayName == "" {
					members[i].DisplayName = user.DisplayName
				}
			}
		}
	}

	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.store.AddGroupMembers(ctx, groupID, members); err != nil {
		s.logger.Error("add members failed", "group_id", groupID, "error", err)
		return nil, err
	}

	s.logger.Info("members added", "group_id", groupID, "count", len(members))
	return s.store.GetGroup(ctx, groupID)
}
