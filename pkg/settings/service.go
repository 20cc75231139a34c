package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/curateproject/siteward/pkg/identity"
)

// ErrForbidden is returned when the acting principal may not change the
// target user's settings.
var ErrForbidden = errors.New("not allowed to manage user settings")

// scopingKeys are the settings only admins and supervisors may change.
var scopingKeys = map[string]bool{
	KeyLimitToGrantedSites: true,
	KeyLimitToOwnAssets:    true,
	KeyDefaultItemSites:    true,
	KeySitewardActive:      true,
}

// Service is the authorized settings-update surface. The scoping engine
// itself never writes settings; all mutation goes through here.
type Service struct {
	store Store
}

// NewService creates a settings service over a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// SetScopingFlag validates and stores a boolean scoping setting for the
// target user. Only a global admin or supervisor may change another user's
// scoping configuration; users cannot loosen their own scope.
func (s *Service) SetScopingFlag(ctx context.Context, actor *identity.Principal, targetUserID int64, key string, value interface{}) error {
	if !scopingKeys[key] {
		return fmt.Errorf("unknown scoping setting: %s", key)
	}
	if actor == nil || !actor.Role.CanManageSettings() {
		return ErrForbidden
	}

	parsed, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := s.store.Set(ctx, targetUserID, key, FormatBool(parsed)); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}

	return nil
}

// SetDefaultItemSites stores the default site list for a user. The value is
// stored verbatim; site id validation belongs to the host platform.
func (s *Service) SetDefaultItemSites(ctx context.Context, actor *identity.Principal, targetUserID int64, value string) error {
	if actor == nil || !actor.Role.CanManageSettings() {
		return ErrForbidden
	}

	if err := s.store.Set(ctx, targetUserID, KeyDefaultItemSites, value); err != nil {
		return fmt.Errorf("failed to store %s: %w", KeyDefaultItemSites, err)
	}

	return nil
}
