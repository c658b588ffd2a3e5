// Package assets manages the stored resume and cover-letter payloads that the
// engine attaches to file fields. Assets live outside the engine core: the
// engine references them during a fill but never owns or mutates them.
package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/prathamesh/auto-apply/internal/memory"
	"github.com/prathamesh/auto-apply/internal/types"
)

// Store holds one asset slot per role, persisted as a JSON file.
type Store struct {
	path  string
	slots map[types.AssetRole]*types.StoredFileAsset
}

// Open loads the asset store at path, creating an empty one if missing.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		slots: make(map[types.AssetRole]*types.StoredFileAsset),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset store %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.slots); err != nil {
		return nil, fmt.Errorf("failed to parse asset store %s: %w", path, err)
	}
	return s, nil
}

// Get returns the asset registered for a role, if any.
func (s *Store) Get(role types.AssetRole) (*types.StoredFileAsset, bool) {
	asset, ok := s.slots[role]
	return asset, ok
}

// Register stores a new asset for a role and fans the filename out to every
// memory-key variant declared for that role in one batch, so textual
// "which file did you upload" answers stay in sync with the binary slot.
func (s *Store) Register(ctx context.Context, role types.AssetRole, asset *types.StoredFileAsset, mem memory.Store) error {
	variants, ok := types.RoleKeyVariants[role]
	if !ok {
		return fmt.Errorf("unknown asset role: %s", role)
	}
	if asset == nil || asset.Name == "" {
		return fmt.Errorf("asset for role %s has no name", role)
	}

	s.slots[role] = asset
	if err := s.flush(); err != nil {
		return err
	}

	if mem != nil {
		if err := mem.SetMany(ctx, variants, asset.Name); err != nil {
			return fmt.Errorf("failed to fan out %s keys: %w", role, err)
		}
	}
	return nil
}

// flush writes the slots to disk.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.slots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal asset store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write asset store: %w", err)
	}
	return nil
}

// RoleForLabel classifies a field label as a resume or cover-letter slot by
// token scan. Cover-letter tokens are checked first because labels like
// "cover letter / cv" should prefer the more specific role.
func RoleForLabel(label string) (types.AssetRole, bool) {
	lower := strings.ToLower(label)
	for _, token := range types.CoverLetterTokens {
		if strings.Contains(lower, token) {
			return types.RoleCoverLetter, true
		}
	}
	for _, token := range types.ResumeTokens {
		if strings.Contains(lower, token) {
			return types.RoleResume, true
		}
	}
	return "", false
}
