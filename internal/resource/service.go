package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UBelaid/SAgency4U/internal/resource/entity"
	"github.com/UBelaid/SAgency4U/internal/resource/repo"
)

// sentinel errors mapped to HTTP status codes in the handler
var (
	// ErrValidation covers missing or malformed payload fields.
	ErrValidation = errors.New("invalid input")
	// ErrForbidden covers both "not yours" and "does not exist". The two
	// cases are deliberately indistinguishable so record ids cannot be
	// enumerated across tenants.
	ErrForbidden = errors.New("forbidden")
)

// Store is the slice of repo.Repo the scoped policy depends on.
type Store interface {
	ListByOwner(ctx context.Context, kind entity.Kind, ownerID int64) ([]map[string]any, error)
	GetByIDAndOwner(ctx context.Context, kind entity.Kind, id, ownerID int64) (map[string]any, error)
	Insert(ctx context.Context, kind entity.Kind, ownerID int64, fields map[string]any) (int64, error)
	Update(ctx context.Context, kind entity.Kind, id int64, fields map[string]any) error
	Delete(ctx context.Context, kind entity.Kind, id int64) error
	ListRefs(ctx context.Context, table string, ownerID int64) ([]entity.Ref, error)
}

// Service enforces the per-tenant scoping policy for every resource kind:
// reads are owner-filtered, mutations are preceded by an existence+ownership
// probe, and creates stamp the caller's identity as owner.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the caller's records of the given kind. Ordering follows
// natural storage order; no sort is applied.
func (s *Service) List(ctx context.Context, kind entity.Kind, ownerID int64) ([]map[string]any, error) {
	return s.store.ListByOwner(ctx, kind, ownerID)
}

// Create validates the payload against the kind's required-field set and
// inserts it owned by ownerID. Optional fields absent from the payload are
// persisted as NULL.
func (s *Service) Create(ctx context.Context, kind entity.Kind, ownerID int64, payload map[string]any) (int64, error) {
	fields, err := validate(kind, payload)
	if err != nil {
		return 0, err
	}
	return s.store.Insert(ctx, kind, ownerID, fields)
}

// Update validates the payload, then probes the record by id under the
// caller's ownership before rewriting it. A record that is absent or owned
// by another identity fails with ErrForbidden and leaves no side effect.
func (s *Service) Update(ctx context.Context, kind entity.Kind, ownerID, id int64, payload map[string]any) error {
	fields, err := validate(kind, payload)
	if err != nil {
		return err
	}
	if err := s.probeOwnership(ctx, kind, id, ownerID); err != nil {
		return err
	}
	return s.store.Update(ctx, kind, id, fields)
}

// Delete probes ownership, then removes the record. Deleting an id twice
// fails the second time with ErrForbidden like any other missing record.
func (s *Service) Delete(ctx context.Context, kind entity.Kind, ownerID, id int64) error {
	if err := s.probeOwnership(ctx, kind, id, ownerID); err != nil {
		return err
	}
	return s.store.Delete(ctx, kind, id)
}

// Get returns one of the caller's records by id, or ErrForbidden.
func (s *Service) Get(ctx context.Context, kind entity.Kind, ownerID, id int64) (map[string]any, error) {
	row, err := s.store.GetByIDAndOwner(ctx, kind, id, ownerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return row, nil
}

// Refs returns the caller's {id, name} pairs for the given kind, used by
// the purchase and sale forms to populate product/supplier dropdowns.
func (s *Service) Refs(ctx context.Context, kind entity.Kind, ownerID int64) ([]entity.Ref, error) {
	return s.store.ListRefs(ctx, kind.Table, ownerID)
}

func (s *Service) probeOwnership(ctx context.Context, kind entity.Kind, id, ownerID int64) error {
	if _, err := s.store.GetByIDAndOwner(ctx, kind, id, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	return nil
}

// validate checks the required-field set and projects the payload onto the
// kind's columns. A required field is missing when its key is absent, JSON
// null, or an empty string; numeric zero counts as present. Unknown keys
// are dropped, so neither id nor user_id can be smuggled in.
func validate(kind entity.Kind, payload map[string]any) (map[string]any, error) {
	for _, col := range kind.Required {
		v, ok := payload[col]
		if !ok || v == nil {
			return nil, fmt.Errorf("%w: %s is required", ErrValidation, col)
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrValidation, col)
		}
	}

	fields := make(map[string]any, len(kind.Required)+len(kind.Optional))
	for _, col := range kind.Columns() {
		if v, ok := payload[col]; ok {
			fields[col] = v
		} else {
			fields[col] = nil
		}
	}
	return fields, nil
}
