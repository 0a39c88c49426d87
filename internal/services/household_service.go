package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contas/internal/core"
)

// HouseholdRepository is the storage surface the household service needs.
type HouseholdRepository interface {
	CreatePartner(ctx context.Context, p *core.Partner) error
	GetPartner(ctx context.Context, id string) (core.Partner, error)
	ListPartners(ctx context.Context) ([]core.Partner, error)
	GetHousehold(ctx context.Context) (core.Household, error)
	UpsertHousehold(ctx context.Context, partner1ID, partner2ID string, partner1Share float64) error
}

// HouseholdService manages the two partners and their split configuration.
type HouseholdService struct {
	repo HouseholdRepository
}

func NewHouseholdService(repo HouseholdRepository) *HouseholdService {
	return &HouseholdService{repo: repo}
}

func (s *HouseholdService) CreatePartner(ctx context.Context, name string) (core.Partner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Partner{}, errors.New("partner name cannot be empty")
	}
	p := core.Partner{Name: name}
	if err := s.repo.CreatePartner(ctx, &p); err != nil {
		return core.Partner{}, fmt.Errorf("create partner: %w", err)
	}
	return p, nil
}

func (s *HouseholdService) ListPartners(ctx context.Context) ([]core.Partner, error) {
	return s.repo.ListPartners(ctx)
}

// Get returns the configured household. Storage's not-found error passes
// through so callers can map it to a "not configured" response.
func (s *HouseholdService) Get(ctx context.Context) (core.Household, error) {
	return s.repo.GetHousehold(ctx)
}

// Configure sets or replaces the household configuration. Both partners
// must already exist.
func (s *HouseholdService) Configure(ctx context.Context, partner1ID, partner2ID string, partner1Share float64) (core.Household, error) {
	if partner1ID == partner2ID {
		return core.Household{}, core.ErrSamePartner
	}
	if partner1Share < 0 || partner1Share > 1 {
		return core.Household{}, core.ErrInvalidPartnerShare
	}

	p1, err := s.repo.GetPartner(ctx, partner1ID)
	if err != nil {
		return core.Household{}, fmt.Errorf("partner1: %w", err)
	}
	p2, err := s.repo.GetPartner(ctx, partner2ID)
	if err != nil {
		return core.Household{}, fmt.Errorf("partner2: %w", err)
	}

	h := core.Household{Partner1: p1, Partner2: p2, Partner1Share: partner1Share}
	if err := h.Validate(); err != nil {
		return core.Household{}, err
	}

	if err := s.repo.UpsertHousehold(ctx, partner1ID, partner2ID, partner1Share); err != nil {
		return core.Household{}, fmt.Errorf("upsert household: %w", err)
	}
	return h, nil
}
