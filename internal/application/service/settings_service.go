package service

import (
	"context"
	"sort"
	"sync"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// SettingsService owns the store settings singleton. The row is read once
// and served from memory; every caller gets its own copy.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	log          logrus.FieldLogger

	mu      sync.RWMutex
	current *entity.StoreSettings
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, log logrus.FieldLogger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		log:          log,
	}
}

// Snapshot returns the current settings.
func (s *SettingsService) Snapshot(ctx context.Context) (*entity.StoreSettings, error) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur != nil {
		return cur.Clone(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		settings, err := s.settingsRepo.Get(ctx)
		if err != nil {
			return nil, err
		}
		if settings == nil {
			return nil, apperror.NewNotFoundError("Store settings")
		}
		s.current = settings
	}
	return s.current.Clone(), nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	StoreName      string
	Logo           string
	StoreAddress   string
	StoreContact   string
	GSTAvailable   bool
	GSTNumber      string
	FSSAIAvailable bool
	FSSAINumber    string
	StockUpdate    bool
	TaxStatus      bool
	SGST           decimal.Decimal
	CGST           decimal.Decimal
	IGST           decimal.Decimal
	AutoPrintBill  bool
	AutoPrintKOT   bool
	AutoPrintToken bool
}

// UpdateSettings replaces the settings row and the cached snapshot.
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	var fieldErrors []apperror.FieldError
	if input.StoreName == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "storeName", Message: "is required"})
	}
	for field, rate := range map[string]decimal.Decimal{"sgst": input.SGST, "cgst": input.CGST, "igst": input.IGST} {
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: "must be between 0 and 100"})
		}
	}
	if len(fieldErrors) > 0 {
		sort.Slice(fieldErrors, func(i, j int) bool { return fieldErrors[i].Field < fieldErrors[j].Field })
		return nil, apperror.NewValidationError("", fieldErrors...)
	}

	settings := &entity.StoreSettings{
		ID:             entity.StoreSettingsID,
		StoreName:      input.StoreName,
		Logo:           input.Logo,
		StoreAddress:   input.StoreAddress,
		StoreContact:   input.StoreContact,
		GSTAvailable:   input.GSTAvailable,
		GSTNumber:      input.GSTNumber,
		FSSAIAvailable: input.FSSAIAvailable,
		FSSAINumber:    input.FSSAINumber,
		StockUpdate:    input.StockUpdate,
		TaxStatus:      input.TaxStatus,
		SGST:           input.SGST,
		CGST:           input.CGST,
		IGST:           input.IGST,
		AutoPrintBill:  input.AutoPrintBill,
		AutoPrintKOT:   input.AutoPrintKOT,
		AutoPrintToken: input.AutoPrintToken,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.current = settings
	s.log.WithFields(logrus.Fields{
		"stock_update": settings.StockUpdate,
		"tax_status":   settings.TaxStatus,
	}).Info("store settings updated")
	return settings.Clone(), nil
}
