package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/go-playground/validator/v10"
)

type SettingsUseCase struct {
	settingsRepo SettingsRepository
	validate     *validator.Validate
}

func NewSettingsUC(settingsRepo SettingsRepository, validate *validator.Validate) *SettingsUseCase {
	return &SettingsUseCase{
		settingsRepo: settingsRepo,
		validate:     validate,
	}
}

// Get возвращает настройки магазина, создавая значения по умолчанию при первом обращении.
func (s *SettingsUseCase) Get(ctx context.Context) (*domain.ShopSettings, error) {
	const op = "SettingsUseCase.Get"

	settings, err := s.settingsRepo.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, e.ErrSettingsNotFound) {
		return nil, e.Wrap(op, err)
	}

	settings, err = s.settingsRepo.CreateDefault(ctx, domain.DefaultShopSettings())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return settings, nil
}

func (s *SettingsUseCase) Update(ctx context.Context, req *UpdateSettingsReq) (*domain.ShopSettings, error) {
	const op = "SettingsUseCase.Update"

	req.Name = strings.TrimSpace(req.Name)
	req.Icon = strings.TrimSpace(req.Icon)
	if err := s.validate.Struct(req); err != nil {
		return nil, e.Wrap(op, e.ErrSettingsRequired)
	}

	settings, err := s.settingsRepo.Upsert(ctx, &domain.ShopSettings{Name: req.Name, Icon: req.Icon})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return settings, nil
}
