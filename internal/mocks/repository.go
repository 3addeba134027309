package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/catalog-bot/internal/model"
)

// CatalogRepository is a mock type for the CatalogRepository type
type CatalogRepository struct {
	mock.Mock
}

func (_m *CatalogRepository) LoadCatalog(ctx context.Context) (model.Catalog, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(model.Catalog), ret.Error(1)
}

func (_m *CatalogRepository) SaveCatalog(ctx context.Context, catalog model.Catalog) error {
	ret := _m.Called(ctx, catalog)
	return ret.Error(0)
}

// NewCatalogRepository creates a new instance of CatalogRepository. It also registers a cleanup function to assert the mocks expectations.
func NewCatalogRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogRepository {
	m := &CatalogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ConfigRepository is a mock type for the ConfigRepository type
type ConfigRepository struct {
	mock.Mock
}

func (_m *ConfigRepository) LoadConfig(ctx context.Context) (model.Config, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(model.Config), ret.Error(1)
}

func (_m *ConfigRepository) SaveConfig(ctx context.Context, config model.Config) error {
	ret := _m.Called(ctx, config)
	return ret.Error(0)
}

// NewConfigRepository creates a new instance of ConfigRepository. It also registers a cleanup function to assert the mocks expectations.
func NewConfigRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ConfigRepository {
	m := &ConfigRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// AccessCodeRepository is a mock type for the AccessCodeRepository type
type AccessCodeRepository struct {
	mock.Mock
}

func (_m *AccessCodeRepository) Create(ctx context.Context, code model.AccessCode) error {
	ret := _m.Called(ctx, code)
	return ret.Error(0)
}

func (_m *AccessCodeRepository) GetByCode(ctx context.Context, code string) (model.AccessCode, error) {
	ret := _m.Called(ctx, code)
	return ret.Get(0).(model.AccessCode), ret.Error(1)
}

func (_m *AccessCodeRepository) ListActive(ctx context.Context, now time.Time) ([]model.AccessCode, error) {
	ret := _m.Called(ctx, now)
	var codes []model.AccessCode
	if v := ret.Get(0); v != nil {
		codes = v.([]model.AccessCode)
	}
	return codes, ret.Error(1)
}

func (_m *AccessCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ret := _m.Called(ctx, now)
	return ret.Get(0).(int64), ret.Error(1)
}

// NewAccessCodeRepository creates a new instance of AccessCodeRepository. It also registers a cleanup function to assert the mocks expectations.
func NewAccessCodeRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccessCodeRepository {
	m := &AccessCodeRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
