package mocks

import (
	"context"

	"verm_airdrop/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockRegistrationRepository serves both registration and verification services.
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) CreateRegistration(ctx context.Context, reg *model.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockRegistrationRepository) GetRegistrationByWallet(ctx context.Context, wallet string) (*model.Registration, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) GetRegistrationByEmail(ctx context.Context, email string) (*model.Registration, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) GetRegistrationStats(ctx context.Context) (*model.RegistrationStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RegistrationStats), args.Error(1)
}

func (m *MockRegistrationRepository) UpdateVerification(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) GetReferralByWallet(ctx context.Context, wallet string) (*model.ReferralRecord, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralRecord), args.Error(1)
}

func (m *MockReferralRepository) GetReferralByCode(ctx context.Context, code string) (*model.ReferralRecord, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralRecord), args.Error(1)
}

func (m *MockReferralRepository) CreateReferral(ctx context.Context, rec *model.ReferralRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockReferralRepository) CreateReferralEvent(ctx context.Context, ev *model.ReferralEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockReferralRepository) SyncReferralTotal(ctx context.Context, referrer string) (int, error) {
	args := m.Called(ctx, referrer)
	return args.Int(0), args.Error(1)
}

type MockReferralService struct {
	mock.Mock
}

func (m *MockReferralService) GetOrCreate(ctx context.Context, wallet string) (*model.ReferralRecord, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralRecord), args.Error(1)
}

func (m *MockReferralService) TrackEvent(ctx context.Context, req model.TrackReferralRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

type MockBalanceChecker struct {
	mock.Mock
}

func (m *MockBalanceChecker) CheckBalance(ctx context.Context, wallet string) (bool, decimal.Decimal, error) {
	args := m.Called(ctx, wallet)
	return args.Bool(0), args.Get(1).(decimal.Decimal), args.Error(2)
}
