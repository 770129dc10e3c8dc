package service

import (
	"context"
	"errors"

	"verm_airdrop/internal/model"
	"verm_airdrop/internal/repository"
	"verm_airdrop/pkg/apperrors"

	"github.com/shopspring/decimal"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrWalletRegistered     = errors.New("wallet address already registered")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrReferralCodeTaken    = errors.New("no free referral code for wallet")
)

type Service struct {
	*RegistrationService
	*VerificationService
	*ReferralService
}

func NewService(
	registrationService *RegistrationService,
	verificationService *VerificationService,
	referralService *ReferralService,
) *Service {
	return &Service{
		RegistrationService: registrationService,
		VerificationService: verificationService,
		ReferralService:     referralService,
	}
}

type RegistrationServiceI interface {
	Register(ctx context.Context, req model.RegistrationRequest) (*model.Registration, error)
	GetRegistration(ctx context.Context, wallet string) (*model.Registration, error)
	GetStats(ctx context.Context) (*model.RegistrationStats, error)
}

type RegistrationRepository interface {
	CreateRegistration(ctx context.Context, reg *model.Registration) error
	GetRegistrationByWallet(ctx context.Context, wallet string) (*model.Registration, error)
	GetRegistrationByEmail(ctx context.Context, email string) (*model.Registration, error)
	GetRegistrationStats(ctx context.Context) (*model.RegistrationStats, error)
}

type VerificationServiceI interface {
	UpdateVerification(ctx context.Context, update model.VerificationUpdate) (*model.Registration, error)
}

type VerificationRepository interface {
	GetRegistrationByWallet(ctx context.Context, wallet string) (*model.Registration, error)
	UpdateVerification(ctx context.Context, reg *model.Registration) (*model.Registration, error)
}

type ReferralServiceI interface {
	GetOrCreate(ctx context.Context, wallet string) (*model.ReferralRecord, error)
	TrackEvent(ctx context.Context, req model.TrackReferralRequest) (bool, error)
}

type ReferralRepository interface {
	GetReferralByWallet(ctx context.Context, wallet string) (*model.ReferralRecord, error)
	GetReferralByCode(ctx context.Context, code string) (*model.ReferralRecord, error)
	CreateReferral(ctx context.Context, rec *model.ReferralRecord) error
	CreateReferralEvent(ctx context.Context, ev *model.ReferralEvent) error
	SyncReferralTotal(ctx context.Context, referrer string) (int, error)
}

// BalanceChecker reports whether a wallet holds the token and how much of it.
type BalanceChecker interface {
	CheckBalance(ctx context.Context, wallet string) (bool, decimal.Decimal, error)
}

// NoBalanceChecker is used until an on-chain lookup exists. Every wallet is a non-holder.
type NoBalanceChecker struct{}

func (NoBalanceChecker) CheckBalance(context.Context, string) (bool, decimal.Decimal, error) {
	return false, decimal.Zero, nil
}

// storeError lifts a repository failure into the error taxonomy.
func storeError(err error) error {
	if errors.Is(err, repository.ErrUnavailable) {
		return apperrors.Unavailable(err)
	}
	return apperrors.Database(err)
}
