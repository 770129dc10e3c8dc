package service

import (
	"context"
	"errors"
	"strings"

	"verm_airdrop/internal/metrics"
	"verm_airdrop/internal/model"
	"verm_airdrop/internal/repository"
	"verm_airdrop/internal/validation"
	"verm_airdrop/pkg/apperrors"
	"verm_airdrop/pkg/logger"

	"go.uber.org/zap"
)

type RegistrationService struct {
	repo      RegistrationRepository
	referrals ReferralServiceI
	balances  BalanceChecker
	validate  *validation.Validator
}

func NewRegistrationService(
	repo RegistrationRepository,
	referrals ReferralServiceI,
	balances BalanceChecker,
	validate *validation.Validator,
) *RegistrationService {
	if balances == nil {
		balances = NoBalanceChecker{}
	}
	return &RegistrationService{
		repo:      repo,
		referrals: referrals,
		balances:  balances,
		validate:  validate,
	}
}

// Register creates a registration for a new wallet and email. When either is already
// registered the returned error is a conflict carrying the stored record as the
// "registration" payload.
func (s *RegistrationService) Register(ctx context.Context, req model.RegistrationRequest) (*model.Registration, error) {
	req = trimRegistration(req)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	req = normalizeRegistration(req)

	if err := s.checkConflict(ctx, req.WalletAddress, req.Email); err != nil {
		return nil, err
	}

	reg := &model.Registration{
		Email:         req.Email,
		Twitter:       req.Twitter,
		Telegram:      req.Telegram,
		WalletAddress: req.WalletAddress,
	}

	holder, balance, err := s.balances.CheckBalance(ctx, req.WalletAddress)
	if err != nil {
		logger.Logger().Warn("Token balance check failed, registering as non-holder", zap.Error(err))
	} else {
		reg.IsVermHolder = holder
		reg.VermBalance = balance
	}
	reg.RecomputeEligibility()

	err = s.repo.CreateRegistration(ctx, reg)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent request won the insert. Report whichever key it took.
		if conflict := s.checkConflict(ctx, req.WalletAddress, req.Email); conflict != nil {
			return nil, conflict
		}
		metrics.RecordRegistration("conflict")
		return nil, apperrors.Conflict("Registration already exists", err)
	}
	if err != nil {
		return nil, storeError(err)
	}
	metrics.RecordRegistration("created")

	result := s.linkReferrals(context.WithoutCancel(ctx), reg.WalletAddress, req.ReferredByCode)
	result.report()

	return reg, nil
}

// checkConflict returns a conflict error when the wallet or the email is already registered.
func (s *RegistrationService) checkConflict(ctx context.Context, wallet, email string) error {
	existing, err := s.repo.GetRegistrationByWallet(ctx, wallet)
	if err == nil {
		metrics.RecordRegistration("conflict")
		return apperrors.Conflict("Wallet address already registered", ErrWalletRegistered).
			WithPayload("registration", existing)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return storeError(err)
	}

	existing, err = s.repo.GetRegistrationByEmail(ctx, email)
	if err == nil {
		metrics.RecordRegistration("conflict")
		return apperrors.Conflict("Email already registered", ErrEmailRegistered).
			WithPayload("registration", existing)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return storeError(err)
	}

	return nil
}

func (s *RegistrationService) GetRegistration(ctx context.Context, wallet string) (*model.Registration, error) {
	wallet = strings.TrimSpace(wallet)
	if !validation.IsWalletAddress(wallet) {
		return nil, apperrors.Validation("Invalid wallet address format", apperrors.FieldError{
			Field:   "wallet_address",
			Message: "must be a base58 address of 32 to 44 characters",
			Code:    "wallet",
		})
	}

	reg, err := s.repo.GetRegistrationByWallet(ctx, wallet)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Registration not found", ErrRegistrationNotFound)
	}
	if err != nil {
		return nil, storeError(err)
	}

	return reg, nil
}

func (s *RegistrationService) GetStats(ctx context.Context) (*model.RegistrationStats, error) {
	stats, err := s.repo.GetRegistrationStats(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return stats, nil
}

// ReferralLinkResult is the outcome of the referral work that follows a created
// registration. It never affects the registration response.
type ReferralLinkResult struct {
	Wallet     string
	RecordErr  error
	// ReferredBy is empty when the registration carried no referral code.
	ReferredBy string
	Tracked    bool
	TrackErr   error
}

// Complete reports whether every attempted side effect succeeded.
func (r ReferralLinkResult) Complete() bool {
	return r.RecordErr == nil && (r.ReferredBy == "" || (r.Tracked && r.TrackErr == nil))
}

func (r ReferralLinkResult) report() {
	log := logger.Logger()

	if r.RecordErr != nil {
		metrics.RecordReferralSideEffect("ensure_record", "failed")
		log.Warn("Registration created but referral record could not be ensured", zap.Error(r.RecordErr))
	} else {
		metrics.RecordReferralSideEffect("ensure_record", "ok")
	}

	if r.ReferredBy == "" {
		return
	}
	switch {
	case r.TrackErr != nil:
		metrics.RecordReferralSideEffect("track_event", "failed")
		log.Warn("Registration created but referral could not be tracked",
			zap.String("referral_code", r.ReferredBy),
			zap.Error(r.TrackErr))
	case !r.Tracked:
		metrics.RecordReferralSideEffect("track_event", "rejected")
		log.Warn("Registration created with a referral code that was not credited",
			zap.String("referral_code", r.ReferredBy))
	default:
		metrics.RecordReferralSideEffect("track_event", "ok")
	}
}

func (s *RegistrationService) linkReferrals(ctx context.Context, wallet string, referredBy *string) ReferralLinkResult {
	result := ReferralLinkResult{Wallet: wallet}
	if s.referrals == nil {
		return result
	}

	_, result.RecordErr = s.referrals.GetOrCreate(ctx, wallet)

	if referredBy != nil {
		result.ReferredBy = *referredBy
		result.Tracked, result.TrackErr = s.referrals.TrackEvent(ctx, model.TrackReferralRequest{
			ReferralCode:         *referredBy,
			RefereeWalletAddress: wallet,
		})
		if apperrors.IsKind(result.TrackErr, apperrors.KindValidation) {
			result.TrackErr = nil
		}
	}

	return result
}

// trimRegistration strips surrounding whitespace so validation sees the values as sent.
func trimRegistration(req model.RegistrationRequest) model.RegistrationRequest {
	req.Email = strings.TrimSpace(req.Email)
	req.WalletAddress = strings.TrimSpace(req.WalletAddress)
	req.Twitter = optional(req.Twitter, strings.TrimSpace)
	req.Telegram = optional(req.Telegram, strings.TrimSpace)
	req.ReferredByCode = optional(req.ReferredByCode, strings.TrimSpace)
	return req
}

// normalizeRegistration runs on a validated request, so handles carry at most one leading @.
func normalizeRegistration(req model.RegistrationRequest) model.RegistrationRequest {
	req.Email = strings.ToLower(req.Email)
	req.Twitter = normalizeHandle(req.Twitter)
	req.Telegram = normalizeHandle(req.Telegram)
	req.ReferredByCode = optional(req.ReferredByCode, strings.ToLower)
	return req
}

func normalizeHandle(handle *string) *string {
	return optional(handle, func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "@"))
	})
}

// optional trims s, maps it with fn and turns an empty result into nil.
func optional(s *string, fn func(string) string) *string {
	if s == nil {
		return nil
	}
	v := fn(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	return &v
}
