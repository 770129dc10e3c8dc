package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"verm_airdrop/internal/model"
	"verm_airdrop/internal/repository"
	"verm_airdrop/internal/validation"
	"verm_airdrop/pkg/apperrors"
	"verm_airdrop/pkg/logger"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

const (
	codePrefixLen   = 4
	maxCodeAttempts = 3
)

// ReferralCode derives the shareable code for a wallet: a short lowercase prefix of the
// wallet followed by its xxhash in base 36. Attempt 0 is the canonical code; later
// attempts are only used when the canonical code already belongs to another wallet.
func ReferralCode(wallet string, attempt int) string {
	seed := wallet
	if attempt > 0 {
		seed = wallet + ":" + strconv.Itoa(attempt)
	}

	var b strings.Builder
	for _, r := range wallet {
		if b.Len() == codePrefixLen {
			break
		}
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}

	return strings.ToLower(b.String()) + strconv.FormatUint(xxhash.Sum64String(seed), 36)
}

type ReferralService struct {
	repo     ReferralRepository
	validate *validation.Validator
}

func NewReferralService(repo ReferralRepository, validate *validation.Validator) *ReferralService {
	return &ReferralService{
		repo:     repo,
		validate: validate,
	}
}

// GetOrCreate returns the referral record for wallet, creating it on first use.
// Losing a creation race to a concurrent call is not an error: the winner's record is returned.
func (s *ReferralService) GetOrCreate(ctx context.Context, wallet string) (*model.ReferralRecord, error) {
	wallet = strings.TrimSpace(wallet)
	if !validation.IsWalletAddress(wallet) {
		return nil, apperrors.Validation("Invalid wallet address format", apperrors.FieldError{
			Field:   "wallet",
			Message: "must be a base58 address of 32 to 44 characters",
			Code:    "wallet",
		})
	}

	rec, err := s.repo.GetReferralByWallet(ctx, wallet)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		rec = &model.ReferralRecord{
			ReferrerWalletAddress: wallet,
			ReferralCode:          ReferralCode(wallet, attempt),
		}

		err = s.repo.CreateReferral(ctx, rec)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, storeError(err)
		}

		// Either another request created this wallet's record, or the code is taken.
		existing, err := s.repo.GetReferralByWallet(ctx, wallet)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, storeError(err)
		}

		logger.Logger().Warn("Referral code collision, trying next candidate",
			zap.String("referral_code", rec.ReferralCode),
			zap.Int("attempt", attempt))
	}

	return nil, apperrors.Wrap(ErrReferralCodeTaken)
}

// TrackEvent credits referee to the owner of the code. It reports false without an
// error when the code is unknown or belongs to the referee. Repeating a tracked pair
// changes nothing.
func (s *ReferralService) TrackEvent(ctx context.Context, req model.TrackReferralRequest) (bool, error) {
	req.ReferralCode = strings.ToLower(strings.TrimSpace(req.ReferralCode))
	req.RefereeWalletAddress = strings.TrimSpace(req.RefereeWalletAddress)
	if err := s.validate.Struct(req); err != nil {
		return false, err
	}

	log := logger.Logger()

	rec, err := s.repo.GetReferralByCode(ctx, req.ReferralCode)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug("Unknown referral code", zap.String("referral_code", req.ReferralCode))
		return false, nil
	}
	if err != nil {
		return false, storeError(err)
	}

	if rec.ReferrerWalletAddress == req.RefereeWalletAddress {
		log.Debug("Ignoring self-referral", zap.String("referral_code", req.ReferralCode))
		return false, nil
	}

	err = s.repo.CreateReferralEvent(ctx, &model.ReferralEvent{
		ReferralCode:          rec.ReferralCode,
		ReferrerWalletAddress: rec.ReferrerWalletAddress,
		RefereeWalletAddress:  req.RefereeWalletAddress,
	})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return false, storeError(err)
	}

	// Sync even on a duplicate so a retry after a failed sync converges.
	if _, err := s.repo.SyncReferralTotal(ctx, rec.ReferrerWalletAddress); err != nil {
		return false, storeError(err)
	}

	return true, nil
}
