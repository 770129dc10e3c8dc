package service

import (
	"context"
	"errors"
	"strings"

	"verm_airdrop/internal/model"
	"verm_airdrop/internal/repository"
	"verm_airdrop/internal/validation"
	"verm_airdrop/pkg/apperrors"
)

type VerificationService struct {
	repo     VerificationRepository
	validate *validation.Validator
}

func NewVerificationService(repo VerificationRepository, validate *validation.Validator) *VerificationService {
	return &VerificationService{
		repo:     repo,
		validate: validate,
	}
}

// UpdateVerification merges a partial update into the stored registration and returns
// the result. Steps already completed are never undone, so repeating an update is a no-op.
func (s *VerificationService) UpdateVerification(ctx context.Context, update model.VerificationUpdate) (*model.Registration, error) {
	update.WalletAddress = strings.TrimSpace(update.WalletAddress)
	if update.TweetURL != nil {
		url := strings.TrimSpace(*update.TweetURL)
		update.TweetURL = &url
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, err
	}

	current, err := s.repo.GetRegistrationByWallet(ctx, update.WalletAddress)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Registration not found", ErrRegistrationNotFound)
	}
	if err != nil {
		return nil, storeError(err)
	}

	current.ApplyVerification(update)

	updated, err := s.repo.UpdateVerification(ctx, current)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Registration not found", ErrRegistrationNotFound)
	}
	if err != nil {
		return nil, storeError(err)
	}

	return updated, nil
}
