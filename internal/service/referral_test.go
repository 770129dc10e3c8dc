package service

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"verm_airdrop/internal/model"
	"verm_airdrop/internal/repository"
	"verm_airdrop/internal/repository/memory"
	"verm_airdrop/internal/service/mocks"
	"verm_airdrop/internal/validation"
	"verm_airdrop/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReferralCode(t *testing.T) {
	code := ReferralCode(walletA, 0)

	assert.Equal(t, code, ReferralCode(walletA, 0))
	assert.Regexp(t, regexp.MustCompile(`^9xqe[0-9a-z]+$`), code)
	assert.LessOrEqual(t, len(code), 32)
	assert.NotEqual(t, code, ReferralCode(walletB, 0))
	assert.NotEqual(t, code, ReferralCode(walletA, 1))
}

func TestReferralService_GetOrCreate(t *testing.T) {
	stored := &model.ReferralRecord{ReferrerWalletAddress: walletA, ReferralCode: "stored"}

	tests := []struct {
		name         string
		mockSetup    func(repo *mocks.MockReferralRepository)
		expectedCode string
	}{
		{
			name: "Existing record",
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("GetReferralByWallet", mock.Anything, walletA).Return(stored, nil)
			},
			expectedCode: "stored",
		},
		{
			name: "Created on first use",
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("GetReferralByWallet", mock.Anything, walletA).Return(nil, repository.ErrNotFound)
				repo.On("CreateReferral", mock.Anything, mock.Anything).Return(nil)
			},
			expectedCode: ReferralCode(walletA, 0),
		},
		{
			name: "Lost creation race",
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("GetReferralByWallet", mock.Anything, walletA).Return(nil, repository.ErrNotFound).Once()
				repo.On("CreateReferral", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
				repo.On("GetReferralByWallet", mock.Anything, walletA).Return(stored, nil).Once()
			},
			expectedCode: "stored",
		},
		{
			name: "Code owned by another wallet",
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("GetReferralByWallet", mock.Anything, walletA).Return(nil, repository.ErrNotFound)
				repo.On("CreateReferral", mock.Anything, mock.MatchedBy(func(rec *model.ReferralRecord) bool {
					return rec.ReferralCode == ReferralCode(walletA, 0)
				})).Return(repository.ErrDuplicate)
				repo.On("CreateReferral", mock.Anything, mock.MatchedBy(func(rec *model.ReferralRecord) bool {
					return rec.ReferralCode == ReferralCode(walletA, 1)
				})).Return(nil)
			},
			expectedCode: ReferralCode(walletA, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockReferralRepository{}
			tt.mockSetup(repo)
			svc := NewReferralService(repo, validation.New())

			rec, err := svc.GetOrCreate(context.Background(), walletA)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, rec.ReferralCode)
			repo.AssertExpectations(t)
		})
	}
}

func TestReferralService_GetOrCreate_Concurrent(t *testing.T) {
	store := memory.New()
	svc := NewReferralService(store, validation.New())

	const callers = 16
	codes := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := svc.GetOrCreate(context.Background(), walletA)
			if assert.NoError(t, err) {
				codes[i] = rec.ReferralCode
			}
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, ReferralCode(walletA, 0), code)
	}
}

func TestReferralService_GetOrCreate_InvalidWallet(t *testing.T) {
	svc := NewReferralService(&mocks.MockReferralRepository{}, validation.New())

	_, err := svc.GetOrCreate(context.Background(), "not a wallet")

	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestReferralService_TrackEvent(t *testing.T) {
	rec := &model.ReferralRecord{ReferrerWalletAddress: walletA, ReferralCode: "9xqeabc"}

	tests := []struct {
		name       string
		req        model.TrackReferralRequest
		mockSetup  func(repo *mocks.MockReferralRepository)
		expectedOK bool
	}{
		{
			name: "Unknown code",
			req:  model.TrackReferralRequest{ReferralCode: "nope1", RefereeWalletAddress: walletB},
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("GetReferralByCode", mock.Anything, "nope1").Return(nil, repository.ErrNotFound)
			},
		},
		{
			name: "Self referral",
			req:  model.TrackReferralRequest{ReferralCode: "9xqeabc", RefereeWalletAddress: walletA},
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("GetReferralByCode", mock.Anything, "9xqeabc").Return(rec, nil)
			},
		},
		{
			name: "Duplicate event still syncs",
			req:  model.TrackReferralRequest{ReferralCode: "9XQEABC", RefereeWalletAddress: walletB},
			mockSetup: func(repo *mocks.MockReferralRepository) {
				repo.On("GetReferralByCode", mock.Anything, "9xqeabc").Return(rec, nil)
				repo.On("CreateReferralEvent", mock.Anything, &model.ReferralEvent{
					ReferralCode:          "9xqeabc",
					ReferrerWalletAddress: walletA,
					RefereeWalletAddress:  walletB,
				}).Return(repository.ErrDuplicate)
				repo.On("SyncReferralTotal", mock.Anything, walletA).Return(1, nil)
			},
			expectedOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockReferralRepository{}
			tt.mockSetup(repo)
			svc := NewReferralService(repo, validation.New())

			ok, err := svc.TrackEvent(context.Background(), tt.req)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedOK, ok)
			repo.AssertExpectations(t)
		})
	}
}

func TestReferralService_TrackEvent_CountsOnce(t *testing.T) {
	store := memory.New()
	svc := NewReferralService(store, validation.New())
	ctx := context.Background()

	rec, err := svc.GetOrCreate(ctx, walletA)
	require.NoError(t, err)

	req := model.TrackReferralRequest{ReferralCode: rec.ReferralCode, RefereeWalletAddress: walletB}
	for i := 0; i < 2; i++ {
		ok, err := svc.TrackEvent(ctx, req)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	after, err := svc.GetOrCreate(ctx, walletA)
	require.NoError(t, err)
	assert.Equal(t, 1, after.TotalReferred)
}

func TestReferralService_TrackEvent_Validation(t *testing.T) {
	svc := NewReferralService(&mocks.MockReferralRepository{}, validation.New())

	_, err := svc.TrackEvent(context.Background(), model.TrackReferralRequest{})

	require.Error(t, err)
	assert.Len(t, apperrors.As(err).Fields, 2)
}
