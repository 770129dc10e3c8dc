package memory

import (
	"context"
	"testing"

	"verm_airdrop/internal/model"
	"verm_airdrop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wallet = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

func TestCreateRegistration_Uniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.CreateRegistration(ctx, &model.Registration{Email: "a@b.io", WalletAddress: wallet}))

	err := s.CreateRegistration(ctx, &model.Registration{Email: "other@b.io", WalletAddress: wallet})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	err = s.CreateRegistration(ctx, &model.Registration{Email: "A@B.IO", WalletAddress: "other"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	reg, err := s.GetRegistrationByEmail(ctx, "A@b.io")
	require.NoError(t, err)
	assert.Equal(t, wallet, reg.WalletAddress)
	assert.Equal(t, int64(1), reg.ID)
}

func TestGetRegistration_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateRegistration(ctx, &model.Registration{Email: "a@b.io", WalletAddress: wallet}))

	reg, err := s.GetRegistrationByWallet(ctx, wallet)
	require.NoError(t, err)
	reg.TwitterFollowed = true

	again, err := s.GetRegistrationByWallet(ctx, wallet)
	require.NoError(t, err)
	assert.False(t, again.TwitterFollowed)
}

func TestUpdateVerification_Monotone(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateRegistration(ctx, &model.Registration{
		Email:          "a@b.io",
		WalletAddress:  wallet,
		IsVermHolder:   true,
		FriendsInvited: 3,
		TweetVerified:  true,
	}))

	updated, err := s.UpdateVerification(ctx, &model.Registration{
		WalletAddress:   wallet,
		TwitterFollowed: true,
		TelegramJoined:  true,
		FriendsInvited:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.FriendsInvited)
	assert.True(t, updated.SocialVerified)
	assert.True(t, updated.BonusEligible)

	_, err = s.UpdateVerification(ctx, &model.Registration{WalletAddress: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReferralEvents(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.CreateReferral(ctx, &model.ReferralRecord{ReferrerWalletAddress: wallet, ReferralCode: "abcd1"}))
	assert.ErrorIs(t, s.CreateReferral(ctx, &model.ReferralRecord{ReferrerWalletAddress: "x", ReferralCode: "abcd1"}), repository.ErrDuplicate)

	ev := &model.ReferralEvent{ReferralCode: "abcd1", ReferrerWalletAddress: wallet, RefereeWalletAddress: "r1"}
	require.NoError(t, s.CreateReferralEvent(ctx, ev))
	assert.ErrorIs(t, s.CreateReferralEvent(ctx, &model.ReferralEvent{
		ReferralCode: "abcd1", ReferrerWalletAddress: wallet, RefereeWalletAddress: "r1",
	}), repository.ErrDuplicate)
	require.NoError(t, s.CreateReferralEvent(ctx, &model.ReferralEvent{
		ReferralCode: "abcd1", ReferrerWalletAddress: wallet, RefereeWalletAddress: "r2",
	}))

	total, err := s.SyncReferralTotal(ctx, wallet)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	rec, err := s.GetReferralByCode(ctx, "abcd1")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.TotalReferred)
}

func TestGetRegistrationStats(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateRegistration(ctx, &model.Registration{
		Email: "a@b.io", WalletAddress: "w1", IsVermHolder: true, SocialVerified: true, BonusEligible: true,
	}))
	require.NoError(t, s.CreateRegistration(ctx, &model.Registration{Email: "c@d.io", WalletAddress: "w2"}))

	stats, err := s.GetRegistrationStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &model.RegistrationStats{
		TotalRegistrations: 2,
		VerifiedUsers:      1,
		VermHolders:        1,
		BonusEligible:      1,
	}, stats)
}
