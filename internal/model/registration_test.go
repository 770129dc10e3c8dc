package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestApplyVerification_PartialUpdatesCompose(t *testing.T) {
	first := VerificationUpdate{TwitterFollowed: boolPtr(true)}
	second := VerificationUpdate{
		TelegramJoined: boolPtr(true),
		TweetVerified:  boolPtr(true),
		FriendsInvited: intPtr(1),
	}

	forward := Registration{IsVermHolder: true}
	forward.ApplyVerification(first)
	assert.False(t, forward.SocialVerified)
	forward.ApplyVerification(second)

	backward := Registration{IsVermHolder: true}
	backward.ApplyVerification(second)
	backward.ApplyVerification(first)

	assert.True(t, forward.SocialVerified)
	assert.True(t, forward.BonusEligible)
	assert.Equal(t, forward, backward)
}

func TestApplyVerification_Idempotent(t *testing.T) {
	url := "https://x.com/someone/status/1234"
	update := VerificationUpdate{
		TwitterFollowed: boolPtr(true),
		TweetURL:        &url,
		FriendsInvited:  intPtr(3),
	}

	once := Registration{}
	once.ApplyVerification(update)

	twice := once
	twice.ApplyVerification(update)

	assert.Equal(t, once, twice)
}

func TestApplyVerification_NeverRegresses(t *testing.T) {
	r := Registration{}
	r.ApplyVerification(VerificationUpdate{
		TwitterFollowed: boolPtr(true),
		TelegramJoined:  boolPtr(true),
		TweetVerified:   boolPtr(true),
		FriendsInvited:  intPtr(2),
	})
	assert.True(t, r.SocialVerified)
	assert.False(t, r.BonusEligible)

	r.ApplyVerification(VerificationUpdate{
		TwitterFollowed: boolPtr(false),
		FriendsInvited:  intPtr(0),
	})

	assert.True(t, r.TwitterFollowed)
	assert.Equal(t, 2, r.FriendsInvited)
	assert.True(t, r.SocialVerified)
}
