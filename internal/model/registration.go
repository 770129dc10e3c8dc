package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequiredFriendsInvited is the referral threshold for social verification.
const RequiredFriendsInvited = 1

type Registration struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Email         string    `json:"email"`
	Twitter       *string   `json:"twitter"`
	Telegram      *string   `json:"telegram"`
	WalletAddress string    `json:"wallet_address"`
	TweetURL      *string   `json:"tweet_url"`

	IsVermHolder bool            `json:"is_verm_holder"`
	VermBalance  decimal.Decimal `json:"verm_balance"`

	TwitterFollowed bool `json:"twitter_followed"`
	TelegramJoined  bool `json:"telegram_joined"`
	TweetVerified   bool `json:"tweet_verified"`
	FriendsInvited  int  `json:"friends_invited"`

	SocialVerified bool `json:"social_verified"`
	BonusEligible  bool `json:"bonus_eligible"`
}

type RegistrationRequest struct {
	Email          string  `json:"email" validate:"required,email,max=254"`
	Twitter        *string `json:"twitter" validate:"omitempty,handle"`
	Telegram       *string `json:"telegram" validate:"omitempty,handle"`
	WalletAddress  string  `json:"wallet_address" validate:"required,wallet"`
	// ReferredByCode is checked when the referral is tracked; a malformed code never blocks registration.
	ReferredByCode *string `json:"referred_by_code"`
}

// VerificationUpdate is a partial update: nil fields leave stored state untouched.
type VerificationUpdate struct {
	WalletAddress   string  `json:"wallet_address" validate:"required,wallet"`
	TwitterFollowed *bool   `json:"twitter_followed"`
	TelegramJoined  *bool   `json:"telegram_joined"`
	TweetVerified   *bool   `json:"tweet_verified"`
	TweetURL        *string `json:"tweet_url" validate:"omitempty,tweeturl"`
	FriendsInvited  *int    `json:"friends_invited" validate:"omitempty,min=0,max=10"`
}

// ApplyVerification merges u into r. Boolean steps only move from false to true and
// friends_invited keeps the highest value seen, so the merge is idempotent and the
// order of disjoint updates does not matter.
func (r *Registration) ApplyVerification(u VerificationUpdate) {
	if u.TwitterFollowed != nil && *u.TwitterFollowed {
		r.TwitterFollowed = true
	}
	if u.TelegramJoined != nil && *u.TelegramJoined {
		r.TelegramJoined = true
	}
	if u.TweetVerified != nil && *u.TweetVerified {
		r.TweetVerified = true
	}
	if u.FriendsInvited != nil && *u.FriendsInvited > r.FriendsInvited {
		r.FriendsInvited = *u.FriendsInvited
	}
	if u.TweetURL != nil {
		url := *u.TweetURL
		r.TweetURL = &url
	}

	r.RecomputeEligibility()
}

// RecomputeEligibility derives social_verified and bonus_eligible from the source flags.
// social_verified never goes back to false once set.
func (r *Registration) RecomputeEligibility() {
	r.SocialVerified = r.SocialVerified || (r.TwitterFollowed &&
		r.TelegramJoined &&
		r.TweetVerified &&
		r.FriendsInvited >= RequiredFriendsInvited)
	r.BonusEligible = r.SocialVerified && r.IsVermHolder
}

type RegistrationStats struct {
	TotalRegistrations int `json:"total_registrations"`
	VerifiedUsers      int `json:"verified_users"`
	VermHolders        int `json:"verm_holders"`
	BonusEligible      int `json:"bonus_eligible"`
}
