package model

import "time"

type ReferralRecord struct {
	ReferrerWalletAddress string    `json:"referrer_wallet_address"`
	ReferralCode          string    `json:"referral_code"`
	TotalReferred         int       `json:"total_referred"`
	CreatedAt             time.Time `json:"created_at"`
}

type ReferralEvent struct {
	ID                    int64
	ReferralCode          string
	ReferrerWalletAddress string
	RefereeWalletAddress  string
	CreatedAt             time.Time
}

type TrackReferralRequest struct {
	ReferralCode         string `json:"referral_code" validate:"required,min=4,max=32,alphanum"`
	RefereeWalletAddress string `json:"referee_wallet_address" validate:"required,wallet"`
}
