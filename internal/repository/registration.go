package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"verm_airdrop/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

const registrationsTable = "vermairdrop_registrations"

var registrationColumns = []string{
	"id",
	"created_at",
	"email",
	"twitter",
	"telegram",
	"wallet_address",
	"tweet_url",
	"is_verm_holder",
	"verm_balance",
	"twitter_followed",
	"telegram_joined",
	"tweet_verified",
	"friends_invited",
	"social_verified",
	"bonus_eligible",
}

type registration struct {
	ID              int64           `db:"id"`
	CreatedAt       time.Time       `db:"created_at"`
	Email           string          `db:"email"`
	Twitter         *string         `db:"twitter"`
	Telegram        *string         `db:"telegram"`
	WalletAddress   string          `db:"wallet_address"`
	TweetURL        *string         `db:"tweet_url"`
	IsVermHolder    bool            `db:"is_verm_holder"`
	VermBalance     decimal.Decimal `db:"verm_balance"`
	TwitterFollowed bool            `db:"twitter_followed"`
	TelegramJoined  bool            `db:"telegram_joined"`
	TweetVerified   bool            `db:"tweet_verified"`
	FriendsInvited  int             `db:"friends_invited"`
	SocialVerified  bool            `db:"social_verified"`
	BonusEligible   bool            `db:"bonus_eligible"`
}

func (r registration) toModel() *model.Registration {
	return &model.Registration{
		ID:              r.ID,
		Timestamp:       r.CreatedAt,
		Email:           r.Email,
		Twitter:         r.Twitter,
		Telegram:        r.Telegram,
		WalletAddress:   r.WalletAddress,
		TweetURL:        r.TweetURL,
		IsVermHolder:    r.IsVermHolder,
		VermBalance:     r.VermBalance,
		TwitterFollowed: r.TwitterFollowed,
		TelegramJoined:  r.TelegramJoined,
		TweetVerified:   r.TweetVerified,
		FriendsInvited:  r.FriendsInvited,
		SocialVerified:  r.SocialVerified,
		BonusEligible:   r.BonusEligible,
	}
}

type registrationStats struct {
	TotalRegistrations int `db:"total_registrations"`
	VerifiedUsers      int `db:"verified_users"`
	VermHolders        int `db:"verm_holders"`
	BonusEligible      int `db:"bonus_eligible"`
}

// CreateRegistration inserts reg and fills in the generated id and timestamp.
// A wallet or email that is already taken yields ErrDuplicate.
func (r *Repository) CreateRegistration(ctx context.Context, reg *model.Registration) error {
	query, args, err := squirrel.
		Insert(registrationsTable).
		SetMap(map[string]interface{}{
			"email":            reg.Email,
			"twitter":          reg.Twitter,
			"telegram":         reg.Telegram,
			"wallet_address":   reg.WalletAddress,
			"tweet_url":        reg.TweetURL,
			"is_verm_holder":   reg.IsVermHolder,
			"verm_balance":     reg.VermBalance,
			"twitter_followed": reg.TwitterFollowed,
			"telegram_joined":  reg.TelegramJoined,
			"tweet_verified":   reg.TweetVerified,
			"friends_invited":  reg.FriendsInvited,
			"social_verified":  reg.SocialVerified,
			"bonus_eligible":   reg.BonusEligible,
		}).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build registration insert query: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&reg.ID, &reg.Timestamp)
	if err != nil {
		return classify(err)
	}

	return nil
}

func (r *Repository) GetRegistrationByWallet(ctx context.Context, wallet string) (*model.Registration, error) {
	return r.getRegistration(ctx, squirrel.Eq{"wallet_address": wallet})
}

// GetRegistrationByEmail matches case-insensitively, same as the unique index.
func (r *Repository) GetRegistrationByEmail(ctx context.Context, email string) (*model.Registration, error) {
	return r.getRegistration(ctx, squirrel.Expr("lower(email) = lower(?)", email))
}

func (r *Repository) getRegistration(ctx context.Context, where squirrel.Sqlizer) (*model.Registration, error) {
	query, args, err := squirrel.
		Select(registrationColumns...).
		From(registrationsTable).
		Where(where).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build registration select query: %w", err)
	}

	var row registration
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		return nil, classify(err)
	}

	return row.toModel(), nil
}

// UpdateVerification merges the verification fields of reg into the stored row and
// returns the result. The merge runs against the current row inside the statement,
// so concurrent partial updates for one wallet never drop a step.
func (r *Repository) UpdateVerification(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	socialSQL := "social_verified OR ? OR ((twitter_followed OR ?) AND (telegram_joined OR ?)" +
		" AND (tweet_verified OR ?) AND GREATEST(friends_invited, ?) >= ?)"
	socialArgs := []interface{}{
		reg.SocialVerified,
		reg.TwitterFollowed,
		reg.TelegramJoined,
		reg.TweetVerified,
		reg.FriendsInvited,
		model.RequiredFriendsInvited,
	}

	query, args, err := squirrel.
		Update(registrationsTable).
		Set("twitter_followed", squirrel.Expr("twitter_followed OR ?", reg.TwitterFollowed)).
		Set("telegram_joined", squirrel.Expr("telegram_joined OR ?", reg.TelegramJoined)).
		Set("tweet_verified", squirrel.Expr("tweet_verified OR ?", reg.TweetVerified)).
		Set("friends_invited", squirrel.Expr("GREATEST(friends_invited, ?)", reg.FriendsInvited)).
		Set("tweet_url", squirrel.Expr("COALESCE(?, tweet_url)", reg.TweetURL)).
		Set("social_verified", squirrel.Expr(socialSQL, socialArgs...)).
		Set("bonus_eligible", squirrel.Expr("("+socialSQL+") AND is_verm_holder", socialArgs...)).
		Where(squirrel.Eq{"wallet_address": reg.WalletAddress}).
		Suffix("RETURNING " + strings.Join(registrationColumns, ", ")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build verification update query: %w", err)
	}

	var row registration
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		return nil, classify(err)
	}

	return row.toModel(), nil
}

func (r *Repository) GetRegistrationStats(ctx context.Context) (*model.RegistrationStats, error) {
	query, args, err := squirrel.
		Select(
			"COUNT(*) AS total_registrations",
			"COUNT(*) FILTER (WHERE social_verified) AS verified_users",
			"COUNT(*) FILTER (WHERE is_verm_holder) AS verm_holders",
			"COUNT(*) FILTER (WHERE bonus_eligible) AS bonus_eligible",
		).
		From(registrationsTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build registration stats query: %w", err)
	}

	var stats registrationStats
	err = r.db.GetContext(ctx, &stats, query, args...)
	if err != nil {
		return nil, classify(err)
	}

	return &model.RegistrationStats{
		TotalRegistrations: stats.TotalRegistrations,
		VerifiedUsers:      stats.VerifiedUsers,
		VermHolders:        stats.VermHolders,
		BonusEligible:      stats.BonusEligible,
	}, nil
}
