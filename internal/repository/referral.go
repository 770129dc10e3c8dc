package repository

import (
	"context"
	"fmt"
	"time"

	"verm_airdrop/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const (
	referralsTable      = "vermairdrop_referrals"
	referralEventsTable = "vermairdrop_referral_events"
)

type referral struct {
	ReferrerWalletAddress string    `db:"referrer_wallet_address"`
	ReferralCode          string    `db:"referral_code"`
	TotalReferred         int       `db:"total_referred"`
	CreatedAt             time.Time `db:"created_at"`
}

func (r referral) toModel() *model.ReferralRecord {
	return &model.ReferralRecord{
		ReferrerWalletAddress: r.ReferrerWalletAddress,
		ReferralCode:          r.ReferralCode,
		TotalReferred:         r.TotalReferred,
		CreatedAt:             r.CreatedAt,
	}
}

func (r *Repository) GetReferralByWallet(ctx context.Context, wallet string) (*model.ReferralRecord, error) {
	return r.getReferral(ctx, squirrel.Eq{"referrer_wallet_address": wallet})
}

func (r *Repository) GetReferralByCode(ctx context.Context, code string) (*model.ReferralRecord, error) {
	return r.getReferral(ctx, squirrel.Eq{"referral_code": code})
}

func (r *Repository) getReferral(ctx context.Context, where squirrel.Sqlizer) (*model.ReferralRecord, error) {
	query, args, err := squirrel.
		Select("referrer_wallet_address", "referral_code", "total_referred", "created_at").
		From(referralsTable).
		Where(where).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build referral select query: %w", err)
	}

	var row referral
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		return nil, classify(err)
	}

	return row.toModel(), nil
}

// CreateReferral inserts a referral record. Either the wallet or the code being taken
// yields ErrDuplicate; callers tell the two apart by re-reading by wallet.
func (r *Repository) CreateReferral(ctx context.Context, rec *model.ReferralRecord) error {
	query, args, err := squirrel.
		Insert(referralsTable).
		Columns("referrer_wallet_address", "referral_code", "total_referred").
		Values(rec.ReferrerWalletAddress, rec.ReferralCode, rec.TotalReferred).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build referral insert query: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&rec.CreatedAt)
	if err != nil {
		return classify(err)
	}

	return nil
}

// CreateReferralEvent records that a referee used a code. A repeat of the same
// code and referee yields ErrDuplicate.
func (r *Repository) CreateReferralEvent(ctx context.Context, ev *model.ReferralEvent) error {
	query, args, err := squirrel.
		Insert(referralEventsTable).
		Columns("referral_code", "referrer_wallet_address", "referee_wallet_address").
		Values(ev.ReferralCode, ev.ReferrerWalletAddress, ev.RefereeWalletAddress).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build referral event insert query: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return classify(err)
	}

	return nil
}

// SyncReferralTotal sets total_referred from the event count and returns the stored total.
// The total never decreases, so a stale count from a racing request cannot roll it back.
func (r *Repository) SyncReferralTotal(ctx context.Context, referrer string) (int, error) {
	var total int
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		countQuery, countArgs, err := squirrel.
			Select("COUNT(*)").
			From(referralEventsTable).
			Where(squirrel.Eq{"referrer_wallet_address": referrer}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build referral count query: %w", err)
		}

		var count int
		err = tx.GetContext(ctx, &count, countQuery, countArgs...)
		if err != nil {
			return classify(err)
		}

		updateQuery, updateArgs, err := squirrel.
			Update(referralsTable).
			Set("total_referred", squirrel.Expr("GREATEST(total_referred, ?)", count)).
			Where(squirrel.Eq{"referrer_wallet_address": referrer}).
			Suffix("RETURNING total_referred").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build referral total update query: %w", err)
		}

		err = tx.GetContext(ctx, &total, updateQuery, updateArgs...)
		if err != nil {
			return classify(err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}
