// Package memory is a process-local store with the same contract as the Postgres
// repository. It backs the "memory" database driver and the HTTP tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"verm_airdrop/internal/model"
	"verm_airdrop/internal/repository"
)

type eventKey struct {
	code    string
	referee string
}

type Store struct {
	mu  sync.Mutex
	now func() time.Time

	nextRegistrationID int64
	nextEventID        int64

	registrations map[string]*model.Registration // by wallet
	emails        map[string]string              // lower(email) -> wallet
	referrals     map[string]*model.ReferralRecord
	codes         map[string]string // code -> wallet
	events        map[eventKey]*model.ReferralEvent
}

func New() *Store {
	return &Store{
		now:           time.Now,
		registrations: make(map[string]*model.Registration),
		emails:        make(map[string]string),
		referrals:     make(map[string]*model.ReferralRecord),
		codes:         make(map[string]string),
		events:        make(map[eventKey]*model.ReferralEvent),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) CreateRegistration(_ context.Context, reg *model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(reg.Email)
	if _, ok := s.registrations[reg.WalletAddress]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := s.emails[email]; ok {
		return repository.ErrDuplicate
	}

	s.nextRegistrationID++
	reg.ID = s.nextRegistrationID
	reg.Timestamp = s.now().UTC()

	stored := *reg
	s.registrations[reg.WalletAddress] = &stored
	s.emails[email] = reg.WalletAddress

	return nil
}

func (s *Store) GetRegistrationByWallet(_ context.Context, wallet string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[wallet]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *reg
	return &out, nil
}

func (s *Store) GetRegistrationByEmail(_ context.Context, email string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *s.registrations[wallet]
	return &out, nil
}

// UpdateVerification merges reg into the stored row under the lock, mirroring the
// monotone update the SQL store performs.
func (s *Store) UpdateVerification(_ context.Context, reg *model.Registration) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.registrations[reg.WalletAddress]
	if !ok {
		return nil, repository.ErrNotFound
	}

	stored.TwitterFollowed = stored.TwitterFollowed || reg.TwitterFollowed
	stored.TelegramJoined = stored.TelegramJoined || reg.TelegramJoined
	stored.TweetVerified = stored.TweetVerified || reg.TweetVerified
	if reg.FriendsInvited > stored.FriendsInvited {
		stored.FriendsInvited = reg.FriendsInvited
	}
	if reg.TweetURL != nil {
		url := *reg.TweetURL
		stored.TweetURL = &url
	}
	stored.SocialVerified = stored.SocialVerified || reg.SocialVerified
	stored.RecomputeEligibility()

	out := *stored
	return &out, nil
}

func (s *Store) GetRegistrationStats(context.Context) (*model.RegistrationStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &model.RegistrationStats{TotalRegistrations: len(s.registrations)}
	for _, reg := range s.registrations {
		if reg.SocialVerified {
			stats.VerifiedUsers++
		}
		if reg.IsVermHolder {
			stats.VermHolders++
		}
		if reg.BonusEligible {
			stats.BonusEligible++
		}
	}
	return stats, nil
}

func (s *Store) GetReferralByWallet(_ context.Context, wallet string) (*model.ReferralRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.referrals[wallet]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (s *Store) GetReferralByCode(_ context.Context, code string) (*model.ReferralRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.codes[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *s.referrals[wallet]
	return &out, nil
}

func (s *Store) CreateReferral(_ context.Context, rec *model.ReferralRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.referrals[rec.ReferrerWalletAddress]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := s.codes[rec.ReferralCode]; ok {
		return repository.ErrDuplicate
	}

	rec.CreatedAt = s.now().UTC()
	stored := *rec
	s.referrals[rec.ReferrerWalletAddress] = &stored
	s.codes[rec.ReferralCode] = rec.ReferrerWalletAddress

	return nil
}

func (s *Store) CreateReferralEvent(_ context.Context, ev *model.ReferralEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.codes[ev.ReferralCode]; !ok {
		return repository.ErrNotFound
	}
	key := eventKey{code: ev.ReferralCode, referee: ev.RefereeWalletAddress}
	if _, ok := s.events[key]; ok {
		return repository.ErrDuplicate
	}

	s.nextEventID++
	ev.ID = s.nextEventID
	ev.CreatedAt = s.now().UTC()
	stored := *ev
	s.events[key] = &stored

	return nil
}

func (s *Store) SyncReferralTotal(_ context.Context, referrer string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.referrals[referrer]
	if !ok {
		return 0, repository.ErrNotFound
	}

	count := 0
	for _, ev := range s.events {
		if ev.ReferrerWalletAddress == referrer {
			count++
		}
	}
	if count > rec.TotalReferred {
		rec.TotalReferred = count
	}

	return rec.TotalReferred, nil
}
