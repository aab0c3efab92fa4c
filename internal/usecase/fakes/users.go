package fakes

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/skillswap-backend/internal/domain/badge"
	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

type UserRepository struct{ db *DB }

func (db *DB) Users() *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.ExternalID == u.ExternalID {
			return apperror.New(apperror.ErrCodeConflict, "пользователь уже существует")
		}
	}
	r.db.users[u.ID] = cloneUser(u)
	return nil
}

// Update не трогает карму и лучшее место: ими управляют отдельные атомарные операции.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.users[u.ID]
	if !ok {
		return apperror.ErrUserNotFound
	}
	c := cloneUser(u)
	c.Karma = existing.Karma
	c.BestRank = existing.BestRank
	r.db.users[u.ID] = c
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ExternalID == externalID {
			return cloneUser(u), nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

type SkillRepository struct{ db *DB }

func (db *DB) Skills() *SkillRepository { return &SkillRepository{db: db} }

func (r *SkillRepository) Add(ctx context.Context, s *entity.Skill) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := skillKey{s.UserID, s.Name}
	if _, ok := r.db.skills[key]; ok {
		return apperror.New(apperror.ErrCodeConflict, "навык уже добавлен")
	}
	r.db.skills[key] = cloneSkill(s)
	return nil
}

func (r *SkillRepository) Remove(ctx context.Context, userID uuid.UUID, name string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := skillKey{userID, name}
	if _, ok := r.db.skills[key]; !ok {
		return apperror.ErrSkillNotFound
	}
	delete(r.db.skills, key)
	return nil
}

func (r *SkillRepository) Find(ctx context.Context, userID uuid.UUID, name string) (*entity.Skill, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.skills[skillKey{userID, name}]
	if !ok {
		return nil, apperror.ErrSkillNotFound
	}
	return cloneSkill(s), nil
}

func (r *SkillRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Skill, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var result []*entity.Skill
	for key, s := range r.db.skills {
		if key.userID == userID {
			result = append(result, cloneSkill(s))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *SkillRepository) AddEndorsement(ctx context.Context, userID uuid.UUID, skillName string, endorserID uuid.UUID) (int, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if userID == endorserID {
		return 0, false, apperror.ErrSelfEndorsement
	}
	s, ok := r.db.skills[skillKey{userID, skillName}]
	if !ok {
		return 0, false, apperror.ErrSkillNotFound
	}
	if s.IsEndorsedBy(endorserID) {
		return len(s.Endorsements), false, nil
	}
	s.Endorsements = append(s.Endorsements, endorserID)
	return len(s.Endorsements), true, nil
}

func (r *SkillRepository) RemoveEndorsement(ctx context.Context, userID uuid.UUID, skillName string, endorserID uuid.UUID) (int, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.skills[skillKey{userID, skillName}]
	if !ok {
		return 0, false, apperror.ErrSkillNotFound
	}
	for i, id := range s.Endorsements {
		if id == endorserID {
			s.Endorsements = append(s.Endorsements[:i], s.Endorsements[i+1:]...)
			return len(s.Endorsements), true, nil
		}
	}
	return len(s.Endorsements), false, nil
}

// UserBadgeRepository позволяет подставить ошибку для конкретного значка через FailOn.
type UserBadgeRepository struct {
	db     *DB
	FailOn map[string]error
	Calls  int
}

func (db *DB) Badges() *UserBadgeRepository {
	return &UserBadgeRepository{db: db, FailOn: map[string]error{}}
}

func (r *UserBadgeRepository) Award(ctx context.Context, userID uuid.UUID, badgeID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.Calls++
	if err := r.FailOn[badgeID]; err != nil {
		return false, err
	}
	owned, ok := r.db.badges[userID]
	if !ok {
		owned = make(map[string]time.Time)
		r.db.badges[userID] = owned
	}
	if _, exists := owned[badgeID]; exists {
		return false, nil
	}
	owned[badgeID] = time.Now()
	return true, nil
}

func (r *UserBadgeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.UserBadge, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	result := make([]entity.UserBadge, 0)
	for id, at := range r.db.badges[userID] {
		result = append(result, entity.UserBadge{UserID: userID, BadgeID: id, AwardedAt: at})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BadgeID < result[j].BadgeID })
	return result, nil
}

// StatsRepository отдаёт заранее заданные снимки, дополняя их выданными значками.
type StatsRepository struct {
	db    *DB
	Stats map[uuid.UUID]badge.Stats
	Err   error
}

func (db *DB) Stats() *StatsRepository {
	return &StatsRepository{db: db, Stats: map[uuid.UUID]badge.Stats{}}
}

func (r *StatsRepository) Load(ctx context.Context, userID uuid.UUID) (badge.Stats, error) {
	if r.Err != nil {
		return badge.Stats{}, r.Err
	}
	s := r.Stats[userID]
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[userID]; ok {
		if s.Karma == 0 {
			s.Karma = u.Karma
		}
		if s.BestRank == 0 && u.BestRank != nil {
			s.BestRank = *u.BestRank
		}
	}
	for id := range r.db.badges[userID] {
		s = s.WithEarned(id)
	}
	return s, nil
}

type KarmaRepository struct{ db *DB }

func (db *DB) KarmaLedger() *KarmaRepository { return &KarmaRepository{db: db} }

func (r *KarmaRepository) Award(ctx context.Context, userID, requestID uuid.UUID, delta int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.awardLocked(userID, requestID, delta)
}

func (db *DB) awardLocked(userID, requestID uuid.UUID, delta int) error {
	u, ok := db.users[userID]
	if !ok {
		return apperror.ErrUserNotFound
	}
	key := ledgerKey{requestID, userID}
	if _, exists := db.ledger[key]; exists {
		return apperror.ErrKarmaAlreadyAwarded
	}
	db.ledger[key] = delta
	u.Karma += delta
	return nil
}

func (r *KarmaRepository) GetKarma(ctx context.Context, userID uuid.UUID) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[userID]
	if !ok {
		return 0, apperror.ErrUserNotFound
	}
	return u.Karma, nil
}

func (r *KarmaRepository) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.rankedLocked(limit, false), nil
}

func (db *DB) rankedLocked(limit int, earnersOnly bool) []repository.LeaderboardEntry {
	users := make([]*entity.User, 0, len(db.users))
	for _, u := range db.users {
		if earnersOnly && u.Karma <= 0 {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Karma != users[j].Karma {
			return users[i].Karma > users[j].Karma
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	result := make([]repository.LeaderboardEntry, len(users))
	for i, u := range users {
		result[i] = repository.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			Karma:       u.Karma,
			JoinedAt:    u.CreatedAt,
		}
	}
	return result
}

func (r *KarmaRepository) UpdateBestRanks(ctx context.Context, limit int) ([]uuid.UUID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var improved []uuid.UUID
	for _, e := range r.db.rankedLocked(limit, true) {
		u := r.db.users[e.UserID]
		if u.BestRank == nil || e.Rank < *u.BestRank {
			rank := e.Rank
			u.BestRank = &rank
			improved = append(improved, u.ID)
		}
	}
	return improved, nil
}
