package badge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	badgecatalog "github.com/ignatzorin/skillswap-backend/internal/domain/badge"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/badge"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/fakes"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/karma"
)

func TestCheckAndAwardAll_AwardsEligible(t *testing.T) {
	db := fakes.NewDB()
	uc := badge.NewCheckAndAwardAllUseCase(db.Badges())
	userID := uuid.New()

	awarded := uc.Execute(context.Background(), userID, badgecatalog.Stats{UniqueHelped: 5})

	assert.ElementsMatch(t, []string{"first-help", "helper-5"}, awarded)
}

func TestCheckAndAwardAll_Idempotent(t *testing.T) {
	db := fakes.NewDB()
	repo := db.Badges()
	uc := badge.NewCheckAndAwardAllUseCase(repo)
	userID := uuid.New()
	stats := badgecatalog.Stats{UniqueHelped: 1, RequestsCreated: 1}

	first := uc.Execute(context.Background(), userID, stats)
	second := uc.Execute(context.Background(), userID, stats)

	assert.Len(t, first, 2)
	assert.Empty(t, second)

	owned, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

func TestCheckAndAwardAll_ContinuesAfterFailure(t *testing.T) {
	db := fakes.NewDB()
	repo := db.Badges()
	repo.FailOn["first-help"] = errors.New("connection reset")
	uc := badge.NewCheckAndAwardAllUseCase(repo)

	awarded := uc.Execute(context.Background(), uuid.New(), badgecatalog.Stats{UniqueHelped: 5, RequestsCreated: 1})

	assert.ElementsMatch(t, []string{"helper-5", "first-request"}, awarded)
	assert.Equal(t, 3, repo.Calls)
}

func TestCheckAndAwardAll_NeverAwardsManualBadge(t *testing.T) {
	db := fakes.NewDB()
	uc := badge.NewCheckAndAwardAllUseCase(db.Badges())

	awarded := uc.Execute(context.Background(), uuid.New(), badgecatalog.Stats{
		UniqueHelped: 1000, Karma: 1000, BestRank: 1, Testimonials: 100,
	})

	assert.NotContains(t, awarded, "problem-solver")
}

func TestEvaluateUser_LoadsStats(t *testing.T) {
	db := fakes.NewDB()
	user := db.SeedUser("Bob")
	stats := db.Stats()
	stats.Stats[user.ID] = badgecatalog.Stats{Skills: []badgecatalog.SkillStat{{Name: "Go", Category: "programming", Endorsements: 5}}}
	uc := badge.NewEvaluateUserUseCase(stats, badge.NewCheckAndAwardAllUseCase(db.Badges()))

	awarded, err := uc.Execute(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{badgecatalog.SkillGuruID}, awarded)

	again, err := uc.Execute(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestEvaluateUser_RankBadgesRequireKarma(t *testing.T) {
	ctx := context.Background()
	db := fakes.NewDB()
	newcomer := db.SeedUser("Newcomer")
	helper := db.SeedUser("Helper")
	require.NoError(t, db.KarmaLedger().Award(ctx, helper.ID, uuid.New(), 5))

	_, err := karma.NewSnapshotRanksUseCase(db.KarmaLedger(), fakes.NewPublisher()).Execute(ctx)
	require.NoError(t, err)
	uc := badge.NewEvaluateUserUseCase(db.Stats(), badge.NewCheckAndAwardAllUseCase(db.Badges()))

	awarded, err := uc.Execute(ctx, newcomer.ID)
	require.NoError(t, err)
	for _, id := range []string{"top-10", "top-3", "champion"} {
		assert.NotContains(t, awarded, id)
	}

	awarded, err = uc.Execute(ctx, helper.ID)
	require.NoError(t, err)
	assert.Subset(t, awarded, []string{"top-10", "top-3", "champion"})
}

func TestEvaluateUser_PropagatesLoadError(t *testing.T) {
	db := fakes.NewDB()
	stats := db.Stats()
	stats.Err = errors.New("db down")
	uc := badge.NewEvaluateUserUseCase(stats, badge.NewCheckAndAwardAllUseCase(db.Badges()))

	_, err := uc.Execute(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestGrantBadge(t *testing.T) {
	db := fakes.NewDB()
	admin := db.SeedUser("Admin")
	user := db.SeedUser("Ann")
	uc := badge.NewGrantBadgeUseCase(db.Badges(), db.Users(), []uuid.UUID{admin.ID})
	ctx := context.Background()

	_, err := uc.Execute(ctx, user.ID, user.ID, "problem-solver")
	assert.True(t, apperror.IsForbidden(err))

	_, err = uc.Execute(ctx, admin.ID, user.ID, "unknown")
	assert.True(t, apperror.IsNotFound(err))

	_, err = uc.Execute(ctx, admin.ID, uuid.New(), "problem-solver")
	assert.True(t, apperror.IsNotFound(err))

	created, err := uc.Execute(ctx, admin.ID, user.ID, "problem-solver")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.Execute(ctx, admin.ID, user.ID, "problem-solver")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestListUserBadges_JoinsCatalog(t *testing.T) {
	db := fakes.NewDB()
	repo := db.Badges()
	userID := uuid.New()
	_, _ = repo.Award(context.Background(), userID, "veteran")

	list, err := badge.NewListUserBadgesUseCase(repo).Execute(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ветеран", list[0].Badge.Name)
	assert.False(t, list[0].AwardedAt.IsZero())
}

func TestProgress(t *testing.T) {
	db := fakes.NewDB()
	user := db.SeedUser("Ann")
	stats := db.Stats()
	stats.Stats[user.ID] = badgecatalog.Stats{UniqueHelped: 3}
	_, _ = db.Badges().Award(context.Background(), user.ID, "first-help")

	progress, err := badge.NewProgressUseCase(stats).Execute(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, progress, len(badge.ListCatalog()))

	byID := map[string]badge.BadgeProgress{}
	for _, p := range progress {
		byID[p.Badge.ID] = p
	}
	assert.True(t, byID["first-help"].Earned)
	assert.Equal(t, 3, byID["helper-5"].Current)
	assert.Equal(t, 5, byID["helper-5"].Target)
	assert.False(t, byID["helper-5"].Earned)
}
