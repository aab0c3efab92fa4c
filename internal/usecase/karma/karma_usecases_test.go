package karma_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/fakes"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/karma"
)

func TestAward_RejectsNonPositiveDelta(t *testing.T) {
	db := fakes.NewDB()
	user := db.SeedUser("Bob")
	uc := karma.NewAwardUseCase(db.KarmaLedger(), fakes.NewPublisher())

	for _, delta := range []int{0, -5} {
		err := uc.Execute(context.Background(), user.ID, uuid.New(), delta)
		assert.True(t, apperror.IsValidation(err))
	}
	assert.Equal(t, 0, db.KarmaOf(user.ID))
}

func TestAward_IdempotentPerRequest(t *testing.T) {
	db := fakes.NewDB()
	user := db.SeedUser("Bob")
	pub := fakes.NewPublisher()
	uc := karma.NewAwardUseCase(db.KarmaLedger(), pub)
	requestID := uuid.New()

	require.NoError(t, uc.Execute(context.Background(), user.ID, requestID, 5))
	err := uc.Execute(context.Background(), user.ID, requestID, 5)

	assert.ErrorIs(t, err, apperror.ErrKarmaAlreadyAwarded)
	assert.Equal(t, 5, db.KarmaOf(user.ID))
	assert.Equal(t, 1, pub.BadgeChecksFor(user.ID))
}

func TestAward_ConcurrentIncrementsAreNotLost(t *testing.T) {
	db := fakes.NewDB()
	user := db.SeedUser("Bob")
	uc := karma.NewAwardUseCase(db.KarmaLedger(), fakes.NewPublisher())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = uc.Execute(context.Background(), user.ID, uuid.New(), 5)
		}()
	}
	wg.Wait()

	assert.Equal(t, 250, db.KarmaOf(user.ID))
}

func TestLeaderboard_OrdersByKarma(t *testing.T) {
	db := fakes.NewDB()
	ledger := db.KarmaLedger()
	a := db.SeedUser("A")
	b := db.SeedUser("B")
	_ = ledger.Award(context.Background(), b.ID, uuid.New(), 10)
	_ = ledger.Award(context.Background(), a.ID, uuid.New(), 5)

	board, err := karma.NewLeaderboardUseCase(ledger).Execute(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, b.ID, board[0].UserID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 2, board[1].Rank)
}

func TestSnapshotRanks_PublishesOnlyImproved(t *testing.T) {
	db := fakes.NewDB()
	ledger := db.KarmaLedger()
	pub := fakes.NewPublisher()
	a := db.SeedUser("A")
	b := db.SeedUser("B")
	_ = ledger.Award(context.Background(), a.ID, uuid.New(), 10)
	uc := karma.NewSnapshotRanksUseCase(ledger, pub)

	improved, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, improved)

	improved, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, improved)

	_ = ledger.Award(context.Background(), b.ID, uuid.New(), 50)
	improved, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, improved)
	assert.Equal(t, 1, pub.BadgeChecksFor(b.ID))
	assert.Equal(t, 1, pub.BadgeChecksFor(a.ID))
}

func TestSnapshotRanks_SkipsUsersWithoutKarma(t *testing.T) {
	db := fakes.NewDB()
	pub := fakes.NewPublisher()
	newcomer := db.SeedUser("Newcomer")

	improved, err := karma.NewSnapshotRanksUseCase(db.KarmaLedger(), pub).Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, improved)
	assert.Zero(t, pub.BadgeChecksFor(newcomer.ID))
	stored, err := db.Users().FindByID(context.Background(), newcomer.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.BestRank)
}
