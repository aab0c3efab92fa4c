package endorsement_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/endorsement"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/fakes"
)

type fixture struct {
	db    *fakes.DB
	pub   *fakes.Publisher
	uc    *endorsement.EndorseSkillUseCase
	owner *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := fakes.NewDB()
	owner := db.SeedUser("Ann")
	skill, err := entity.NewSkill(owner.ID, "Go", valueobject.SkillCategoryProgramming, valueobject.ProficiencyExpert)
	require.NoError(t, err)
	require.NoError(t, db.Skills().Add(context.Background(), skill))

	pub := fakes.NewPublisher()
	return &fixture{
		db:    db,
		pub:   pub,
		uc:    endorsement.NewEndorseSkillUseCase(db.Users(), db.Skills(), pub),
		owner: owner,
	}
}

func TestEndorseSkill_RejectsSelfEndorsement(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), f.owner.ID, f.owner.ID, "Go")
	assert.ErrorIs(t, err, apperror.ErrSelfEndorsement)
}

func TestEndorseSkill_SetSemantics(t *testing.T) {
	f := newFixture(t)
	endorser := uuid.New()

	first, err := f.uc.Execute(context.Background(), f.owner.ID, endorser, "Go")
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), f.owner.ID, endorser, "Go")
	require.NoError(t, err)

	assert.Equal(t, endorsement.Result{Count: 1, Added: true}, first)
	assert.Equal(t, endorsement.Result{Count: 1, Added: false}, second)
}

func TestEndorseSkill_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), f.owner.ID, uuid.New(), "Rust")
	assert.ErrorIs(t, err, apperror.ErrSkillNotFound)

	_, err = f.uc.Execute(context.Background(), uuid.New(), uuid.New(), "Go")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestEndorseSkill_TriggersBadgeCheckExactlyAtFive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.uc.Execute(ctx, f.owner.ID, uuid.New(), "Go")
		require.NoError(t, err)
	}
	assert.Zero(t, f.pub.BadgeChecksFor(f.owner.ID))

	fifth := uuid.New()
	res, err := f.uc.Execute(ctx, f.owner.ID, fifth, "Go")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Count)
	assert.Equal(t, 1, f.pub.BadgeChecksFor(f.owner.ID))

	// повтор того же подтверждения и шестое подтверждение не ставят новых проверок
	_, _ = f.uc.Execute(ctx, f.owner.ID, fifth, "Go")
	_, _ = f.uc.Execute(ctx, f.owner.ID, uuid.New(), "Go")
	assert.Equal(t, 1, f.pub.BadgeChecksFor(f.owner.ID))
}

func TestRevokeEndorsement(t *testing.T) {
	f := newFixture(t)
	endorser := uuid.New()
	_, _ = f.uc.Execute(context.Background(), f.owner.ID, endorser, "Go")

	count, err := endorsement.NewRevokeEndorsementUseCase(f.db.Skills()).Execute(context.Background(), f.owner.ID, endorser, "Go")
	require.NoError(t, err)
	assert.Zero(t, count)
}
