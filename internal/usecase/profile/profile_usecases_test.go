package profile_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/badge"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/fakes"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/profile"
)

func strPtr(s string) *string { return &s }

func TestEnsureProfile_CreatesThenRefreshes(t *testing.T) {
	db := fakes.NewDB()
	uc := profile.NewEnsureProfileUseCase(db.Users())
	ctx := context.Background()

	first, err := uc.Execute(ctx, entity.Identity{ExternalID: "g-1", Email: "Ann@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", first.DisplayName)
	assert.Equal(t, "ann@example.com", first.Email)
	assert.True(t, first.Preferences.ProfilePublic)

	second, err := uc.Execute(ctx, entity.Identity{ExternalID: "g-1", DisplayName: "Анна", PhotoURL: "https://img/a.png"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := db.Users().FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Анна", stored.DisplayName)
	assert.Equal(t, "https://img/a.png", stored.PhotoURL)
}

func TestEnsureProfile_ConcurrentFirstLogin(t *testing.T) {
	db := fakes.NewDB()
	uc := profile.NewEnsureProfileUseCase(db.Users())
	ctx := context.Background()

	const n = 8
	ids := make([]uuid.UUID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := uc.Execute(ctx, entity.Identity{ExternalID: "g-race", DisplayName: "Race"})
			if err == nil {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestEnsureProfile_RequiresExternalID(t *testing.T) {
	db := fakes.NewDB()
	_, err := profile.NewEnsureProfileUseCase(db.Users()).Execute(context.Background(), entity.Identity{Email: "x@y.z"})
	assert.True(t, apperror.IsValidation(err))
}

func TestGetProfile_PrivateVisibleOnlyToOwner(t *testing.T) {
	db := fakes.NewDB()
	owner := db.SeedUser("Owner")
	viewer := db.SeedUser("Viewer")
	ctx := context.Background()

	_, err := profile.NewUpdateProfileUseCase(db.Users()).Execute(ctx, owner.ID, profile.UpdateProfileInput{
		Preferences: &entity.Preferences{NotifyEmail: false, ProfilePublic: false},
	})
	require.NoError(t, err)
	_, err = db.Badges().Award(ctx, owner.ID, "first-help")
	require.NoError(t, err)

	get := profile.NewGetProfileUseCase(db.Users(), db.Skills(), badge.NewListUserBadgesUseCase(db.Badges()))

	_, err = get.Execute(ctx, owner.ID, viewer.ID)
	assert.True(t, apperror.IsForbidden(err))

	p, err := get.Execute(ctx, owner.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, p.Badges, 1)
	assert.Equal(t, "first-help", p.Badges[0].Badge.ID)
}

func TestUpdateProfile_Validation(t *testing.T) {
	db := fakes.NewDB()
	u := db.SeedUser("Ann")
	uc := profile.NewUpdateProfileUseCase(db.Users())
	ctx := context.Background()

	_, err := uc.Execute(ctx, u.ID, profile.UpdateProfileInput{DisplayName: strPtr("A")})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(ctx, u.ID, profile.UpdateProfileInput{Bio: strPtr(strings.Repeat("б", 1001))})
	assert.True(t, apperror.IsValidation(err))

	bad := []entity.Link{{Type: "site", URL: "ftp://example.com"}}
	_, err = uc.Execute(ctx, u.ID, profile.UpdateProfileInput{Links: &bad})
	assert.True(t, apperror.IsValidation(err))

	many := make([]entity.Link, 11)
	for i := range many {
		many[i] = entity.Link{URL: "https://example.com"}
	}
	_, err = uc.Execute(ctx, u.ID, profile.UpdateProfileInput{Links: &many})
	assert.True(t, apperror.IsValidation(err))

	links := []entity.Link{{Type: " GitHub ", URL: "https://github.com/ann", Title: "код"}}
	updated, err := uc.Execute(ctx, u.ID, profile.UpdateProfileInput{
		DisplayName: strPtr("  Анна  "),
		Bio:         strPtr("Учу Go"),
		Links:       &links,
	})
	require.NoError(t, err)
	assert.Equal(t, "Анна", updated.DisplayName)
	assert.Equal(t, "Учу Go", updated.Bio)
	require.Len(t, updated.Links, 1)
	assert.Equal(t, "github", updated.Links[0].Type)
}

func TestUpdateProfile_KeepsKarma(t *testing.T) {
	db := fakes.NewDB()
	u := db.SeedUser("Ann")
	ctx := context.Background()
	require.NoError(t, db.KarmaLedger().Award(ctx, u.ID, uuid.New(), 10))

	_, err := profile.NewUpdateProfileUseCase(db.Users()).Execute(ctx, u.ID, profile.UpdateProfileInput{Bio: strPtr("новое")})
	require.NoError(t, err)
	assert.Equal(t, 10, db.KarmaOf(u.ID))
}

func TestSkills_AddAndRemove(t *testing.T) {
	db := fakes.NewDB()
	u := db.SeedUser("Ann")
	add := profile.NewAddSkillUseCase(db.Skills())
	remove := profile.NewRemoveSkillUseCase(db.Skills())
	ctx := context.Background()

	skill, err := add.Execute(ctx, u.ID, profile.AddSkillInput{Name: " Go ", Category: "Programming"})
	require.NoError(t, err)
	assert.Equal(t, "Go", skill.Name)
	assert.Equal(t, valueobject.SkillCategoryProgramming, skill.Category)
	assert.Equal(t, valueobject.ProficiencyBeginner, skill.Proficiency)

	_, err = add.Execute(ctx, u.ID, profile.AddSkillInput{Name: "Go"})
	assert.True(t, apperror.IsConflict(err))

	_, err = add.Execute(ctx, u.ID, profile.AddSkillInput{Name: "Rust", Category: "astrology"})
	assert.True(t, apperror.IsValidation(err))

	_, err = add.Execute(ctx, u.ID, profile.AddSkillInput{Name: "Rust", Proficiency: "guru"})
	assert.True(t, apperror.IsValidation(err))

	require.NoError(t, remove.Execute(ctx, u.ID, "Go"))
	assert.ErrorIs(t, remove.Execute(ctx, u.ID, "Go"), apperror.ErrSkillNotFound)
}
