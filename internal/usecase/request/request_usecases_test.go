package request_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/repository"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/fakes"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/notification"
	"github.com/ignatzorin/skillswap-backend/internal/usecase/request"
)

const karmaPerHelp = 5

// deliveringPublisher сразу доставляет уведомления, как это сделал бы outbox relay.
type deliveringPublisher struct {
	*fakes.Publisher
	notify *notification.NotifyUseCase
}

func (p *deliveringPublisher) Notify(ctx context.Context, event repository.NotifyEvent) {
	p.Publisher.Notify(ctx, event)
	_, _, _ = p.notify.Execute(ctx, notification.NotifyInput{
		RecipientID: event.RecipientID,
		Type:        event.Type,
		Message:     event.Message,
		Refs:        event.Refs,
	})
}

type fixture struct {
	db     *fakes.DB
	pub    *deliveringPublisher
	create *request.CreateRequestUseCase
	submit *request.SubmitOfferUseCase
	accept *request.AcceptOfferUseCase
	reject *request.RejectOfferUseCase
	award  *request.AwardKarmaUseCase
	a, b   *entity.User
}

func newFixture() *fixture {
	db := fakes.NewDB()
	repo := db.Requests()
	pub := &deliveringPublisher{
		Publisher: fakes.NewPublisher(),
		notify:    notification.NewNotifyUseCase(db.Notifications(), nil),
	}
	return &fixture{
		db:     db,
		pub:    pub,
		create: request.NewCreateRequestUseCase(repo, pub),
		submit: request.NewSubmitOfferUseCase(repo, pub),
		accept: request.NewAcceptOfferUseCase(repo, pub),
		reject: request.NewRejectOfferUseCase(repo, pub),
		award:  request.NewAwardKarmaUseCase(repo, pub, karmaPerHelp),
		a:      db.SeedUser("Ann"),
		b:      db.SeedUser("Bob"),
	}
}

func (f *fixture) newRequest(t *testing.T) *entity.Request {
	t.Helper()
	req, err := f.create.Execute(context.Background(), request.CreateRequestInput{
		OwnerID: f.a.ID,
		Title:   "CSS help",
		Tags:    []string{"CSS", "#css", "Flexbox"},
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequest(t *testing.T) {
	f := newFixture()
	req := f.newRequest(t)

	assert.Equal(t, valueobject.RequestStatusOpen, req.Status)
	assert.Equal(t, valueobject.UrgencyMedium, req.Urgency)
	assert.Equal(t, []string{"css", "flexbox"}, req.Tags)
	assert.Nil(t, req.AcceptedHelperID)
	assert.Equal(t, 1, f.pub.BadgeChecksFor(f.a.ID))
}

func TestCreateRequest_Validation(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name  string
		input request.CreateRequestInput
	}{
		{"short title", request.CreateRequestInput{OwnerID: f.a.ID, Title: "ab"}},
		{"long description", request.CreateRequestInput{OwnerID: f.a.ID, Title: "CSS help", Description: strings.Repeat("x", 5001)}},
		{"too many tags", request.CreateRequestInput{OwnerID: f.a.ID, Title: "CSS help", Tags: strings.Split("a,b,c,d,e,f,g,h,i,j,k", ",")}},
		{"bad urgency", request.CreateRequestInput{OwnerID: f.a.ID, Title: "CSS help", Urgency: "asap"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Execute(context.Background(), tt.input)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
}

func TestSubmitOffer_Rules(t *testing.T) {
	f := newFixture()
	req := f.newRequest(t)
	ctx := context.Background()

	_, err := f.submit.Execute(ctx, req.ID, f.a.ID, "сам себе помогу")
	assert.True(t, apperror.IsForbidden(err))

	_, err = f.submit.Execute(ctx, req.ID, f.b.ID, "   ")
	assert.True(t, apperror.IsValidation(err))

	offer, err := f.submit.Execute(ctx, req.ID, f.b.ID, "Могу помочь")
	require.NoError(t, err)
	assert.Equal(t, valueobject.OfferStatusPending, offer.Status)

	_, err = f.submit.Execute(ctx, req.ID, f.b.ID, "Ещё раз")
	assert.True(t, apperror.IsConflict(err))

	events := f.pub.EventsFor(f.a.ID)
	require.Len(t, events, 1)
	assert.Equal(t, valueobject.NotificationNewOffer, events[0].Type)
	assert.Equal(t, f.b.ID, *events[0].Refs.OffererID)
	assert.Equal(t, 1, f.pub.BadgeChecksFor(f.b.ID))
}

func TestListOffers_OwnerSeesAll(t *testing.T) {
	f := newFixture()
	req := f.newRequest(t)
	ctx := context.Background()
	c := f.db.SeedUser("Carl")
	_, _ = f.submit.Execute(ctx, req.ID, f.b.ID, "я")
	_, _ = f.submit.Execute(ctx, req.ID, c.ID, "и я")
	uc := request.NewListOffersUseCase(f.db.Requests())

	all, err := uc.Execute(ctx, req.ID, f.a.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := uc.Execute(ctx, req.ID, f.b.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f.b.ID, own[0].HelperID)
}

func TestAcceptOffer_OnlyOwnerAndOnlyOnce(t *testing.T) {
	f := newFixture()
	req := f.newRequest(t)
	ctx := context.Background()
	c := f.db.SeedUser("Carl")
	offerB, _ := f.submit.Execute(ctx, req.ID, f.b.ID, "я")
	offerC, _ := f.submit.Execute(ctx, req.ID, c.ID, "и я")

	_, err := f.accept.Execute(ctx, req.ID, offerB.ID, f.b.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	accepted, err := f.accept.Execute(ctx, req.ID, offerB.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.OfferStatusAccepted, accepted.Status)

	_, err = f.accept.Execute(ctx, req.ID, offerC.ID, f.a.ID)
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, valueobject.OfferStatusPending, f.db.OfferState(offerC.ID).Status)
	assert.Equal(t, f.b.ID, *f.db.RequestState(req.ID).AcceptedHelperID)
}

func TestAcceptOffer_ConcurrentAcceptsSetHelperOnce(t *testing.T) {
	f := newFixture()
	req := f.newRequest(t)
	ctx := context.Background()
	c := f.db.SeedUser("Carl")
	offerB, _ := f.submit.Execute(ctx, req.ID, f.b.ID, "я")
	offerC, _ := f.submit.Execute(ctx, req.ID, c.ID, "и я")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, offerID := range []uuid.UUID{offerB.ID, offerC.ID} {
		wg.Add(1)
		go func(i int, offerID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.accept.Execute(ctx, req.ID, offerID, f.a.ID)
		}(i, offerID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestRejectOffer(t *testing.T) {
	f := newFixture()
	req := f.newRequest(t)
	ctx := context.Background()
	offer, _ := f.submit.Execute(ctx, req.ID, f.b.ID, "я")

	rejected, err := f.reject.Execute(ctx, req.ID, offer.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.OfferStatusRejected, rejected.Status)

	events := f.pub.EventsFor(f.b.ID)
	require.Len(t, events, 1)
	assert.Equal(t, valueobject.NotificationOfferRejected, events[0].Type)

	_, err = f.accept.Execute(ctx, req.ID, offer.ID, f.a.ID)
	assert.True(t, apperror.IsConflict(err))
}

func TestAwardKarma_RequiresAcceptedHelper(t *testing.T) {
	f := newFixture()
	req := f.newRequest(t)

	_, err := f.award.Execute(context.Background(), req.ID, f.a.ID)
	assert.True(t, apperror.IsConflict(err))
	assert.Zero(t, f.db.KarmaOf(f.b.ID))
}

// Сквозной сценарий: создание запроса, отклик, принятие и начисление кармы.
func TestEndToEnd_AcceptAndAwardKarma(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	before := f.db.KarmaOf(f.b.ID)

	req := f.newRequest(t)
	assert.Equal(t, valueobject.RequestStatusOpen, req.Status)

	offer, err := f.submit.Execute(ctx, req.ID, f.b.ID, "Помогу с вёрсткой")
	require.NoError(t, err)
	assert.Equal(t, valueobject.OfferStatusPending, offer.Status)

	accepted, err := f.accept.Execute(ctx, req.ID, offer.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.OfferStatusAccepted, accepted.Status)

	state := f.db.RequestState(req.ID)
	assert.Equal(t, valueobject.RequestStatusInProgress, state.Status)
	require.NotNil(t, state.AcceptedHelperID)
	assert.Equal(t, f.b.ID, *state.AcceptedHelperID)
	assert.Len(t, f.db.NotificationsFor(f.b.ID), 1)

	result, err := f.award.Execute(ctx, req.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, karmaPerHelp, result.Delta)

	state = f.db.RequestState(req.ID)
	assert.Equal(t, valueobject.RequestStatusCompleted, state.Status)
	assert.NotNil(t, state.CompletedAt)
	assert.Equal(t, valueobject.OfferStatusCompleted, f.db.OfferState(offer.ID).Status)
	assert.Equal(t, before+karmaPerHelp, f.db.KarmaOf(f.b.ID))

	notes := f.db.NotificationsFor(f.b.ID)
	require.Len(t, notes, 2)
	assert.Equal(t, valueobject.NotificationOfferAccepted, notes[0].Type)
	assert.Equal(t, valueobject.NotificationKarmaAwarded, notes[1].Type)

	// повторное нажатие не начисляет карму дважды
	_, err = f.award.Execute(ctx, req.ID, f.a.ID)
	assert.ErrorIs(t, err, apperror.ErrKarmaAlreadyAwarded)
	assert.Equal(t, before+karmaPerHelp, f.db.KarmaOf(f.b.ID))
	assert.Len(t, f.db.NotificationsFor(f.b.ID), 2)
}

func TestAwardKarma_ConcurrentDoubleClick(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := f.newRequest(t)
	offer, _ := f.submit.Execute(ctx, req.ID, f.b.ID, "я")
	_, err := f.accept.Execute(ctx, req.ID, offer.ID, f.a.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.award.Execute(ctx, req.ID, f.a.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, karmaPerHelp, f.db.KarmaOf(f.b.ID))
}

func TestListMyContributions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := f.newRequest(t)
	_, _ = f.submit.Execute(ctx, req.ID, f.b.ID, "я")

	list, err := request.NewListMyContributionsUseCase(f.db.Requests()).Execute(ctx, f.b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CSS help", list[0].Request.Title)

	mine, err := request.NewListMyRequestsUseCase(f.db.Requests()).Execute(ctx, f.a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestListRequests_FilterByTagAndStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_ = f.newRequest(t)
	_, err := f.create.Execute(ctx, request.CreateRequestInput{OwnerID: f.a.ID, Title: "Learn Go", Tags: []string{"go"}})
	require.NoError(t, err)
	uc := request.NewListRequestsUseCase(f.db.Requests())

	res, err := uc.Execute(ctx, repository.RequestFilter{Tag: "CSS"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 20, res.Limit)

	res, err = uc.Execute(ctx, repository.RequestFilter{Status: "open", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 100, res.Limit)

	_, err = uc.Execute(ctx, repository.RequestFilter{Status: "archived"})
	assert.True(t, apperror.IsValidation(err))
}
