package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillswap-backend/internal/domain/entity"
	"github.com/ignatzorin/skillswap-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillswap-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/skillswap-backend/internal/outbox"
	"github.com/ignatzorin/skillswap-backend/internal/pkg/apperror"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return sqlx.NewDb(raw, "postgres"), mock
}

func expectLockedRequest(mock sqlmock.Sqlmock, requestID uuid.UUID, status string, helperID uuid.UUID) {
	mock.ExpectQuery(`SELECT status, accepted_helper_id FROM requests WHERE id = \$1 FOR UPDATE`).
		WithArgs(requestID).
		WillReturnRows(sqlmock.NewRows([]string{"status", "accepted_helper_id"}).AddRow(status, helperID.String()))
}

func TestCompleteWithKarma_CommitsAllWrites(t *testing.T) {
	db, mock := newMockDB(t)
	repo := persistence.NewRequestRepositoryAdapter(db)
	requestID, helperID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockedRequest(mock, requestID, "in_progress", helperID)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM karma_ledger`).
		WithArgs(requestID, helperID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`UPDATE responses SET status = 'completed'`).
		WithArgs(requestID, helperID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO karma_ledger`).
		WithArgs(sqlmock.AnyArg(), helperID, requestID, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET karma = karma \+ \$2`).
		WithArgs(helperID, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE requests SET status = 'completed'`).
		WithArgs(requestID, helperID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CompleteWithKarma(context.Background(), requestID, helperID, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteWithKarma_DuplicateLedgerRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := persistence.NewRequestRepositoryAdapter(db)
	requestID, helperID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockedRequest(mock, requestID, "in_progress", helperID)
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`UPDATE responses SET status = 'completed'`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO karma_ledger`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.CompleteWithKarma(context.Background(), requestID, helperID, 5)
	assert.ErrorIs(t, err, apperror.ErrKarmaAlreadyAwarded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteWithKarma_CompletedRequestIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := persistence.NewRequestRepositoryAdapter(db)
	requestID, helperID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockedRequest(mock, requestID, "completed", helperID)
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.CompleteWithKarma(context.Background(), requestID, helperID, 5)
	assert.True(t, apperror.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteWithKarma_MissingRequest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := persistence.NewRequestRepositoryAdapter(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM requests WHERE id = \$1 FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "accepted_helper_id"}))
	mock.ExpectRollback()

	err := repo.CompleteWithKarma(context.Background(), uuid.New(), uuid.New(), 5)
	assert.ErrorIs(t, err, apperror.ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxClaim_SkipsLockedRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := persistence.NewOutboxRepositoryAdapter(db)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	lease := time.Minute
	id := uuid.New()

	mock.ExpectQuery(`(?s)UPDATE outbox_events SET next_attempt_at = \$3.*status = 'pending' AND next_attempt_at <= \$1.*FOR UPDATE SKIP LOCKED`).
		WithArgs(now, 10, now.Add(lease)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "kind", "payload", "status", "attempts", "next_attempt_at", "last_error", "created_at",
		}).AddRow(id.String(), "badge_check", []byte(`{"user_id":"x"}`), "pending", 2, now.Add(lease), "boom", now))

	events, err := repo.Claim(context.Background(), now, 10, lease)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, outbox.KindBadgeCheck, events[0].Kind)
	assert.Equal(t, outbox.StatusPending, events[0].Status)
	assert.Equal(t, 2, events[0].Attempts)
	assert.Equal(t, "boom", events[0].LastError)
	assert.JSONEq(t, `{"user_id":"x"}`, string(events[0].Payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatCreate_ExistingKeyIsNotRecreated(t *testing.T) {
	db, mock := newMockDB(t)
	repo := persistence.NewChatRepositoryAdapter(db)
	chat, err := entity.NewChat(uuid.New(), uuid.New(), uuid.New(), "CSS")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)INSERT INTO chats.*ON CONFLICT \(id\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), chat)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatCreate_InsertsParticipantsInOneStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := persistence.NewChatRepositoryAdapter(db)
	chat, err := entity.NewChat(uuid.New(), uuid.New(), uuid.New(), "CSS")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO chats`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO chat_participants \(chat_id, user_id\) VALUES \(\$1, \$2\), \(\$3, \$4\)`).
		WithArgs(chat.ID, chat.Participants[0], chat.ID, chat.Participants[1]).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), chat)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationCreate_DuplicateEventWritesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := persistence.NewNotificationRepositoryAdapter(db)
	eventID := uuid.New()
	n := &entity.Notification{
		ID:          uuid.New(),
		RecipientID: uuid.New(),
		Type:        valueobject.NotificationNewOffer,
		Message:     "Новый отклик",
		EventID:     &eventID,
		CreatedAt:   time.Now(),
	}

	mock.ExpectExec(`(?s)INSERT INTO notifications.*ON CONFLICT \(event_id\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.Create(context.Background(), n)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBestRanks_RanksOnlyUsersWithKarma(t *testing.T) {
	db, mock := newMockDB(t)
	repo := persistence.NewKarmaRepositoryAdapter(db)
	leader := uuid.New()

	mock.ExpectQuery(`(?s)WITH ranked AS \(SELECT .*FROM users\s+WHERE karma > 0.*UPDATE users u SET best_rank = ranked.rank`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(leader.String()))

	improved, err := repo.UpdateBestRanks(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{leader}, improved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
