package repository

import (
	"context"
	"testing"

	"flock/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	n := &models.Notification{RecipientID: 1, ActorID: 2, Message: "bob liked your post"}
	require.NoError(t, repo.Create(context.Background(), n))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ListByRecipient(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "recipient_id", "actor_id", "message", "is_read"}).
		AddRow(1, 1, 2, "bob has a new post", false).
		AddRow(2, 1, 3, "carol liked your post", true)
	mock.ExpectQuery(`SELECT (.+) FROM "notifications" WHERE recipient_id = (.+) ORDER BY created_at`).
		WillReturnRows(rows)

	notifications, err := repo.ListByRecipient(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "bob has a new post", notifications[0].Message)
	assert.False(t, notifications[0].IsRead)
	assert.True(t, notifications[1].IsRead)
}

func TestNotificationRepository_CountUnread(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE recipient_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountUnread(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkAllRead(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
