package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesmarquelle/messenger/internal/models"
	"github.com/jonesmarquelle/messenger/internal/repository"
)

// TestMessageRepository_ListByGroup verifies history retrieval in ascending
// sequence order with sender records joined in.
func TestMessageRepository_ListByGroup(t *testing.T) {
	testTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	rows := pgxmock.NewRows([]string{
		"message_id", "group_id", "user_id", "sender_name", "message", "m_created_at",
		"id", "username", "avatar_url", "u_created_at",
	}).
		AddRow(0, 1, "u-2", "testUserB", "Let me in!", testTime, "u-2", "testUserB", nil, testTime).
		AddRow(1, 1, "u-1", "testUserA", "Let me out!", testTime, "u-1", "testUserA", nil, testTime).
		AddRow(2, 1, "u-2", "testUserB", "Ah", testTime, "u-2", "testUserB", nil, testTime)

	mock.ExpectQuery("SELECT m.message_id(.+)FROM messages m(.+)ORDER BY m.message_id").
		WithArgs(1).
		WillReturnRows(rows)

	repo := repository.NewMessageRepository(mock)

	messages, err := repo.ListByGroup(context.Background(), 1)

	assert.NoError(t, err)
	require.Len(t, messages, 3)
	for i, m := range messages {
		assert.Equal(t, i, m.MessageID, "history should be in sequence order")
	}
	assert.Equal(t, "Let me in!", messages[0].Body)
	assert.Equal(t, "testUserB", messages[0].Sender.Name)
	assert.Equal(t, "u-1", messages[1].Sender.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMessageRepository_ListByGroup_EmptyHistory verifies that a group which
// exists but has no messages yields an empty slice rather than an error.
func TestMessageRepository_ListByGroup_EmptyHistory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT m.message_id(.+)FROM messages m").
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{
			"message_id", "group_id", "user_id", "sender_name", "message", "m_created_at",
			"id", "username", "avatar_url", "u_created_at",
		}))

	repo := repository.NewMessageRepository(mock)

	messages, err := repo.ListByGroup(context.Background(), 2)

	assert.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMessageRepository_ListByGroup_MissingGroup verifies ErrGroupNotFound
// when the group does not exist.
func TestMessageRepository_ListByGroup_MissingGroup(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(404).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	repo := repository.NewMessageRepository(mock)

	messages, err := repo.ListByGroup(context.Background(), 404)

	assert.Nil(t, messages)
	assert.ErrorIs(t, err, repository.ErrGroupNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMessageRepository_Create verifies the single-statement append. The
// sequence number and denormalized sender name come back from the RETURNING
// clause and are written into the message.
func TestMessageRepository_Create(t *testing.T) {
	testTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO messages").
		WithArgs(1, "u-1", "Let me out!").
		WillReturnRows(pgxmock.NewRows([]string{"message_id", "sender_name", "created_at"}).
			AddRow(3, "testUserA", testTime))

	repo := repository.NewMessageRepository(mock)

	message := &models.Message{GroupID: 1, UserID: "u-1", Body: "Let me out!"}
	err = repo.Create(context.Background(), message)

	assert.NoError(t, err)
	assert.Equal(t, 3, message.MessageID)
	assert.Equal(t, "testUserA", message.SenderName)
	assert.Equal(t, testTime, message.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMessageRepository_Create_FirstMessage verifies that the first message
// of a group gets sequence number zero.
func TestMessageRepository_Create_FirstMessage(t *testing.T) {
	testTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO messages").
		WithArgs(5, "u-2", "Let me in!").
		WillReturnRows(pgxmock.NewRows([]string{"message_id", "sender_name", "created_at"}).
			AddRow(0, "testUserB", testTime))

	repo := repository.NewMessageRepository(mock)

	message := &models.Message{GroupID: 5, UserID: "u-2", Body: "Let me in!"}
	err = repo.Create(context.Background(), message)

	assert.NoError(t, err)
	assert.Equal(t, 0, message.MessageID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
