package service

import (
	"context"
	"testing"
	"time"

	"messagely/internal/common"
	"messagely/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageService(t *testing.T) (*MessageService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewMessageService(repository.NewPgMessageRepository(db), repository.NewPgUserRepository(db)), mock
}

func expectMessageRow(mock sqlmock.Sqlmock, id, from, to string) {
	mock.ExpectQuery(`SELECT id, from_username, to_username, body, sent_at, read_at`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(messageColumns()).
			AddRow(id, from, to, "hello", time.Now(), nil))
}

func expectProfileRow(mock sqlmock.Sqlmock, username string) {
	mock.ExpectQuery(`SELECT username, first_name, last_name, phone`).
		WithArgs(username).
		WillReturnRows(sqlmock.NewRows(profileColumns()).AddRow(username, "First", "Last", "+1"))
}

func TestMessageService_Get(t *testing.T) {
	svc, mock := newMessageService(t)

	expectMessageRow(mock, "m1", "alice", "bob")
	expectProfileRow(mock, "alice")
	expectProfileRow(mock, "bob")

	detail, err := svc.Get(context.Background(), "m1", "bob")
	require.NoError(t, err)
	assert.Equal(t, "m1", detail.ID)
	assert.Equal(t, "alice", detail.FromUser.Username)
	assert.Equal(t, "bob", detail.ToUser.Username)
}

func TestMessageService_Get_ThirdPartyLooksLikeMissing(t *testing.T) {
	svc, mock := newMessageService(t)

	// Missing id.
	mock.ExpectQuery(`SELECT id, from_username, to_username, body, sent_at, read_at`).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows(messageColumns()))
	_, missingErr := svc.Get(context.Background(), "gone", "mallory")

	// Existing message, third-party viewer.
	expectMessageRow(mock, "m1", "alice", "bob")
	_, thirdPartyErr := svc.Get(context.Background(), "m1", "mallory")

	// Both must fail identically so existence is never revealed.
	assert.ErrorIs(t, missingErr, common.ErrNotFound)
	assert.ErrorIs(t, thirdPartyErr, common.ErrNotFound)
}

func TestMessageService_Create(t *testing.T) {
	svc, mock := newMessageService(t)

	expectProfileRow(mock, "bob")
	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs(sqlmock.AnyArg(), "alice", "bob", "hello bob").
		WillReturnRows(sqlmock.NewRows([]string{"sent_at"}).AddRow(time.Now()))

	message, err := svc.Create(context.Background(), "alice", "bob", "hello bob")
	require.NoError(t, err)
	assert.NotEmpty(t, message.ID)
	assert.Equal(t, "alice", message.FromUsername)
	assert.Equal(t, "bob", message.ToUsername)
	assert.False(t, message.SentAt.IsZero())
	assert.Nil(t, message.ReadAt)
}

func TestMessageService_Create_UnknownRecipient(t *testing.T) {
	svc, mock := newMessageService(t)

	mock.ExpectQuery(`SELECT username, first_name, last_name, phone`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(profileColumns()))

	_, err := svc.Create(context.Background(), "alice", "nobody", "hello?")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// The pre-check fails before any row is persisted: no INSERT was
	// expected and none may have run.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageService_Create_EmptyBody(t *testing.T) {
	svc, _ := newMessageService(t)

	_, err := svc.Create(context.Background(), "alice", "bob", "")
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestMessageService_MarkRead(t *testing.T) {
	svc, mock := newMessageService(t)
	readAt := time.Now()

	expectMessageRow(mock, "m1", "alice", "bob")
	// COALESCE keeps the first read_at, so a repeat call cannot regress it.
	mock.ExpectQuery(`UPDATE messages SET read_at = COALESCE\(read_at, current_timestamp\)`).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "read_at"}).AddRow("m1", readAt))

	receipt, err := svc.MarkRead(context.Background(), "m1", "bob")
	require.NoError(t, err)
	assert.Equal(t, "m1", receipt.ID)
	assert.WithinDuration(t, readAt, receipt.ReadAt, time.Second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageService_MarkRead_NotRecipient(t *testing.T) {
	svc, mock := newMessageService(t)

	// Neither the sender nor a third party may mark the message read, and
	// both get the missing-id answer.
	expectMessageRow(mock, "m1", "alice", "bob")
	_, err := svc.MarkRead(context.Background(), "m1", "alice")
	assert.ErrorIs(t, err, common.ErrNotFound)

	expectMessageRow(mock, "m1", "alice", "bob")
	_, err = svc.MarkRead(context.Background(), "m1", "mallory")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
