package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/secure-users-api/internal/domain/entity"
	"github.com/oksasatya/secure-users-api/internal/domain/repository"
)

/* ──────────────────────────────── helpers ──────────────────────────────── */

var ts = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

var userColumnNames = []string{"id", "name", "email", "phone", "address", "city", "country", "created_at", "updated_at"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, NewUserRepository(mock)
}

func userRows(emails ...string) *pgxmock.Rows {
	rows := pgxmock.NewRows(userColumnNames)
	for i, email := range emails {
		rows.AddRow(int64(i+1), "Ali Valiev", email, "+998901234567", "Amir Temur 1", "Tashkent", "Uzbekistan", ts, ts)
	}
	return rows
}

func userRow(id int64, email string) *pgxmock.Rows {
	return pgxmock.NewRows(userColumnNames).
		AddRow(id, "Ali Valiev", email, "+998901234567", "Amir Temur 1", "Tashkent", "Uzbekistan", ts, ts)
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

/* ──────────────────────────────── tests ──────────────────────────────── */

func TestUserRepository_List(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(q("ORDER BY id ASC")).
		WillReturnRows(userRows("a@example.com", "b@example.com"))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "b@example.com", got[1].Email)
}

func TestUserRepository_List_Empty(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(q("FROM users")).WillReturnRows(pgxmock.NewRows(userColumnNames))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(q("WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(q("WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(userRow(1, "a@example.com"))

	u, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, ts, u.CreatedAt)
}

func TestUserRepository_Create(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("Ali", "ali@example.com", "+998901234567", "Street 1", "Tashkent", "Uzbekistan").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), ts, ts))

	u := &entity.User{Name: "Ali", Email: "ali@example.com", Phone: "+998901234567", Address: "Street 1", City: "Tashkent", Country: "Uzbekistan"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(5), u.ID)
	assert.Equal(t, ts, u.CreatedAt)
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &entity.User{Email: "dup@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserRepository_Update_IDLastDatabaseClock(t *testing.T) {
	mock, repo := newMock(t)
	later := ts.Add(time.Hour)
	mock.ExpectQuery(q("updated_at = " + touchUpdatedAt)).
		WithArgs("N", "e@example.com", "p", "a", "c", "k", int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, later))

	u := &entity.User{ID: 9, Name: "N", Email: "e@example.com", Phone: "p", Address: "a", City: "c", Country: "k"}
	require.NoError(t, repo.Update(context.Background(), u))
	assert.Equal(t, ts, u.CreatedAt)
	assert.Equal(t, later, u.UpdatedAt)
}

func TestUserRepository_Patch(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(q("UPDATE users SET email = $1, updated_at = "+touchUpdatedAt+" WHERE id = $2 RETURNING")).
		WithArgs("new@example.com", int64(3)).
		WillReturnRows(userRow(3, "new@example.com"))

	u, err := repo.Patch(context.Background(), 3, repository.Changes{repository.FieldEmail: "new@example.com", "id": "999"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "new@example.com", u.Email)
}

func TestUserRepository_Patch_NotFound(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(q("UPDATE users SET city = $1")).
		WithArgs("Khiva", int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Patch(context.Background(), 404, repository.Changes{repository.FieldCity: "Khiva"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_Patch_NoChanges(t *testing.T) {
	_, repo := newMock(t)

	// no expectations: the statement must never be sent
	_, err := repo.Patch(context.Background(), 3, repository.Changes{"id": "999"})
	assert.ErrorIs(t, err, repository.ErrNoChanges)
}

func TestUserRepository_Delete(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec(q("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(q("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.ErrorIs(t, repo.Delete(context.Background(), 2), repository.ErrNotFound)
}
