package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/model"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// одна база на соединение
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&model.User{}, &model.Address{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newUser(name, email string) *model.User {
	return &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "h",
		BirthDate:    time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPostgresUserRepo_CreateAndGet(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	u := newUser("Alice", "a@x.com")
	u.Addresses = []model.Address{
		{Cep: 1, Street: "Rua A", StreetNumber: 10, City: "Rio", State: "RJ"},
		{Cep: 2, Street: "Rua B", StreetNumber: 20, Complement: 3, City: "Rio", State: "RJ"},
	}
	require.NoError(t, repo.CreateUser(ctx, u))
	require.NotZero(t, u.ID)
	require.Len(t, u.Addresses, 2)
	for _, a := range u.Addresses {
		require.NotZero(t, a.ID)
		require.Equal(t, u.ID, a.UserID)
	}

	got, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", got.Email)
	require.Len(t, got.Addresses, 2)

	byEmail, err := repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, "h", byEmail.PasswordHash)
}

func TestPostgresUserRepo_NotFound(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	_, err := repo.GetUserByID(ctx, 404)
	if !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = repo.GetUserByEmail(ctx, "nobody@x.com")
	require.True(t, customErrors.IsNotFound(err))
}

func TestPostgresUserRepo_DuplicateEmail(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, newUser("Alice", "a@x.com")))

	dup := newUser("Other", "a@x.com")
	dup.Addresses = []model.Address{{Street: "Rua C"}}
	err := repo.CreateUser(ctx, dup)
	require.ErrorIs(t, err, customErrors.ErrAlreadyExists)

	n, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	var addresses int64
	require.NoError(t, repo.db.Model(&model.Address{}).Count(&addresses).Error)
	require.Zero(t, addresses, "failed create must not leave addresses behind")
}

func TestPostgresUserRepo_ConcurrentDuplicate(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.CreateUser(ctx, newUser(fmt.Sprintf("U%d", i), "same@x.com"))
		}(i)
	}
	wg.Wait()

	ok, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, customErrors.ErrAlreadyExists):
			conflicts++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, conflicts)
}

func TestPostgresUserRepo_ListAndCount(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	for _, name := range []string{"Carol", "alice", "Bob", "Alice", "Dave"} {
		require.NoError(t, repo.CreateUser(ctx, newUser(name, name+"@x.com")))
	}

	users, err := repo.ListUsers(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "Alice", users[0].Name)
	require.Equal(t, "Bob", users[1].Name)
	require.Equal(t, "Carol", users[2].Name)

	users, err = repo.ListUsers(ctx, 10, 3)
	require.NoError(t, err)
	require.Len(t, users, 2)

	users, err = repo.ListUsers(ctx, 10, 50)
	require.NoError(t, err)
	require.NotNil(t, users)
	require.Empty(t, users)

	n, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 5, n)
}

func mockRepo(t *testing.T) (*PostgresUserRepo, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return NewPostgresUserRepo(db), mock
}

func TestPostgresUserRepo_PgUniqueViolation(t *testing.T) {
	repo, mock := mockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.CreateUser(context.Background(), newUser("Alice", "a@x.com"))
	require.ErrorIs(t, err, customErrors.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepo_StorageFaultIsInternal(t *testing.T) {
	repo, mock := mockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.GetUserByID(context.Background(), 1)
	require.True(t, customErrors.IsInternal(err))
	require.False(t, customErrors.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
