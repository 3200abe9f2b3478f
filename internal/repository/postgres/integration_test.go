//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/conduit-go/userstore/internal/model"
	repo "github.com/conduit-go/userstore/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "userstore_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/userstore_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestUserRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	id, err := ur.Save(ctx, model.User{Email: "eve@example.com", Username: "eve"}, "hashed123", "s1")
	require.NoError(t, err)
	require.Positive(t, id.Value())

	t.Run("get_by_id", func(t *testing.T) {
		entry, err := ur.GetByID(ctx, id, model.UseCaseUserLogin)
		require.NoError(t, err)
		assert.Equal(t, "eve", entry.Username)
		assert.Equal(t, "eve@example.com", entry.Email)
		assert.Equal(t, "hashed123", entry.Password)
		assert.Equal(t, "s1", entry.Salt)
		assert.Equal(t, model.UserID(0), entry.ID)
	})

	t.Run("get_by_email", func(t *testing.T) {
		entry, err := ur.GetByEmail(ctx, "eve@example.com", model.UseCaseUserLogin)
		require.NoError(t, err)
		assert.Equal(t, id, entry.ID)
		assert.Equal(t, "eve", entry.Username)
		assert.Nil(t, entry.Image)
	})

	t.Run("duplicate_email_fails_as_registration", func(t *testing.T) {
		_, err := ur.Save(ctx, model.User{Email: "eve@example.com", Username: "eve2"}, "x", "y")
		require.Error(t, err)

		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, model.UseCaseUserRegister, appErr.UseCase)
	})

	t.Run("missing_email_fails_with_caller_tag", func(t *testing.T) {
		_, err := ur.GetByEmail(ctx, "nobody@example.com", model.UseCaseGetUserProfile)
		require.Error(t, err)

		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, model.UseCaseGetUserProfile, appErr.UseCase)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("update_bio_keeps_other_fields", func(t *testing.T) {
		bio := "hi"
		updated, err := ur.UpdateByID(ctx, id, nil, &bio, nil)
		require.NoError(t, err)
		assert.Equal(t, "hi", updated.Bio)

		entry, err := ur.GetByEmail(ctx, "eve@example.com", model.UseCaseUserLogin)
		require.NoError(t, err)
		assert.Equal(t, "hi", entry.Bio)
		assert.Equal(t, "eve@example.com", entry.Email)
		assert.Equal(t, "eve", entry.Username)
	})

	t.Run("update_email_only", func(t *testing.T) {
		email := "eve2@example.com"
		_, err := ur.UpdateByID(ctx, id, &email, nil, nil)
		require.NoError(t, err)

		entry, err := ur.GetByEmail(ctx, "eve2@example.com", model.UseCaseUserLogin)
		require.NoError(t, err)
		assert.Equal(t, id, entry.ID)
		assert.Equal(t, "hi", entry.Bio)
	})

	t.Run("profile_with_followings", func(t *testing.T) {
		aliceID, err := ur.Save(ctx, model.User{Email: "alice@example.com", Username: "alice"}, "h2", "s2")
		require.NoError(t, err)
		bobID, err := ur.Save(ctx, model.User{Email: "bob@example.com", Username: "bob"}, "h3", "s3")
		require.NoError(t, err)

		_, err = conn.Exec(ctx,
			"INSERT INTO followings (user_id, followed_user_id) VALUES ($1, $2), ($1, $3)",
			id.Value(), aliceID.Value(), bobID.Value())
		require.NoError(t, err)

		dto, err := ur.GetProfileByUsername(ctx, "eve", model.UseCaseGetUserProfile)
		require.NoError(t, err)
		assert.Equal(t, "eve", dto.Username)
		assert.Equal(t, "hi", dto.Bio)
		require.NotNil(t, dto.Following)
		assert.ElementsMatch(t, []model.UserID{aliceID, bobID}, dto.Following)
	})

	t.Run("profile_for_unknown_username", func(t *testing.T) {
		_, err := ur.GetProfileByUsername(ctx, "ghost", model.UseCaseGetUserProfile)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
