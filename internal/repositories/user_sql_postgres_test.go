package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-plant-doctor/internal/migrations"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestUserSQLRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "user",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "plant_ai",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer pgC.Terminate(ctx)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://user:password@%s:%s/plant_ai?sslmode=disable", host, port.Port())
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrations.Run(ctx, db.DB, "pgx"))

	repo := NewUserSQLRepository(db, nil)

	alice := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h1", Role: models.RoleFarmer}
	require.NoError(t, repo.Save(ctx, alice))

	dup := &models.User{Email: "alice@example.com", PasswordHash: "h2", Role: models.RoleFarmer}
	assert.ErrorIs(t, repo.Save(ctx, dup), models.ErrDuplicateKey)

	require.NoError(t, repo.UpdatePassword(ctx, "alice@example.com", "h3"))
	assert.ErrorIs(t, repo.UpdateRole(ctx, "ghost@example.com", models.RoleAdmin), models.ErrNotFound)

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "h3", got.PasswordHash)

	missing, err := repo.GetByEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
