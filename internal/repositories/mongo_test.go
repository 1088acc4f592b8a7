package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/juju/mgo/v3"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startMongo(t *testing.T) *mgo.Session {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo container test in short mode")
	}
	ctx := context.Background()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:4.4",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { mongoC.Terminate(ctx) })

	host, err := mongoC.Host(ctx)
	require.NoError(t, err)
	port, err := mongoC.MappedPort(ctx, "27017")
	require.NoError(t, err)

	session, err := DialMongo(fmt.Sprintf("mongodb://%s:%s", host, port.Port()), 20*time.Second)
	require.NoError(t, err)
	t.Cleanup(session.Close)
	return session
}

func TestMongoRepositories(t *testing.T) {
	session := startMongo(t)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		repo := NewUserMongoRepository(session, "users_test")
		require.NoError(t, repo.EnsureIndexes())

		user, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)

		alice := &models.User{Email: "alice@example.com", PasswordHash: "h1", Role: models.RoleFarmer}
		require.NoError(t, repo.Save(ctx, alice))
		assert.NotEmpty(t, alice.ID)

		dup := &models.User{Email: "alice@example.com", PasswordHash: "h2", Role: models.RoleFarmer}
		assert.ErrorIs(t, repo.Save(ctx, dup), models.ErrDuplicateKey)

		require.NoError(t, repo.UpdatePassword(ctx, "alice@example.com", "h3"))
		require.NoError(t, repo.UpdateRole(ctx, "alice@example.com", models.RoleAdmin))
		assert.ErrorIs(t, repo.UpdatePassword(ctx, "ghost@example.com", "h"), models.ErrNotFound)

		got, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, "h3", got.PasswordHash)
		assert.Equal(t, models.RoleAdmin, got.Role)

		require.NoError(t, repo.Save(ctx, &models.User{Email: "bob@example.com", PasswordHash: "h", Role: models.RoleFarmer}))
		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "alice@example.com", users[0].Email)
		assert.Equal(t, "bob@example.com", users[1].Email)
	})

	t.Run("history newest first", func(t *testing.T) {
		repo := NewHistoryMongoRepository(session, "history_test")
		require.NoError(t, repo.EnsureIndexes())

		empty, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty)

		base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		older := &models.HistoryEntry{User: "Anonymous", Disease: "Healthy", Confidence: "100%", Date: base}
		newer := &models.HistoryEntry{User: "bob", Disease: "Leaf Blight", Confidence: "92%",
			UploadedImage: "/uploads/x.png", Date: base.Add(time.Minute)}
		tied := &models.HistoryEntry{User: "carol", Disease: "Nutrient Deficiency", Confidence: "87%", Date: base}

		require.NoError(t, repo.Save(ctx, older))
		require.NoError(t, repo.Save(ctx, newer))
		require.NoError(t, repo.Save(ctx, tied))
		assert.NotEmpty(t, older.ID)

		entries, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, newer.ID, entries[0].ID)
		assert.Equal(t, "/uploads/x.png", entries[0].UploadedImage)
		assert.Equal(t, tied.ID, entries[1].ID)
		assert.Equal(t, older.ID, entries[2].ID)
		assert.True(t, entries[2].Date.Equal(base))
	})
}
