package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/scythe504/rhetoric-frontier/internal"
)

var svc Service

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	svc, err = New(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	svc.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestHealth(t *testing.T) {
	stats := svc.Health(context.Background())
	assert.Equal(t, "up", stats["status"])
}

func TestRecordAndRecentRounds(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for round := 1; round <= 3; round++ {
		err := svc.RecordRound(ctx, internal.RoundRecord{
			RoomCode:    "ABCDE",
			Mode:        internal.ModeConquest,
			Round:       round,
			Names:       map[string]string{"p1": "Ada", "p2": "Bo"},
			Scores:      map[string]int{"p1": round * 2, "p2": round},
			RoundScores: map[string]int{"p1": 2, "p2": 1},
			FinishedAt:  base.Add(time.Duration(round) * time.Minute),
		})
		require.NoError(t, err)
	}

	recs, err := svc.RecentRounds(ctx, "ABCDE", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, 3, recs[0].Round)
	assert.Equal(t, 2, recs[1].Round)
	assert.Equal(t, internal.ModeConquest, recs[0].Mode)
	assert.Equal(t, map[string]int{"p1": 6, "p2": 3}, recs[0].Scores)
	assert.Equal(t, "Ada", recs[0].Names["p1"])
	assert.Empty(t, recs[0].Territory)
	assert.True(t, recs[0].FinishedAt.Equal(base.Add(3*time.Minute)))

	none, err := svc.RecentRounds(ctx, "ZZZZZ", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestConfig_ConnString(t *testing.T) {
	c := Config{Host: "db", Port: "5432", Database: "game", Username: "u", Password: "p@ss", Schema: "public"}
	assert.True(t, c.Enabled())
	assert.Equal(t, "postgres://u:p%40ss@db:5432/game?search_path=public&sslmode=disable", c.ConnString())
	assert.False(t, Config{}.Enabled())
}
