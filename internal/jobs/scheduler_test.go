package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type relayStub struct {
	runs      int
	runErr    error
	retention time.Duration
}

func (r *relayStub) RunOnce(ctx context.Context) (int, error) {
	r.runs++
	return 1, r.runErr
}

func (r *relayStub) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	r.retention = olderThan
	return 3, nil
}

type snapshotStub struct{ runs int }

func (s *snapshotStub) Execute(ctx context.Context) (int, error) {
	s.runs++
	return 0, nil
}

func testConfig() Config {
	return Config{OutboxInterval: "@every 5s", LeaderboardSnapshot: "@hourly", OutboxRetention: 48 * time.Hour}
}

func TestScheduler_Jobs(t *testing.T) {
	relay := &relayStub{runErr: errors.New("db down")}
	snapshot := &snapshotStub{}
	s := NewScheduler(testConfig(), relay, snapshot)
	ctx := context.Background()

	s.runRelay(ctx)
	s.runSnapshot(ctx)
	s.runCleanup(ctx)

	assert.Equal(t, 1, relay.runs)
	assert.Equal(t, 1, snapshot.runs)
	assert.Equal(t, 48*time.Hour, relay.retention)
}

func TestScheduler_StartRegistersJobs(t *testing.T) {
	s := NewScheduler(testConfig(), &relayStub{}, &snapshotStub{})
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 3)
}

func TestScheduler_InvalidSpec(t *testing.T) {
	cfg := testConfig()
	cfg.LeaderboardSnapshot = "каждый час"
	s := NewScheduler(cfg, &relayStub{}, &snapshotStub{})

	err := s.Start(context.Background())
	assert.Error(t, err)
}
