package jobsrv_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job/jobsrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	mu    sync.Mutex
	calls []int
	err   error
}

func (p *countingPurger) PurgeExpiredDeletions(ctx context.Context, days int) (*job.PurgeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, days)
	if p.err != nil {
		return nil, p.err
	}
	return &job.PurgeResult{}, nil
}

func (p *countingPurger) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func TestSweeperRunOnceSurvivesErrors(t *testing.T) {
	p := &countingPurger{err: errors.New("db down")}
	s := jobsrv.NewPurgeSweeper(p, time.Hour, 30)

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())
	assert.Equal(t, []int{30, 30}, p.calls)
}

func TestSweeperStartsWithASweepAndStopsOnCancel(t *testing.T) {
	p := &countingPurger{}
	s := jobsrv.NewPurgeSweeper(p, time.Hour, 30)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.count() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeperPurgesThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	j := f.publishedJob(t, "PA", "Belém", 1)
	_, err := f.svc.SoftDeleteJob(ctx, manager, j.ID)
	require.NoError(t, err)

	s := jobsrv.NewPurgeSweeper(f.svc, time.Hour, 30)
	f.clock.Advance(30*24*time.Hour + time.Minute)
	s.RunOnce(ctx)

	_, err = f.repo.FindByID(ctx, j.ID)
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))
}
