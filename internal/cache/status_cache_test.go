package cache

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/pipeline"
)

type countingRepo struct {
	lists int
	defs  []domain.StatusDefinition
}

func (r *countingRepo) ListStatuses(ctx context.Context, scope domain.Scope) ([]domain.StatusDefinition, error) {
	r.lists++
	return r.defs, nil
}

func (r *countingRepo) GetByID(ctx context.Context, scope domain.Scope, id string) (*domain.StatusDefinition, error) {
	for i := range r.defs {
		if r.defs[i].ID == id {
			return &r.defs[i], nil
		}
	}
	return nil, nil
}

func (r *countingRepo) ListTransitionRules(ctx context.Context, scope domain.Scope) ([]pipeline.TransitionRule, error) {
	return nil, nil
}

func TestKey(t *testing.T) {
	scope := domain.Scope{OrganizationID: "org-1", Pipeline: domain.PipelineBgv}
	assert.Equal(t, "pipeline:statuses:org-1:bgv", Key(scope))
}

func TestStatusCacheWithoutClientPassesThrough(t *testing.T) {
	repo := &countingRepo{defs: []domain.StatusDefinition{{ID: "m", Name: "Screening", Type: domain.StatusTypeMain}}}
	c := NewStatusCache(repo, nil, time.Minute, time.Second, zap.NewNop())
	scope := domain.Scope{OrganizationID: "org-1", Pipeline: domain.PipelineRecruitment}

	for i := 0; i < 2; i++ {
		defs, err := c.ListStatuses(context.Background(), scope)
		require.NoError(t, err)
		assert.Len(t, defs, 1)
	}
	assert.Equal(t, 2, repo.lists)
	assert.NoError(t, c.Invalidate(context.Background(), scope))

	def, err := c.GetByID(context.Background(), scope, "m")
	require.NoError(t, err)
	assert.Equal(t, "Screening", def.Name)
}

// silentServer accepts connections and never answers, like a wedged Redis.
func silentServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range conns {
			_ = conn.Close()
		}
	})
	return ln.Addr().String()
}

func TestStatusCacheFallsBackWhenRedisHangs(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:                  silentServer(t),
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		MaxRetries:            -1,
		ContextTimeoutEnabled: true,
	})
	t.Cleanup(func() { _ = client.Close() })

	repo := &countingRepo{defs: []domain.StatusDefinition{{ID: "m", Name: "Screening", Type: domain.StatusTypeMain}}}
	c := NewStatusCache(repo, client, time.Minute, 100*time.Millisecond, zap.NewNop())
	scope := domain.Scope{OrganizationID: "org-1", Pipeline: domain.PipelineRecruitment}

	start := time.Now()
	defs, err := c.ListStatuses(context.Background(), scope)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, defs, 1)
	assert.Equal(t, "Screening", defs[0].Name)
	assert.Equal(t, 1, repo.lists)

	start = time.Now()
	assert.Error(t, c.Invalidate(context.Background(), scope))
	assert.Less(t, time.Since(start), time.Second)
}
