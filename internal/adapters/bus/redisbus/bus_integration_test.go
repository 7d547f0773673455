//go:build integration

package redisbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestBus_FansOutBetweenInstances(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	url := "redis://" + endpoint

	recA, recB := &recorder{}, &recorder{}
	a, err := Dial(ctx, url, Config{Local: recA})
	require.NoError(t, err)
	defer a.Close()
	b, err := Dial(ctx, url, Config{Local: recB})
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Start(ctx))
	require.NoError(t, b.Start(ctx))

	a.SchedulesChanged(ctx, "u1")

	assert.Eventually(t, func() bool {
		return len(recB.got()) == 1
	}, 5*time.Second, 20*time.Millisecond)
	// A sólo se entera una vez (local), no por su propio mensaje.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"u1"}, recA.got())
	assert.Equal(t, []string{"u1"}, recB.got())
}
