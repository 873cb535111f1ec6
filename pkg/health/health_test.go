package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckerAllHealthy(t *testing.T) {
	c := NewChecker(time.Second)
	c.Register("database", func(ctx context.Context) error { return nil })
	c.Register("redis", func(ctx context.Context) error { return nil })

	results, healthy := c.Run(context.Background())

	assert.True(t, healthy)
	require.Len(t, results, 2)
	assert.True(t, results["database"].Healthy)
	assert.True(t, results["redis"].Healthy)
}

func TestCheckerReportsFailure(t *testing.T) {
	c := NewChecker(time.Second)
	c.Register("database", func(ctx context.Context) error { return nil })
	c.Register("redis", func(ctx context.Context) error { return errors.New("connection refused") })

	results, healthy := c.Run(context.Background())

	assert.False(t, healthy)
	assert.True(t, results["database"].Healthy)
	assert.False(t, results["redis"].Healthy)
	assert.Equal(t, "connection refused", results["redis"].Error)
}

func TestCheckerTimeoutCancelsChecks(t *testing.T) {
	c := NewChecker(10 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	results, healthy := c.Run(context.Background())

	assert.False(t, healthy)
	assert.False(t, results["slow"].Healthy)
}
