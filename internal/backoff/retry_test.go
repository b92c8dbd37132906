package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantBackoffPolicyReturnsFixedInterval(t *testing.T) {
	p := NewConstantBackoffPolicy(10 * time.Millisecond)
	d, err := p.ComputeNextInterval(0, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, d)

	d, err = p.ComputeNextInterval(5, time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, d)
}

func TestConstantBackoffPolicyExhaustsAtMaxRetries(t *testing.T) {
	p := &ConstantBackoffPolicy{Interval: time.Millisecond, MaxRetries: 2}
	_, err := p.ComputeNextInterval(0, 0, nil)
	require.NoError(t, err)
	_, err = p.ComputeNextInterval(2, 0, nil)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
}

func TestRetrierNextWaitsThenSucceeds(t *testing.T) {
	r := NewRetrier(NewConstantBackoffPolicy(5 * time.Millisecond))
	start := time.Now()
	err := r.Next(context.Background(), nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestRetrierNextCanceledByContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	r := NewRetrier(NewConstantBackoffPolicy(time.Second))
	err := r.Next(ctx, nil)
	assert.ErrorIs(t, err, ErrOperationCanceled)
}

func TestRetrierResetClearsRetryCount(t *testing.T) {
	r := NewRetrier(&ConstantBackoffPolicy{Interval: time.Millisecond, MaxRetries: 1})
	require.NoError(t, r.Next(context.Background(), nil))
	require.Error(t, r.Next(context.Background(), nil))
	r.Reset()
	require.NoError(t, r.Next(context.Background(), nil))
}
