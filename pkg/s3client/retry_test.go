package s3client

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, true},
		{"service unavailable", &smithy.GenericAPIError{Code: "ServiceUnavailable"}, true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"not found", &types.NotFound{}, false},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"deadline", context.DeadlineExceeded, true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestCalculateDelay(t *testing.T) {
	p := retryPolicy{maxRetries: 5, baseDelay: 100 * time.Millisecond, maxDelay: time.Second}

	for attempt := 0; attempt < 3; attempt++ {
		base := float64(p.baseDelay) * float64(int(1)<<attempt)
		got := float64(p.calculateDelay(attempt))
		assert.GreaterOrEqual(t, got, base*0.75)
		assert.LessOrEqual(t, got, base*1.25)
	}

	assert.Equal(t, time.Second, p.calculateDelay(10))
}

func TestWithRetry(t *testing.T) {
	p := retryPolicy{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: time.Millisecond}

	t.Run("succeeds after transient errors", func(t *testing.T) {
		calls := 0
		got, err := withRetry(context.Background(), p, func() (string, error) {
			calls++
			if calls < 3 {
				return "", &smithy.GenericAPIError{Code: "SlowDown"}
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		_, err := withRetry(context.Background(), p, func() (int, error) {
			calls++
			return 0, &smithy.GenericAPIError{Code: "AccessDenied"}
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		_, err := withRetry(context.Background(), p, func() (int, error) {
			calls++
			return 0, io.ErrUnexpectedEOF
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, 4, calls)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := retryPolicy{maxRetries: 3, baseDelay: time.Hour, maxDelay: time.Hour}
		_, err := withRetry(ctx, slow, func() (int, error) {
			return 0, io.ErrUnexpectedEOF
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
