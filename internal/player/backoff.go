package player

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	MaxRetries     = 3
	BaseRetryDelay = time.Second
	MaxRetryDelay  = 10 * time.Second
)

// RetryDelay is the wait before retry attempt n (0-based): 1s, 2s, 4s, ...
// capped at MaxRetryDelay.
func RetryDelay(attempt int) time.Duration {
	return retryablehttp.DefaultBackoff(BaseRetryDelay, MaxRetryDelay, attempt, nil)
}
