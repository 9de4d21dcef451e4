// shared/redis/constants.go
package redis

import "fmt"

const (
	// LiveLotKeyPrefix is the key for the TTL'd snapshot of an auction's
	// current lot: live_lot:{auctionID}. Refreshed on every accepted bid and
	// every timer tick; expires on its own when the auction goes quiet.
	LiveLotKeyPrefix = "live_lot:{%s}"
)

// ErrRedisKeyNotFound is returned when a looked-up key is absent or expired.
var ErrRedisKeyNotFound = fmt.Errorf("redis key not found")
