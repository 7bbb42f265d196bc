// File: utils/constants.go
package utils

import "time"

// PushProfileCachePrefix is the prefix used for Redis push-profile cache keys.
const PushProfileCachePrefix = "pushprofile:"

// PushProfileCacheTTL is the time-to-live for push-profile cache entries.
const PushProfileCacheTTL = 10 * time.Minute
