package constants

import (
	"fmt"
	"time"
)

// Redis key and TTL catalog for the book fair platform.
// Pattern: bookfair:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_SHORT = 6 * time.Hour // user profiles

	TTL_SEMI_STATIC_SHORT = 1 * time.Hour    // catalog-wide aggregates
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // filtered catalog listings

	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // dashboard statistics
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // stall availability listings
	TTL_DYNAMIC_QUICK  = 2 * time.Minute  // per-stall reservation lookups
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "bookfair"
)

// ================== STALLS MODULE ==================

const (
	CACHE_KEY_STALLS_LIST      = CACHE_PREFIX + ":stalls:list"         // + :status:X:size:Y
	CACHE_KEY_STALLS_AVAILABLE = CACHE_PREFIX + ":stalls:available"    //
	CACHE_KEY_STALL_DETAIL     = CACHE_PREFIX + ":stalls:detail:uuid:" // + stall-id
	CACHE_KEY_STALL_STATS      = CACHE_PREFIX + ":stalls:stats"        //
)

const (
	TTL_STALLS_LIST      = TTL_DYNAMIC_SHORT
	TTL_STALLS_AVAILABLE = TTL_DYNAMIC_QUICK
	TTL_STALL_DETAIL     = TTL_DYNAMIC_MEDIUM
	TTL_STALL_STATS      = TTL_DYNAMIC_MEDIUM
)

// ================== RESERVATIONS MODULE ==================

const (
	CACHE_KEY_USER_RESERVATIONS  = CACHE_PREFIX + ":reservations:user:uuid:"   // + user-id
	CACHE_KEY_RESERVATION_DETAIL = CACHE_PREFIX + ":reservations:detail:uuid:" // + reservation-id
	CACHE_KEY_STALL_RESERVATION  = CACHE_PREFIX + ":reservations:stall:uuid:"  // + stall-id
)

const (
	TTL_USER_RESERVATIONS  = TTL_DYNAMIC_MEDIUM
	TTL_RESERVATION_DETAIL = TTL_DYNAMIC_MEDIUM
	TTL_STALL_RESERVATION  = TTL_DYNAMIC_QUICK
)

// ================== DASHBOARD MODULE ==================

const (
	CACHE_KEY_DASHBOARD_STATS = CACHE_PREFIX + ":dashboard:stats:staff"
)

const (
	TTL_DASHBOARD_STATS = TTL_DYNAMIC_MEDIUM
)

// ================== AUTH MODULE ==================

const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":auth:user:profile:uuid:" // + user-id
)

const (
	TTL_USER_PROFILE = TTL_STATIC_SHORT
)

// ================== PORTAL MODULE ==================

// Session-scoped selection handoff between the selection and review steps.
const (
	CACHE_KEY_PORTAL_SELECTION = CACHE_PREFIX + ":portal:selection:" // + user-id
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_STALLS_ALL       = CACHE_PREFIX + ":stalls:*"
	PATTERN_INVALIDATE_RESERVATIONS_ALL = CACHE_PREFIX + ":reservations:*"
	PATTERN_INVALIDATE_DASHBOARD        = CACHE_PREFIX + ":dashboard:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildStallListKey constructs the catalog listing key for a filter combination.
// Example: BuildStallListKey("AVAILABLE", "MEDIUM") -> "bookfair:stalls:list:status:AVAILABLE:size:MEDIUM"
func BuildStallListKey(status, size string) string {
	key := CACHE_KEY_STALLS_LIST
	if status != "" {
		key += ":status:" + status
	}
	if size != "" {
		key += ":size:" + size
	}
	return key
}

func BuildStallDetailKey(stallID string) string {
	return CACHE_KEY_STALL_DETAIL + stallID
}

func BuildStallReservationKey(stallID string) string {
	return CACHE_KEY_STALL_RESERVATION + stallID
}

func BuildUserReservationsKey(userID string, page int) string {
	return CACHE_KEY_USER_RESERVATIONS + userID + ":page:" + fmt.Sprintf("%d", page)
}

func BuildUserProfileKey(userID string) string {
	return CACHE_KEY_USER_PROFILE + userID
}

func BuildPortalSelectionKey(userID string) string {
	return CACHE_KEY_PORTAL_SELECTION + userID
}
