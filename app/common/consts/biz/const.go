package biz

import "time"

const (
	// GuestPrefix marks synthetic session ids that carry no customer profile.
	GuestPrefix = "guest-"

	SessionKeyPrefix     = "assistant:session:"
	SessionLockKeyPrefix = "assistant:session:lock:"
	SessionTTL           = time.Hour * 24 * 7

	CustomerBloomKey     = "assistant:bloom:customer"
	CustomerBloomBits    = 1 << 20
	CustomerBloomRefresh = time.Minute * 10

	MaxRecommendations = 6
)
