package account

import (
	"context"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	entitlementCacheSize  = 1 << 20 // 1 MB, freecache minimum is 512 KB
	DefaultEntitlementTTL = 60 * time.Second
)

type subscriptionSource interface {
	Subscription(ctx context.Context, userID string) (*Profile, SubscriptionInfo, error)
}

// Entitlement answers whether a user may use premium features.
// Answers are cached in memory for ttl.
type Entitlement struct {
	source   subscriptionSource
	cache    *freecache.Cache
	ttl      time.Duration
	grantAll bool
}

func NewEntitlement(source subscriptionSource, ttl time.Duration, grantAll bool) *Entitlement {
	return &Entitlement{
		source:   source,
		cache:    freecache.NewCache(entitlementCacheSize),
		ttl:      ttl,
		grantAll: grantAll,
	}
}

func (e *Entitlement) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	if e.grantAll {
		return true, nil
	}

	key := []byte(userID)
	if cached, err := e.cache.Get(key); err == nil && len(cached) == 1 {
		return cached[0] == 1, nil
	}

	_, info, err := e.source.Subscription(ctx, userID)
	if err != nil {
		return false, err
	}

	val := byte(0)
	if info.HasActiveSubscription {
		val = 1
	}
	if err := e.cache.Set(key, []byte{val}, int(e.ttl.Seconds())); err != nil {
		log.Warnf("entitlement cache set [%s]: %s", userID, err)
	}

	return info.HasActiveSubscription, nil
}

// Forget drops the cached answer, e.g. after a subscription change.
func (e *Entitlement) Forget(userID string) {
	e.cache.Del([]byte(userID))
}
