package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/syclar/internal/auth"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=subscription_mocks_test.go -package=middleware_test

type entitlementChecker interface {
	HasActiveSubscription(ctx context.Context, userID string) (bool, error)
}

// SubscriptionGate answers 402 on the premium paths for users without an active subscription.
// It expects the auth middleware to run first.
func SubscriptionGate(entitlement entitlementChecker, premiumPrefixes []string) func(next http.Handler) http.Handler {
	isPremium := func(path string) bool {
		for _, prefix := range premiumPrefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || !isPremium(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			active, err := entitlement.HasActiveSubscription(r.Context(), userID)
			if err != nil {
				log.Errorf("subscription gate, check [%s]: %s", userID, err)
				http.Error(w, "subscription check failed", http.StatusInternalServerError)
				return
			}
			if !active {
				http.Error(w, "subscription required", http.StatusPaymentRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
