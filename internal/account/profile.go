package account

import (
	"math"
	"time"
)

type SubscriptionStatus string

const (
	StatusTrialing SubscriptionStatus = "trialing"
	StatusActive   SubscriptionStatus = "active"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusNone     SubscriptionStatus = "none"
)

const (
	TrialLength = 3 * 24 * time.Hour
	// MonthlyPrice is shown on the account page, in USD.
	MonthlyPrice = 29
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusTrialing, StatusActive, StatusCanceled, StatusPastDue, StatusNone:
		return true
	}
	return false
}

type Profile struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	PasswordHash       string             `json:"-"`
	StripeCustomerID   string             `json:"stripeCustomerId,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	SubscriptionID     string             `json:"subscriptionId,omitempty"`
	TrialEndsAt        *time.Time         `json:"trialEndsAt"`
	CurrentPeriodEnd   *time.Time         `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool               `json:"cancelAtPeriodEnd"`
	CreatedAt          time.Time          `json:"createdAt"`
}

type SubscriptionInfo struct {
	HasActiveSubscription bool `json:"hasActiveSubscription"`
	IsTrialing            bool `json:"isTrialing"`
	TrialDaysRemaining    int  `json:"trialDaysRemaining"`
	IsTrialExpired        bool `json:"isTrialExpired"`
	IsCanceled            bool `json:"isCanceled"`
	CancelAtPeriodEnd     bool `json:"cancelAtPeriodEnd"`
	DaysUntilCancellation int  `json:"daysUntilCancellation"`
	Price                 int  `json:"price"`
}

// daysUntil rounds the remaining time up to whole days, never below 0.
func daysUntil(t *time.Time, now time.Time) int {
	if t == nil {
		return 0
	}
	days := math.Ceil(t.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

func (p *Profile) Subscription(now time.Time) SubscriptionInfo {
	info := SubscriptionInfo{
		IsTrialing:         p.SubscriptionStatus == StatusTrialing,
		TrialDaysRemaining: daysUntil(p.TrialEndsAt, now),
		IsCanceled:         p.SubscriptionStatus == StatusCanceled,
		CancelAtPeriodEnd:  p.CancelAtPeriodEnd,
		Price:              MonthlyPrice,
	}
	info.IsTrialExpired = p.SubscriptionStatus == StatusNone &&
		p.TrialEndsAt != nil &&
		p.TrialEndsAt.Before(now)
	if p.CancelAtPeriodEnd {
		info.DaysUntilCancellation = daysUntil(p.CurrentPeriodEnd, now)
	}
	info.HasActiveSubscription = p.SubscriptionStatus == StatusActive ||
		(info.IsTrialing && info.TrialDaysRemaining > 0)
	return info
}
