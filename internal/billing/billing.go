// Package billing holds the plan catalog and the payment-provider stub
// used by plan upgrades.
package billing

import (
	"errors"
	"fmt"
)

// Plan keys in ascending order of entitlement.
const (
	PlanFree     = "free"
	PlanPro      = "pro"
	PlanBusiness = "business"
)

// ErrInvalidPlan is returned for plan keys outside the catalog.
var ErrInvalidPlan = errors.New("invalid plan")

// Plan describes one subscription tier.
type Plan struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	PriceUSD    int    `json:"price_usd"`
	Description string `json:"description"`
}

// Plans is the subscription catalog.
var Plans = []Plan{
	{Key: PlanFree, Name: "Free", PriceUSD: 0, Description: "Up to 3 projects, monthly analytics"},
	{Key: PlanPro, Name: "Pro", PriceUSD: 19, Description: "Custom date ranges and full breakdowns"},
	{Key: PlanBusiness, Name: "Business", PriceUSD: 49, Description: "Everything in Pro plus priority support"},
}

// planOrder defines the entitlement ordering used by plan gating.
var planOrder = []string{PlanFree, PlanPro, PlanBusiness}

// IsValidPlan reports whether the key exists in the catalog.
func IsValidPlan(key string) bool {
	for _, p := range Plans {
		if p.Key == key {
			return true
		}
	}
	return false
}

// planIndex returns the entitlement rank of a plan, -1 when unknown.
func planIndex(key string) int {
	for i, k := range planOrder {
		if k == key {
			return i
		}
	}
	return -1
}

// Allows reports whether userPlan meets or exceeds requiredPlan. Unknown
// user plans never qualify.
func Allows(userPlan, requiredPlan string) bool {
	userIdx := planIndex(userPlan)
	requiredIdx := planIndex(requiredPlan)
	if userIdx == -1 || requiredIdx == -1 {
		return false
	}
	return userIdx >= requiredIdx
}

// UpgradeResult is the outcome of initiating a payment flow.
type UpgradeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TriggerUpgrade initiates a payment flow for upgrading a user's plan.
// Stub: replace with a real payment provider integration.
func TriggerUpgrade(userID, newPlan string) (UpgradeResult, error) {
	if !IsValidPlan(newPlan) {
		return UpgradeResult{}, ErrInvalidPlan
	}
	return UpgradeResult{
		Success: true,
		Message: fmt.Sprintf("Payment flow for upgrading to %s would start here.", newPlan),
	}, nil
}

// HandleWebhook acknowledges a payment provider webhook event.
// Stub: replace with real webhook handling logic.
func HandleWebhook(eventType string) (UpgradeResult, error) {
	return UpgradeResult{Success: true}, nil
}
