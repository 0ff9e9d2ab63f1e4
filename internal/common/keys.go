package common

// Storage keys owned by product features outside this module. They are
// written through the encrypted store and only listed here so that tooling
// can recognise them.
const (
	PlanConfigKey       = "vitrinex_plan_config"
	NotificationsKey    = "vitrinex_notifications"
	OnboardingStateKey  = "vitrinex_onboarding_state"
	GoogleDriveTokenKey = "google_drive_token"
	GoogleUserProfile   = "google_user_profile"
)

// FeatureKeys lists the well-known feature keys in display order.
var FeatureKeys = []string{
	PlanConfigKey,
	NotificationsKey,
	OnboardingStateKey,
	GoogleDriveTokenKey,
	GoogleUserProfile,
}
