package models

// UserSettings is the per-user extension configuration. PasswordHash is the
// optional settings-protection hash computed by the client; the server stores
// it as an opaque string.
type UserSettings struct {
	ThemePreference           string  `json:"themePreference"`
	FocusPillEnabled          bool    `json:"focusPillEnabled"`
	QuickFocusEnabled         bool    `json:"quickFocusEnabled"`
	PasswordProtectionEnabled bool    `json:"passwordProtectionEnabled"`
	PasswordHash              *string `json:"passwordHash"`
	UninstallAlertEnabled     bool    `json:"uninstallAlertEnabled"`
	UninstallAlertEmail       *string `json:"uninstallAlertEmail"`
}

// DefaultSettings is what a user gets before their first push.
func DefaultSettings() UserSettings {
	return UserSettings{
		ThemePreference:  "light",
		FocusPillEnabled: true,
	}
}

// BlockingPeriod is a time window during which the listed sites and emails
// are restricted. ID echoes the client's local identifier when one was
// supplied on push, otherwise the server-assigned id, so the client can
// reconcile its own records.
type BlockingPeriod struct {
	ID            string   `json:"id,omitempty"`
	LocalID       *string  `json:"localId,omitempty"`
	Name          *string  `json:"name,omitempty"`
	Enabled       bool     `json:"enabled"`
	TimeFrom      string   `json:"timeFrom"`
	TimeTo        string   `json:"timeTo"`
	AlwaysOn      bool     `json:"alwaysOn"`
	Days          []string `json:"days"`
	Sites         []string `json:"sites"`
	Emails        []string `json:"emails"`
	Difficulty    string   `json:"difficulty"`
	CustomMessage *string  `json:"customMessage,omitempty"`
}

// ImpulseControl limits visit duration and openings on the listed sites, with
// optional friction features (warnings, scroll limits, timers).
type ImpulseControl struct {
	ID                           string   `json:"id,omitempty"`
	LocalID                      *string  `json:"localId,omitempty"`
	Name                         string   `json:"name"`
	Enabled                      bool     `json:"enabled"`
	Minutes                      int      `json:"minutes"`
	Openings                     int      `json:"openings"`
	Sites                        []string `json:"sites"`
	Emails                       []string `json:"emails"`
	Difficulty                   string   `json:"difficulty"`
	URLWarningEnabled            bool     `json:"urlWarningEnabled"`
	ImpulseControlEnabled        bool     `json:"impulseControlEnabled"`
	ImpulseControlTimer          int      `json:"impulseControlTimer"`
	UsageNoticeEnabled           bool     `json:"usageNoticeEnabled"`
	UsageNoticeTimer             int      `json:"usageNoticeTimer"`
	ScrollLimitEnabled           bool     `json:"scrollLimitEnabled"`
	ScrollPixelLimit             int      `json:"scrollPixelLimit"`
	ScrollCountdownDuration      int      `json:"scrollCountdownDuration"`
	TimeProgressIndicatorEnabled bool     `json:"timeProgressIndicatorEnabled"`
}

// SyncData is the aggregate the extension pushes and pulls as a unit. On push
// a nil Settings (or nil collection) means "leave that part untouched".
type SyncData struct {
	Settings        *UserSettings    `json:"settings"`
	BlockingPeriods []BlockingPeriod `json:"blockingPeriods"`
	ImpulseControls []ImpulseControl `json:"impulseControls"`
}
