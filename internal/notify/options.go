package notify

import "github.com/GenturixHub/genturix-alerts/internal/push"

// Action is one notification action button.
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Options is the presentation contract handed to the platform together with
// the descriptor. Renotify is always set so a new notification with the same
// tag replaces the visible one and re-triggers device alerting instead of
// stacking. Silent is always false; device sound must stay allowed.
type Options struct {
	Renotify           bool
	RequireInteraction bool
	Silent             bool
	Vibrate            []int
	Actions            []Action
}

// Vibration patterns, in milliseconds. The urgent pattern escalates and keeps
// the device buzzing noticeably longer than the two-pulse normal pattern.
var (
	urgentVibration = []int{200, 100, 200, 100, 400, 100, 800}
	normalVibration = []int{200, 100}
)

// BuildOptions derives the presentation options from the descriptor's
// classification.
//
// Urgent notifications must be interacted with: they pin the notification
// (RequireInteraction), escalate vibration and offer an explicit
// acknowledge/dismiss choice. Everything else gets a single view action and
// may be auto-collapsed by the platform.
func BuildOptions(d push.Descriptor) Options {
	opts := Options{
		Renotify: true,
		Silent:   false,
	}

	if d.Urgent() {
		opts.RequireInteraction = true
		opts.Vibrate = urgentVibration
		opts.Actions = []Action{
			{Action: "acknowledge", Title: "Acknowledge"},
			{Action: "dismiss", Title: "Dismiss"},
		}
		return opts
	}

	opts.RequireInteraction = false
	opts.Vibrate = normalVibration
	opts.Actions = []Action{
		{Action: "view", Title: "View"},
	}
	return opts
}
