package notify

import (
	"testing"

	"github.com/GenturixHub/genturix-alerts/internal/push"
)

// pulses counts the on-segments of a vibration pattern (even indices).
func pulses(pattern []int) int {
	return (len(pattern) + 1) / 2
}

func TestBuildOptionsUrgent(t *testing.T) {
	d := push.Decode([]byte(`{"data":{"type":"panic_alert"}}`))
	opts := BuildOptions(d)

	if !opts.RequireInteraction {
		t.Error("urgent notification must require interaction")
	}
	if !opts.Renotify {
		t.Error("renotify must always be set")
	}
	if opts.Silent {
		t.Error("notifications must never be silent")
	}
	if pulses(opts.Vibrate) < 3 {
		t.Errorf("urgent vibration must have at least 3 pulses, got %v", opts.Vibrate)
	}
	if len(opts.Actions) != 2 {
		t.Fatalf("urgent notification must offer 2 actions, got %v", opts.Actions)
	}
	if opts.Actions[0].Action != "acknowledge" || opts.Actions[1].Action != "dismiss" {
		t.Errorf("expected acknowledge/dismiss actions, got %v", opts.Actions)
	}
}

func TestBuildOptionsNormal(t *testing.T) {
	for _, typ := range []string{"visitor_arrival", "reservation_approved", "", "unknown"} {
		d := push.Descriptor{Data: map[string]string{"type": typ}}
		opts := BuildOptions(d)

		if opts.RequireInteraction {
			t.Errorf("type %q: normal notification must not require interaction", typ)
		}
		if !opts.Renotify || opts.Silent {
			t.Errorf("type %q: renotify=true silent=false invariant violated", typ)
		}
		if pulses(opts.Vibrate) > 2 {
			t.Errorf("type %q: normal vibration must have at most 2 pulses, got %v", typ, opts.Vibrate)
		}
		if len(opts.Actions) != 1 || opts.Actions[0].Action != "view" {
			t.Errorf("type %q: expected single view action, got %v", typ, opts.Actions)
		}
	}
}
