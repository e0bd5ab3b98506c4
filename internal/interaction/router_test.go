package interaction

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/GenturixHub/genturix-alerts/internal/broadcast"
	"github.com/GenturixHub/genturix-alerts/internal/clients"
	"github.com/GenturixHub/genturix-alerts/internal/logger"
)

const testOrigin = "https://app.genturix.com"

type focusCall struct {
	instanceID string
	url        string
}

type fakeDirectory struct {
	mu      sync.Mutex
	infos   []clients.ClientInfo
	listErr error
	focused []focusCall
}

func (f *fakeDirectory) List(context.Context) ([]clients.ClientInfo, error) {
	return f.infos, f.listErr
}

func (f *fakeDirectory) Focus(_ context.Context, instanceID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = append(f.focused, focusCall{instanceID, url})
	return nil
}

type fakeOpener struct {
	mu     sync.Mutex
	opened []string
}

func (f *fakeOpener) Open(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, url)
	return nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []broadcast.Message
}

func (r *recordingPublisher) Broadcast(_ context.Context, msg broadcast.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: slog.LevelError})
}

func newTestRouter(dir *fakeDirectory, opener *fakeOpener, pub *recordingPublisher) *Router {
	return NewRouter(dir, opener, pub, testOrigin, testLogger())
}

func TestResolveTarget(t *testing.T) {
	r := newTestRouter(&fakeDirectory{}, &fakeOpener{}, &recordingPublisher{})

	cases := []struct {
		name string
		data map[string]string
		want string
	}{
		{"panic alert", map[string]string{"type": "panic_alert"}, testOrigin + "/security-alerts"},
		{"visitor arrival", map[string]string{"type": "visitor_arrival"}, testOrigin + "/resident/history"},
		{"visitor exit", map[string]string{"type": "visitor_exit"}, testOrigin + "/resident/history"},
		{"preregistration", map[string]string{"type": "visitor_preregistration"}, testOrigin + "/guard/pending-visits"},
		{"reservation without url", map[string]string{"type": "reservation_approved"}, testOrigin + "/resident/reservations"},
		{"reservation with relative url", map[string]string{"type": "reservation_rejected", "url": "/resident/reservations/77"}, testOrigin + "/resident/reservations/77"},
		{"generic with relative url", map[string]string{"url": "/announcements/3"}, testOrigin + "/announcements/3"},
		{"generic with absolute url", map[string]string{"url": "https://elsewhere.example/x"}, "https://elsewhere.example/x"},
		{"no type no url", map[string]string{}, testOrigin + "/"},
		{"unknown type", map[string]string{"type": "something_new"}, testOrigin + "/"},
	}

	for _, tc := range cases {
		if got := r.ResolveTarget(tc.data); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestClickFocusesOpenInstanceAndBroadcasts(t *testing.T) {
	dir := &fakeDirectory{infos: []clients.ClientInfo{
		{InstanceID: "other", URL: "https://unrelated.example/"},
		{InstanceID: "mine", URL: testOrigin + "/resident/history"},
		{InstanceID: "mine-2", URL: testOrigin + "/"},
	}}
	opener := &fakeOpener{}
	pub := &recordingPublisher{}
	r := newTestRouter(dir, opener, pub)

	data := map[string]string{"type": "panic_alert"}
	r.HandleClick(context.Background(), "acknowledge", data)

	if len(dir.focused) != 1 {
		t.Fatalf("expected exactly 1 focus, got %v", dir.focused)
	}
	if dir.focused[0].instanceID != "mine" {
		t.Errorf("expected the first same-origin instance focused, got %q", dir.focused[0].instanceID)
	}
	if dir.focused[0].url != testOrigin+"/security-alerts" {
		t.Errorf("expected focus on the resolved target, got %q", dir.focused[0].url)
	}
	if len(opener.opened) != 0 {
		t.Errorf("must not open a new instance when one is focused, got %v", opener.opened)
	}

	if len(pub.messages) != 1 || pub.messages[0].Type != broadcast.TypeNotificationClicked {
		t.Fatalf("expected one NOTIFICATION_CLICKED broadcast, got %v", pub.messages)
	}
	if pub.messages[0].Data["type"] != "panic_alert" {
		t.Errorf("broadcast must carry the notification data, got %v", pub.messages[0].Data)
	}
}

func TestClickOpensNewInstanceWhenNoneMatch(t *testing.T) {
	dir := &fakeDirectory{infos: []clients.ClientInfo{
		{InstanceID: "other", URL: "https://unrelated.example/"},
	}}
	opener := &fakeOpener{}
	pub := &recordingPublisher{}
	r := newTestRouter(dir, opener, pub)

	r.HandleClick(context.Background(), "", map[string]string{"type": "visitor_arrival"})

	if len(dir.focused) != 0 {
		t.Errorf("must not focus a foreign-origin instance, got %v", dir.focused)
	}
	if len(opener.opened) != 1 || opener.opened[0] != testOrigin+"/resident/history" {
		t.Errorf("expected a new instance opened on the target, got %v", opener.opened)
	}
	if len(pub.messages) != 1 {
		t.Errorf("click must still broadcast, got %v", pub.messages)
	}
}

func TestClickBroadcastsEvenWhenListingFails(t *testing.T) {
	dir := &fakeDirectory{listErr: errors.New("gather window expired")}
	opener := &fakeOpener{}
	pub := &recordingPublisher{}
	r := newTestRouter(dir, opener, pub)

	r.HandleClick(context.Background(), "", map[string]string{"type": "panic_alert"})

	if len(opener.opened) != 1 {
		t.Errorf("listing failure must fall through to opening, got %v", opener.opened)
	}
	if len(pub.messages) != 1 || pub.messages[0].Type != broadcast.TypeNotificationClicked {
		t.Errorf("acknowledgment broadcast must not depend on foregrounding, got %v", pub.messages)
	}
}

func TestDismissActionDoesNothing(t *testing.T) {
	dir := &fakeDirectory{infos: []clients.ClientInfo{{InstanceID: "mine", URL: testOrigin + "/"}}}
	opener := &fakeOpener{}
	pub := &recordingPublisher{}
	r := newTestRouter(dir, opener, pub)

	r.HandleClick(context.Background(), "dismiss", map[string]string{"type": "panic_alert"})

	if len(dir.focused) != 0 || len(opener.opened) != 0 {
		t.Error("dismiss must not navigate")
	}
	if len(pub.messages) != 0 {
		t.Errorf("dismiss must not broadcast an acknowledgment, got %v", pub.messages)
	}
}

func TestCloseBroadcastsClosed(t *testing.T) {
	pub := &recordingPublisher{}
	r := newTestRouter(&fakeDirectory{}, &fakeOpener{}, pub)

	r.HandleClose(context.Background(), map[string]string{"type": "panic_alert"})

	if len(pub.messages) != 1 || pub.messages[0].Type != broadcast.TypeNotificationClosed {
		t.Fatalf("expected one NOTIFICATION_CLOSED broadcast, got %v", pub.messages)
	}
}

func TestStopAllBroadcastsStop(t *testing.T) {
	pub := &recordingPublisher{}
	r := newTestRouter(&fakeDirectory{}, &fakeOpener{}, pub)

	if err := r.StopAll(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if len(pub.messages) != 1 || pub.messages[0].Type != broadcast.TypeStopSound {
		t.Fatalf("expected one STOP_SOUND broadcast, got %v", pub.messages)
	}
}
