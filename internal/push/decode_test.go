package push

import "testing"

func TestDecodeFullPayload(t *testing.T) {
	raw := []byte(`{
		"title": "Visitor at the gate",
		"body":  "John Doe has arrived",
		"icon":  "/custom/icon.png",
		"badge": "/custom/badge.png",
		"tag":   "visit-42",
		"data":  {"type": "visitor_arrival", "url": "/resident/history"}
	}`)

	d := Decode(raw)

	if d.Title != "Visitor at the gate" {
		t.Errorf("expected server title, got %q", d.Title)
	}
	if d.Body != "John Doe has arrived" {
		t.Errorf("expected server body, got %q", d.Body)
	}
	if d.Icon != "/custom/icon.png" || d.Badge != "/custom/badge.png" {
		t.Errorf("expected server icon/badge, got %q / %q", d.Icon, d.Badge)
	}
	if d.Tag != "visit-42" {
		t.Errorf("expected server tag, got %q", d.Tag)
	}
	if d.Type() != TypeVisitorArrival {
		t.Errorf("expected type %q, got %q", TypeVisitorArrival, d.Type())
	}
	if d.Urgent() {
		t.Error("visitor arrival must not classify as urgent")
	}
}

func TestDecodePartialPayloadKeepsDefaults(t *testing.T) {
	d := Decode([]byte(`{"data":{"type":"panic_alert"}}`))

	if d.Title != DefaultTitle {
		t.Errorf("expected default title %q, got %q", DefaultTitle, d.Title)
	}
	if d.Body != DefaultBody {
		t.Errorf("expected default body, got %q", d.Body)
	}
	if d.Icon != DefaultIcon || d.Badge != DefaultBadge || d.Tag != DefaultTag {
		t.Errorf("expected default icon/badge/tag, got %q / %q / %q", d.Icon, d.Badge, d.Tag)
	}
	if !d.Urgent() {
		t.Error("panic_alert must classify as urgent")
	}
}

func TestDecodeNonJSONBodyBecomesText(t *testing.T) {
	d := Decode([]byte("Water outage in tower B tonight"))

	if d.Body != "Water outage in tower B tonight" {
		t.Errorf("expected raw text as body, got %q", d.Body)
	}
	if d.Title != DefaultTitle || d.Icon != DefaultIcon || d.Badge != DefaultBadge {
		t.Error("non-JSON body must keep all other fields at defaults")
	}
	if d.Urgent() {
		t.Error("text payload must not classify as urgent")
	}
}

func TestDecodeEmptyBodyUsesDefaults(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte("   ")} {
		d := Decode(raw)
		if d.Title != DefaultTitle || d.Body != DefaultBody {
			t.Errorf("Decode(%q): expected full defaults, got title=%q body=%q", raw, d.Title, d.Body)
		}
		if len(d.Data) != 0 {
			t.Errorf("Decode(%q): expected empty data, got %v", raw, d.Data)
		}
	}
}

func TestDecodeNormalizesDataValues(t *testing.T) {
	d := Decode([]byte(`{"data":{"type":"reservation_pending","attempt":2,"late":true,"nested":{"x":1}}}`))

	if d.Data["type"] != TypeReservationPending {
		t.Errorf("expected string value kept, got %q", d.Data["type"])
	}
	if d.Data["attempt"] != "2" {
		t.Errorf("expected number normalized to string, got %q", d.Data["attempt"])
	}
	if d.Data["late"] != "true" {
		t.Errorf("expected bool normalized to string, got %q", d.Data["late"])
	}
	if _, ok := d.Data["nested"]; ok {
		t.Error("nested values must be dropped")
	}
}

func TestUnknownTypeIsGeneric(t *testing.T) {
	d := Decode([]byte(`{"data":{"type":"something_new"}}`))
	if d.Urgent() {
		t.Error("unknown type must not classify as urgent")
	}
}
