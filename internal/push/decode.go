package push

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Decode turns an opaque push message body into a Descriptor.
//
// Decoding never fails: a JSON object is used field by field, a non-JSON body
// is treated as plain text and becomes the notification body, and anything
// else falls back to the full defaults. Dropping a panic alert because the
// server mangled the payload is the one outcome this code must not have.
func Decode(raw []byte) Descriptor {
	d := Descriptor{
		Title: DefaultTitle,
		Body:  DefaultBody,
		Icon:  DefaultIcon,
		Badge: DefaultBadge,
		Tag:   DefaultTag,
		Data:  map[string]string{},
	}

	if len(raw) == 0 {
		return d
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err == nil {
		if p.Title != "" {
			d.Title = p.Title
		}
		if p.Body != "" {
			d.Body = p.Body
		}
		if p.Icon != "" {
			d.Icon = p.Icon
		}
		if p.Badge != "" {
			d.Badge = p.Badge
		}
		if p.Tag != "" {
			d.Tag = p.Tag
		}
		d.Data = normalizeData(p.Data)
		return d
	}

	// Not JSON: treat the raw body as text if it is usable as one.
	if text := strings.TrimSpace(string(raw)); text != "" && utf8.ValidString(text) {
		d.Body = text
	}
	return d
}

// normalizeData flattens a free-form JSON object into string values. Nested
// structures are not recognized by any consumer and are dropped.
func normalizeData(data map[string]interface{}) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64, bool:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
