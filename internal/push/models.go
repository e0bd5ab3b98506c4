package push

// Fixed defaults applied when the server omits a field or the payload cannot
// be parsed at all. A malformed push still surfaces as a generic alert.
const (
	DefaultTitle = "GENTURIX"
	DefaultBody  = "You have a new notification"
	DefaultIcon  = "/icons/icon-192x192.png"
	DefaultBadge = "/icons/badge-72x72.png"
	DefaultTag   = "genturix-notification"
)

// Recognized values of data.type. Anything else is treated as a generic
// notification.
const (
	TypePanicAlert             = "panic_alert"
	TypeVisitorArrival         = "visitor_arrival"
	TypeVisitorExit            = "visitor_exit"
	TypeVisitorPreregistration = "visitor_preregistration"
	TypeReservationApproved    = "reservation_approved"
	TypeReservationRejected    = "reservation_rejected"
	TypeReservationPending     = "reservation_pending"
)

// payload is the wire shape of a push message. All fields are optional; data
// values may be of any JSON scalar type and are normalized to strings.
type payload struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Icon  string                 `json:"icon"`
	Badge string                 `json:"badge"`
	Tag   string                 `json:"tag"`
	Data  map[string]interface{} `json:"data"`
}

// Descriptor is the normalized notification derived from a push message.
// Server-supplied fields override the fixed defaults.
type Descriptor struct {
	Title string
	Body  string
	Icon  string
	Badge string
	Tag   string
	Data  map[string]string
}

// Type returns the classification key of the notification (data.type), or the
// empty string for a generic notification.
func (d Descriptor) Type() string {
	return d.Data["type"]
}

// Urgent reports whether this notification is a panic alert. Urgent
// notifications require interaction, escalate vibration and trigger audible
// alerting on every open foreground instance.
func (d Descriptor) Urgent() bool {
	return d.Type() == TypePanicAlert
}
