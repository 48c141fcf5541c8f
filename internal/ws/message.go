package ws

// Server-to-client message types.
const (
	TypeConnectionEstablished = "connection_established"
	TypePixelEvent            = "pixel_event"
	TypeReset                 = "reset"
	TypeSubscriptionConfirmed = "subscription_confirmed"
)

// Message is the envelope of every server-to-client frame.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// SubscribeFilters are the filters a client declares when subscribing.
// They are acknowledged and recorded but not enforced on fan-out: every
// subscriber receives every broadcast and filtering happens client-side.
type SubscribeFilters struct {
	ShopDomain string `json:"shopDomain,omitempty"`
	EventName  string `json:"eventName,omitempty"`
}

// clientMessage is the shape of client-to-server frames.
type clientMessage struct {
	Type    string           `json:"type"`
	Filters SubscribeFilters `json:"filters"`
}
