package realtime

// Message is one outcome fanned out to subscribed consumers. Channel is
// the venue ID so dashboards subscribe per venue.
type Message struct {
	Channel string         `json:"channel"`
	Kind    string         `json:"kind"`
	Data    map[string]any `json:"data,omitempty"`
}
