package preview

import (
	"time"

	"stampcam/internal/models"
	"stampcam/internal/settings"
	"stampcam/internal/timestamp"
)

// Event is the wire format pushed to viewers.
type Event struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Broadcaster drives the live overlay: once per second it evaluates the
// current stamp text and pushes it to viewers. The on-screen overlay is
// display sugar only; the burned-in stamp at capture time stays
// authoritative.
type Broadcaster struct {
	hub      *Hub
	settings *settings.Service
}

func NewBroadcaster(hub *Hub, settings *settings.Service) *Broadcaster {
	return &Broadcaster{hub: hub, settings: settings}
}

// Run ticks once per second. Meant to be started as a goroutine.
func (b *Broadcaster) Run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		b.Tick(time.Now())
	}
}

// Tick pushes one overlay update. Empty text tells viewers to hide the
// overlay (stamp disabled or custom time unparsable).
func (b *Broadcaster) Tick(now time.Time) {
	current := b.settings.Current()
	if !current.LivePreview {
		return
	}
	if b.hub.ClientCount() == 0 {
		return
	}
	b.hub.BroadcastEvent(Event{
		Type: "timestamp",
		Text: timestamp.Text(current, now),
	})
}

// NotifyCapture tells viewers a new photo landed.
func (b *Broadcaster) NotifyCapture(c models.Capture) {
	if b.hub.ClientCount() == 0 {
		return
	}
	b.hub.BroadcastEvent(Event{
		Type:     "capture",
		Filename: c.Filename,
	})
}
