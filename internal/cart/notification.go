package cart

import "time"

type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
)

// Audible cues played by the UI alongside a notification.
const (
	SoundSuccess = "notification-success.mp3"
	SoundWarning = "notification-warning.mp3"
)

type Notification struct {
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Sound     string    `json:"sound"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func newNotification(kind Kind, expiresAt time.Time) Notification {
	n := Notification{Kind: kind, ExpiresAt: expiresAt}
	switch kind {
	case KindSuccess:
		n.Message = "Successfully added"
		n.Sound = SoundSuccess
	default:
		n.Message = "Already added"
		n.Sound = SoundWarning
	}
	return n
}

// notifyLocked replaces the live notification and restarts the expiry
// timer. A timer from an earlier notification never hides a newer one.
func (s *Store) notifyLocked(kind Kind) Notification {
	n := newNotification(kind, s.now().Add(s.ttl))
	s.note = &n

	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen {
			s.note = nil
			s.timer = nil
		}
	})
	return n
}
