package notifier

// Notification is the payload handed to the push transport. The caller has
// already decided priority and whether delivery bypasses quiet hours.
type Notification struct {
	Title     string
	Body      string
	Priority  int
	ForcePush bool
}

// Notifier delivers notifications through an external push transport.
type Notifier interface {
	Send(n Notification) error
}

type nopNotifier struct{}

// NewNopNotifier returns a Notifier that drops every notification. Used when
// delivery is disabled in configuration.
func NewNopNotifier() Notifier {
	return nopNotifier{}
}

func (nopNotifier) Send(Notification) error { return nil }
