package notification

import (
	"fmt"

	"autocare/httpServices/sms"
	"autocare/logger"
)

// Channel identifies the delivery channel for a notification
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Notifier is the outbound notification contract. Delivery is fire-and-forget:
// a failed send is logged and never propagated to the caller, so appointment
// state changes are never rolled back by a notification failure.
type Notifier interface {
	Notify(recipient string, channel Channel, message string)
	NotifyUrgent(recipient string, channel Channel, message string)
}

// SMSNotifier dispatches notifications through the SMS gateway in a goroutine.
type SMSNotifier struct {
	client *sms.SMSClient
}

// NewSMSNotifier creates the gateway-backed notifier.
func NewSMSNotifier() *SMSNotifier {
	return &SMSNotifier{client: sms.NewSMSClient()}
}

// Notify sends a normal-priority message without blocking the caller.
func (n *SMSNotifier) Notify(recipient string, channel Channel, message string) {
	n.dispatch(recipient, channel, message, "")
}

// NotifyUrgent sends a high-priority message without blocking the caller.
func (n *SMSNotifier) NotifyUrgent(recipient string, channel Channel, message string) {
	n.dispatch(recipient, channel, message, "high")
}

func (n *SMSNotifier) dispatch(recipient string, channel Channel, message, priority string) {
	if recipient == "" {
		logger.Warning("Notification dropped: empty recipient")
		return
	}
	if channel != ChannelSMS {
		// Only the SMS channel is wired; other channels are other collaborators.
		logger.Warning(fmt.Sprintf("Notification channel %s not supported, dropping message for %s", channel, recipient))
		return
	}

	go func() {
		_, err := n.client.Send(sms.SendRequest{
			Recipient: recipient,
			Message:   message,
			Priority:  priority,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to send notification to %s", recipient), err)
			return
		}
	}()
}

var _ Notifier = (*SMSNotifier)(nil)
