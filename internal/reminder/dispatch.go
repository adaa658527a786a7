package reminder

import (
	"context"
	"log"
	"strings"
)

// Channel names the delivery mechanism a reminder goes out on.
type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push notification"
)

// ChannelFor resolves the delivery channel for a category. Appointment
// reminders go out as SMS, vaccination reminders as email, everything else
// as a push notification.
func ChannelFor(cat Category) Channel {
	switch cat {
	case CategoryAppointment:
		return ChannelSMS
	case CategoryVaccination:
		return ChannelEmail
	case CategoryFollowup, CategoryGeneral:
		return ChannelPush
	default:
		return ChannelPush
	}
}

// SMSSender delivers a reminder as a text message.
type SMSSender interface {
	SendSMS(ctx context.Context, r Reminder) error
}

// EmailSender delivers a reminder as an email.
type EmailSender interface {
	SendEmail(ctx context.Context, r Reminder) error
}

// PushSender delivers a reminder as a push notification.
type PushSender interface {
	SendPush(ctx context.Context, r Reminder) error
}

// Dispatcher routes a reminder to the sender for its resolved channel.
// Implementations of the sender interfaces can be swapped for real
// providers without touching the scheduler.
type Dispatcher struct {
	sms   SMSSender
	email EmailSender
	push  PushSender
}

// NewDispatcher builds a dispatcher. Nil senders fall back to log-backed
// ones.
func NewDispatcher(sms SMSSender, email EmailSender, push PushSender) *Dispatcher {
	if sms == nil {
		sms = LogSMSSender{}
	}
	if email == nil {
		email = LogEmailSender{}
	}
	if push == nil {
		push = LogPushSender{}
	}
	return &Dispatcher{sms: sms, email: email, push: push}
}

func (d *Dispatcher) Dispatch(ctx context.Context, r Reminder) error {
	log.Printf("[%s] %s", strings.ToUpper(string(r.Category)), r.Message)

	switch ChannelFor(r.Category) {
	case ChannelSMS:
		return d.sms.SendSMS(ctx, r)
	case ChannelEmail:
		return d.email.SendEmail(ctx, r)
	default:
		return d.push.SendPush(ctx, r)
	}
}

// Log-backed senders simulate delivery for environments without a real
// messaging provider.

type LogSMSSender struct{}

func (LogSMSSender) SendSMS(ctx context.Context, r Reminder) error {
	log.Printf("sms sent: %s", r.Message)
	return nil
}

type LogEmailSender struct{}

func (LogEmailSender) SendEmail(ctx context.Context, r Reminder) error {
	log.Printf("email sent: %s", r.Message)
	return nil
}

type LogPushSender struct{}

func (LogPushSender) SendPush(ctx context.Context, r Reminder) error {
	log.Printf("push notification: %s", r.Message)
	return nil
}
