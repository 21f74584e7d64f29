// Package email implements the notification gateway: it renders
// transactional messages and hands them to the mail queue for delivery.
package email

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/qualifica/professor-rating-api/internal/queue"
	queue_publisher "github.com/qualifica/professor-rating-api/internal/service"
)

// Gateway publishes rendered mail to the email.send queue. It satisfies
// the auth service's Notifier contract.
type Gateway struct {
	appName string
	amqpURL string
}

// NewGateway builds a gateway. appName appears in subjects and bodies.
func NewGateway(appName, amqpURL string) *Gateway {
	return &Gateway{appName: appName, amqpURL: amqpURL}
}

// SendVerificationEmail queues the magic-link message. A failed publish
// is returned to the caller: without the link the recipient can never
// verify, so this send is not best effort.
func (g *Gateway) SendVerificationEmail(ctx context.Context, to, verificationURL string) error {
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Thanks for signing up for %s. To complete your registration we need to verify your email address.\n\n"+
			"Open this link to verify your account:\n%s\n\n"+
			"The link expires in 15 minutes and can only be used once.\n\n"+
			"Once verified you can log in with your email and password.\n"+
			"If you did not create this account you can safely ignore this message.\n",
		g.appName, verificationURL)

	return queue_publisher.PublishEmailSend(ctx, g.amqpURL, queue.EmailSendEvent{
		Kind:     queue.EmailKindVerification,
		To:       to,
		Subject:  fmt.Sprintf("Verify your account on %s", g.appName),
		Body:     body,
		QueuedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// SendWelcomeEmail queues the post-verification greeting. The welcome
// message is optional, so publish failures are logged and swallowed.
func (g *Gateway) SendWelcomeEmail(ctx context.Context, to, name string) error {
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(
		"Welcome, %s!\n\n"+
			"Your %s account has been verified. You can now log in and start rating professors.\n\n"+
			"Thanks for joining!\n",
		name, g.appName)

	err := queue_publisher.PublishEmailSend(ctx, g.amqpURL, queue.EmailSendEvent{
		Kind:     queue.EmailKindWelcome,
		To:       to,
		Subject:  fmt.Sprintf("Welcome to %s!", g.appName),
		Body:     body,
		QueuedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("email: welcome send to %s failed: %v", to, err)
	}
	return nil
}
