package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/trabajostecnicos73/app-control-smartparking/internal/model"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/store"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// webPushSender is the real implementation using the webpush library.
type webPushSender struct{}

func (webPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans alert notifications out to every subscribed dashboard.
type WorkerPool struct {
	size    int
	jobs    chan string
	store   store.Store
	options *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool for alert notifications.
func NewWorkerPool(size int, s store.Store, options *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size*4),
		store:   s,
		options: options,
		sender:  webPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case alertID := <-wp.jobs:
			wp.notifyAlert(ctx, alertID)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert for notification. The queue is bounded; when it is
// full the alert is dropped rather than blocking the sync path.
func (wp *WorkerPool) Dispatch(alertID string) {
	select {
	case wp.jobs <- alertID:
	default:
		log.Printf("Notification queue full, dropping alert %s", alertID)
	}
}

// notifyAlert sends one push message per subscription for the given alert.
func (wp *WorkerPool) notifyAlert(ctx context.Context, alertID string) {
	alert, err := wp.store.GetAlert(ctx, alertID)
	if err != nil {
		log.Printf("Error fetching alert %s: %v", alertID, err)
		return
	}

	subscriptions, err := wp.store.ListSubscriptions(ctx)
	if err != nil {
		log.Printf("Error fetching subscriptions for alert %s: %v", alertID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	message := fmt.Sprintf("Alerta %s en cámara %s: %s", alert.Kind, alert.CameraID, alert.Description)
	log.Printf("Sending %d notifications for alert %s", len(subscriptions), alertID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.options)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Push services answer 404/410 for subscriptions that no longer exist.
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		log.Printf("Subscription %s expired, removing", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Error removing expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
