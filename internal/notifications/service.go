package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cardbox/internal/config"
)

const userAgent = "Cardbox-Go/0.1.0"

// Event identifies a capture milestone worth telling the user about.
type Event string

const (
	EventContactUpdated    Event = "contact_updated"
	EventScanCompleted     Event = "scan_completed"
	EventRecognitionFailed Event = "recognition_failed"
	EventContactReset      Event = "contact_reset"
	EventError             Event = "error"
	EventTest              Event = "test"
)

// Payload carries event-specific values used to format the message.
type Payload map[string]string

// Service defines the notification surface exposed to capture components.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:       topic,
		client:         &http.Client{Timeout: timeout},
		contactUpdates: cfg.Notifications.ContactUpdates,
		errors:         cfg.Notifications.Errors,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint       string
	client         *http.Client
	contactUpdates bool
	errors         bool
}

// Publish formats and sends the event. Events suppressed by configuration
// return nil without touching the network.
func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !n.enabled(event) {
		return nil
	}
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) enabled(event Event) bool {
	switch event {
	case EventContactUpdated, EventScanCompleted, EventContactReset:
		return n.contactUpdates
	case EventRecognitionFailed, EventError:
		return n.errors
	default:
		return true
	}
}

func format(event Event, payload Payload) (message, bool) {
	get := func(key string) string {
		return strings.TrimSpace(payload[key])
	}

	switch event {
	case EventContactUpdated:
		channel := get("channel")
		if channel == "" {
			channel = "unknown"
		}
		summary := get("summary")
		if summary == "" {
			summary = "(no details)"
		}
		return message{
			title: "Cardbox - Contact Updated",
			body:  fmt.Sprintf("📇 Contact updated via %s: %s", channel, summary),
			tags:  []string{"cardbox", "contact", "updated"},
		}, true
	case EventScanCompleted:
		summary := get("summary")
		if summary == "" {
			summary = "no fields extracted"
		}
		return message{
			title: "Cardbox - Scan Complete",
			body:  fmt.Sprintf("✅ Scan complete: %s", summary),
			tags:  []string{"cardbox", "scan", "completed"},
		}, true
	case EventRecognitionFailed:
		body := "❌ Recognition failed"
		if source := get("source"); source != "" {
			body = fmt.Sprintf("%s for %s", body, source)
		}
		if errText := get("error"); errText != "" {
			body = fmt.Sprintf("%s: %s", body, errText)
		}
		return message{
			title:    "Cardbox - Recognition Failed",
			body:     body,
			tags:     []string{"cardbox", "ocr", "failed"},
			priority: "high",
		}, true
	case EventContactReset:
		return message{
			title: "Cardbox - Contact Cleared",
			body:  "🗑️ Contact record cleared",
			tags:  []string{"cardbox", "contact", "reset"},
		}, true
	case EventError:
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if label := get("context"); label != "" {
			builder.WriteString(" with ")
			builder.WriteString(label)
		}
		builder.WriteString(": ")
		if errText := get("error"); errText != "" {
			builder.WriteString(errText)
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "Cardbox - Error",
			body:     builder.String(),
			tags:     []string{"cardbox", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Cardbox - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"cardbox", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
