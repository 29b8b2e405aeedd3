package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kervela/product_catalog/internal/pkg/logger"
)

const (
	// StreamName is the JetStream stream for product events
	StreamName = "PRODUCTS"

	// StreamSubjects defines the subjects this stream listens to
	StreamSubjects = "products.events"
)

// StreamConfig holds the JetStream stream configuration
type StreamConfig struct {
	js     nats.JetStreamContext
	logger *logger.Logger
}

// NewStreamConfig creates a new stream configuration helper
func NewStreamConfig(js nats.JetStreamContext, log *logger.Logger) *StreamConfig {
	return &StreamConfig{
		js:     js,
		logger: log,
	}
}

// EnsureStream creates the JetStream stream for product events if it
// does not exist yet. Events older than 24 hours are discarded; a
// consumer that far behind should resync from the database instead.
func (s *StreamConfig) EnsureStream() error {
	_, err := s.js.StreamInfo(StreamName)
	if err == nil {
		s.logger.Debugf("JetStream stream %s already exists", StreamName)
		return nil
	}

	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to get stream info: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"stream":   StreamName,
		"subjects": StreamSubjects,
	}).Info("Creating JetStream stream")

	_, err = s.js.AddStream(&nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{StreamSubjects},
		Retention: nats.LimitsPolicy,
		Storage:   nats.FileStorage,
		Replicas:  1,
		MaxAge:    24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// JetStream exposes the underlying JetStream context
func (p *Publisher) JetStream() nats.JetStreamContext {
	return p.js
}
