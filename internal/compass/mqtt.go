package compass

import (
	"context"
	"log"

	"github.com/i474232898/hajj-kiosk/internal/broker"
)

// MQTTHeadings streams orientation events published by the display on an
// MQTT topic.
type MQTTHeadings struct {
	Client broker.Subscriber
	Topic  string
	QoS    byte
}

// Watch delivers decoded events to out until ctx is done, then unsubscribes.
func (m *MQTTHeadings) Watch(ctx context.Context, out chan<- OrientationEvent) error {
	return broker.Stream(ctx, m.Client, m.Topic, m.QoS, func(payload []byte) {
		ev, err := DecodeOrientationEvent(payload)
		if err != nil {
			log.Printf("compass: %v", err)
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
		}
	})
}
