// Package broker connects to the MQTT broker that carries sensor streams
// (device orientation, GPS fixes) from the kiosk hardware.
package broker

import (
	"context"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Subscriber is the part of mqtt.Client used to consume topics.
type Subscriber interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
}

// Connect dials the broker and waits for the connection to be established.
func Connect(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", brokerURL, token.Error())
	}
	log.Printf("INFO: connected to MQTT broker at %s", brokerURL)
	return client, nil
}

// Stream subscribes to topic and passes every payload to handle until ctx is
// done. The subscription is released before Stream returns.
func Stream(ctx context.Context, sub Subscriber, topic string, qos byte, handle func(payload []byte)) error {
	token := sub.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		handle(msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	log.Printf("INFO: subscribed to MQTT topic %s", topic)

	<-ctx.Done()

	unsub := sub.Unsubscribe(topic)
	if !unsub.WaitTimeout(2 * time.Second) {
		log.Printf("ERROR: unsubscribe %s timed out", topic)
	} else if err := unsub.Error(); err != nil {
		log.Printf("ERROR: unsubscribe %s: %v", topic, err)
	}
	return nil
}
