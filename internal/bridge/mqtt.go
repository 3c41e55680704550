package bridge

import (
	"context"
	"encoding/json"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tmsolberg/nmeahub/internal/bus"
	"github.com/tmsolberg/nmeahub/internal/config"
)

// Run connects to the MQTT broker and republishes every decoded record
// from the feed as JSON until the context is done. Publish failures are
// logged and skipped; the feed is never blocked.
func Run(ctx context.Context, cfg config.MQTTConfig, feed *bus.Bus) error {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("[bridge] connected to MQTT broker at %s", cfg.Broker)

	sub := feed.Subscribe(256, bus.TopicFixData, bus.TopicNavData)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-sub.C:
			topic := cfg.TopicFix
			if msg.Topic == bus.TopicNavData {
				topic = cfg.TopicNav
			}
			payload, err := json.Marshal(msg.Payload)
			if err != nil {
				log.Printf("[bridge] marshal error: %v", err)
				continue
			}
			token := client.Publish(topic, 0, false, payload)
			token.Wait()
			if token.Error() != nil {
				log.Printf("[bridge] publish error: %v", token.Error())
			}
		}
	}
}
