// Command filterctl publishes invalidation events to a running filter
// service: catalog-change after imports or term edits, settings-change
// after the storefront toggles were updated.
package main

import (
	"flag"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"storefilter/pkg/config"
	"storefilter/pkg/messaging"
)

type changeEvent struct {
	Source string    `json:"source"`
	SentAt time.Time `json:"sentAt"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	topicName := flag.String("topic", string(messaging.CatalogChange),
		"topic to publish: catalog_change or settings_change")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.Amqp.URL == "" {
		log.Fatal("no amqp url configured")
	}

	var topic messaging.ChangeTopic
	switch *topicName {
	case string(messaging.CatalogChange):
		topic = messaging.CatalogChange
	case string(messaging.SettingsChange):
		topic = messaging.SettingsChange
	default:
		log.Fatalf("unknown topic %q", *topicName)
	}

	conn, err := amqp.Dial(cfg.Amqp.URL)
	if err != nil {
		log.Fatalf("failed to connect to amqp: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	if err := messaging.DefineTopic(ch, cfg.Amqp.Prefix, topic); err != nil {
		log.Fatalf("failed to declare topic: %v", err)
	}
	ch.Close()

	event := changeEvent{Source: "filterctl", SentAt: time.Now().UTC()}
	if err := messaging.SendChange(conn, cfg.Amqp.Prefix, topic, event); err != nil {
		log.Fatalf("failed to publish: %v", err)
	}
	log.Printf("published %s", topic)
}
