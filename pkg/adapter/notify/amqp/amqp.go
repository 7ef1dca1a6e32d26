// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package amqp publishes the trip and booking notifications on a
// RabbitMQ topic exchange. The notification kind is used as the
// routing key and its JSON encoding as the message body.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/carpool/pkg/core/model"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is used when no exchange name is configured.
const DefaultExchange = "carpool.notifications"

// Notifier implements the repo.Notifier interface.
// A single channel is shared by all publishers and is guarded by mu
// because an amqp091 channel may not be used concurrently.
type Notifier struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

// Dial connects to the url AMQP broker, opens a channel, and declares
// the exchange as a durable topic exchange.
func Dial(url, exchange string) (*Notifier, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing broker: %w", err)
	}
	n := &Notifier{conn: conn, exchange: exchange}
	if err = n.open(); err != nil {
		conn.Close()
		return nil, err
	}
	return n, nil
}

func (n *Notifier) open() error {
	ch, err := n.conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		n.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("declaring %q exchange: %w", n.exchange, err)
	}
	n.ch = ch
	return nil
}

// Notify publishes x. A closed channel is reopened once.
func (n *Notifier) Notify(ctx context.Context, x model.Notification) error {
	body, err := json.Marshal(x)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ch == nil || n.ch.IsClosed() {
		if n.conn.IsClosed() {
			return errors.New("broker connection is closed")
		}
		if err := n.open(); err != nil {
			return err
		}
	}
	err = n.ch.PublishWithContext(
		ctx, n.exchange, string(x.Kind), false, false, msg,
	)
	if err != nil {
		return fmt.Errorf("publishing %s: %w", x.Kind, err)
	}
	return nil
}

// Close closes the channel and the broker connection.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	var chErr error
	if n.ch != nil {
		chErr = n.ch.Close()
		n.ch = nil
	}
	return errors.Join(chErr, n.conn.Close())
}
