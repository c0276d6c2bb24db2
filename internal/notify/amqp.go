package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/streadway/amqp"

	"github.com/julianstephens/sixtysix/internal/logger"
)

// Command is the message published for every store call. A consumer applies
// commands in delivery order with ApplyCommand.
type Command struct {
	Op          OpKind   `json:"op"`
	Identifiers []string `json:"identifiers,omitempty"`
	Request     *Request `json:"request,omitempty"`
}

type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPStore forwards store calls to a durable queue for a delivery agent
// running elsewhere. It cannot list pending requests.
type AMQPStore struct {
	ch    publisher
	queue string
	conn  io.Closer
}

// DialAMQP connects to url and declares the durable command queue.
func DialAMQP(url, queue string) (*AMQPStore, error) {
	conn, ch, err := dialQueue(url, queue)
	if err != nil {
		return nil, err
	}
	return &AMQPStore{ch: ch, queue: queue, conn: conn}, nil
}

func dialQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to amqp broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return conn, ch, nil
}

// ConsumeAMQP replays the command queue into store until ctx is done or the
// broker closes the channel.
func ConsumeAMQP(ctx context.Context, url, queue string, store Store) error {
	conn, ch, err := dialQueue(url, queue)
	if err != nil {
		return err
	}
	defer conn.Close()

	// One unacknowledged command at a time keeps replay in publish order.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}
	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", queue, err)
	}
	return consume(ctx, deliveries, store)
}

func consume(ctx context.Context, deliveries <-chan amqp.Delivery, store Store) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("amqp delivery channel closed")
			}
			if err := ApplyCommand(ctx, store, d.Body); err != nil {
				logger.Warn("Dropping notification command", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (a *AMQPStore) publish(cmd Command) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to encode command: %w", err)
	}
	err = a.ch.Publish("", a.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s command: %w", cmd.Op, err)
	}
	return nil
}

func (a *AMQPStore) Cancel(_ context.Context, identifiers []string) error {
	if len(identifiers) == 0 {
		return nil
	}
	return a.publish(Command{Op: OpCancel, Identifiers: identifiers})
}

func (a *AMQPStore) Add(_ context.Context, req Request) error {
	return a.publish(Command{Op: OpAdd, Request: &req})
}

func (a *AMQPStore) Close() error {
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}

// ApplyCommand decodes a published command and replays it against store.
func ApplyCommand(ctx context.Context, store Store, body []byte) error {
	var cmd Command
	if err := json.Unmarshal(body, &cmd); err != nil {
		return fmt.Errorf("failed to decode command: %w", err)
	}

	switch cmd.Op {
	case OpCancel:
		return store.Cancel(ctx, cmd.Identifiers)
	case OpAdd:
		if cmd.Request == nil {
			return fmt.Errorf("add command without request")
		}
		return store.Add(ctx, *cmd.Request)
	default:
		return fmt.Errorf("unknown command %q", cmd.Op)
	}
}
