package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kafka_config "hotelier/pkg/kafka/config"
	"hotelier/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer relies on.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader     MessageReader
	dlqWriter  MessageWriter
	topic      string
	groupID    string
	dlqTopic   string
	maxRetries int
	backoff    time.Duration
	// retryDelay separates attempts at a message that failed transiently.
	retryDelay time.Duration
	handler    MessageHandler
	middleware []ConsumerMiddleware
	log        *logger.Logger
	closed     bool
	mu         sync.RWMutex
	wg         sync.WaitGroup
}

type ConsumerMiddleware func(ctx context.Context, msg Message, next MessageHandler) error

func NewConsumer(cfg *kafka_config.Config, topic string, groupID string, dlqTopic string, handler MessageHandler, log *logger.Logger) (*Consumer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}

	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}

	if handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	if log == nil {
		log = logger.Discard()
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           cfg.Brokers,
		Topic:             topic,
		GroupID:           groupID,
		MinBytes:          cfg.ConsumerMinBytes,
		MaxBytes:          cfg.ConsumerMaxBytes,
		MaxWait:           cfg.ConsumerMaxWait,
		CommitInterval:    cfg.ConsumerCommitInterval,
		HeartbeatInterval: cfg.ConsumerHeartbeatInterval,
		SessionTimeout:    cfg.ConsumerSessionTimeout,
		RebalanceTimeout:  cfg.ConsumerRebalanceTimeout,
		StartOffset:       cfg.ConsumerStartOffset,
		Logger:            kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger:       errorLogger(log),
	})

	var dlqWriter MessageWriter
	if dlqTopic != "" {
		dlqWriter = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        dlqTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  compressionCodec(cfg.ProducerCompression),
			MaxAttempts:  cfg.ProducerMaxAttempts,
			Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
			ErrorLogger:  errorLogger(log),
		}
	}

	c := newConsumer(reader, dlqWriter, topic, groupID, dlqTopic, cfg.ConsumerMaxRetries, handler, log)
	c.retryDelay = cfg.ConsumerRetryBackoff
	return c, nil
}

func newConsumer(reader MessageReader, dlqWriter MessageWriter, topic, groupID, dlqTopic string, maxRetries int, handler MessageHandler, log *logger.Logger) *Consumer {
	return &Consumer{
		reader:     reader,
		dlqWriter:  dlqWriter,
		topic:      topic,
		groupID:    groupID,
		dlqTopic:   dlqTopic,
		maxRetries: maxRetries,
		backoff:    time.Second,
		handler:    handler,
		middleware: make([]ConsumerMiddleware, 0),
		log:        log,
	}
}

func (c *Consumer) Use(middleware ConsumerMiddleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middleware = append(c.middleware, middleware)
}

// Start consumes until ctx is cancelled. Offsets are committed after each
// message is handled, whether it succeeded or went to the DLQ.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrConsumerClosed
	}
	c.wg.Add(1)
	c.mu.RUnlock()
	defer c.wg.Done()

	for {
		kafkaMsg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrConsumerClosed) {
				return err
			}
			c.log.Error("Failed to fetch message", "topic", c.topic, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}

		msg := convertMessage(kafkaMsg)

		if err := c.processMessage(ctx, msg); err != nil {
			// Left uncommitted so the next member of the group picks it up.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error("Failed to process message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		}

		if err := c.reader.CommitMessages(ctx, kafkaMsg); err != nil {
			c.log.Error("Failed to commit offset", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg Message) error {
	c.mu.RLock()
	chain := append([]ConsumerMiddleware(nil), c.middleware...)
	c.mu.RUnlock()

	handler := c.handler
	for i := len(chain) - 1; i >= 0; i-- {
		middleware := chain[i]
		next := handler
		handler = func(ctx context.Context, m Message) error {
			return middleware(ctx, m, next)
		}
	}

	for {
		err := handler(ctx, msg)
		if err == nil {
			return nil
		}

		retries := msg.GetRetryCount()
		if ShouldRetry(err, retries, c.maxRetries) {
			msg.IncrementRetryCount()
			c.log.Warn("Retrying message", "attempt", retries+1, "max_retries", c.maxRetries, "error", err)
			if c.retryDelay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(c.retryDelay):
				}
			}
			continue
		}

		if c.dlqWriter != nil {
			if dlqErr := c.sendToDLQ(ctx, msg, err); dlqErr != nil {
				c.log.Error("Failed to send message to DLQ", "error", dlqErr, "original_error", err)
			} else {
				c.log.Warn("Message sent to DLQ", "retries", retries, "error_type", ClassifyError(err), "error", err)
			}
		}
		return err
	}
}

func (c *Consumer) sendToDLQ(ctx context.Context, msg Message, originalErr error) error {
	if c.dlqWriter == nil {
		return nil
	}

	msg = withDLQHeaders(msg, c.topic, originalErr)
	msg.Headers[HeaderDLQConsumerGroup] = c.groupID
	return c.dlqWriter.WriteMessages(ctx, toKafkaMessage(msg, time.Now()))
}

func convertMessage(kafkaMsg kafka.Message) Message {
	msg := Message{
		Key:       string(kafkaMsg.Key),
		Value:     kafkaMsg.Value,
		Headers:   make(map[string]string, len(kafkaMsg.Headers)),
		Topic:     kafkaMsg.Topic,
		Partition: kafkaMsg.Partition,
		Offset:    kafkaMsg.Offset,
		Timestamp: kafkaMsg.Time,
	}

	for _, header := range kafkaMsg.Headers {
		msg.Headers[header.Key] = string(header.Value)
	}

	return msg
}

// Close waits for Start to return, so cancel its context first.
func (c *Consumer) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()

	var err error
	if c.reader != nil {
		err = c.reader.Close()
	}

	if c.dlqWriter != nil {
		dlqErr := c.dlqWriter.Close()
		if err == nil {
			err = dlqErr
		}
	}

	return err
}

// Stats is only available for consumers built by NewConsumer.
func (c *Consumer) Stats() (kafka.ReaderStats, bool) {
	r, ok := c.reader.(*kafka.Reader)
	if !ok {
		return kafka.ReaderStats{}, false
	}
	return r.Stats(), true
}
