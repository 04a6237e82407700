package sink

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rzbill/nexmark/internal/config"
	logpkg "github.com/rzbill/nexmark/pkg/log"
)

// messageWriter is the subset of *kafka.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes each flushed frame as one Kafka message keyed by run.
type KafkaSink struct {
	*frameSink
	w   messageWriter
	run string
	seq uint64
	log logpkg.Logger
}

// NewKafka builds a synchronous writer for cfg.Topic.
func NewKafka(ctx context.Context, cfg config.Kafka, run string, logger logpkg.Logger) *KafkaSink {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newKafkaWithWriter(ctx, w, run, logger)
}

func newKafkaWithWriter(ctx context.Context, w messageWriter, run string, logger logpkg.Logger) *KafkaSink {
	s := &KafkaSink{w: w, run: run, log: logger}
	s.frameSink = newFrameSink(ctx, s.publish, w.Close)
	return s
}

func (s *KafkaSink) publish(ctx context.Context, frame []byte) error {
	seq := s.seq + 1
	msg := kafka.Message{
		Key:   []byte(s.run),
		Value: frame,
		Headers: []kafka.Header{
			{Key: "seq", Value: []byte(strconv.FormatUint(seq, 10))},
		},
	}
	if err := s.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("sink: kafka publish frame %d: %w", seq, err)
	}
	s.seq = seq
	s.log.Debug("frame published", logpkg.Uint64("seq", seq), logpkg.Int("bytes", len(frame)))
	return nil
}
