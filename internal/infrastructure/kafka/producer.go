package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/proto"

	"github.com/DRSN-tech/indexer-backend/internal/cfg"
	"github.com/DRSN-tech/indexer-backend/internal/domain"
	drsnProto "github.com/DRSN-tech/indexer-backend/internal/proto"
	"github.com/DRSN-tech/indexer-backend/internal/usecase"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
	"github.com/DRSN-tech/indexer-backend/pkg/logger"
)

type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) (*Producer, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}, nil
}

func (p *Producer) WriteRawMessage(ctx context.Context, req *usecase.WriteRawMessageReq) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(req.RunID),
		Value: req.Payload,
	})
}

func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		err := conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// GetPayloadBytes сериализует итог прохода индексации в protobuf-событие
func (p *Producer) GetPayloadBytes(run *domain.IndexRun) ([]byte, error) {
	event := &drsnProto.IndexRunEvent{
		EventId:        uuid.NewString(),
		EventTimestamp: time.Now().UnixNano(),
		RunId:          run.ID,
		Modality:       string(run.Modality),
		State:          string(run.State),
		Attempted:      int64(run.Report.Attempted),
		Succeeded:      int64(run.Report.Succeeded),
		Failed:         int64(run.Report.Failed),
		Skipped:        int64(run.Report.Skipped),
		Failures:       toArrProtoFailures(run.Report.Failures),
	}

	return proto.Marshal(event)
}

func toArrProtoFailures(failures []domain.ItemFailure) []*drsnProto.ItemFailure {
	result := make([]*drsnProto.ItemFailure, 0, len(failures))
	for _, failure := range failures {
		result = append(result, &drsnProto.ItemFailure{
			ItemId:  failure.ItemID,
			Kind:    failure.Kind,
			Message: failure.Message,
		})
	}

	return result
}
