package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"opphub/internal/config"
	"opphub/pkg/logger"
)

// SearchIndexer signals the external search service that an
// opportunity's indexed representation is stale. Fire-and-forget:
// failures are logged, never propagated.
type SearchIndexer interface {
	IndexOpportunity(ctx context.Context, id int64)
}

type kafkaSearchIndexer struct {
	writer *kafka.Writer
}

func NewKafkaSearchIndexer(cfg config.SearchConfig) SearchIndexer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &kafkaSearchIndexer{writer: w}
}

type reindexMessage struct {
	OpportunityID int64  `json:"opportunity_id"`
	Op            string `json:"op"`
}

func (s *kafkaSearchIndexer) IndexOpportunity(ctx context.Context, id int64) {
	value, _ := json.Marshal(reindexMessage{OpportunityID: id, Op: "index"})
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(id, 10)),
		Value: value,
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Warnf("[search][reindex][err] opportunity_id=%d: %v", id, err)
	}
}
