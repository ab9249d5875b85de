package service

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dprince-03/LMS-API/internal/model"
)

const (
	eventBorrowed = "book.borrowed"
	eventReturned = "book.returned"
)

type loanEvent struct {
	EventID  string    `json:"event_id"`
	Type     string    `json:"type"`
	RecordID int       `json:"record_id"`
	UserID   int       `json:"user_id"`
	BookID   int       `json:"book_id"`
	DueDate  time.Time `json:"due_date"`
	At       time.Time `json:"at"`
}

// publishLoanEvent emits an audit event, keyed by book so consumers see each
// book's lifecycle in order. Failures are logged and never fail the request.
func (s *Service) publishLoanEvent(typ string, rec model.BorrowRecord) {
	if s.producer == nil {
		return
	}
	evt := loanEvent{
		EventID:  uuid.NewString(),
		Type:     typ,
		RecordID: rec.ID,
		UserID:   rec.UserID,
		BookID:   rec.BookID,
		DueDate:  rec.DueDate,
		At:       time.Now().UTC(),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		s.log.Warn("marshal loan event", zap.Error(err))
		return
	}
	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.Itoa(rec.BookID)),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		s.log.Warn("publish loan event", zap.String("type", typ), zap.Error(err))
	}
}
