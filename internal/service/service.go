package service

import (
	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/dprince-03/LMS-API/internal/repository"
	"github.com/dprince-03/LMS-API/pkg/auth"
)

// Policy holds the configurable borrow rules.
type Policy struct {
	MaxActiveBorrows int     `yaml:"maxActiveBorrows" envconfig:"BORROW_MAX_ACTIVE" default:"5"`
	DueDays          int     `yaml:"dueDays" envconfig:"BORROW_DUE_DAYS" default:"14"`
	ExtensionDays    int     `yaml:"extensionDays" envconfig:"BORROW_EXTENSION_DAYS" default:"7"`
	DailyLateFee     float64 `yaml:"dailyLateFee" envconfig:"BORROW_DAILY_LATE_FEE" default:"1.0"`
}

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	jwt      *auth.Manager
	policy   Policy
	producer sarama.SyncProducer
	topic    string
}

func NewService(repo repository.Repository, jwtMgr *auth.Manager, policy Policy, log *zap.Logger) *Service {
	return &Service{
		log:    log,
		repo:   repo,
		jwt:    jwtMgr,
		policy: policy,
	}
}

// WithProducer enables loan audit events on the given topic. Without it the
// service runs silently, which is what tests and local setups want.
func (s *Service) WithProducer(producer sarama.SyncProducer, topic string) *Service {
	s.producer = producer
	s.topic = topic
	return s
}
