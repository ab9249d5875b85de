package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dprince-03/LMS-API/config"
	"github.com/dprince-03/LMS-API/internal/handler"
	"github.com/dprince-03/LMS-API/internal/repository"
	"github.com/dprince-03/LMS-API/internal/server"
	"github.com/dprince-03/LMS-API/internal/service"
	"github.com/dprince-03/LMS-API/migrations"
	"github.com/dprince-03/LMS-API/pkg/auth"
	"github.com/dprince-03/LMS-API/pkg/kafka"
	"github.com/dprince-03/LMS-API/pkg/logger"
	"github.com/dprince-03/LMS-API/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo init %v", err)
	}

	jwtMgr := auth.NewManager(cfg.JWT)
	svc := service.NewService(repo, jwtMgr, cfg.Borrow, log)
	if len(cfg.Kafka.Addrs) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Warn("kafka producer init, audit events disabled", zap.Error(err))
		} else {
			svc = svc.WithProducer(producer, cfg.Kafka.Topic)
			defer producer.Close() //nolint:errcheck
		}
	}

	h := handler.New(svc, svc, svc, svc, svc, jwtMgr, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
