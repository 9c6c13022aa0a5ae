package main

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildpro/internal/worker/client"
	"buildpro/internal/worker/handler"
	"buildpro/internal/worker/mqhandler"
	"buildpro/pkg/config"
	"buildpro/pkg/db"
	"buildpro/pkg/httpserver"
	"buildpro/pkg/logger"
	"buildpro/pkg/mq"
	"buildpro/pkg/outbox"
	"buildpro/pkg/redis"
	"buildpro/pkg/util"
)

var errMQNotReady = errors.New("mq consumer not connected")

func main() {
	// 1. Load config
	cfg := config.MustLoad(config.GetConfigEnv(), "")

	log := logger.Named(logger.NewLogger(), "milestone-worker")
	defer log.Sync()

	// 2. Init DB (for replay)
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init Redis for event dedup
	rdb := redis.NewClient(cfg.Redis)
	deduper := util.NewDeduper(rdb, 24*time.Hour, log)

	// 4. Init consumer for progress.updated events
	consumer, err := mq.NewConsumer(cfg.MQ.URL, "milestone-worker", outbox.RoutingKeyProgressUpdated, log)
	if err != nil {
		log.Fatal("MQ consumer initialization failed", zap.Error(err))
	}
	defer consumer.Close()

	// 5. Init publisher (DLQ + replay)
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("MQ publisher initialization failed", zap.Error(err))
	}
	defer publisher.Close()

	if err := consumer.WithDLQ(publisher); err != nil {
		log.Fatal("DLQ setup failed", zap.Error(err))
	}

	// 6. Wire the event handler
	paymentClient := client.NewPaymentClient(cfg.Services.PaymentURL, log)
	progressHandler := mqhandler.NewProgressUpdatedHandler(paymentClient, deduper, log)
	consumer.SetHandler(progressHandler.Handle)

	go func() {
		if err := consumer.StartConsuming(); err != nil {
			log.Fatal("consumer start failed", zap.Error(err))
		}
	}()

	// 7. Admin server: health, metrics, event replay
	outboxRepo := outbox.NewRepository(dbConn)
	replaySvc := outbox.NewReplayService(outboxRepo, publisher)
	replayHandler := handler.NewReplayHandler(replaySvc, log)

	r := gin.Default()
	r.Use(httpserver.RequestLogger(log))
	r.Use(httpserver.Metrics())
	httpserver.RegisterHealth(r, dbConn, func() error {
		if !consumer.IsConnected() {
			return errMQNotReady
		}
		return nil
	})
	r.POST("/admin/events/:id/replay", replayHandler.ReplayEvent)
	r.POST("/admin/events/replay-failed", replayHandler.ReplayFailedEvents)

	port := cfg.Server.Port
	if port == "" {
		port = ":5005"
	}
	log.Info("Milestone worker starting", zap.String("port", port))
	if err := r.Run(port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
