package worker

import (
	"context"
	"errors"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 队列消费服务，同时负责定时低库存巡检
type Service struct {
	server        *asynq.Server
	mux           *asynq.ServeMux
	consumer      *Consumer
	sweepInterval time.Duration
}

// NewService 创建队列消费服务，队列未启用时返回错误
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	var interval time.Duration
	if consumer.Container != nil && consumer.Config != nil && consumer.Config.Catalog.LowStockSweepMins > 0 {
		interval = time.Duration(consumer.Config.Catalog.LowStockSweepMins) * time.Minute
	}
	return &Service{
		server:        asynq.NewServer(opt, serverCfg),
		mux:           mux,
		consumer:      consumer,
		sweepInterval: interval,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return "worker"
}

// Start 启动消费与巡检，阻塞直到服务停止
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.sweepInterval > 0 {
		go s.runLowStockSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(_ context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}

func (s *Service) runLowStockSweepLoop(ctx context.Context) {
	runOnce := func() {
		if _, err := s.consumer.SweepLowStock(); err != nil {
			logger.Warnw("worker_low_stock_sweep_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
