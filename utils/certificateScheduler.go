package utils

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper is satisfied by the certificate service.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// InitializeCertificateScheduler runs the pending-certificate sweep on spec
// (standard cron syntax or descriptors such as "@every 15m"). The caller
// stops the returned cron on shutdown.
func InitializeCertificateScheduler(spec string, sweeper Sweeper, log *zap.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := sweeper.Sweep(ctx); err != nil {
			log.Error("certificate sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("certificate scheduler started", zap.String("spec", spec))
	return c, nil
}
