package jobsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
)

// Purger is the part of JobService the sweeper needs
type Purger interface {
	PurgeExpiredDeletions(ctx context.Context, olderThanDays int) (*job.PurgeResult, error)
}

// PurgeSweeper servicio de limpieza en background: purga periódicamente las
// vacantes eliminadas hace más tiempo que la ventana de restauración
type PurgeSweeper struct {
	purger   Purger
	interval time.Duration
	days     int
}

// NewPurgeSweeper crea un nuevo sweeper
func NewPurgeSweeper(purger Purger, interval time.Duration, olderThanDays int) *PurgeSweeper {
	return &PurgeSweeper{
		purger:   purger,
		interval: interval,
		days:     olderThanDays,
	}
}

// Start corre hasta que ctx se cancele
func (s *PurgeSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Ejecutar limpieza inicial
	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logx.Info("Purge sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce ejecuta una pasada de purga
func (s *PurgeSweeper) RunOnce(ctx context.Context) {
	logx.Debug("Running purge sweep...")

	result, err := s.purger.PurgeExpiredDeletions(ctx, s.days)
	if err != nil {
		logx.WithError(err).Error("purge sweep failed")
		return
	}

	logx.WithFields(logx.Fields{
		"purged": result.Purged,
		"cutoff": result.Cutoff,
	}).Debug("Purge sweep completed")
}
