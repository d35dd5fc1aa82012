// Package scheduler ejecuta las tareas periódicas del portal con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/marianodev72/sitio98plus-sub001/pkg/logger"
)

// Purger elimina pre-registros vencidos. Lo implementa auth.RegistrationUseCase.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PurgeObserver recibe el resultado de cada purga (métricas). Puede ser nil.
type PurgeObserver interface {
	RecordPurge(n int64, err error)
}

// Scheduler envuelve cron.Cron con recover y sin solapamiento de corridas.
type Scheduler struct {
	c   *cron.Cron
	log *logger.Logger
}

func New(log *logger.Logger) *Scheduler {
	l := log.Component("scheduler")
	cl := cronLogger{l}
	return &Scheduler{
		c: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: l,
	}
}

// AddPurge agenda la purga de pre-registros según expr ("@every 5m", "*/10 * * * *").
func (s *Scheduler) AddPurge(expr string, p Purger, obs PurgeObserver, timeout time.Duration) error {
	_, err := s.c.AddFunc(expr, PurgeJob(p, obs, timeout, s.log))
	if err != nil {
		return fmt.Errorf("scheduler: expresión %q: %w", expr, err)
	}
	s.log.Info().Str("expr", expr).Msg("purga de pre-registros agendada")
	return nil
}

// Start inicia el cron en su propia goroutine.
func (s *Scheduler) Start() { s.c.Start() }

// Stop detiene el cron y espera las corridas en curso hasta que ctx venza.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("corridas en curso no terminaron antes del cierre")
	}
}

// PurgeJob arma la función que ejecuta cron.
func PurgeJob(p Purger, obs PurgeObserver, timeout time.Duration, log *logger.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		n, err := p.PurgeExpired(ctx)
		if obs != nil {
			obs.RecordPurge(n, err)
		}
		if err != nil {
			log.Error().Err(err).Msg("purga de pre-registros fallida")
			return
		}
		if n > 0 {
			log.Info().Int64("eliminados", n).Msg("pre-registros vencidos purgados")
		}
	}
}

// cronLogger adapta el logger de la aplicación a cron.Logger.
type cronLogger struct{ l *logger.Logger }

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.l.Debug().Fields(kv).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.Error().Err(err).Fields(kv).Msg(msg)
}
