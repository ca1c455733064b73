package application

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"lottoledger/database"
	"lottoledger/domain/services"
)

// LotteryScheduler drives the scheduled lottery lifecycle: activating draft
// lotteries, closing expired ones and conducting due auto-draws. Every step
// runs in its own unit of work with serialization retry, so a crash mid-tick
// loses at most one lottery's transition, which the next tick picks up.
type LotteryScheduler struct {
	uowFactory UnitOfWorkFactory
	cron       *cron.Cron
}

// NewLotteryScheduler creates a new lottery scheduler
func NewLotteryScheduler(uowFactory UnitOfWorkFactory) *LotteryScheduler {
	return &LotteryScheduler{
		uowFactory: uowFactory,
		cron:       cron.New(),
	}
}

// Start registers the cron jobs and begins scheduling. The returned function
// stops the scheduler and waits for running jobs to finish.
func (s *LotteryScheduler) Start(ctx context.Context) (func(), error) {
	if _, err := s.cron.AddFunc("* * * * *", func() { s.tick(ctx) }); err != nil {
		return nil, err
	}

	s.cron.Start()
	log.Info("Lottery scheduler started")

	return func() {
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		log.Info("Lottery scheduler stopped")
	}, nil
}

func (s *LotteryScheduler) tick(ctx context.Context) {
	now := time.Now().UTC()

	if err := s.runLifecycle(ctx, now); err != nil {
		log.WithError(err).Error("Lottery lifecycle pass failed")
	}
	if err := s.runDueDraws(ctx, now); err != nil {
		log.WithError(err).Error("Scheduled draw pass failed")
	}
}

// runLifecycle activates and closes lotteries whose windows have passed
func (s *LotteryScheduler) runLifecycle(ctx context.Context, now time.Time) error {
	return database.WithRetry(ctx, func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer uow.Rollback()

		lifecycle := services.NewLifecycleService(uow.LotteryRepository())

		activated, err := lifecycle.ActivateScheduled(ctx, now)
		if err != nil {
			return err
		}
		closed, err := lifecycle.CloseExpired(ctx, now)
		if err != nil {
			return err
		}

		if err := uow.Commit(); err != nil {
			return err
		}

		if activated > 0 || closed > 0 {
			log.WithFields(log.Fields{
				"activated": activated,
				"closed":    closed,
			}).Info("Lottery lifecycle pass complete")
		}
		return nil
	})
}

// runDueDraws conducts each due auto-draw in its own unit of work, so one
// failing draw does not roll back the others
func (s *LotteryScheduler) runDueDraws(ctx context.Context, now time.Time) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	due, err := services.NewLifecycleService(uow.LotteryRepository()).DueDraws(ctx, now)
	uow.Rollback()
	if err != nil {
		return err
	}

	for _, lottery := range due {
		lotteryID := lottery.ID
		err := database.WithRetry(ctx, func() error {
			uow := s.uowFactory.Create()
			if err := uow.Begin(ctx); err != nil {
				return err
			}
			defer uow.Rollback()

			ledger := services.NewLedgerService(uow.AccountRepository(), uow.TransactionRepository(), uow.EventBus())
			drawService := services.NewDrawService(
				uow.LotteryRepository(),
				uow.TicketRepository(),
				uow.WinnerRepository(),
				uow.DrawAuditLogRepository(),
				ledger,
				uow.EventBus(),
			)

			// Scheduled draws have no conducting admin
			if _, err := drawService.ConductDraw(ctx, lotteryID, nil); err != nil {
				return err
			}
			return uow.Commit()
		})
		if err != nil {
			log.WithFields(log.Fields{
				"lotteryID": lotteryID,
				"error":     err,
			}).Error("Scheduled draw failed")
		}
	}
	return nil
}
