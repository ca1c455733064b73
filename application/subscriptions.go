package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"lottoledger/database"
	"lottoledger/domain/entities"
	"lottoledger/domain/events"
	"lottoledger/domain/services"
)

// LocalHandlerRegistrar registers in-process handlers on the event publisher
type LocalHandlerRegistrar interface {
	RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error)
}

// RegisterApplicationSubscriptions wires the in-process event handlers.
// Deposit completions feed the referral tracker in a separate unit of work,
// so a referral failure never affects the already committed deposit.
func RegisterApplicationSubscriptions(
	registrar LocalHandlerRegistrar,
	uowFactory UnitOfWorkFactory,
	program entities.ReferralProgramConfig,
) {
	if !program.Active {
		log.Info("Referral program inactive, deposit tracking disabled")
		return
	}

	registrar.RegisterLocalHandler(events.EventTypeDepositCompleted,
		func(ctx context.Context, event events.Event) error {
			deposit, ok := event.(events.DepositCompletedEvent)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", event.Type())
			}
			return database.WithRetry(ctx, func() error {
				uow := uowFactory.Create()
				if err := uow.Begin(ctx); err != nil {
					return err
				}
				defer uow.Rollback()

				ledger := services.NewLedgerService(uow.AccountRepository(), uow.TransactionRepository(), uow.EventBus())
				referrals := services.NewReferralService(uow.ReferralRepository(), ledger, program)

				if err := referrals.TrackDeposit(ctx, deposit.AccountID, deposit.Amount); err != nil {
					return err
				}
				return uow.Commit()
			})
		})
}
