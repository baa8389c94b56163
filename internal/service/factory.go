package service

import (
	"supportdesk.app/engine/core/config"
	"supportdesk.app/engine/internal/domain"
	"supportdesk.app/engine/internal/events"
	"supportdesk.app/engine/internal/store"
)

type Services struct {
	stores    *store.Stores
	txRunner  TxRunner
	publisher events.Publisher
	clock     domain.Clock
	cfg       config.Config
}

func NewServices(stores *store.Stores, txRunner TxRunner, publisher events.Publisher, cfg config.Config) *Services {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &Services{
		stores:    stores,
		txRunner:  txRunner,
		publisher: publisher,
		clock:     domain.SystemClock(),
		cfg:       cfg,
	}
}

func (s *Services) Queue() QueueService {
	return NewQueueService(s.stores, s.txRunner, s.publisher, s.clock)
}

func (s *Services) SLA() SlaService {
	return NewSlaService(s.stores, s.txRunner, s.publisher, s.clock)
}

func (s *Services) Shifts() ShiftService {
	return NewShiftService(s.stores, s.txRunner, s.publisher, s.clock)
}

func (s *Services) Messages() MessageService {
	return NewMessageService(s.stores, s.txRunner, s.publisher, s.clock, domain.ResolvedPolicy{
		ResponseSeconds:         s.cfg.SLA.DefaultResponseSeconds,
		WarningThresholdPercent: s.cfg.SLA.DefaultWarningPercent,
	})
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Sessions(), s.stores.Agents(), s.cfg.Assignment.AllowSelfTransfer)
}
