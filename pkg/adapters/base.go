package adapters

import (
	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/goliatone/go-messenger/pkg/interfaces/logger"
)

// BaseAdapter provides shared helpers for simple posters.
type BaseAdapter struct {
	logger logger.Logger
}

func NewBaseAdapter(l logger.Logger) BaseAdapter {
	return BaseAdapter{logger: logger.OrNop(l)}
}

func (b BaseAdapter) LogSuccess(name string, delivery domain.Delivery) {
	b.logger.Info("adapter delivered message",
		logger.F("adapter", name),
		logger.F("channel", delivery.Payload.Channel),
		logger.F("url", MaskURL(delivery.URL)),
	)
}

func (b BaseAdapter) LogFailure(name string, delivery domain.Delivery, err error) {
	b.logger.Error("adapter delivery failed",
		logger.F("adapter", name),
		logger.F("channel", delivery.Payload.Channel),
		logger.F("url", MaskURL(delivery.URL)),
		logger.Err(err),
	)
}

// Logger exposes the adapter logger for structured diagnostics.
func (b BaseAdapter) Logger() logger.Logger {
	if b.logger == nil {
		return &logger.Nop{}
	}
	return b.logger
}
