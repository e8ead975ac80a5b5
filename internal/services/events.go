package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"taskflow.com/taskflow/internal/feed"
)

// publish forwards ev to the change feed. A failed publish does not fail the
// write that produced it.
func publish(ctx context.Context, p feed.Publisher, logger *log.Entry, ev feed.ChangeEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		logger.WithError(err).WithFields(log.Fields{
			"table":     ev.Table,
			"type":      ev.Type,
			"record_id": ev.RecordID,
		}).Warn("failed to publish change event")
	}
}
