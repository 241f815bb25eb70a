package worker

import (
	"github.com/hrumbles/candidate-pipeline/internal/events"
	"github.com/hrumbles/candidate-pipeline/internal/service"
)

// StartEventWorkers registers the status event consumers on the dispatcher.
func StartEventWorkers(dispatcher events.Dispatcher, notificationService *service.NotificationService, publisher *events.RedisPublisher) {
	if dispatcher == nil {
		return
	}
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if publisher != nil {
		publisher.Register(dispatcher)
	}
}
