package worker

import (
	"github.com/spec-kit/lead-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to lead events.
// Delivery runs inline on the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
