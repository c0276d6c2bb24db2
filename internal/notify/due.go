package notify

import (
	"time"

	"github.com/julianstephens/sixtysix/internal/constants"
)

// Due returns the pending requests that should be delivered at now. Daily
// triggers match on hour and minute in now's location; one-shot triggers are
// due once their instant has passed, for a short grace period.
func Due(pending []Request, now time.Time) []Request {
	var due []Request
	for _, req := range pending {
		switch req.Trigger.Kind {
		case TriggerDaily:
			if req.Trigger.Hour == now.Hour() && req.Trigger.Minute == now.Minute() {
				due = append(due, req)
			}
		case TriggerOnce:
			if req.Trigger.At == nil {
				continue
			}
			at := *req.Trigger.At
			if !at.After(now) && now.Sub(at) < constants.NotifyOnceGracePeriod {
				due = append(due, req)
			}
		}
	}
	return due
}
