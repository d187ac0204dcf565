package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/kstorelabs/notify/pkg/async"
	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/notification"
)

// BulkRecipient is one target of a bulk send. PersonalizedParameters
// override the request's global parameters on key collisions.
type BulkRecipient struct {
	UserID                 string
	Recipient              string
	PersonalizedParameters map[string]string
}

// BulkRequest fans one template out to many recipients.
type BulkRequest struct {
	TemplateName     string
	GlobalParameters map[string]string
	Recipients       []BulkRecipient
}

// BulkResult is the per-recipient outcome of a bulk send, in request order.
type BulkResult struct {
	Notification *notification.Notification
	Err          error
}

// SendBulk renders the named template once per recipient with merged
// parameters and dispatches all notifications concurrently. A missing
// template aborts the whole request before anything is created; individual
// delivery failures only affect their own slot in the results.
//
// Bulk notifications are created at medium priority so campaigns never
// starve urgent transactional traffic.
func (d *Dispatcher) SendBulk(ctx context.Context, req BulkRequest) ([]BulkResult, error) {
	tpl, err := d.templates.GetByName(ctx, req.TemplateName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bulk template %q: %w", req.TemplateName, err)
	}

	futures := make([]*async.Future[*notification.Notification], len(req.Recipients))
	for i, recipient := range req.Recipients {
		merged := make(map[string]string, len(req.GlobalParameters)+len(recipient.PersonalizedParameters))
		maps.Copy(merged, req.GlobalParameters)
		maps.Copy(merged, recipient.PersonalizedParameters)

		n, err := d.Create(ctx, CreateParams{
			UserID:       recipient.UserID,
			Recipient:    recipient.Recipient,
			Type:         tpl.Type,
			Channel:      tpl.Channel,
			TemplateName: tpl.Name,
			Parameters:   merged,
			Priority:     notification.PriorityBulk,
		})
		if err != nil {
			futures[i] = async.Resolved[*notification.Notification](nil, err)
			continue
		}
		futures[i] = d.DispatchAsync(ctx, n.ID)
	}

	// Join in request order so results line up with recipients.
	results := make([]BulkResult, len(futures))
	for i, future := range futures {
		n, err := future.Await()
		results[i] = BulkResult{Notification: n, Err: err}
	}

	d.log.InfoContext(ctx, "bulk notification completed",
		logger.Template(tpl.Name),
		slog.Int("recipients", len(req.Recipients)),
	)
	return results, nil
}
