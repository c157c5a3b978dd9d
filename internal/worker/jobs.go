package worker

import (
	"context"

	"github.com/vytor/flashpulse/internal/apiclient"
	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/models"
)

// PushCollectionJob sends a full deck collection to the server's replace-all
// endpoint.
type PushCollectionJob struct {
	Client apiclient.ClientInterface
	Decks  []models.Deck
	// Reason is a short label for logs ("save", "delete").
	Reason string
	// OnError, when set, is told about a failed push.
	OnError func(error)
}

func (j *PushCollectionJob) Name() string { return "push_decks" }

func (j *PushCollectionJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"reason": j.Reason,
		"count":  len(j.Decks),
	})
	log.Debug("pushing deck collection")

	if err := j.Client.ReplaceDecks(ctx, j.Decks); err != nil {
		if j.OnError != nil {
			j.OnError(err)
		}
		return err
	}
	log.Info("deck collection pushed")
	return nil
}
