package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
	"github.com/secmon-lab/preen/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	runsCollection = "runs"

	fieldStartedAt = "startedAt"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Probe the collection so a bad project ID or missing permission fails
	// at startup instead of at the end of a run
	_, err = client.Collection(runsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// PutRun stores a run summary in Firestore
func (f *Firestore) PutRun(ctx context.Context, summary *model.ExecutionSummary) error {
	if summary == nil {
		return goerr.New("summary is nil")
	}
	if err := summary.RunID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid run ID")
	}

	_, err := f.client.Collection(runsCollection).Doc(summary.RunID.String()).Set(ctx, summary)
	if err != nil {
		return goerr.Wrap(err, "failed to save run to firestore",
			goerr.V("runID", summary.RunID))
	}

	return nil
}

// GetRun retrieves a run summary by ID
func (f *Firestore) GetRun(ctx context.Context, id types.RunID) (*model.ExecutionSummary, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid run ID")
	}

	doc, err := f.client.Collection(runsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrRunNotFound, "failed to get run", goerr.V("runID", id))
		}
		return nil, goerr.Wrap(err, "failed to get run from firestore", goerr.V("runID", id))
	}

	var summary model.ExecutionSummary
	if err := doc.DataTo(&summary); err != nil {
		return nil, goerr.Wrap(err, "failed to decode run summary")
	}

	return &summary, nil
}

// ListRuns retrieves the most recent run summaries, newest first
func (f *Firestore) ListRuns(ctx context.Context, limit int) ([]*model.ExecutionSummary, error) {
	limit = normalizeLimit(limit)

	iter := f.client.Collection(runsCollection).
		OrderBy(fieldStartedAt, firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var summaries []*model.ExecutionSummary
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate runs")
		}

		var summary model.ExecutionSummary
		if err := doc.DataTo(&summary); err != nil {
			return nil, goerr.Wrap(err, "failed to decode run summary")
		}

		summaries = append(summaries, &summary)
	}

	return summaries, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}

var _ interfaces.Repository = (*Firestore)(nil) // Compile-time interface check
