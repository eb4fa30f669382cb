package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// CallbackPath is the route prefix the scheduler calls back on.
const CallbackPath = "/api/scheduler_callback/"

// Pair identifies one (project, collection) cell to generate for. The
// collection id is kept as received so malformed values can be reported back.
type Pair struct {
	ProjectID    string `json:"project_id"`
	CollectionID string `json:"collection_id"`
}

// PairError explains why a pair was not queued.
type PairError struct {
	Pair  Pair   `json:"pair"`
	Error string `json:"error"`
}

// BatchReport summarizes a dispatch batch.
type BatchReport struct {
	Message      string      `json:"message"`
	TasksStarted []string    `json:"tasks_started"`
	PairErrors   []PairError `json:"pair_errors"`
}

// CallbackURL is the address the scheduler calls when a generation finishes.
func CallbackURL(base, generationID string) string {
	return strings.TrimRight(base, "/") + CallbackPath + generationID
}

// DispatchBatch persists one pending generation per valid pair and submits it
// to the scheduler. Pairs are independent: a failing pair never stops the rest.
func (s *service) DispatchBatch(ctx context.Context, pairs []Pair, callbackBase string) (*BatchReport, error) {
	if s.scheduler == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"SCHEDULER_URL is not configured", nil, "scheduler-not-configured")
	}
	if strings.TrimSpace(callbackBase) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"Callback base URL could not be determined", nil, "callback-base-missing")
	}

	report := &BatchReport{
		Message:      fmt.Sprintf("Processed %d pairs.", len(pairs)),
		TasksStarted: []string{},
		PairErrors:   []PairError{},
	}
	for _, pair := range pairs {
		generationID, err := s.dispatchPair(ctx, pair, callbackBase)
		if err != nil {
			report.PairErrors = append(report.PairErrors, PairError{Pair: pair, Error: messageOf(err)})
			continue
		}
		report.TasksStarted = append(report.TasksStarted, generationID)
	}

	s.log.Info().
		Int("pairs", len(pairs)).
		Int("queued", len(report.TasksStarted)).
		Int("errors", len(report.PairErrors)).
		Msg("batch dispatched")
	return report, nil
}

func (s *service) dispatchPair(ctx context.Context, pair Pair, callbackBase string) (string, error) {
	projectID := strings.TrimSpace(pair.ProjectID)
	rawCollectionID := strings.TrimSpace(pair.CollectionID)
	if projectID == "" || rawCollectionID == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Missing project_id or collection_id", nil, "pair-missing-ids")
	}
	collectionID, ok := collection.ParseID(rawCollectionID)
	if !ok {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"collection_id must be an integer", nil, "pair-invalid-collection-id")
	}

	merged, err := s.Merge(ctx, projectID, collectionID)
	if err != nil {
		return "", err
	}
	if merged.Positive == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Merged positive prompt is empty", nil, "pair-empty-prompt")
	}

	g := &Generation{
		ID:                  uuid.NewString(),
		ProjectID:           projectID,
		CollectionID:        collectionID,
		Status:              StatusPending,
		ModerationStatus:    ModerationPending,
		FinalPositivePrompt: merged.Positive,
		FinalNegativePrompt: merged.Negative,
		GenerationParams:    merged.Params,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return "", err
	}

	log := s.log.With().Str("generation_id", g.ID).Logger()
	payload := merged.Params.Clone()
	payload[ParamCallbackURL] = CallbackURL(callbackBase, g.ID)

	result, enqueueErr := s.scheduler.Enqueue(ctx, payload)
	if enqueueErr != nil {
		log.Error().Err(enqueueErr).Msg("scheduler rejected generation")
		failed, err := s.repo.FailPending(ctx, g.ID, messageOf(enqueueErr))
		if err != nil {
			log.Error().Err(err).Msg("mark generation failed")
			return "", err
		}
		if failed.Status != StatusFailed {
			log.Warn().Str("status", string(failed.Status)).Msg("callback arrived despite enqueue error")
			return g.ID, nil
		}
		s.publishUpdate(ctx, failed, nil)
		return "", enqueueErr
	}

	queued, err := s.repo.MarkQueued(ctx, g.ID, result.TaskID)
	if err != nil {
		log.Error().Err(err).Str("task_id", result.TaskID).Msg("mark generation queued")
		return "", err
	}
	if queued.Status != StatusQueued {
		log.Info().Str("task_id", result.TaskID).Str("status", string(queued.Status)).Msg("callback arrived before enqueue response")
		return g.ID, nil
	}
	event := log.Info().Str("task_id", result.TaskID)
	if result.QueuePosition != nil {
		event = event.Int("queue_position", *result.QueuePosition)
	}
	event.Msg("generation queued")
	s.publishUpdate(ctx, queued, nil)
	return g.ID, nil
}
