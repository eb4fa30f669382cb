package generation

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

const (
	noFilesWarning       = "Callback reported 'done' but no files received."
	defaultFailureReason = "Generation failed without specific error message."
)

// CallbackFile is one file attached to a scheduler callback.
type CallbackFile struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Callback is a completion notification sent by the scheduler.
type Callback struct {
	Status   string
	TaskID   string
	Error    string
	Infotext string
	Files    []CallbackFile
}

// Succeeded reports whether the scheduler considers the task successful.
func (cb Callback) Succeeded() bool {
	switch strings.ToLower(strings.TrimSpace(cb.Status)) {
	case "done", "completed", "success":
		return true
	}
	return false
}

// CallbackOutcome is returned to the scheduler. Known is false for callbacks
// that reference an unknown generation.
type CallbackOutcome struct {
	Known      bool
	Message    string
	Generation *Generation
}

// ProcessCallback applies a scheduler callback to a generation. Outcomes the
// scheduler should not retry are reported without error, including failures
// while storing files, which mark the generation failed.
func (s *service) ProcessCallback(ctx context.Context, generationID string, cb Callback) (*CallbackOutcome, error) {
	g, err := s.repo.FindByID(ctx, generationID)
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("generation_id", generationID).Str("callback_status", cb.Status).Logger()
	if g == nil {
		log.Warn().Msg("callback for unknown generation ignored")
		return &CallbackOutcome{Message: "Generation ID not found, ignoring callback."}, nil
	}

	if cb.TaskID != "" && g.SchedulerTaskID != nil && *g.SchedulerTaskID != cb.TaskID {
		log.Warn().Str("stored_task_id", *g.SchedulerTaskID).Str("received_task_id", cb.TaskID).Msg("scheduler task id mismatch")
	}
	if g.Status.Terminal() {
		log.Warn().Str("status", string(g.Status)).Msg("callback for generation in terminal state")
	}

	if !cb.Succeeded() {
		reason := strings.TrimSpace(cb.Error)
		if reason == "" {
			reason = defaultFailureReason
		}
		failed, err := s.repo.MarkFailed(ctx, g.ID, reason)
		if err != nil {
			return nil, err
		}
		s.publishUpdate(ctx, failed, nil)
		log.Info().Str("reason", reason).Msg("generation failed")
		return &CallbackOutcome{Known: true, Message: "Callback processed, generation failed.", Generation: failed}, nil
	}

	if len(cb.Files) == 0 {
		warning := noFilesWarning
		completed, err := s.repo.Complete(ctx, g.ID, nil, &warning)
		if err != nil {
			return nil, err
		}
		s.publishUpdate(ctx, completed, []File{})
		log.Warn().Msg(noFilesWarning)
		return &CallbackOutcome{Known: true, Message: "Callback processed, no files received.", Generation: completed}, nil
	}

	files, err := s.storeFiles(ctx, g.ID, cb)
	if err == nil {
		var completed *Generation
		completed, err = s.repo.Complete(ctx, g.ID, files, nil)
		if err == nil {
			s.publishUpdate(ctx, completed, completed.Files)
			log.Info().Int("files", len(completed.Files)).Msg("generation completed")
			return &CallbackOutcome{Known: true, Message: "Callback processed, generation completed.", Generation: completed}, nil
		}
	}

	for _, f := range files {
		if rmErr := s.store.Remove(ctx, f.FilePath); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", f.FilePath).Msg("remove stored file after failure")
		}
	}
	log.Error().Err(err).Msg("callback processing failed")
	reason := fmt.Sprintf("Callback processing error: %s", messageOf(err))
	failed, markErr := s.repo.MarkFailed(ctx, g.ID, reason)
	if markErr != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, markErr, "mark generation failed after callback error")
	}
	s.publishUpdate(ctx, failed, nil)
	return &CallbackOutcome{Known: true, Message: "Callback processed, generation failed while storing files.", Generation: failed}, nil
}

// storeFiles writes every file to the store. On error it returns the files
// written so far so the caller can remove them.
func (s *service) storeFiles(ctx context.Context, generationID string, cb Callback) ([]File, error) {
	var infotext *string
	if strings.TrimSpace(cb.Infotext) != "" {
		infotext = stringPtr(cb.Infotext)
	}

	files := make([]File, 0, len(cb.Files))
	for _, upload := range cb.Files {
		stored, err := s.saveOne(ctx, generationID, upload)
		if err != nil {
			return files, err
		}
		mimeType := strings.TrimSpace(upload.ContentType)
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = stored.MimeType
		}
		files = append(files, File{
			GenerationID:     generationID,
			FilePath:         stored.Path,
			OriginalFilename: upload.Filename,
			MimeType:         mimeType,
			SizeBytes:        stored.Size,
			Infotext:         infotext,
		})
	}
	return files, nil
}

func (s *service) saveOne(ctx context.Context, generationID string, upload CallbackFile) (*StoredFile, error) {
	rc, err := upload.Open()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeFilesystem,
			fmt.Sprintf("open uploaded file %q", upload.Filename), err, "callback-open-file")
	}
	defer rc.Close()
	return s.store.Save(ctx, generationID, upload.Filename, rc)
}
