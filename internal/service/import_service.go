package service

import (
	"context"

	"github.com/Igordev7/PricetireForce/internal/dto"
	"github.com/Igordev7/PricetireForce/internal/ingest"
	"github.com/Igordev7/PricetireForce/internal/worker"

	"github.com/rs/zerolog/log"
)

// ImportService runs the ingestion pipeline for uploaded spreadsheets and
// fans out the post-import notification.
type ImportService interface {
	ImportFile(ctx context.Context, data []byte, filename, uploadedBy string) (*dto.ImportSummary, error)
}

type importService struct {
	pipeline    *ingest.Pipeline
	dispatcher  *worker.Dispatcher
	notifyEmail string
}

// NewImportService builds the service. dispatcher may be nil when async
// notifications are disabled (tests, one-off imports).
func NewImportService(pipeline *ingest.Pipeline, dispatcher *worker.Dispatcher, notifyEmail string) ImportService {
	return &importService{pipeline: pipeline, dispatcher: dispatcher, notifyEmail: notifyEmail}
}

func (s *importService) ImportFile(ctx context.Context, data []byte, filename, uploadedBy string) (*dto.ImportSummary, error) {
	summary, err := s.pipeline.Ingest(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil && s.notifyEmail != "" {
		payload := worker.ImportNotifyPayload{
			Filename:   filename,
			Imported:   summary.Imported,
			Skipped:    summary.Skipped,
			City:       summary.City,
			Region:     summary.Region,
			UploadedBy: uploadedBy,
		}
		// Best effort: a broken queue must not fail an import that already
		// committed.
		if err := s.dispatcher.EnqueueImportNotify(ctx, payload); err != nil {
			log.Error().Err(err).Str("file", filename).Msg("failed to enqueue import notification")
		}
	}

	return summary, nil
}
