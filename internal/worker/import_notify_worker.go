package worker

// import_notify_worker.go
// Processes notification jobs from QueueImportNotify: after a spreadsheet
// finishes importing, the configured recipient gets a plain-text summary
// of how many rows landed and how many were skipped.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Igordev7/PricetireForce/internal/infra"

	"github.com/rs/zerolog/log"
)

// ImportNotifyPayload is the job envelope sent to QueueImportNotify.
type ImportNotifyPayload struct {
	Filename   string `json:"filename"`
	Imported   int    `json:"imported"`
	Skipped    int    `json:"skipped"`
	City       string `json:"city"`
	Region     string `json:"region"`
	UploadedBy string `json:"uploaded_by"`
}

// ImportNotifyWorker sends import summaries via SMTP. Sends go through a
// circuit breaker so a downed relay does not stall the pool.
type ImportNotifyWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	to     string
}

func NewImportNotifyWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, to string) *ImportNotifyWorker {
	return &ImportNotifyWorker{mailer: mailer, cb: cb, to: to}
}

// Process sends one summary email. A returned error means the job should
// be retried.
func (w *ImportNotifyWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload ImportNotifyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("import_notify: invalid payload")
		return nil // malformed jobs are not retryable
	}
	if w.to == "" {
		log.Warn().Msg("import_notify: no recipient configured — skipping")
		return nil
	}

	subject := fmt.Sprintf("Importação concluída: %s", payload.Filename)
	body := fmt.Sprintf(
		"Arquivo: %s\nEnviado por: %s\nCidade: %s (%s)\n\nRegistros importados: %d\nLinhas ignoradas: %d\n",
		payload.Filename, payload.UploadedBy, payload.City, payload.Region,
		payload.Imported, payload.Skipped,
	)

	err := w.cb.Execute(func() error {
		return w.mailer.SendImportSummary(w.to, subject, body)
	})
	if err != nil {
		log.Error().Err(err).Str("to", w.to).Msg("import_notify: failed to send email")
		return err
	}
	log.Info().Str("to", w.to).Str("file", payload.Filename).Msg("import_notify: summary sent")
	return nil
}
