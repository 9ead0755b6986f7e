package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/willowpath/scheduler-api/internal/models"
	"github.com/willowpath/scheduler-api/pkg/export"
	"github.com/willowpath/scheduler-api/pkg/jobs"
)

type archiveWriter interface {
	Save(filename string, data []byte) (string, error)
}

// ProposalArchiver persists an audit copy of every approved proposal as a CSV
// file, off the request path. Archiving is best-effort; a failed write retries
// through the queue and is logged, never surfaced to the caller.
type ProposalArchiver struct {
	queue  *jobs.Queue
	store  archiveWriter
	csv    *export.CSVExporter
	logger *zap.Logger
}

type archivePayload struct {
	ProposalID string
	Slots      []models.ScheduleSlot
}

// NewProposalArchiver constructs the archiver. Call Start before saving
// proposals and Stop on shutdown.
func NewProposalArchiver(store archiveWriter, logger *zap.Logger) *ProposalArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &ProposalArchiver{
		store:  store,
		csv:    export.NewCSVExporter(),
		logger: logger,
	}
	a.queue = jobs.NewQueue("proposal-archive", a.handle, jobs.QueueConfig{
		Workers: 1,
		Logger:  logger,
	})
	return a
}

// Start begins background processing.
func (a *ProposalArchiver) Start(ctx context.Context) {
	a.queue.Start(ctx)
}

// Stop drains the workers.
func (a *ProposalArchiver) Stop() {
	a.queue.Stop()
}

// Archive enqueues one saved proposal for archival.
func (a *ProposalArchiver) Archive(proposalID string, slots []models.ScheduleSlot) {
	err := a.queue.Enqueue(jobs.Job{
		ID:      proposalID,
		Type:    "proposal-archive",
		Payload: archivePayload{ProposalID: proposalID, Slots: slots},
	})
	if err != nil {
		a.logger.Warn("failed to enqueue proposal archive", zap.String("proposal_id", proposalID), zap.Error(err))
	}
}

func (a *ProposalArchiver) handle(_ context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(archivePayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	data, err := a.csv.Render(proposalDataset(payload.Slots))
	if err != nil {
		return fmt.Errorf("render archive csv: %w", err)
	}
	name := fmt.Sprintf("%s/%s.csv", job.Enqueued.Format("2006-01-02"), payload.ProposalID)
	if _, err := a.store.Save(name, data); err != nil {
		return fmt.Errorf("write archive csv: %w", err)
	}
	a.logger.Info("proposal archived", zap.String("proposal_id", payload.ProposalID), zap.String("file", name))
	return nil
}
