package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	"github.com/noah-isme/interview-timetable-api/pkg/jobs"
)

// JobTypeSubmissionSaved tags queued availability submissions.
const JobTypeSubmissionSaved = "submission.saved"

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// SubmissionRecorder emits the log record of a saved availability form. Records
// go through the job queue; when the queue refuses them they are logged inline.
type SubmissionRecorder struct {
	queue  jobDispatcher
	logger *zap.Logger
}

// NewSubmissionRecorder constructs a recorder. A nil queue logs inline.
func NewSubmissionRecorder(queue jobDispatcher, logger *zap.Logger) *SubmissionRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionRecorder{queue: queue, logger: logger}
}

// Record assigns an id to the submission and dispatches it.
func (r *SubmissionRecorder) Record(ctx context.Context, sub models.Submission) (models.Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if r.queue == nil {
		r.log(sub, 0)
		return sub, nil
	}
	if err := r.queue.Enqueue(jobs.Job{ID: sub.ID, Type: JobTypeSubmissionSaved, Payload: sub}); err != nil {
		r.logger.Warn("submission queue unavailable, logging inline", zap.String("submission_id", sub.ID), zap.Error(err))
		r.log(sub, 0)
	}
	return sub, nil
}

// Handle is the queue handler writing the submission record.
func (r *SubmissionRecorder) Handle(ctx context.Context, job jobs.Job) error {
	sub, ok := job.Payload.(models.Submission)
	if !ok {
		return fmt.Errorf("job %s: unexpected payload %T", job.ID, job.Payload)
	}
	r.log(sub, job.Attempt)
	return nil
}

func (r *SubmissionRecorder) log(sub models.Submission, attempt int) {
	slots := make([]string, 0, len(sub.Slots))
	for _, s := range sub.Slots {
		slots = append(slots, fmt.Sprintf("%s %02d:%02d", s.Date, s.Hour, s.Minute))
	}
	r.logger.Info("availability submitted",
		zap.String("submission_id", sub.ID),
		zap.String("session_id", sub.SessionID),
		zap.String("role", string(sub.Role)),
		zap.String("name", sub.Name),
		zap.Int("selected", len(sub.Slots)),
		zap.Strings("slots", slots),
		zap.Time("submitted_at", sub.SubmittedAt),
		zap.Int("attempt", attempt),
	)
}
