// Package inquiry runs the per-request pipeline: extract → validate → persist
// → compose → reply. Each mention is handled as one independent, synchronous
// call chain with no state shared across requests.
package inquiry

import (
	"context"

	"go.uber.org/zap"

	"inquiry-intake-service/internal/model"
	"inquiry-intake-service/internal/service/reply"
	"inquiry-intake-service/internal/service/validate"
	"inquiry-intake-service/pkg/logger"
	"inquiry-intake-service/pkg/metrics"
)

// FailureMessage is the generic retry-later reply for collaborator failures.
const FailureMessage = "エラーが発生しました。しばらく時間をおいて再度お試しください。"

// Extractor produces structured records from the message text.
type Extractor interface {
	Extract(ctx context.Context, text, inquirerName string) ([]model.InquiryRecord, error)
}

// Persister writes the batch to the backing store.
type Persister interface {
	Persist(ctx context.Context, inquirer string, batch []model.InquiryRecord, sourceMessage, sourceLink string) ([]model.PersistedRow, error)
}

// ReplySink posts a threaded reply back to the requester. Failures are logged
// here and never retried or escalated.
type ReplySink interface {
	PostReply(ctx context.Context, channelID, threadTS, text string) error
}

// Request carries everything the pipeline needs for one mention.
type Request struct {
	ChannelID  string
	ThreadTS   string
	Text       string
	Inquirer   string
	SourceLink string
}

type Service struct {
	extractor     Extractor
	persister     Persister
	sink          ReplySink
	spreadsheetID string
	sheetGID      int64
	logger        *zap.Logger
}

func NewService(extractor Extractor, persister Persister, sink ReplySink, spreadsheetID string, sheetGID int64, logger *zap.Logger) *Service {
	return &Service{
		extractor:     extractor,
		persister:     persister,
		sink:          sink,
		spreadsheetID: spreadsheetID,
		sheetGID:      sheetGID,
		logger:        logger,
	}
}

// Process runs the pipeline for one mention. A validation rejection completes
// the request normally after telling the requester the specific reason; a
// collaborator failure notifies the requester best-effort with the generic
// message and is returned to the caller for logging context.
func (s *Service) Process(ctx context.Context, req Request) error {
	log := logger.WithTrace(ctx, s.logger)

	batch, err := s.extractor.Extract(ctx, req.Text, req.Inquirer)
	if err != nil {
		return s.fail(ctx, log, req, err)
	}

	if rej := validate.Check(batch); rej != nil {
		log.Info("batch rejected",
			zap.String("reason", rej.Reason),
			zap.Int("records", len(batch)),
		)
		metrics.IncrementInquiryRequests("rejected")
		s.reply(ctx, log, req, rej.Reason)
		return nil
	}

	rows, err := s.persister.Persist(ctx, req.Inquirer, batch, req.Text, req.SourceLink)
	if err != nil {
		return s.fail(ctx, log, req, err)
	}

	metrics.IncrementInquiryRequests("accepted")
	metrics.AddInquiriesRegistered(len(rows))
	log.Info("inquiry registered",
		zap.Int("records", len(rows)),
		zap.String("inquirer", req.Inquirer),
	)

	s.reply(ctx, log, req, reply.Compose(rows, s.spreadsheetID, s.sheetGID))
	return nil
}

func (s *Service) fail(ctx context.Context, log *zap.Logger, req Request, err error) error {
	log.Error("inquiry processing failed", zap.Error(err))
	metrics.IncrementInquiryRequests("failed")
	s.reply(ctx, log, req, FailureMessage)
	return err
}

func (s *Service) reply(ctx context.Context, log *zap.Logger, req Request, text string) {
	if err := s.sink.PostReply(ctx, req.ChannelID, req.ThreadTS, text); err != nil {
		log.Error("failed to post reply", zap.Error(err))
	}
}
