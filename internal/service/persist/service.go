package persist

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"inquiry-intake-service/internal/model"
	"inquiry-intake-service/pkg/logger"
)

// RowStore is the append-only backing store for inquiry rows.
type RowStore interface {
	ReadAll(ctx context.Context) ([][]string, error)
	Append(ctx context.Context, row []string) error
}

// SequenceAllocator derives the next sequence number and the current row count
// from the store. The default implementation is a point-in-time scan with no
// guard against a concurrent writer: two racing requests can allocate
// overlapping sequence numbers and stale row positions. This is a known
// limitation; a locking or atomic-counter allocator can be swapped in here
// without touching the rest of the pipeline.
type SequenceAllocator interface {
	Allocate(ctx context.Context) (maxSequence, existingRows int, err error)
}

// Service assigns sequence numbers and writes one fixed-width row per record.
type Service struct {
	store  RowStore
	alloc  SequenceAllocator
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store RowStore, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		alloc:  &scanAllocator{store: store},
		logger: logger,
		now:    time.Now,
	}
}

// Persist appends one row per record in batch order. Sequence numbers continue
// from the maximum already on the sheet; row positions are estimated from the
// row count read before the first append. Any store fault aborts the request;
// rows appended before the fault remain on the sheet.
func (s *Service) Persist(ctx context.Context, inquirer string, batch []model.InquiryRecord, sourceMessage, sourceLink string) ([]model.PersistedRow, error) {
	log := logger.WithTrace(ctx, s.logger)

	maxSeq, existingRows, err := s.alloc.Allocate(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := s.now().Format("2006-01-02 15:04:05")

	persisted := make([]model.PersistedRow, 0, len(batch))
	for i, rec := range batch {
		seq := maxSeq + i + 1
		if err := s.store.Append(ctx, buildRow(seq, timestamp, inquirer, sourceLink, rec, sourceMessage)); err != nil {
			return nil, fmt.Errorf("append row for sequence no %d: %w", seq, err)
		}

		pos := existingRows + i + 1
		persisted = append(persisted, model.PersistedRow{
			SequenceNumber: seq,
			RowPosition:    pos,
			Record:         rec,
			Inquirer:       inquirer,
			Timestamp:      timestamp,
			SourceMessage:  sourceMessage,
			SourceLink:     sourceLink,
		})

		log.Info("inquiry row appended",
			zap.Int("sequence_no", seq),
			zap.Int("row", pos),
		)
	}

	return persisted, nil
}

// buildRow lays out the fixed 14-column sheet row (columns A..N).
func buildRow(seq int, timestamp, inquirer, sourceLink string, rec model.InquiryRecord, sourceMessage string) []string {
	tags := rec.PaddedTags()
	return []string{
		strconv.Itoa(seq), // 問合せNo
		timestamp,
		inquirer,   // 問合せ者
		sourceLink, // 問合せ元Slack URL
		tags[0],
		tags[1],
		tags[2],
		tags[3],
		tags[4],
		rec.TargetName,  // 【対象】氏名
		rec.TargetEmail, // 【対象】Email
		rec.DueDate,     // 対応期日
		rec.Details,     // 概要・詳細
		sourceMessage,   // 元のメッセージ
	}
}

// scanAllocator reads the whole sheet and takes the maximum value in the
// sequence-number column across non-header rows. Cells that do not parse as a
// non-negative integer are ignored, not treated as zero.
type scanAllocator struct {
	store RowStore
}

func (a *scanAllocator) Allocate(ctx context.Context) (int, int, error) {
	rows, err := a.store.ReadAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("read existing rows: %w", err)
	}

	maxSeq := 0
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue // header row
		}
		n, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil || n < 0 {
			continue
		}
		if n > maxSeq {
			maxSeq = n
		}
	}

	return maxSeq, len(rows), nil
}
