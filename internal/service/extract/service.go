package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"inquiry-intake-service/internal/model"
	"inquiry-intake-service/internal/service/duedate"
	"inquiry-intake-service/pkg/logger"
	"inquiry-intake-service/pkg/metrics"
)

// Generator is the language-model collaborator: prompt in, raw JSON text out.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Service turns one free-text message into a batch of structured records.
type Service struct {
	gen    Generator
	logger *zap.Logger
	now    func() time.Time
}

func NewService(gen Generator, logger *zap.Logger) *Service {
	return &Service{
		gen:    gen,
		logger: logger,
		now:    time.Now,
	}
}

// Extract prompts the model with the message and the inquirer's name, decodes
// the structured response and normalizes every due date. A collaborator
// failure or an unparsable response propagates to the caller; this is the only
// stage allowed to fail on external errors.
func (s *Service) Extract(ctx context.Context, text, inquirerName string) ([]model.InquiryRecord, error) {
	log := logger.WithTrace(ctx, s.logger)

	prompt := buildPrompt(text, inquirerName)

	start := time.Now()
	raw, err := s.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		metrics.RecordExtractionCallLatency("error", time.Since(start))
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}
	metrics.RecordExtractionCallLatency("success", time.Since(start))

	batch, err := decodeBatch(raw)
	if err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}

	now := s.now()
	for i := range batch {
		rec := &batch[i]
		if rec.DueDate == "" {
			continue
		}
		normalized, resolved := duedate.Normalize(rec.DueDate, now)
		if !resolved {
			log.Warn("due date left unresolved", zap.String("due_date", rec.DueDate))
		} else if normalized != rec.DueDate {
			log.Info("due date normalized",
				zap.String("from", rec.DueDate),
				zap.String("to", normalized),
			)
		}
		rec.DueDate = normalized
	}

	log.Info("records extracted", zap.Int("count", len(batch)))
	return batch, nil
}

// decodeBatch parses the model response as a record array, tolerating a bare
// single object by wrapping it into a one-element batch.
func decodeBatch(raw string) ([]model.InquiryRecord, error) {
	text := stripCodeFences(raw)

	var batch []model.InquiryRecord
	if err := json.Unmarshal([]byte(text), &batch); err == nil {
		return batch, nil
	}

	var single model.InquiryRecord
	if err := json.Unmarshal([]byte(text), &single); err != nil {
		return nil, err
	}
	return []model.InquiryRecord{single}, nil
}

// stripCodeFences removes a surrounding markdown code block, which the model
// occasionally adds despite the JSON response MIME type.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
