package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"code2pitch.app/relay/common/logger"
	"code2pitch.app/relay/internal/domain"
	"code2pitch.app/relay/internal/generation"
	"code2pitch.app/relay/internal/model"
	"code2pitch.app/relay/internal/prompt"
	"code2pitch.app/relay/internal/queue"
)

const publishTimeout = 2 * time.Second

type RepoLocator interface {
	Locate(rawURL string) (model.RepoRef, error)
}

type RepoFetcher interface {
	Fetch(ctx context.Context, ref model.RepoRef) (model.RepoSnapshot, error)
}

type PitchGenerator interface {
	Generate(ctx context.Context, req model.GenerationRequest) (*generation.Result, error)
}

// PitchService runs the whole pipeline for one repository URL.
type PitchService interface {
	Generate(ctx context.Context, rawURL string) (*model.PitchResponse, error)
}

type pitchService struct {
	locator    RepoLocator
	fetcher    RepoFetcher
	generator  PitchGenerator
	producer   queue.Producer
	promptOpts prompt.Options
}

func NewPitchService(locator RepoLocator, fetcher RepoFetcher, generator PitchGenerator, producer queue.Producer, promptOpts prompt.Options) PitchService {
	if producer == nil {
		producer = queue.NewNoopProducer()
	}
	return &pitchService{
		locator:    locator,
		fetcher:    fetcher,
		generator:  generator,
		producer:   producer,
		promptOpts: promptOpts,
	}
}

func (s *pitchService) Generate(ctx context.Context, rawURL string) (*model.PitchResponse, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "relay.service.pitch"})
	start := time.Now()

	ref, err := s.locator.Locate(rawURL)
	if err != nil {
		slog.WarnContext(ctx, "rejected repository url", "url", logger.Truncate(rawURL, 200), "error", err)
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		RepoHost:  logger.Ptr(ref.Host),
		RepoOwner: logger.Ptr(ref.Owner),
		RepoName:  logger.Ptr(ref.Name),
	})
	slog.InfoContext(ctx, "generating pitch")

	snapshot, err := s.fetcher.Fetch(ctx, ref)
	if err != nil {
		err = fmt.Errorf("fetching repository data: %w", err)
		s.publish(ctx, failedEvent(ctx, ref, start, err))
		return nil, err
	}

	req := prompt.Build(snapshot, s.promptOpts)

	result, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.publish(ctx, failedEvent(ctx, ref, start, err))
		return nil, err
	}

	status := queue.EventStatusSuccess
	if !result.Valid {
		status = queue.EventStatusBestEffort
	}
	s.publish(ctx, queue.PitchEvent{
		RequestID:       logger.RequestID(ctx),
		Repo:            ref.String(),
		Status:          status,
		Attempts:        result.Attempts,
		InvalidSections: result.InvalidSections,
		Duration:        time.Since(start),
	})

	slog.InfoContext(ctx, "pitch ready",
		"status", status,
		"attempts", result.Attempts,
		"duration_ms", time.Since(start).Milliseconds())

	return assemble(logger.RequestID(ctx), ref, result.Sections), nil
}

// publish never fails the request; the event outlives a cancelled request context.
func (s *pitchService) publish(ctx context.Context, event queue.PitchEvent) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.producer.Publish(pubCtx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish pitch event", "error", err)
	}
}

func failedEvent(ctx context.Context, ref model.RepoRef, start time.Time, err error) queue.PitchEvent {
	return queue.PitchEvent{
		RequestID: logger.RequestID(ctx),
		Repo:      ref.String(),
		Status:    queue.EventStatusError,
		Duration:  time.Since(start),
		ErrorType: domain.Kind(err),
	}
}

func assemble(requestID string, ref model.RepoRef, sections model.PitchSections) *model.PitchResponse {
	return &model.PitchResponse{
		Status:    model.PitchStatusSuccess,
		RequestID: requestID,
		Data:      sections,
		Repo:      ref,
	}
}
