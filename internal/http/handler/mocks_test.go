package handler_test

import (
	"context"

	"code2pitch.app/relay/internal/model"
)

type mockPitchService struct {
	generateFn func(ctx context.Context, rawURL string) (*model.PitchResponse, error)
	urls       []string
}

func (m *mockPitchService) Generate(ctx context.Context, rawURL string) (*model.PitchResponse, error) {
	m.urls = append(m.urls, rawURL)
	if m.generateFn != nil {
		return m.generateFn(ctx, rawURL)
	}
	return &model.PitchResponse{}, nil
}
