package service

import (
	"code2pitch.app/relay/internal/prompt"
	"code2pitch.app/relay/internal/queue"
	"code2pitch.app/relay/internal/repohost"
)

type Services struct {
	repos      *repohost.Registry
	generator  PitchGenerator
	producer   queue.Producer
	promptOpts prompt.Options
}

func NewServices(repos *repohost.Registry, generator PitchGenerator, producer queue.Producer, promptOpts prompt.Options) *Services {
	return &Services{
		repos:      repos,
		generator:  generator,
		producer:   producer,
		promptOpts: promptOpts,
	}
}

func (s *Services) Pitches() PitchService {
	return NewPitchService(s.repos, s.repos, s.generator, s.producer, s.promptOpts)
}
