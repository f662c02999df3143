package service

import (
	"context"
	"sync/atomic"

	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/material"
	"github.com/studystack/materials/internal/pipeline"
	"github.com/studystack/materials/internal/ratelimit"
)

// HealthProbe is the reachability check run during initialization. The
// inference client satisfies it.
type HealthProbe interface {
	HealthCheck(ctx context.Context) bool
}

// Service is the assembled materials service.
type Service struct {
	store      material.Store
	processor  *pipeline.Processor
	dispatcher *pipeline.Dispatcher
	governor   *ratelimit.Governor
	probe      HealthProbe
	logger     *logger.Logger

	initialized atomic.Bool
}

// New wires the service's components. No I/O happens here; call Initialize
// before using the accessors.
func New(store material.Store, processor *pipeline.Processor, dispatcher *pipeline.Dispatcher, governor *ratelimit.Governor, probe HealthProbe, log *logger.Logger) *Service {
	return &Service{
		store:      store,
		processor:  processor,
		dispatcher: dispatcher,
		governor:   governor,
		probe:      probe,
		logger:     log,
	}
}

// Initialize probes the inference service and marks the service ready.
// An unreachable inference service is logged, not fatal.
func (s *Service) Initialize(ctx context.Context) error {
	if s.probe != nil && !s.probe.HealthCheck(ctx) {
		s.logger.Warn("inference service unreachable at startup, processing will retry per call", nil, nil)
	}
	s.initialized.Store(true)
	s.logger.Info("materials service initialized", nil, nil)
	return nil
}

// Initialized reports whether Initialize has run.
func (s *Service) Initialized() bool {
	return s.initialized.Load()
}

// Store returns the material store.
func (s *Service) Store() (material.Store, error) {
	if !s.initialized.Load() {
		return nil, ErrNotInitialized
	}
	return s.store, nil
}

// Processor returns the processing pipeline.
func (s *Service) Processor() (*pipeline.Processor, error) {
	if !s.initialized.Load() {
		return nil, ErrNotInitialized
	}
	return s.processor, nil
}

// Dispatcher returns the background worker pool.
func (s *Service) Dispatcher() (*pipeline.Dispatcher, error) {
	if !s.initialized.Load() {
		return nil, ErrNotInitialized
	}
	return s.dispatcher, nil
}

// Governor returns the request rate limiter.
func (s *Service) Governor() (*ratelimit.Governor, error) {
	if !s.initialized.Load() {
		return nil, ErrNotInitialized
	}
	return s.governor, nil
}
