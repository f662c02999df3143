// Command materialsd runs the course material processing service: the HTTP
// API, the processing worker pool and the metrics endpoint.
package main

import (
	"go.uber.org/fx"

	"github.com/studystack/materials/internal/blob"
	"github.com/studystack/materials/internal/events"
	"github.com/studystack/materials/internal/httpapi"
	"github.com/studystack/materials/internal/inference"
	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/material"
	"github.com/studystack/materials/internal/metrics"
	"github.com/studystack/materials/internal/pipeline"
	"github.com/studystack/materials/internal/postgres"
	"github.com/studystack/materials/internal/ratelimit"
	"github.com/studystack/materials/internal/service"
	"github.com/studystack/materials/internal/tracer"
	"github.com/studystack/materials/internal/vectorindex"
)

func main() {
	fx.New(
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		postgres.FXModule,
		material.FXModule,
		blob.FXModule,
		inference.FXModule,
		vectorindex.FXModule,
		events.FXModule,
		ratelimit.FXModule,
		pipeline.FXModule,
		service.FXModule,
		httpapi.FXModule,
	).Run()
}
