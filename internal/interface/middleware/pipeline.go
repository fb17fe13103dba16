package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/secure-users-api/pkg/apperr"
	"github.com/oksasatya/secure-users-api/pkg/response"
)

// StageFunc inspects or rewrites the request. A non-nil error ends the request,
// and so does a stage that aborts the context after writing its own response.
type StageFunc func(c *gin.Context) error

// Stage is one named step of the request pipeline.
type Stage struct {
	Name string
	Run  StageFunc
	// When limits the stage to matching requests; nil means every request.
	When func(c *gin.Context) bool
	// Always keeps the stage active on bypass paths.
	Always bool
}

// Pipeline runs its stages strictly in order and stops at the first failure.
type Pipeline struct {
	stages  []Stage
	bypass  map[string]struct{}
	logger  *logrus.Logger
	rejects *prometheus.CounterVec
}

func NewPipeline(logger *logrus.Logger, stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages, bypass: map[string]struct{}{}, logger: logger}
}

// Bypass marks paths on which only Always stages run.
func (p *Pipeline) Bypass(paths ...string) *Pipeline {
	for _, path := range paths {
		p.bypass[path] = struct{}{}
	}
	return p
}

// WithMetrics counts rejections per stage in reg.
func (p *Pipeline) WithMetrics(reg prometheus.Registerer) *Pipeline {
	p.rejects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_pipeline_rejections_total",
			Help: "Requests rejected by the request pipeline, by stage and error kind",
		},
		[]string{"stage", "kind"},
	)
	reg.MustRegister(p.rejects)
	return p
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Handler returns the single gin middleware executing the pipeline.
func (p *Pipeline) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, bypass := p.bypass[c.Request.URL.Path]
		for _, s := range p.stages {
			if bypass && !s.Always {
				continue
			}
			if s.When != nil && !s.When(c) {
				continue
			}
			if err := s.Run(c); err != nil {
				p.reject(c, s.Name, err)
				return
			}
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}

func (p *Pipeline) reject(c *gin.Context, stage string, err error) {
	ae := apperr.From(err)
	if p.rejects != nil {
		p.rejects.WithLabelValues(stage, ae.Kind.String()).Inc()
	}
	if p.logger != nil {
		entry := p.logger.WithFields(logrus.Fields{
			"stage":      stage,
			"kind":       ae.Kind.String(),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"ip":         ipFromCtx(c),
			"request_id": c.GetString("request_id"),
		})
		if ae.Kind == apperr.KindInternal {
			entry.WithError(err).Error("request pipeline failure")
		} else {
			entry.WithField("details", ae.Details).Warn("request rejected")
		}
	}
	response.Fail(c, ae)
}
