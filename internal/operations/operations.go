package operations

import (
	"context"
	"time"

	"github.com/kebairia/wslsnap/internal/logger"
	"github.com/kebairia/wslsnap/internal/wsl"
)

// DistroManager is the subset of the wsl client the operations need.
type DistroManager interface {
	ListDistros(ctx context.Context) ([]wsl.Distro, error)
	Export(ctx context.Context, name, dest string) error
	Import(ctx context.Context, name, installDir, archive string) error
}

// Indicator is a running progress display.
type Indicator interface {
	Stop()
}

// ProgressFunc starts a progress display around a long-running step.
type ProgressFunc func() Indicator

type noIndicator struct{}

func (noIndicator) Stop() {}

// Option overrides an OperationManager default.
type Option func(*OperationManager)

// OperationManager runs export and import pipelines against a DistroManager.
type OperationManager struct {
	distros  DistroManager
	log      logger.Logger
	now      func() time.Time
	progress ProgressFunc
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(om *OperationManager) {
		if log != nil {
			om.log = log
		}
	}
}

// WithClock overrides the clock used to date backups.
func WithClock(now func() time.Time) Option {
	return func(om *OperationManager) {
		if now != nil {
			om.now = now
		}
	}
}

// WithProgress shows an indicator while the tool or a decompression runs.
func WithProgress(p ProgressFunc) Option {
	return func(om *OperationManager) {
		if p != nil {
			om.progress = p
		}
	}
}

// NewOperationManager returns a manager driving distros.
func NewOperationManager(distros DistroManager, opts ...Option) *OperationManager {
	om := &OperationManager{
		distros:  distros,
		log:      logger.Global(),
		now:      time.Now,
		progress: func() Indicator { return noIndicator{} },
	}
	for _, opt := range opts {
		opt(om)
	}
	return om
}

// ListDistros returns the distros currently registered with the tool.
func (om *OperationManager) ListDistros(ctx context.Context) ([]wsl.Distro, error) {
	return om.distros.ListDistros(ctx)
}

// withProgress runs fn with the progress indicator shown.
func (om *OperationManager) withProgress(fn func() error) error {
	ind := om.progress()
	defer ind.Stop()
	return fn()
}
