package llm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/pkg/log"
)

// DynamicProvider lets the primary model be swapped at runtime without
// rebuilding the pipeline.
type DynamicProvider struct {
	config  core.ProviderConfig
	opts    HTTPOptions
	current atomic.Value
	mu      sync.Mutex
}

func NewDynamicProvider(
	ctx context.Context,
	config core.ProviderConfig,
	opts HTTPOptions,
) (*DynamicProvider, error) {
	d := &DynamicProvider{
		config: config,
		opts:   opts,
	}

	provider, err := NewProvider(ctx, config.GetProvider(), config.GetModel(), config, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial provider: %w", err)
	}

	d.current.Store(provider)
	return d, nil
}

func (d *DynamicProvider) load() core.AIProvider {
	return d.current.Load().(core.AIProvider)
}

func (d *DynamicProvider) Name() string {
	return d.load().Name()
}

func (d *DynamicProvider) Complete(ctx context.Context, messages []core.Message, opts core.GenerationOptions) (string, error) {
	return d.load().Complete(ctx, messages, opts)
}

func (d *DynamicProvider) Models(ctx context.Context) ([]core.Model, error) {
	return d.load().Models(ctx)
}

func (d *DynamicProvider) GetModel() string {
	return d.config.GetModel()
}

// SetModel switches the primary model. The previous provider stays active if
// the new one cannot be built.
func (d *DynamicProvider) SetModel(ctx context.Context, model string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	prevProvider, prevModel := d.config.GetProvider(), d.config.GetModel()
	if err := d.config.SetModel(model); err != nil {
		return err
	}

	newProvider, err := NewProvider(ctx, d.config.GetProvider(), d.config.GetModel(), d.config, d.opts)
	if err != nil {
		_ = d.config.SetModel(prevProvider + "/" + prevModel)
		return fmt.Errorf("failed to create provider: %w", err)
	}

	d.current.Store(newProvider)
	log.FromCtx(ctx).Info().
		Str("provider", newProvider.Name()).
		Str("model", d.config.GetModel()).
		Msg("primary model changed")
	return nil
}
