package compile

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Output is compiled preview ready to be shown.
type Output struct {
	Generation uint64
	Input      string
	HTML       string // with error banner when there were problems
	Result     Result
	Err        error
}

// Preview compiles in background keeping only result for the latest
// submitted input. Results arriving for inputs which were superseded while
// compiling are dropped, so are results of canceled compilations.
type Preview struct {
	c   Compiler
	log *zap.Logger

	mu     sync.Mutex
	gen    uint64
	latest string
	out    Output
	ready  bool

	wg sync.WaitGroup
}

func NewPreview(c Compiler, log *zap.Logger) *Preview {
	if log == nil {
		log = zap.NewNop()
	}
	return &Preview{c: c, log: log.Named("preview")}
}

// Submit starts compilation of markup and returns its generation.
func (p *Preview) Submit(ctx context.Context, markup string) uint64 {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.latest = markup
	p.mu.Unlock()

	p.wg.Go(func() {
		res, err := p.c.Compile(ctx, markup)
		if ctx.Err() != nil {
			p.log.Debug("Preview compilation canceled", zap.Uint64("generation", gen))
			return
		}
		if err != nil {
			p.log.Warn("Compilation failed", zap.Uint64("generation", gen), zap.Error(err))
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if markup != p.latest || (p.ready && p.out.Generation > gen) {
			p.log.Debug("Dropping stale preview", zap.Uint64("generation", gen), zap.Uint64("latest", p.gen))
			return
		}
		p.out = Output{
			Generation: gen,
			Input:      markup,
			HTML:       WithBanner(res.HTML, Messages(res, err)),
			Result:     res,
			Err:        err,
		}
		p.ready = true
	})
	return gen
}

// Latest returns the most recent accepted output.
func (p *Preview) Latest() (Output, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out, p.ready
}

// Wait blocks until all submitted compilations finish.
func (p *Preview) Wait() {
	p.wg.Wait()
}
