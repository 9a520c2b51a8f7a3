package mood

import (
	"context"
	"log/slog"
	"sync"

	"moodtunes/internal/video"
)

// Model completes a single prompt. ai.Client implements it.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Pipeline runs a mood analysis. A nil model means no credential is
// configured and every analysis is served from demo data.
type Pipeline struct {
	model    Model
	resolver video.Resolver
	rand     Rand
}

type Option func(*Pipeline)

// WithRand replaces the random source used for demo results.
func WithRand(r Rand) Option {
	return func(p *Pipeline) { p.rand = r }
}

func NewPipeline(model Model, resolver video.Resolver, opts ...Option) *Pipeline {
	p := &Pipeline{model: model, resolver: resolver, rand: globalRand{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze never fails: any problem with the model path yields a demo
// result. Songs are enriched with video identifiers where a lookup works.
func (p *Pipeline) Analyze(ctx context.Context, text string) Result {
	res := p.classify(ctx, text)
	res.Songs = Enrich(ctx, p.resolver, res.Songs)
	return res
}

func (p *Pipeline) classify(ctx context.Context, text string) Result {
	if p.model == nil {
		slog.Debug("no model configured, using demo data", "component", "mood")
		return Demo(p.rand)
	}
	raw, err := p.model.Complete(ctx, Prompt(text))
	if err != nil {
		slog.Warn("model call failed, using demo data", "component", "mood", "err", err)
		return Demo(p.rand)
	}
	res, err := ParseResponse(raw)
	if err != nil {
		slog.Warn("model response rejected, using demo data", "component", "mood", "err", err)
		return Demo(p.rand)
	}
	return res
}

// Enrich resolves every song concurrently and returns new song values in
// the original order. A failed lookup leaves that song without an id.
func Enrich(ctx context.Context, resolver video.Resolver, songs []Song) []Song {
	out := make([]Song, len(songs))
	copy(out, songs)
	if resolver == nil {
		return out
	}

	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := resolver.Resolve(ctx, SearchQuery(out[i]))
			if err != nil || id == "" {
				slog.Debug("video lookup failed", "component", "mood", "song", out[i].Title, "err", err)
				out[i] = out[i].WithVideoID("")
				return
			}
			out[i] = out[i].WithVideoID(id)
		}(i)
	}
	wg.Wait()
	return out
}
