package llm

import (
	"context"
	"strings"
	"time"

	"sciingest/internal/contextutil"
)

// ServiceConfig tunes retries and batching of a Service.
type ServiceConfig struct {
	BatchSize     int
	MaxRetries    int
	BaseBackoff   time.Duration
	MaxBackoff    time.Duration
	BatchDelay    time.Duration
	MaxInputChars int
	// MaxSplitDepth bounds how often a rejected batch is halved.
	MaxSplitDepth     int
	RequestsPerSecond float64
}

// DefaultServiceConfig returns conservative defaults for hosted providers.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		BatchSize:         64,
		MaxRetries:        5,
		BaseBackoff:       time.Second,
		MaxBackoff:        60 * time.Second,
		BatchDelay:        0,
		MaxInputChars:     8000,
		MaxSplitDepth:     6,
		RequestsPerSecond: 0,
	}
}

// BatchResult holds one vector slot per input text. Failed lists the
// indexes whose slot is nil.
type BatchResult struct {
	Vectors [][]float32
	Failed  []int
}

// Service wraps a Provider with truncation, rate-limit retries and
// batching. Provider failures never escape as errors: callers get an
// absent vector and the failure is logged.
type Service struct {
	provider Provider
	limiter  *RateLimiter
	cfg      ServiceConfig
}

// NewService creates a Service. Non-positive sizes and backoffs fall back
// to DefaultServiceConfig; MaxRetries, BatchDelay and MaxSplitDepth are
// taken as given.
func NewService(provider Provider, cfg ServiceConfig) *Service {
	def := DefaultServiceConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = def.BaseBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = def.MaxInputChars
	}
	if cfg.MaxSplitDepth < 0 {
		cfg.MaxSplitDepth = 0
	}
	return &Service{
		provider: provider,
		limiter:  NewRateLimiter(cfg.RequestsPerSecond, 1),
		cfg:      cfg,
	}
}

// ModelName returns the provider's model name.
func (s *Service) ModelName() string { return s.provider.ModelName() }

// Dimensions returns the provider's vector size.
func (s *Service) Dimensions() int { return s.provider.Dimensions() }

// Embed returns the vector for text, or false if the provider could not
// produce one.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, bool) {
	text = s.truncate(text)
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	vecs, err := s.call(ctx, []string{text})
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "embedding failed", "error", err, "chars", len(text))
		return nil, false
	}
	return vecs[0], true
}

// EmbedBatch embeds texts in fixed-size batches and preserves input order.
// Blank texts are never sent and always fail.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) BatchResult {
	logger := contextutil.LoggerFromContext(ctx)
	res := BatchResult{Vectors: make([][]float32, len(texts))}

	idx := make([]int, 0, len(texts))
	inputs := make([]string, 0, len(texts))
	for i, t := range texts {
		t = s.truncate(t)
		if strings.TrimSpace(t) == "" {
			continue
		}
		idx = append(idx, i)
		inputs = append(inputs, t)
	}

	for start := 0; start < len(inputs); start += s.cfg.BatchSize {
		if start > 0 && s.cfg.BatchDelay > 0 {
			if err := sleepContext(ctx, s.cfg.BatchDelay); err != nil {
				break
			}
		}
		end := min(start+s.cfg.BatchSize, len(inputs))
		s.embedRange(ctx, inputs[start:end], idx[start:end], res.Vectors, 0)
	}

	for i, v := range res.Vectors {
		if v == nil {
			res.Failed = append(res.Failed, i)
		}
	}
	if len(res.Failed) > 0 {
		logger.WarnContext(ctx, "some embeddings failed", "failed", len(res.Failed), "total", len(texts))
	}
	return res
}

func (s *Service) embedRange(ctx context.Context, batch []string, idx []int, out [][]float32, depth int) {
	vecs, err := s.call(ctx, batch)
	if err == nil {
		for i, v := range vecs {
			out[idx[i]] = v
		}
		return
	}

	logger := contextutil.LoggerFromContext(ctx)
	if IsBatchTooLarge(err) && len(batch) > 1 && depth < s.cfg.MaxSplitDepth {
		mid := len(batch) / 2
		logger.DebugContext(ctx, "splitting embedding batch", "size", len(batch), "depth", depth+1)
		s.embedRange(ctx, batch[:mid], idx[:mid], out, depth+1)
		s.embedRange(ctx, batch[mid:], idx[mid:], out, depth+1)
		return
	}

	logger.WarnContext(ctx, "embedding batch failed", "error", err, "size", len(batch))
}

// call sends one request, retrying rate-limit rejections with exponential
// backoff. A provider-supplied wait replaces the computed one.
func (s *Service) call(ctx context.Context, texts []string) ([][]float32, error) {
	logger := contextutil.LoggerFromContext(ctx)

	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vecs, err := s.provider.EmbedTexts(ctx, texts)
		if err == nil {
			return vecs, nil
		}
		if !IsRateLimited(err) || attempt >= s.cfg.MaxRetries {
			return nil, err
		}

		wait := s.backoff(attempt)
		if hint := RetryAfter(err); hint > 0 {
			wait = hint
		}
		logger.WarnContext(ctx, "embedding provider rate limited", "attempt", attempt+1, "wait", wait)
		s.limiter.RecordRateLimitError(wait)
	}
}

func (s *Service) backoff(attempt int) time.Duration {
	d := s.cfg.BaseBackoff
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= s.cfg.MaxBackoff {
			return s.cfg.MaxBackoff
		}
	}
	return min(d, s.cfg.MaxBackoff)
}

func (s *Service) truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= s.cfg.MaxInputChars {
		return text
	}
	return string(runes[:s.cfg.MaxInputChars])
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
