package oversample

// Quality selects the length and shape of the anti-aliasing filters.
type Quality int

const (
	// QualityFast uses short filters with a lower cutoff.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest uses long filters with a cutoff close to Nyquist.
	QualityBest
)

var qualityNames = [...]string{
	QualityFast:     "fast",
	QualityBalanced: "balanced",
	QualityBest:     "best",
}

// Profile is the filter design a quality mode stands for.
type Profile struct {
	// TapsPerPhase is the polyphase branch length and the round-trip
	// latency in base-rate samples.
	TapsPerPhase int

	// CutoffScale places the cutoff as a fraction of the base-rate Nyquist.
	CutoffScale float64

	KaiserBeta float64
}

var profiles = [...]Profile{
	QualityFast:     {TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0},
	QualityBalanced: {TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5},
	QualityBest:     {TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0},
}

func (q Quality) valid() bool { return q >= QualityFast && q <= QualityBest }

// String returns the quality name. Out-of-range values read as balanced.
func (q Quality) String() string {
	if !q.valid() {
		q = QualityBalanced
	}

	return qualityNames[q]
}

// ParseQuality looks up a quality by name. Unknown names yield
// QualityBalanced and false.
func ParseQuality(name string) (Quality, bool) {
	for q, n := range qualityNames {
		if n == name {
			return Quality(q), true
		}
	}

	return QualityBalanced, false
}

// QualityProfile returns the design behind q.
func QualityProfile(q Quality) Profile {
	if !q.valid() {
		q = QualityBalanced
	}

	return profiles[q]
}

type config struct {
	quality Quality
	Profile
}

// Option configures a Stage. Explicit overrides win over the quality
// profile regardless of order.
type Option func(*config)

// WithQuality selects a quality profile.
func WithQuality(q Quality) Option {
	return func(cfg *config) { cfg.quality = q }
}

// WithTapsPerPhase overrides the polyphase branch length.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.TapsPerPhase = n
		}
	}
}

// WithCutoffScale overrides the cutoff, as a fraction in (0, 1] of the
// base-rate Nyquist.
func WithCutoffScale(v float64) Option {
	return func(cfg *config) {
		if v > 0 && v <= 1 {
			cfg.CutoffScale = v
		}
	}
}

// WithKaiserBeta overrides the Kaiser window shape.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta > 0 {
			cfg.KaiserBeta = beta
		}
	}
}

func defaultConfig() config {
	return config{quality: QualityBalanced}
}

// finalized fills every field left unset from the quality profile.
func (c config) finalized() config {
	p := QualityProfile(c.quality)

	if c.TapsPerPhase <= 0 {
		c.TapsPerPhase = p.TapsPerPhase
	}

	if c.CutoffScale <= 0 {
		c.CutoffScale = p.CutoffScale
	}

	if c.KaiserBeta <= 0 {
		c.KaiserBeta = p.KaiserBeta
	}

	return c
}
