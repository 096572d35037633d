package onset

// Config holds the analysis parameters.
type Config struct {
	// FrameSize is the STFT length. Rounded up to a power of two.
	FrameSize int
	// HopSize is the distance between frames in samples.
	HopSize int
	// Threshold scales the local mean flux an onset has to exceed.
	Threshold float64
	// Window is the number of frames on each side of the local mean.
	Window int

	progress func(float64)
	abort    func() bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the defaults used by [Analyze].
func DefaultConfig() Config {
	return Config{
		FrameSize: 1024,
		HopSize:   512,
		Threshold: 1.5,
		Window:    8,
	}
}

// WithFrameSize sets the STFT length.
func WithFrameSize(n int) Option {
	return func(cfg *Config) {
		if n > 1 {
			cfg.FrameSize = nextPowerOf2(n)
		}
	}
}

// WithHopSize sets the frame hop.
func WithHopSize(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.HopSize = n
		}
	}
}

// WithThreshold sets the adaptive threshold factor.
func WithThreshold(k float64) Option {
	return func(cfg *Config) {
		if k > 0 {
			cfg.Threshold = k
		}
	}
}

// WithProgress registers a callback receiving completion in [0, 1].
func WithProgress(fn func(float64)) Option {
	return func(cfg *Config) {
		cfg.progress = fn
	}
}

// WithAbort registers a hook polled once per frame. Returning true stops the
// analysis with [ErrAborted].
func WithAbort(fn func() bool) Option {
	return func(cfg *Config) {
		cfg.abort = fn
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.HopSize > cfg.FrameSize {
		cfg.HopSize = cfg.FrameSize
	}

	return cfg
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
