package core

// ProcessorConfig holds the rates a sampler unit converts between.
type ProcessorConfig struct {
	// SongRate is the host's song sample rate; block positions are in song frames.
	SongRate float64
	// SampleRate is the rate of the sample being played.
	SampleRate float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns a config with matching song and sample rates.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SongRate:   48000,
		SampleRate: 48000,
	}
}

// WithSongRate sets the song sample rate.
func WithSongRate(songRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if songRate > 0 {
			cfg.SongRate = songRate
		}
	}
}

// WithSampleRate sets the sample's native rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// Ratio returns the number of sample frames per song frame.
func (cfg ProcessorConfig) Ratio() float64 {
	if cfg.SongRate <= 0 {
		return 1
	}
	return cfg.SampleRate / cfg.SongRate
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
