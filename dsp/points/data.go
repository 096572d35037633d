package points

// EnvData is the per-call value of an envelope parameter.
// Points is nil when the parameter is not automated, in which case Value applies
// to every position.
type EnvData struct {
	Points       *RealPoints
	DefaultValue float64
	Value        float64
}

// SliderRealData is the per-call value of a real slider parameter.
type SliderRealData struct {
	Points       *RealPoints
	DefaultValue float64
	Value        float64
}

// SliderIntData is the per-call value of an integer slider parameter.
type SliderIntData struct {
	Points       *IntPoints
	DefaultValue int64
	Value        int64
}

// OptionData is the per-call value of an option parameter.
// Option values index into the option list; a negative value means "off".
type OptionData struct {
	Points       *IntPoints
	DefaultValue int64
	Value        int64
}

// ToggleData is the per-call value of a toggle parameter.
type ToggleData struct {
	Points       *IntPoints
	DefaultValue bool
	Value        bool
}

// ChordData is the per-call value of a chord parameter.
type ChordData struct {
	Points *ChordBlocks
}
