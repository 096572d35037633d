package points

import (
	"errors"
	"fmt"
)

// ErrUnsorted is returned when point X coordinates are not strictly increasing.
var ErrUnsorted = errors.New("points: x coordinates must be strictly increasing")

// Position is a block or sample frame position. It is fractional and signed.
type Position = float64

// Scale is a 12-bit pitch-class set. Bit n is set when semitone n is part of the scale.
type Scale uint32

// Has reports whether semitone n (mod 12) is in the scale.
func (s Scale) Has(n int) bool {
	n %= 12
	if n < 0 {
		n += 12
	}
	return s&(1<<uint(n)) != 0
}

// RealPoint is an envelope breakpoint.
type RealPoint struct {
	X Position
	Y float64
}

// IntPoint is a step/option breakpoint.
type IntPoint struct {
	X Position
	Y int64
}

// ChordBlock marks the start of a scale region.
type ChordBlock struct {
	X Position
	Y Scale
}

// RealPoints is an envelope with its clamp range.
type RealPoints struct {
	Data []RealPoint
	Min  float64
	Max  float64
}

// Len returns the number of points, treating nil as empty.
func (p *RealPoints) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Data)
}

// Validate checks that X coordinates are strictly increasing.
func (p *RealPoints) Validate() error {
	if p == nil {
		return nil
	}
	for i := 1; i < len(p.Data); i++ {
		if p.Data[i].X <= p.Data[i-1].X {
			return fmt.Errorf("real point %d at %v: %w", i, p.Data[i].X, ErrUnsorted)
		}
	}
	return nil
}

// IntPoints is a step array with its clamp range.
type IntPoints struct {
	Data []IntPoint
	Min  int64
	Max  int64
}

// Len returns the number of points, treating nil as empty.
func (p *IntPoints) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Data)
}

// Validate checks that X coordinates are strictly increasing.
func (p *IntPoints) Validate() error {
	if p == nil {
		return nil
	}
	for i := 1; i < len(p.Data); i++ {
		if p.Data[i].X <= p.Data[i-1].X {
			return fmt.Errorf("int point %d at %v: %w", i, p.Data[i].X, ErrUnsorted)
		}
	}
	return nil
}

// ChordBlocks is a sequence of scale regions.
type ChordBlocks struct {
	Data []ChordBlock
}

// Len returns the number of blocks, treating nil as empty.
func (p *ChordBlocks) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Data)
}

// Validate checks that X coordinates are strictly increasing.
func (p *ChordBlocks) Validate() error {
	if p == nil {
		return nil
	}
	for i := 1; i < len(p.Data); i++ {
		if p.Data[i].X <= p.Data[i-1].X {
			return fmt.Errorf("chord block %d at %v: %w", i, p.Data[i].X, ErrUnsorted)
		}
	}
	return nil
}
