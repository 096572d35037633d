package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-blink/dsp/points"
	"github.com/cwbudde/algo-blink/dsp/transform"
)

const pitchRange = 48

var reverseModes = map[string]int64{
	"off":    transform.ReverseOff,
	"mirror": transform.ReverseMirror,
	"tape":   transform.ReverseTape,
	"slip":   transform.ReverseSlip,
}

// splitPairs splits "x:y,x:y" into its pairs. An empty string yields none.
func splitPairs(s string) ([][2]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var pairs [][2]string
	for _, item := range strings.Split(s, ",") {
		x, y, ok := strings.Cut(strings.TrimSpace(item), ":")
		if !ok {
			return nil, fmt.Errorf("point %q: want x:y", item)
		}
		pairs = append(pairs, [2]string{strings.TrimSpace(x), strings.TrimSpace(y)})
	}

	return pairs, nil
}

// parsePitch parses "x:semitones,..." into a pitch envelope.
func parsePitch(s string) (*points.RealPoints, error) {
	pairs, err := splitPairs(s)
	if err != nil || pairs == nil {
		return nil, err
	}

	pts := &points.RealPoints{Min: -pitchRange, Max: pitchRange}
	for _, p := range pairs {
		x, err := strconv.ParseFloat(p[0], 64)
		if err != nil {
			return nil, fmt.Errorf("pitch x: %w", err)
		}
		y, err := strconv.ParseFloat(p[1], 64)
		if err != nil {
			return nil, fmt.Errorf("pitch y: %w", err)
		}
		pts.Data = append(pts.Data, points.RealPoint{X: x, Y: y})
	}

	return pts, pts.Validate()
}

// parseReverse parses "x:mode,..." where mode is a name or a number.
func parseReverse(s string) (*points.IntPoints, error) {
	pairs, err := splitPairs(s)
	if err != nil || pairs == nil {
		return nil, err
	}

	pts := &points.IntPoints{}
	for _, p := range pairs {
		x, err := strconv.ParseFloat(p[0], 64)
		if err != nil {
			return nil, fmt.Errorf("reverse x: %w", err)
		}

		mode, ok := reverseModes[strings.ToLower(p[1])]
		if !ok {
			mode, err = strconv.ParseInt(p[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("reverse mode %q: want off, mirror, tape or slip", p[1])
			}
		}

		pts.Data = append(pts.Data, points.IntPoint{X: x, Y: mode})
	}

	return pts, pts.Validate()
}

// parseWarp parses "x:y,..." warp markers in frames.
func parseWarp(s string) (*points.WarpPoints, error) {
	pairs, err := splitPairs(s)
	if err != nil || pairs == nil {
		return nil, err
	}

	w := &points.WarpPoints{}
	for _, p := range pairs {
		x, err := strconv.ParseInt(p[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("warp x: %w", err)
		}
		y, err := strconv.ParseInt(p[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("warp y: %w", err)
		}
		w.Points = append(w.Points, points.WarpPoint{X: x, Y: y})
	}

	return w, w.Validate()
}
