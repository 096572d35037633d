// Package audiofile loads and writes sample files for the command-line tools.
package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

var (
	// ErrUnsupportedFormat is returned for file extensions Load cannot decode.
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")
	// ErrInvalidFile is returned when a file cannot be parsed.
	ErrInvalidFile = errors.New("audiofile: invalid file")
	// ErrChannelMismatch is returned when planar channels differ in length.
	ErrChannelMismatch = errors.New("audiofile: channel length mismatch")
)

// Clip is a decoded sample held as planar float32 channels.
// It implements sampledata.Source.
type Clip struct {
	data       [][]float32
	sampleRate float64
	bitDepth   int
}

// NewClip wraps planar channel data.
func NewClip(sampleRate float64, bitDepth int, planar [][]float32) (*Clip, error) {
	for _, ch := range planar[min(1, len(planar)):] {
		if len(ch) != len(planar[0]) {
			return nil, ErrChannelMismatch
		}
	}

	return &Clip{data: planar, sampleRate: sampleRate, bitDepth: bitDepth}, nil
}

// Channels returns the number of channels.
func (c *Clip) Channels() int { return len(c.data) }

// Frames returns the number of frames per channel.
func (c *Clip) Frames() int64 {
	if len(c.data) == 0 {
		return 0
	}
	return int64(len(c.data[0]))
}

// ReadFrames copies frames of channel ch starting at index into dst.
func (c *Clip) ReadFrames(ch int, index int64, dst []float32) int {
	if ch < 0 || ch >= len(c.data) || index < 0 || index >= c.Frames() {
		return 0
	}
	return copy(dst, c.data[ch][index:])
}

// SampleRate returns the sample rate in Hz.
func (c *Clip) SampleRate() float64 { return c.sampleRate }

// BitDepth returns the bit depth of the source file, 32 for float formats.
func (c *Clip) BitDepth() int { return c.bitDepth }

// Channel returns the samples of channel ch.
func (c *Clip) Channel(ch int) []float32 { return c.data[ch] }

// Load decodes a .wav, .mp3 or .ogg file.
func Load(path string) (*Clip, error) {
	var decode func(*os.File) (*Clip, error)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		decode = func(f *os.File) (*Clip, error) { return DecodeWAV(f) }
	case ".mp3":
		decode = func(f *os.File) (*Clip, error) { return DecodeMP3(f) }
	case ".ogg":
		decode = func(f *os.File) (*Clip, error) { return DecodeOgg(f) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decode(f)
}

// DecodeWAV decodes PCM WAV data.
func DecodeWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: wav: %w", err)
	}

	bitDepth := int(dec.SampleBitDepth())
	if bitDepth == 0 || buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, ErrInvalidFile
	}

	scale := float32(1 / math.Pow(2, float64(bitDepth-1)))
	planar := deinterleave(len(buf.Data), buf.Format.NumChannels, func(i int) float32 {
		return float32(buf.Data[i]) * scale
	})

	return NewClip(float64(buf.Format.SampleRate), bitDepth, planar)
}

// DecodeMP3 decodes MP3 data into stereo 16-bit samples.
func DecodeMP3(r io.Reader) (*Clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("audiofile: mp3: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("audiofile: mp3: %w", err)
	}

	const channels = 2
	planar := deinterleave(len(pcm)/2, channels, func(i int) float32 {
		return float32(int16(uint16(pcm[2*i])|uint16(pcm[2*i+1])<<8)) / 32768
	})

	return NewClip(float64(dec.SampleRate()), 16, planar)
}

// DecodeOgg decodes Ogg Vorbis data.
func DecodeOgg(r io.Reader) (*Clip, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("audiofile: ogg: %w", err)
	}
	if format.Channels <= 0 {
		return nil, ErrInvalidFile
	}

	planar := deinterleave(len(data), format.Channels, func(i int) float32 {
		return data[i]
	})

	return NewClip(float64(format.SampleRate), 32, planar)
}

// WriteWAV writes planar channels as a 16-bit PCM WAV file.
func WriteWAV(path string, sampleRate int, planar [][]float32) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return EncodeWAV(f, sampleRate, planar)
}

// EncodeWAV writes planar channels as 16-bit PCM WAV data.
func EncodeWAV(w io.WriteSeeker, sampleRate int, planar [][]float32) error {
	if len(planar) == 0 {
		return ErrChannelMismatch
	}

	clip, err := NewClip(float64(sampleRate), 16, planar)
	if err != nil {
		return err
	}

	chans := clip.Channels()
	frames := int(clip.Frames())

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: chans, SampleRate: sampleRate},
		Data:           make([]int, frames*chans),
		SourceBitDepth: 16,
	}

	for i := range frames {
		for ch := range chans {
			v := min(max(planar[ch][i], -1), 1)
			buf.Data[i*chans+ch] = int(math.Round(float64(v) * 32767))
		}
	}

	enc := wav.NewEncoder(w, sampleRate, 16, chans, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: wav: %w", err)
	}

	return enc.Close()
}

func deinterleave(samples, channels int, at func(int) float32) [][]float32 {
	frames := samples / channels
	planar := make([][]float32, channels)

	for ch := range planar {
		planar[ch] = make([]float32, frames)
		for i := range frames {
			planar[ch][i] = at(i*channels + ch)
		}
	}

	return planar
}
