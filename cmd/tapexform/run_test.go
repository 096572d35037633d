package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-blink/internal/audiofile"
)

func testOptions() options {
	return options{seconds: 0.1, songRate: 8000}
}

func TestRunRendersWAV(t *testing.T) {
	opts := testOptions()
	opts.out = filepath.Join(t.TempDir(), "out.wav")
	opts.transpose = 12
	opts.reverse = "0:off,400:tape"

	if err := run(context.Background(), opts, log.New(io.Discard, "", 0), io.Discard); err != nil {
		t.Fatal(err)
	}

	clip, err := audiofile.Load(opts.out)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Frames() != 800 || clip.Channels() != 2 || clip.SampleRate() != 8000 {
		t.Fatalf("got %d frames, %d channels at %v Hz", clip.Frames(), clip.Channels(), clip.SampleRate())
	}

	var energy float64
	for _, v := range clip.Channel(0) {
		energy += float64(v * v)
	}
	if energy == 0 {
		t.Fatal("rendered silence")
	}
}

func TestRunDrawAndDump(t *testing.T) {
	opts := testOptions()
	opts.draw = 5
	opts.dump = true
	opts.offset = 2

	var out bytes.Buffer
	if err := run(context.Background(), opts, log.New(io.Discard, "", 0), &out); err != nil {
		t.Fatal(err)
	}

	s := out.String()
	if !strings.Contains(s, "SamplerUnitState") {
		t.Fatal("dump missing")
	}
	if !strings.Contains(s, "Frame") || !strings.Contains(s, "-2.000") {
		t.Fatalf("draw table missing:\n%s", s)
	}
}

func TestRunAnalyze(t *testing.T) {
	opts := testOptions()
	opts.analyze = true

	var logs bytes.Buffer
	if err := run(context.Background(), opts, log.New(&logs, "", 0), io.Discard); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "onsets") {
		t.Fatalf("log = %q", logs.String())
	}
}

func TestRunVerboseReportsRateOffset(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.wav")
	if err := audiofile.WriteWAV(in, 16000, [][]float32{make([]float32, 1600)}); err != nil {
		t.Fatal(err)
	}

	opts := testOptions()
	opts.in = in
	opts.draw = 1
	opts.verbose = true

	var logs bytes.Buffer
	if err := run(context.Background(), opts, log.New(&logs, "", 0), io.Discard); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "+12.00 st") {
		t.Fatalf("log = %q", logs.String())
	}
}

func TestRunErrors(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	if err := run(context.Background(), testOptions(), logger, io.Discard); !errors.Is(err, errNoOutput) {
		t.Fatalf("no output: %v", err)
	}

	opts := testOptions()
	opts.draw = 1
	opts.pitch = "5:0,1:0"
	if err := run(context.Background(), opts, logger, io.Discard); err == nil {
		t.Fatal("unsorted pitch accepted")
	}

	opts = testOptions()
	opts.draw = 1
	opts.in = filepath.Join(t.TempDir(), "missing.flac")
	if err := run(context.Background(), opts, logger, io.Discard); !errors.Is(err, audiofile.ErrUnsupportedFormat) {
		t.Fatalf("missing input: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts = testOptions()
	opts.out = filepath.Join(t.TempDir(), "x.wav")
	if err := run(ctx, opts, logger, io.Discard); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled: %v", err)
	}
}
