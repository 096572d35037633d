// Command tapexform renders a sample through the classic sampler and its
// tape position pipeline.
//
// Usage:
//
//	tapexform [flags]
//
// Without --in a one second test tone is played. The rendered audio is written
// with --out; --draw prints the position stages of the first frames.
//
// Examples:
//
//	tapexform --in loop.wav --out up.wav --transpose 7
//	tapexform --in vox.ogg --out rev.wav --reverse "0:off,48000:tape"
//	tapexform --pitch "0:0,96000:12" --draw 16
//	tapexform --in drums.mp3 --analyze --verbose
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
)

func main() {
	logger := log.New(os.Stderr, "tapexform: ", log.Ltime)

	var opts options
	pflag.StringVarP(&opts.in, "in", "i", "", "input sample (.wav, .mp3, .ogg); a test tone when empty")
	pflag.StringVarP(&opts.out, "out", "o", "", "output WAV file")
	pflag.Float64VarP(&opts.seconds, "seconds", "s", 1, "render length in seconds")
	pflag.Float64Var(&opts.songRate, "rate", 48000, "song sample rate in Hz")
	pflag.Float64VarP(&opts.transpose, "transpose", "t", 0, "transpose in semitones")
	pflag.StringVar(&opts.pitch, "pitch", "", `pitch envelope "frame:semitones,..."`)
	pflag.Int64Var(&opts.offset, "offset", 0, "sample offset in frames")
	pflag.StringVar(&opts.reverse, "reverse", "", `reverse modes "frame:off|mirror|tape|slip,..."`)
	pflag.StringVar(&opts.warp, "warp", "", `warp markers "frame:frame,..."`)
	pflag.BoolVar(&opts.loop, "loop", false, "loop the sample")
	pflag.BoolVar(&opts.hermite, "hermite", false, "use 4-point Hermite interpolation")
	pflag.BoolVar(&opts.analyze, "analyze", false, "run onset analysis before rendering")
	pflag.IntVar(&opts.draw, "draw", 0, "print the position stages of the first N frames")
	pflag.BoolVar(&opts.dump, "dump", false, "dump the unit state")
	pflag.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress and CPU features")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tapexform [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a sample through the tape position pipeline.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger, os.Stdout); err != nil {
		stop()
		logger.Fatalf("error: %v", err)
	}
}
