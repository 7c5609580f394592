// Coilscope is the host-side telemetry consumer: it decodes the firmware's
// diagnostic stream from stdin or a serial port and renders, records or
// summarizes it. It is a pure consumer with no feedback into the firmware.
//
// Typical uses:
//
//	coilsim -seconds 5 | coilscope -mode meter
//	coilscope -device /dev/ttyACM0 -db run.db -png run.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mjibson/go-dsp/fft"

	"coiltone/host/render"
	"coiltone/host/serial"
	"coiltone/host/store"
	"coiltone/host/telemetry"
	"coiltone/protocol"
)

var (
	configPath = flag.String("config", "", "YAML config file")
	device     = flag.String("device", "", "serial device path (default: read stdin)")
	baud       = flag.Int("baud", 0, "serial baud rate")
	mode       = flag.String("mode", "", "display mode: frames or meter")
	dbPath     = flag.String("db", "", "record frames to this SQLite database")
	pngPath    = flag.String("png", "", "write an envelope waterfall PNG on exit")
	maxFrames  = flag.Int("frames", 0, "stop after this many frames (0 = unlimited)")
	showStats  = flag.Bool("stats", true, "print session statistics on exit")
)

// ControlRateHz is the frame rate of the telemetry stream (one frame per
// firmware control period).
const ControlRateHz = 625

func main() {
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			fatal(err)
		}
	}
	if *device != "" {
		cfg.Input.Device = *device
	}
	if *baud != 0 {
		cfg.Input.Baud = *baud
	}
	if *mode != "" {
		cfg.Output.Mode = *mode
	}
	if *dbPath != "" {
		cfg.Capture.Database = *dbPath
	}
	if *pngPath != "" {
		cfg.Capture.Waterfall = *pngPath
	}
	if *maxFrames != 0 {
		cfg.Capture.MaxFrames = *maxFrames
	}

	if err := run(cfg); err != nil {
		fatal(err)
	}
}

func run(cfg Config) error {
	var src io.Reader = os.Stdin
	if cfg.Input.Device != "" {
		scfg := serial.DefaultConfig(cfg.Input.Device)
		if cfg.Input.Baud != 0 {
			scfg.Baud = cfg.Input.Baud
		}
		port, err := serial.Open(scfg)
		if err != nil {
			return err
		}
		defer port.Close()
		src = port
	}

	reader := telemetry.NewReader(src)

	var rec *recorder
	if cfg.Capture.Database != "" {
		r, err := newRecorder(cfg.Capture.Database, cfg.Input.Device)
		if err != nil {
			return err
		}
		rec = r
		defer rec.close()
	}

	// Frames retained for the waterfall, and the sample history for the
	// end-of-run modulation estimate.
	var captured []protocol.Frame
	var samples []float64

	for {
		f, err := reader.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(os.Stderr, "coilscope: stream error: %v\n", err)
			}
			break
		}

		switch cfg.Output.Mode {
		case "meter":
			printMeter(f)
		default:
			printFrame(f)
		}

		if cfg.Capture.Waterfall != "" {
			captured = append(captured, f)
		}
		if len(samples) < 1<<15 {
			samples = append(samples, float64(f.Sample))
		}
		if rec != nil {
			if err := rec.add(f); err != nil {
				return err
			}
		}

		if cfg.Capture.MaxFrames > 0 && int(reader.Stats().Frames) >= cfg.Capture.MaxFrames {
			break
		}
	}

	if rec != nil {
		if err := rec.flush(); err != nil {
			return err
		}
	}
	if cfg.Capture.Waterfall != "" {
		if err := writeWaterfall(cfg.Capture.Waterfall, captured); err != nil {
			return err
		}
	}
	if *showStats {
		printStats(reader.Stats(), samples)
	}
	return nil
}

func printFrame(f protocol.Frame) {
	fmt.Printf("t=%-10d sample=%-6d i=%-6d q=%-6d env=%-5d freq=%-4dHz duty=%d/256\n",
		f.Timestamp, f.Sample, f.I, f.Q, f.Envelope, f.FreqHz, f.Duty)
}

// printMeter renders a single-line bar meter mirroring the firmware's LED
// indicator distribution.
func printMeter(f protocol.Frame) {
	const width = 48
	const fullScale = render.EnvelopeFullScale
	n := int(f.Envelope) * width / fullScale
	if n > width {
		n = width
	}
	bar := strings.Repeat("#", n) + strings.Repeat(".", width-n)
	fmt.Printf("\r[%s] env=%-5d freq=%-4dHz duty=%-3d", bar, f.Envelope, f.FreqHz, f.Duty)
}

func printStats(st telemetry.Stats, samples []float64) {
	fmt.Fprintf(os.Stderr, "\nframes:     %s\n", humanize.Comma(int64(st.Frames)))
	fmt.Fprintf(os.Stderr, "bytes:      %s\n", humanize.Bytes(st.Bytes))
	fmt.Fprintf(os.Stderr, "crc errors: %s\n", humanize.Comma(int64(st.CRCErrors)))
	fmt.Fprintf(os.Stderr, "sync skips: %s\n", humanize.Comma(int64(st.Skipped)))
	fmt.Fprintf(os.Stderr, "gaps:       %s\n", humanize.Comma(int64(st.Gaps)))

	if freq, ok := dominantModulation(samples); ok {
		fmt.Fprintf(os.Stderr, "dominant modulation: %.1f Hz\n", freq)
	}
}

// dominantModulation estimates the strongest frequency in the decimated
// sample field. Frames arrive at the control rate, so this sees envelope
// modulation, not the carrier.
func dominantModulation(samples []float64) (float64, bool) {
	if len(samples) < 64 {
		return 0, false
	}
	spectrum := fft.FFTReal(samples)

	best, bestMag := 0, 0.0
	for i := 1; i < len(spectrum)/2; i++ {
		if m := cmplx.Abs(spectrum[i]); m > bestMag {
			best, bestMag = i, m
		}
	}
	if bestMag == 0 || math.IsNaN(bestMag) {
		return 0, false
	}
	return float64(best) * ControlRateHz / float64(len(samples)), true
}

func writeWaterfall(path string, frames []protocol.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()
	if err := render.WritePNG(out, frames, render.Options{}); err != nil {
		return err
	}
	return nil
}

// recorder batches frames into the SQLite store.
type recorder struct {
	st        *store.Store
	sessionID int64
	batch     []protocol.Frame
}

const recorderBatchSize = 256

func newRecorder(path, source string) (*recorder, error) {
	if source == "" {
		source = "stdin"
	}
	st := store.New(path)
	id, err := st.CreateSession(context.Background(), source)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &recorder{st: st, sessionID: id}, nil
}

func (r *recorder) add(f protocol.Frame) error {
	r.batch = append(r.batch, f)
	if len(r.batch) >= recorderBatchSize {
		return r.flush()
	}
	return nil
}

func (r *recorder) flush() error {
	if len(r.batch) == 0 {
		return nil
	}
	err := r.st.InsertFrames(context.Background(), r.sessionID, r.batch)
	r.batch = r.batch[:0]
	return err
}

func (r *recorder) close() {
	if r != nil {
		_ = r.st.Close()
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "coilscope: %v\n", err)
	os.Exit(1)
}
