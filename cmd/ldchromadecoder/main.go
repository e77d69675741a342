/*
NAME
  ldchromadecoder is a CLI wrapper over the chroma package: it assembles
  frames from a TBC's fields and runs the comb-filter chroma/luma decode
  chain, writing raw planar Y/U/V component frames.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package main implements the ldchromadecoder command.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ldtbc/tbc/chroma"
	"github.com/ldtbc/tbc/errs"
	"github.com/ldtbc/tbc/metadata"
	"github.com/ldtbc/tbc/tbc"
)

const (
	logPath      = "ldchromadecoder.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func main() {
	input := flag.String("i", "", "input TBC path")
	inputJSON := flag.String("input-json", "", "input metadata JSON path")
	output := flag.String("o", "", "output raw Y/U/V component stream path")
	start := flag.Int("s", 1, "first frame number to decode")
	length := flag.Int("l", 0, "number of frames to decode (0 = to the end)")
	mode := flag.Int("mode", int(chroma.Mode2D), "comb filter mode: 0=1D, 1=2D, 2=3D")
	locked := flag.Bool("locked", false, "use burst-locked IQ demodulation (splitIQlocked)")
	adaptive := flag.Bool("adaptive", true, "3D mode: adaptively choose the motion-compensation candidate")
	showMap := flag.Bool("showmap", false, "3D mode: overwrite chroma with a debug candidate-selection palette")
	cnr := flag.Float64("cnr", 0, "chroma noise-reduction level")
	ynr := flag.Float64("ynr", 0, "luma noise-reduction level")
	chromaPhase := flag.Float64("chroma-phase", 0, "additional chroma phase rotation, degrees")
	chromaGain := flag.Float64("chroma-gain", 1, "chroma gain scale")
	flag.Parse()

	fileLog := &lumberjack.Logger{Filename: logPath, MaxSize: logMaxSize, MaxBackups: logMaxBackup, MaxAge: logMaxAge}
	log := logging.New(logging.Info, fileLog, true)

	cfg := chroma.Config{
		Mode: chroma.Mode(*mode), UseLockedIQ: *locked, Adaptive: *adaptive, ShowMap: *showMap,
		CNRLevel: *cnr, YNRLevel: *ynr, ChromaPhaseDeg: *chromaPhase, ChromaGain: *chromaGain,
	}

	if err := run(*input, *inputJSON, *output, *start, *length, cfg, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errs.Is(err, errs.KindConfig) {
			os.Exit(-1)
		}
		os.Exit(1)
	}
}

func run(input, inputJSON, output string, start, length int, cfg chroma.Config, log logging.Logger) error {
	if input == "" || inputJSON == "" || output == "" {
		return errs.Config("run", fmt.Errorf("-i, -input-json and -o are required"))
	}

	store, err := metadata.Read(inputJSON)
	if err != nil {
		return err
	}
	cfg.Params = &store.Params

	dec, err := chroma.NewDecoder(cfg)
	if err != nil {
		return errs.Config("run", err)
	}

	f, err := os.Open(input)
	if err != nil {
		return errs.IO("run", err)
	}
	defer f.Close()
	reader := tbc.NewReader(f, store.Params.FieldWidth, store.Params.FieldHeight)

	out, err := os.Create(output)
	if err != nil {
		return errs.IO("run", err)
	}
	defer out.Close()

	end := store.GetNumberOfFrames()
	if length > 0 && start+length-1 < end {
		end = start + length - 1
	}
	if end < start {
		return errs.Config("run", fmt.Errorf("no frames in range [%d,%d]", start, end))
	}

	// The decoder's rolling three-frame buffer is inherently sequential
	// (3D mode reads one frame behind and one ahead of the one it emits),
	// so frames are pushed strictly in order; there's no worker pool here.
	for frameNo := start; frameNo <= end; frameNo++ {
		firstNo := store.GetFirstFieldNumber(frameNo)
		secondNo := store.GetSecondFieldNumber(frameNo)

		firstMeta, err := store.GetField(firstNo - 1)
		if err != nil {
			return errs.Format("run", err)
		}
		secondMeta, err := store.GetField(secondNo - 1)
		if err != nil {
			return errs.Format("run", err)
		}

		first, err := reader.Field(firstNo)
		if err != nil {
			return err
		}
		second, err := reader.Field(secondNo)
		if err != nil {
			return err
		}

		frame := chroma.AssembleFrame(store.Params.FieldWidth, store.Params.FieldHeight, first, second, firstMeta.FieldPhaseID, secondMeta.FieldPhaseID)
		component, err := dec.Push(frame)
		if err != nil {
			return errs.Format("run", err)
		}
		if component == nil {
			continue // 3D mode look-ahead warm-up; nothing to emit yet.
		}
		if err := writeComponentFrame(out, component); err != nil {
			return err
		}
	}

	log.Debug("ldchromadecoder: done", "frames", end-start+1)
	return nil
}

func writeComponentFrame(w *os.File, c *metadata.ComponentFrame) error {
	buf := make([]byte, 8*c.Width)
	for _, plane := range [][][]float64{c.Y, c.U, c.V} {
		for _, line := range plane {
			for x, v := range line {
				binary.LittleEndian.PutUint64(buf[x*8:], math.Float64bits(v))
			}
			if _, err := w.Write(buf); err != nil {
				return errs.IO("writeComponentFrame", err)
			}
		}
	}
	return nil
}
