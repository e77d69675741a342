/*
NAME
  ldchromaencoder is a CLI wrapper over the encoder package: it reads raw
  16-bit linear RGB frames and synthesises a TBC file plus metadata JSON,
  used as the chroma decoder's test oracle.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package main implements the ldchromaencoder command.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ldtbc/tbc/encoder"
	"github.com/ldtbc/tbc/errs"
	"github.com/ldtbc/tbc/metadata"
	"github.com/ldtbc/tbc/tbc"
)

const (
	logPath      = "ldchromaencoder.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func main() {
	input := flag.String("i", "", "input raw RGB stream path ('-' for stdin)")
	output := flag.String("o", "", "output TBC path")
	outputJSON := flag.String("output-json", "", "output metadata JSON path")
	width := flag.Int("width", 0, "active video width, samples")
	height := flag.Int("height", 0, "active video height, lines (frame height)")
	ntsc := flag.Bool("ntsc", true, "encode for NTSC (false selects PAL)")
	flag.Parse()

	fileLog := &lumberjack.Logger{Filename: logPath, MaxSize: logMaxSize, MaxBackups: logMaxBackup, MaxAge: logMaxAge}
	log := logging.New(logging.Info, fileLog, true)

	if err := run(*input, *output, *outputJSON, *width, *height, *ntsc, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errs.Is(err, errs.KindConfig) {
			os.Exit(-1)
		}
		os.Exit(1)
	}
}

func run(input, output, outputJSON string, width, height int, ntsc bool, log logging.Logger) error {
	if input == "" || output == "" || outputJSON == "" || width <= 0 || height <= 0 {
		return errs.Config("run", fmt.Errorf("-i, -o, -output-json, -width and -height are required"))
	}

	params := defaultParams(ntsc, width, height)
	if err := params.Validate(); err != nil {
		return errs.Config("run", err)
	}

	var in io.Reader
	if input == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(input)
		if err != nil {
			return errs.IO("run", err)
		}
		defer f.Close()
		in = f
	}

	out, err := os.Create(output)
	if err != nil {
		return errs.IO("run", err)
	}
	defer out.Close()

	enc := encoder.NewEncoder(params)
	store := &metadata.Store{Params: params, SchemaVersion: metadata.CurrentSchemaVersion, IsFirstFieldFirst: true}
	writer := tbc.NewWriter(out, params.FieldWidth, params.FieldHeight)

	frameSamples := width * height
	rgbBuf := make([]byte, frameSamples*3*2)

	var frames int
	for {
		if _, err := io.ReadFull(in, rgbBuf); err == io.EOF {
			break
		} else if err != nil {
			return errs.IO("run", fmt.Errorf("short RGB frame: %w", err))
		}

		rgb := decodeRGBFrame(rgbBuf, width, height)
		first, second, firstMeta, secondMeta := enc.EncodeFrame(rgb)

		if err := writer.WriteField(first); err != nil {
			return err
		}
		if err := writer.WriteField(second); err != nil {
			return err
		}
		store.AppendField(firstMeta)
		store.AppendField(secondMeta)
		frames++
	}

	if err := store.Write(outputJSON); err != nil {
		return err
	}
	log.Debug("ldchromaencoder: done", "frames", frames)
	return nil
}

func defaultParams(ntsc bool, width, height int) metadata.VideoParameters {
	if ntsc {
		fsc := 315000000.0 / 88.0
		return metadata.VideoParameters{
			System: metadata.SystemNTSC, FSC: fsc, SampleRate: 4 * fsc,
			FieldWidth: width, FieldHeight: height,
			ActiveVideoStart: width / 8, ActiveVideoEnd: width - width/16,
			ColourBurstStart: width / 16, ColourBurstEnd: width/16 + width/20,
			Black16bIre: 16384, White16bIre: 57344, IsSubcarrierLocked: true,
		}
	}
	fsc := 4433618.75
	return metadata.VideoParameters{
		System: metadata.SystemPAL, FSC: fsc, SampleRate: 4 * fsc,
		FieldWidth: width, FieldHeight: height,
		ActiveVideoStart: width / 8, ActiveVideoEnd: width - width/16,
		ColourBurstStart: width / 16, ColourBurstEnd: width/16 + width/20,
		Black16bIre: 16384, White16bIre: 57344, IsSubcarrierLocked: true,
	}
}

func decodeRGBFrame(buf []byte, width, height int) *encoder.RGBFrame {
	n := width * height
	rgb := &encoder.RGBFrame{Width: width, Height: height, R: make([]uint16, n), G: make([]uint16, n), B: make([]uint16, n)}
	for i := 0; i < n; i++ {
		off := i * 6
		rgb.R[i] = binary.LittleEndian.Uint16(buf[off:])
		rgb.G[i] = binary.LittleEndian.Uint16(buf[off+2:])
		rgb.B[i] = binary.LittleEndian.Uint16(buf[off+4:])
	}
	return rgb
}
