/*
NAME
  ldprocessvbi is a CLI wrapper over the vbi package: it walks every field
  of a TBC, decoding the biphase tri-word, FM code, CEA-608, VITC, Video-ID
  and white-flag side channels, and rewrites the metadata JSON in place.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package main implements the ldprocessvbi command.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ldtbc/tbc/errs"
	"github.com/ldtbc/tbc/metadata"
	"github.com/ldtbc/tbc/pipeline"
	"github.com/ldtbc/tbc/tbc"
	"github.com/ldtbc/tbc/vbi"
)

const (
	logPath      = "ldprocessvbi.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days

	biphaseLine1, biphaseLine2, biphaseLine3 = 16, 17, 18
	fmCodeLine                               = 10 // NTSC line 10.
	cea608Line                               = 21 // NTSC line 21.
	whiteFlagLine                            = 11 // Conventional NTSC white-flag/Video-ID line.

	zcPoint = 0 // Zero-crossing reference; samples are already IRE-centred composite values.
)

func main() {
	input := flag.String("i", "", "input TBC path")
	inputJSON := flag.String("input-json", "", "input metadata JSON path")
	outputJSON := flag.String("output-json", "", "output metadata JSON path (defaults to overwriting -input-json)")
	threads := flag.Int("t", 1, "worker threads")
	start := flag.Int("s", 1, "first frame number to process")
	length := flag.Int("l", 0, "number of frames to process (0 = to the end)")
	flag.Parse()

	fileLog := &lumberjack.Logger{Filename: logPath, MaxSize: logMaxSize, MaxBackups: logMaxBackup, MaxAge: logMaxAge}
	log := logging.New(logging.Info, fileLog, true)

	if *outputJSON == "" {
		*outputJSON = *inputJSON
	}

	if err := run(*input, *inputJSON, *outputJSON, *threads, *start, *length, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errs.Is(err, errs.KindConfig) {
			os.Exit(-1)
		}
		os.Exit(1)
	}
}

func run(input, inputJSON, outputJSON string, threads, start, length int, log logging.Logger) error {
	if input == "" || inputJSON == "" {
		return errs.Config("run", fmt.Errorf("-i and -input-json are required"))
	}

	store, err := metadata.Read(inputJSON)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return errs.IO("run", err)
	}
	defer f.Close()
	reader := tbc.NewReader(f, store.Params.FieldWidth, store.Params.FieldHeight)

	nFields := len(store.Fields)
	end := nFields
	if length > 0 && start+length-1 < end {
		end = start + length - 1
	}
	if end < start {
		return errs.Config("run", fmt.Errorf("no fields in range [%d,%d]", start, end))
	}

	src := pipeline.NewFrameRangeSource(start, end, func(fieldNo int) (interface{}, error) {
		return fieldNo, nil
	})

	sys := store.Params.System
	process := func(tk pipeline.Task) pipeline.Result {
		fieldNo := tk.Input.(int)
		samples, err := reader.Field(fieldNo)
		if err != nil {
			return pipeline.Result{FrameNo: fieldNo, Err: err}
		}
		meta, err := store.GetField(fieldNo - 1)
		if err != nil {
			return pipeline.Result{FrameNo: fieldNo, Err: errs.Format("run", err)}
		}
		decodeField(samples, &store.Params, sys, meta)
		return pipeline.Result{FrameNo: fieldNo, Output: meta}
	}

	emit := func(r pipeline.Result) error { return nil } // Fields are mutated in place via GetField.

	sched := pipeline.NewScheduler(pipeline.Config{
		Workers: threads, StartFrame: start, Source: src,
		Process: process, Emit: emit, Log: log,
	})
	if err := sched.Run(); err != nil {
		return err
	}

	return store.Write(outputJSON)
}

func decodeField(samples []uint16, p *metadata.VideoParameters, sys metadata.System, meta *metadata.FieldMetadata) {
	lines := lineMap(samples, p.FieldWidth, biphaseLine1, biphaseLine2, biphaseLine3, fmCodeLine, cea608Line, whiteFlagLine)

	// A failed biphase decode just leaves meta.VbiInUse false; see
	// vbi/biphase.go's DecodeAndInterpretField.
	_ = vbi.DecodeAndInterpretField(lines, zcPoint, p.SampleRate, p.ActiveVideoStart, meta)

	if vitc, ok := vbi.DecodeVITCFromCandidates(lines, sys, zcPoint, p.FieldWidth); ok {
		meta.VITC = metadata.VITC{Data: vitc, InUse: true}
	}

	if sys == metadata.SystemNTSC {
		if payload, fieldInd, ok := vbi.DecodeFMCode(lines[fmCodeLine], zcPoint, p.SampleRate, p.ActiveVideoStart); ok {
			meta.NTSC = ensureNTSC(meta.NTSC)
			meta.NTSC.IsFmCodeDataValid = true
			meta.NTSC.FmCodeData = payload
			_ = fieldInd
		}
		if d0, d1, ok0, ok1 := vbi.DecodeCEA608(lines[cea608Line], zcPoint, p.FieldWidth); ok0 || ok1 {
			meta.ClosedCaption = metadata.ClosedCaption{Data0: d0, Data1: d1, InUse: ok0 && ok1}
		}
		if videoID, ok := vbi.DecodeVideoID(lines[whiteFlagLine], zcPoint, p.FSC, p.SampleRate/float64(p.FieldWidth)); ok {
			meta.NTSC = ensureNTSC(meta.NTSC)
			meta.NTSC.IsVideoIDDataValid = true
			meta.NTSC.VideoIDData = videoID
		}
		meta.NTSC = ensureNTSC(meta.NTSC)
		if wf, ok := lines[whiteFlagLine]; ok {
			meta.NTSC.IsWhiteFlag = vbi.IsWhiteFlag(wf[p.ActiveVideoStart:p.ActiveVideoEnd], p.Black16bIre, p.White16bIre)
		}
	}
}

func ensureNTSC(n *metadata.NTSCSpecific) *metadata.NTSCSpecific {
	if n == nil {
		return &metadata.NTSCSpecific{}
	}
	return n
}

func lineMap(samples []uint16, width int, lineNos ...int) map[int][]uint16 {
	m := make(map[int][]uint16, len(lineNos))
	for _, n := range lineNos {
		start := n * width
		end := start + width
		if start < 0 || end > len(samples) {
			continue
		}
		m[n] = samples[start:end]
	}
	return m
}
