/*
NAME
  lddiscstacker is a CLI wrapper over the stacker package: it combines
  several aligned TBC sources into one output TBC, recovering dropouts by
  cross-source comparison.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package main implements the lddiscstacker command.
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
	"github.com/ldtbc/tbc/stacker"
	"github.com/ldtbc/tbc/tbc"
)

const (
	logPath      = "lddiscstacker.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

// inputList collects repeated -i flags into an ordered slice of paths.
type inputList []string

func (l *inputList) String() string { return fmt.Sprint([]string(*l)) }
func (l *inputList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	var inputs inputList
	flag.Var(&inputs, "i", "input TBC path (repeat for each source)")

	output := flag.String("o", "", "output TBC path")
	outputJSON := flag.String("output-json", "", "output metadata JSON path")
	threads := flag.Int("t", 1, "worker threads")
	start := flag.Int("s", 1, "first VBI frame number to process")
	length := flag.Int("l", 0, "number of frames to process (0 = to the last frame any source covers)")
	mode := flag.Int("m", int(stacker.ModeMean), "combination mode 0..4 (mean/median/smartMean/smartNeighbor/neighbor)")
	smartThreshold := flag.Int("st", 15, "smart mode threshold (0..128)")
	noDiffDod := flag.Bool("no-diffdod", false, "disable differential dropout recovery")
	passThrough := flag.Bool("passthrough", false, "force a dropout flag on any pixel with no surviving source")
	flag.Parse()

	fileLog := &lumberjack.Logger{Filename: logPath, MaxSize: logMaxSize, MaxBackups: logMaxBackup, MaxAge: logMaxAge}
	log := logging.New(logging.Info, fileLog, true)

	if err := run(inputs, *output, *outputJSON, *threads, *start, *length, stacker.Mode(*mode), *smartThreshold, *noDiffDod, *passThrough, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errs.Is(err, errs.KindConfig) {
			os.Exit(-1)
		}
		os.Exit(1)
	}
}

func run(inputs inputList, output, outputJSON string, threads, start, length int, mode stacker.Mode, smartThreshold int, noDiffDod, passThrough bool, log logging.Logger) error {
	if len(inputs) == 0 || output == "" || outputJSON == "" {
		return errs.Config("run", fmt.Errorf("at least one -i, an -o and an -output-json are required"))
	}

	firstSources, secondSources, params, isFFFirst, err := loadSources(inputs)
	if err != nil {
		return err
	}

	end := sourcesMaxFrame(firstSources)
	if length > 0 && start+length-1 < end {
		end = start + length - 1
	}
	if end < start {
		return errs.Config("run", fmt.Errorf("no frames in range [%d,%d]", start, end))
	}

	outFile, err := os.Create(output)
	if err != nil {
		return errs.IO("run", err)
	}
	emitter := pipeline.NewEmitter(outFile, outputJSON, params, isFFFirst)

	cfg := stacker.Config{Mode: mode, SmartThreshold: smartThreshold, NoDiffDod: noDiffDod, PassThrough: passThrough}

	src := pipeline.NewFrameRangeSource(start, end, func(frameNo int) (interface{}, error) {
		return frameNo, nil
	})

	process := func(tk pipeline.Task) pipeline.Result {
		frameNo := tk.Input.(int)
		firstFields, secondFields, firstMetaList, secondMetaList := gatherFrame(firstSources, secondSources, frameNo)

		combined := stacker.StackFrame(firstFields, secondFields, &params, cfg)

		pipeline.FixupPadding(firstMetaList)
		pipeline.FixupPadding(secondMetaList)

		firstMeta := firstMetaList[0]
		firstMeta.DropOuts = combined.FirstDropOuts
		secondMeta := secondMetaList[0]
		secondMeta.DropOuts = combined.SecondDropOuts

		return pipeline.Result{FrameNo: frameNo, Output: pipeline.FrameOutput{
			FirstField: combined.FirstField, SecondField: combined.SecondField,
			FirstMeta: firstMeta, SecondMeta: secondMeta,
		}}
	}

	sched := pipeline.NewScheduler(pipeline.Config{
		Workers: threads, StartFrame: start, Source: src,
		Process: process, Emit: emitter.Emit, Log: log,
	})
	if err := sched.Run(); err != nil {
		return err
	}
	return emitter.Close()
}

// sourceHandle pairs one open source TBC with its metadata store.
type sourceHandle struct {
	reader *tbc.Reader
	store  *metadata.Store
}

// loadSources opens every input TBC/metadata pair and builds two parallel
// per-source field lists aligned by VBI frame number: one of each source's
// first fields, one of its second fields, per spec §4.I's source-alignment
// rule (v - sourceMin + 1).
func loadSources(inputs inputList) (firstSources, secondSources []*stacker.Source, params metadata.VideoParameters, isFFFirst bool, err error) {
	var handles []*sourceHandle
	for _, path := range inputs {
		store, rerr := metadata.Read(path + ".json")
		if rerr != nil {
			return nil, nil, metadata.VideoParameters{}, false, errs.IO("loadSources", rerr)
		}
		f, rerr := os.Open(path)
		if rerr != nil {
			return nil, nil, metadata.VideoParameters{}, false, errs.IO("loadSources", rerr)
		}
		handles = append(handles, &sourceHandle{
			reader: tbc.NewReader(f, store.Params.FieldWidth, store.Params.FieldHeight),
			store:  store,
		})
	}

	params = handles[0].store.Params
	isFFFirst = handles[0].store.IsFirstFieldFirst

	firstSources = make([]*stacker.Source, len(handles))
	secondSources = make([]*stacker.Source, len(handles))
	for i, h := range handles {
		n := h.store.GetNumberOfFrames()
		first := &stacker.Source{Min: 1, Max: n, Fields: make([]stacker.FieldData, n)}
		second := &stacker.Source{Min: 1, Max: n, Fields: make([]stacker.FieldData, n)}
		for frameNo := 1; frameNo <= n; frameNo++ {
			fd, ferr := readFieldData(h, h.store.GetFirstFieldNumber(frameNo))
			if ferr != nil {
				return nil, nil, metadata.VideoParameters{}, false, ferr
			}
			sd, serr := readFieldData(h, h.store.GetSecondFieldNumber(frameNo))
			if serr != nil {
				return nil, nil, metadata.VideoParameters{}, false, serr
			}
			first.Fields[frameNo-1] = fd
			second.Fields[frameNo-1] = sd
		}
		firstSources[i] = first
		secondSources[i] = second
	}
	return firstSources, secondSources, params, isFFFirst, nil
}

func readFieldData(h *sourceHandle, fieldSeqNo int) (stacker.FieldData, error) {
	meta, err := h.store.GetField(fieldSeqNo - 1)
	if err != nil {
		return stacker.FieldData{}, errs.Format("readFieldData", err)
	}
	if meta.Pad {
		return stacker.FieldData{Pad: true}, nil
	}
	samples, err := h.reader.Field(fieldSeqNo)
	if err != nil {
		return stacker.FieldData{}, err
	}
	return stacker.FieldData{Samples: samples, DropOuts: meta.DropOuts, Pad: false}, nil
}

func sourcesMaxFrame(sources []*stacker.Source) int {
	max := 0
	for _, s := range sources {
		if s.Max > max {
			max = s.Max
		}
	}
	return max
}

// gatherFrame resolves every source's field data and metadata for frameNo,
// substituting a padded placeholder for sources without real data.
func gatherFrame(firstSources, secondSources []*stacker.Source, frameNo int) ([]stacker.FieldData, []stacker.FieldData, []metadata.FieldMetadata, []metadata.FieldMetadata) {
	n := len(firstSources)
	firstFields := make([]stacker.FieldData, n)
	secondFields := make([]stacker.FieldData, n)
	firstMeta := make([]metadata.FieldMetadata, n)
	secondMeta := make([]metadata.FieldMetadata, n)

	for i := range firstSources {
		if fd, ok := firstSources[i].FieldAt(frameNo); ok {
			firstFields[i] = fd
		} else {
			firstFields[i] = stacker.FieldData{Pad: true}
		}
		if fd, ok := secondSources[i].FieldAt(frameNo); ok {
			secondFields[i] = fd
		} else {
			secondFields[i] = stacker.FieldData{Pad: true}
		}
		firstMeta[i] = metadata.FieldMetadata{SeqNo: 2*frameNo - 1, Pad: firstFields[i].Pad, IsFirstField: true}
		secondMeta[i] = metadata.FieldMetadata{SeqNo: 2 * frameNo, Pad: secondFields[i].Pad}
	}
	return firstFields, secondFields, firstMeta, secondMeta
}
