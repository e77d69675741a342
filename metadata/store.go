/*
NAME
  store.go

DESCRIPTION
  store.go implements the JSON-backed metadata document: a single document
  with a videoParameters object and a fields[] array, plus the frame<->field
  mapping helpers used throughout the pipeline (getFirstFieldNumber,
  getSecondFieldNumber, convertClvTimecodeToFrameNumber).

  Schema mismatches and missing keys never hard-fail per spec §4.A — rather
  than hand-roll a version migration table, unknown/old schema versions get
  the Go zero value for any field missing from the JSON, which is exactly
  the "default values per schema version" spec calls for: encoding/json
  already leaves an unset field at its zero value, so no separate migration
  step is needed.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package metadata implements the JSON-backed per-field metadata store and
// the core data model shared by every stage of the decode pipeline.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ldtbc/tbc/errs"
)

// CurrentSchemaVersion is the schema version this store writes.
const CurrentSchemaVersion = 2

// jsonVideoParameters is the on-disk representation of VideoParameters.
type jsonVideoParameters struct {
	System               string  `json:"system"`
	FSC                  float64 `json:"fsc"`
	SampleRate           float64 `json:"sampleRate"`
	FieldWidth           int     `json:"fieldWidth"`
	FieldHeight          int     `json:"fieldHeight"`
	ActiveVideoStart     int     `json:"activeVideoStart"`
	ActiveVideoEnd       int     `json:"activeVideoEnd"`
	FirstActiveFrameLine int     `json:"firstActiveFrameLine"`
	LastActiveFrameLine  int     `json:"lastActiveFrameLine"`
	ColourBurstStart     int     `json:"colourBurstStart"`
	ColourBurstEnd       int     `json:"colourBurstEnd"`
	Black16bIre          float64 `json:"black16bIre"`
	White16bIre          float64 `json:"white16bIre"`
	IsSubcarrierLocked   bool    `json:"isSubcarrierLocked"`
	IsMapped             bool    `json:"isMapped"`
}

// jsonDropOuts mirrors the on-disk parallel-array dropout encoding.
type jsonDropOuts struct {
	StartX    []int `json:"startx"`
	EndX      []int `json:"endx"`
	FieldLine []int `json:"fieldLine"`
}

// jsonVbi is the on-disk vbi object.
type jsonVbi struct {
	VbiData [3]uint32 `json:"vbiData"`
	InUse   bool      `json:"inUse"`
}

// jsonVitc is the on-disk vitc object.
type jsonVitc struct {
	VitcData [8]byte `json:"vitcData"`
	InUse    bool    `json:"inUse"`
}

// jsonClosedCaption is the on-disk closedCaption object.
type jsonClosedCaption struct {
	Data0 byte `json:"data0"`
	Data1 byte `json:"data1"`
	InUse bool `json:"inUse"`
}

// jsonNTSC is the on-disk ntsc extras object, present only for NTSC fields.
type jsonNTSC struct {
	IsWhiteFlag        bool   `json:"isWhiteFlag"`
	IsFmCodeDataValid  bool   `json:"isFmCodeDataValid"`
	FmCodeData         uint32 `json:"fmCodeData"`
	IsVideoIDDataValid bool   `json:"isVideoIdDataValid"`
	VideoIDData        uint16 `json:"videoIdData"`
}

// jsonField is the on-disk field object.
type jsonField struct {
	SeqNo          int               `json:"seqNo"`
	IsFirstField   bool              `json:"isFirstField"`
	FieldPhaseID   int               `json:"fieldPhaseID"`
	SyncConf       int               `json:"syncConf"`
	MedianBurstIRE float64           `json:"medianBurstIRE"`
	AudioSamples   int               `json:"audioSamples"`
	DropOuts       jsonDropOuts      `json:"dropOuts"`
	Vbi            jsonVbi           `json:"vbi"`
	Vitc           jsonVitc          `json:"vitc"`
	NTSC           *jsonNTSC         `json:"ntsc,omitempty"`
	ClosedCaption  jsonClosedCaption `json:"closedCaption"`
	Pad            bool              `json:"pad"`
	DiskLoc        int               `json:"diskLoc,omitempty"`
}

// jsonDocument is the top-level document shape.
type jsonDocument struct {
	SchemaVersion   int                 `json:"schemaVersion"`
	VideoParameters jsonVideoParameters `json:"videoParameters"`
	Fields          []jsonField         `json:"fields"`
}

// Store is the in-memory, JSON-backed metadata document for one capture.
type Store struct {
	Params        VideoParameters
	Fields        []FieldMetadata
	SchemaVersion int

	// IsFirstFieldFirst determines the frame<->field mapping: when true,
	// frame k maps to (field 2k-1, field 2k), otherwise (2k, 2k-1).
	IsFirstFieldFirst bool
}

// Read parses a metadata JSON document from path.
func Read(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO("Read", err)
	}
	return Parse(b)
}

// Parse parses a metadata JSON document from a byte slice.
func Parse(b []byte) (*Store, error) {
	var doc jsonDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, errs.Format("Parse", fmt.Errorf("invalid metadata JSON: %w", err))
	}

	s := &Store{SchemaVersion: doc.SchemaVersion}
	if s.SchemaVersion == 0 {
		// Missing/old schema version: fall back to defaults per spec §4.A.
		s.SchemaVersion = CurrentSchemaVersion
	}

	jp := doc.VideoParameters
	s.Params = VideoParameters{
		System:               systemFromString(jp.System),
		FSC:                  jp.FSC,
		SampleRate:           jp.SampleRate,
		FieldWidth:           jp.FieldWidth,
		FieldHeight:          jp.FieldHeight,
		ActiveVideoStart:     jp.ActiveVideoStart,
		ActiveVideoEnd:       jp.ActiveVideoEnd,
		FirstActiveFrameLine: jp.FirstActiveFrameLine,
		LastActiveFrameLine:  jp.LastActiveFrameLine,
		ColourBurstStart:     jp.ColourBurstStart,
		ColourBurstEnd:       jp.ColourBurstEnd,
		Black16bIre:          jp.Black16bIre,
		White16bIre:          jp.White16bIre,
		IsSubcarrierLocked:   jp.IsSubcarrierLocked,
		IsMapped:             jp.IsMapped,
	}

	s.Fields = make([]FieldMetadata, len(doc.Fields))
	for i, jf := range doc.Fields {
		fm := FieldMetadata{
			SeqNo:          jf.SeqNo,
			IsFirstField:   jf.IsFirstField,
			FieldPhaseID:   jf.FieldPhaseID,
			SyncConf:       jf.SyncConf,
			MedianBurstIRE: jf.MedianBurstIRE,
			AudioSamples:   jf.AudioSamples,
			Pad:            jf.Pad,
			Vbi16:          jf.Vbi.VbiData[0],
			Vbi17:          jf.Vbi.VbiData[1],
			Vbi18:          jf.Vbi.VbiData[2],
			VbiInUse:       jf.Vbi.InUse,
		}
		fm.DropOuts = DropOuts{StartX: jf.DropOuts.StartX, EndX: jf.DropOuts.EndX, FieldLine: jf.DropOuts.FieldLine}
		fm.VITC = VITC{Data: jf.Vitc.VitcData, InUse: jf.Vitc.InUse}
		fm.ClosedCaption = ClosedCaption{Data0: jf.ClosedCaption.Data0, Data1: jf.ClosedCaption.Data1, InUse: jf.ClosedCaption.InUse}
		if jf.NTSC != nil {
			fm.NTSC = &NTSCSpecific{
				IsWhiteFlag:        jf.NTSC.IsWhiteFlag,
				IsFmCodeDataValid:  jf.NTSC.IsFmCodeDataValid,
				FmCodeData:         jf.NTSC.FmCodeData,
				IsVideoIDDataValid: jf.NTSC.IsVideoIDDataValid,
				VideoIDData:        jf.NTSC.VideoIDData,
			}
		}
		s.Fields[i] = fm
	}
	return s, nil
}

// Write serializes the store to path as JSON.
func (s *Store) Write(path string) error {
	b, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return errs.IO("Write", err)
	}
	return nil
}

// Marshal serializes the store to JSON bytes.
func (s *Store) Marshal() ([]byte, error) {
	doc := jsonDocument{
		SchemaVersion: s.SchemaVersion,
		VideoParameters: jsonVideoParameters{
			System:               s.Params.System.String(),
			FSC:                  s.Params.FSC,
			SampleRate:           s.Params.SampleRate,
			FieldWidth:           s.Params.FieldWidth,
			FieldHeight:          s.Params.FieldHeight,
			ActiveVideoStart:     s.Params.ActiveVideoStart,
			ActiveVideoEnd:       s.Params.ActiveVideoEnd,
			FirstActiveFrameLine: s.Params.FirstActiveFrameLine,
			LastActiveFrameLine:  s.Params.LastActiveFrameLine,
			ColourBurstStart:     s.Params.ColourBurstStart,
			ColourBurstEnd:       s.Params.ColourBurstEnd,
			Black16bIre:          s.Params.Black16bIre,
			White16bIre:          s.Params.White16bIre,
			IsSubcarrierLocked:   s.Params.IsSubcarrierLocked,
			IsMapped:             s.Params.IsMapped,
		},
		Fields: make([]jsonField, len(s.Fields)),
	}
	for i, fm := range s.Fields {
		jf := jsonField{
			SeqNo:          fm.SeqNo,
			IsFirstField:   fm.IsFirstField,
			FieldPhaseID:   fm.FieldPhaseID,
			SyncConf:       fm.SyncConf,
			MedianBurstIRE: fm.MedianBurstIRE,
			AudioSamples:   fm.AudioSamples,
			Pad:            fm.Pad,
			DropOuts:       jsonDropOuts{StartX: fm.DropOuts.StartX, EndX: fm.DropOuts.EndX, FieldLine: fm.DropOuts.FieldLine},
			Vbi:            jsonVbi{VbiData: [3]uint32{fm.Vbi16, fm.Vbi17, fm.Vbi18}, InUse: fm.VbiInUse},
			Vitc:           jsonVitc{VitcData: fm.VITC.Data, InUse: fm.VITC.InUse},
			ClosedCaption:  jsonClosedCaption{Data0: fm.ClosedCaption.Data0, Data1: fm.ClosedCaption.Data1, InUse: fm.ClosedCaption.InUse},
		}
		if fm.NTSC != nil {
			jf.NTSC = &jsonNTSC{
				IsWhiteFlag:        fm.NTSC.IsWhiteFlag,
				IsFmCodeDataValid:  fm.NTSC.IsFmCodeDataValid,
				FmCodeData:         fm.NTSC.FmCodeData,
				IsVideoIDDataValid: fm.NTSC.IsVideoIDDataValid,
				VideoIDData:        fm.NTSC.VideoIDData,
			}
		}
		doc.Fields[i] = jf
	}
	b, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, errs.Format("Marshal", err)
	}
	return b, nil
}

func systemFromString(s string) System {
	if s == "NTSC" {
		return SystemNTSC
	}
	return SystemPAL
}

// GetField returns a pointer to field i (0-based) so callers can update it
// in place.
func (s *Store) GetField(i int) (*FieldMetadata, error) {
	if i < 0 || i >= len(s.Fields) {
		return nil, fmt.Errorf("field index %d out of range [0,%d)", i, len(s.Fields))
	}
	return &s.Fields[i], nil
}

// AppendField appends a new field record.
func (s *Store) AppendField(fm FieldMetadata) {
	s.Fields = append(s.Fields, fm)
}

// GetNumberOfFrames returns floor(len(Fields)/2).
func (s *Store) GetNumberOfFrames() int {
	return len(s.Fields) / 2
}

// GetFirstFieldNumber returns the 1-based field sequence number that is the
// first field of 1-based frame number frameNo, honouring IsFirstFieldFirst.
func (s *Store) GetFirstFieldNumber(frameNo int) int {
	if s.IsFirstFieldFirst {
		return 2*frameNo - 1
	}
	return 2 * frameNo
}

// GetSecondFieldNumber returns the 1-based field sequence number that is the
// second field of 1-based frame number frameNo.
func (s *Store) GetSecondFieldNumber(frameNo int) int {
	if s.IsFirstFieldFirst {
		return 2 * frameNo
	}
	return 2*frameNo - 1
}

// ConvertClvTimecodeToFrameNumber converts a CLV (minutes, seconds) programme
// timecode plus a frame-within-second index to an absolute CAV-equivalent
// frame number, assuming the standard frame rate for the store's system.
func (s *Store) ConvertClvTimecodeToFrameNumber(minutes, seconds, framesWithinSecond int) int {
	fps := 25
	if s.Params.System == SystemNTSC {
		fps = 30 // CLV timecodes on NTSC discs are nominally 30fps (29.97 drop-frame not modelled here).
	}
	totalSeconds := minutes*60 + seconds
	return totalSeconds*fps + framesWithinSecond + 1
}
