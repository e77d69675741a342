/*
NAME
  store_test.go

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package metadata

import "testing"

func TestFieldNumberMappingHonoursIsFirstFieldFirst(t *testing.T) {
	s := &Store{IsFirstFieldFirst: true}
	if n := s.GetFirstFieldNumber(3); n != 5 {
		t.Errorf("GetFirstFieldNumber(3) = %d, want 5", n)
	}
	if n := s.GetSecondFieldNumber(3); n != 6 {
		t.Errorf("GetSecondFieldNumber(3) = %d, want 6", n)
	}

	s.IsFirstFieldFirst = false
	if n := s.GetFirstFieldNumber(3); n != 6 {
		t.Errorf("GetFirstFieldNumber(3), second-field-first = %d, want 6", n)
	}
	if n := s.GetSecondFieldNumber(3); n != 5 {
		t.Errorf("GetSecondFieldNumber(3), second-field-first = %d, want 5", n)
	}
}

func TestGetNumberOfFrames(t *testing.T) {
	s := &Store{Fields: make([]FieldMetadata, 7)}
	if n := s.GetNumberOfFrames(); n != 3 {
		t.Errorf("GetNumberOfFrames() = %d, want 3", n)
	}
}

func TestGetFieldBoundsChecked(t *testing.T) {
	s := &Store{Fields: make([]FieldMetadata, 2)}
	if _, err := s.GetField(-1); err == nil {
		t.Errorf("GetField(-1) succeeded, want error")
	}
	if _, err := s.GetField(2); err == nil {
		t.Errorf("GetField(2) succeeded, want error")
	}
	f, err := s.GetField(0)
	if err != nil {
		t.Fatalf("GetField(0): %v", err)
	}
	f.SeqNo = 42
	if s.Fields[0].SeqNo != 42 {
		t.Errorf("GetField did not return a pointer into Fields")
	}
}

func TestAppendField(t *testing.T) {
	s := &Store{}
	s.AppendField(FieldMetadata{SeqNo: 1})
	s.AppendField(FieldMetadata{SeqNo: 2})
	if len(s.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(s.Fields))
	}
}

func TestConvertClvTimecodeToFrameNumber(t *testing.T) {
	s := &Store{Params: VideoParameters{System: SystemPAL}}
	if n := s.ConvertClvTimecodeToFrameNumber(1, 0, 0); n != 1501 {
		t.Errorf("ConvertClvTimecodeToFrameNumber(PAL, 1:00:0) = %d, want 1501", n)
	}

	s.Params.System = SystemNTSC
	if n := s.ConvertClvTimecodeToFrameNumber(1, 0, 0); n != 1801 {
		t.Errorf("ConvertClvTimecodeToFrameNumber(NTSC, 1:00:0) = %d, want 1801", n)
	}
}

func TestMarshalParseRoundTrip(t *testing.T) {
	s := &Store{
		SchemaVersion:     CurrentSchemaVersion,
		IsFirstFieldFirst: true,
		Params:            VideoParameters{System: SystemNTSC, FieldWidth: 910, FieldHeight: 263},
		Fields: []FieldMetadata{
			{SeqNo: 1, IsFirstField: true, FieldPhaseID: 1, Vbi16: 0x88FFFF, VbiInUse: true},
			{SeqNo: 2, IsFirstField: false, FieldPhaseID: 2, Pad: true},
		},
	}

	b, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got.Params.System != SystemNTSC || got.Params.FieldWidth != 910 {
		t.Errorf("Params = %+v, want System=NTSC FieldWidth=910", got.Params)
	}
	if len(got.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(got.Fields))
	}
	if got.Fields[0].Vbi16 != 0x88FFFF || !got.Fields[0].VbiInUse {
		t.Errorf("Fields[0] = %+v, want Vbi16=0x88FFFF VbiInUse=true", got.Fields[0])
	}
	if !got.Fields[1].Pad {
		t.Errorf("Fields[1].Pad = false, want true")
	}
}

func TestParseMissingSchemaVersionDefaultsToCurrent(t *testing.T) {
	s, err := Parse([]byte(`{"videoParameters":{"system":"PAL"},"fields":[]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", s.SchemaVersion, CurrentSchemaVersion)
	}
	if s.Params.System != SystemPAL {
		t.Errorf("System = %v, want SystemPAL", s.Params.System)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Errorf("Parse on invalid JSON succeeded, want error")
	}
}
