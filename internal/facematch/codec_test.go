package facematch

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	fs := FeatureSet{
		0:  face(Point{1, 2}, Point{3.5, 4.25}),
		11: face(Point{640, 480}),
	}

	text, err := Encode(fs)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(text, `"face_11"`) || !strings.Contains(text, `"point_1"`) {
		t.Errorf("expected prefixed keys in %s", text)
	}

	got, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, fs) {
		t.Errorf("Decode(Encode(fs)) = %v, want %v", got, fs)
	}
}

func TestEncode_Nil(t *testing.T) {
	text, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode(nil) error = %v", err)
	}
	if text != "{}" {
		t.Errorf("Encode(nil) = %s, want {}", text)
	}
}

func TestDecode_ReferenceFormat(t *testing.T) {
	// Shape written by the original capture tool.
	text := `{"face_0": {"point_0": {"x": 120, "y": 88}, "point_67": {"x": 151, "y": 190}}}`

	fs, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := fs[0][67]; got != (Point{151, 190}) {
		t.Errorf("fs[0][67] = %v, want {151 190}", got)
	}
}

func TestDecode_BareKeys(t *testing.T) {
	fs, err := Decode(`{"2": {"5": {"x": 1, "y": 1}}}`)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, ok := fs[2][5]; !ok {
		t.Errorf("expected slot 2 landmark 5, got %v", fs)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", `face`},
		{"bad face key", `{"face_x": {}}`},
		{"negative point", `{"face_0": {"point_-1": {"x": 1, "y": 1}}}`},
		{"wrong shape", `{"face_0": [1, 2]}`},
		{"signed face key", `{"+0": {}}`},
		{"empty index", `{"face_": {}}`},
		{"duplicate slot", `{"face_0": {"point_0": {"x": 1, "y": 1}}, "0": {"point_0": {"x": 9, "y": 9}}}`},
		{"duplicate slot leading zero", `{"1": {}, "01": {}}`},
		{"duplicate point", `{"face_0": {"point_3": {"x": 1, "y": 1}, "3": {"x": 2, "y": 2}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.text); err == nil {
				t.Errorf("Decode(%s) expected error", tt.text)
			}
		})
	}
}

func TestFeatureSet_InsideStruct(t *testing.T) {
	type payload struct {
		Features FeatureSet `json:"features"`
	}
	var p payload
	if err := json.Unmarshal([]byte(`{"features": {"face_0": {"point_3": {"x": 9, "y": 8}}}}`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.Features[0][3] != (Point{9, 8}) {
		t.Errorf("unexpected features %v", p.Features)
	}
}

func TestFeatureSet_SlotsAndClone(t *testing.T) {
	fs := FeatureSet{3: face(Point{1, 1}), 0: face(Point{2, 2}), 1: face()}
	if got := fs.Slots(); !reflect.DeepEqual(got, []int{0, 1, 3}) {
		t.Errorf("Slots() = %v", got)
	}

	clone := fs.Clone()
	clone[0][0] = Point{99, 99}
	if fs[0][0] == (Point{99, 99}) {
		t.Error("Clone() must not share landmark maps")
	}
}
