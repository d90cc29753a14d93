package facematch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Stored text keys, e.g. {"face_0": {"point_0": {"x": 10, "y": 20}}}.
const (
	facePrefix  = "face_"
	pointPrefix = "point_"
)

// MarshalJSON encodes the set with "face_N" / "point_N" string keys.
func (fs FeatureSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]Point, len(fs))
	for slot, lm := range fs {
		points := make(map[string]Point, len(lm))
		for idx, p := range lm {
			points[pointPrefix+strconv.Itoa(idx)] = p
		}
		out[facePrefix+strconv.Itoa(slot)] = points
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both prefixed ("face_3") and bare ("3") keys. Two keys
// naming the same slot or point are rejected.
func (fs *FeatureSet) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]Point
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding feature set: %w", err)
	}

	out := make(FeatureSet, len(raw))
	for faceKey, points := range raw {
		slot, err := parseKey(faceKey, facePrefix)
		if err != nil {
			return err
		}
		if _, dup := out[slot]; dup {
			return fmt.Errorf("duplicate face slot %d", slot)
		}
		lm := make(Landmarks, len(points))
		for pointKey, p := range points {
			idx, err := parseKey(pointKey, pointPrefix)
			if err != nil {
				return err
			}
			if _, dup := lm[idx]; dup {
				return fmt.Errorf("duplicate point %d in face slot %d", idx, slot)
			}
			lm[idx] = p
		}
		out[slot] = lm
	}
	*fs = out
	return nil
}

// parseKey reads an unsigned decimal index, with or without prefix.
func parseKey(key, prefix string) (int, error) {
	digits := strings.TrimPrefix(key, prefix)
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, fmt.Errorf("invalid feature key %q", key)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid feature key %q", key)
	}
	return n, nil
}

// Encode returns the structured text form persisted in the identity table.
func Encode(fs FeatureSet) (string, error) {
	if fs == nil {
		fs = FeatureSet{}
	}
	b, err := json.Marshal(fs)
	if err != nil {
		return "", fmt.Errorf("encoding feature set: %w", err)
	}
	return string(b), nil
}

// Decode parses the persisted text form.
func Decode(s string) (FeatureSet, error) {
	var fs FeatureSet
	if err := json.Unmarshal([]byte(s), &fs); err != nil {
		return nil, err
	}
	return fs, nil
}
