package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var errDetectorIDType = errors.New("detector_id must be a string or a number")

// IngestRequest is the telemetry payload posted by a detector over HTTP or MQTT.
// Status is accepted for compatibility with older firmware and ignored.
type IngestRequest struct {
	DetectorID  string   `json:"detector_id"`
	PPM         *int     `json:"ppm"`
	Battery     *int     `json:"battery,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// UnmarshalJSON accepts numeric detector ids from older firmware and a status
// of any JSON type, so neither field can reject an otherwise valid reading.
func (r *IngestRequest) UnmarshalJSON(data []byte) error {
	type plain IngestRequest
	aux := struct {
		*plain
		DetectorID json.RawMessage `json:"detector_id"`
		Status     json.RawMessage `json:"status"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := detectorIDFromJSON(aux.DetectorID)
	if err != nil {
		return err
	}
	r.DetectorID = id
	r.Status = statusFromJSON(aux.Status)
	return nil
}

func detectorIDFromJSON(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", errDetectorIDType
	}
	return n.String(), nil
}

func statusFromJSON(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
