package yuketang

import "encoding/json"

// Upstream list responses arrive in one of several envelope shapes. Each
// strategy attempts one shape; the first structural match wins and the rest
// are not tried. An unknown shape yields an empty list rather than an error.
type listStrategy struct {
	name    string
	extract func(payload []byte, key string) ([]json.RawMessage, bool)
}

var listStrategies = []listStrategy{
	{name: "data.list", extract: extractDataList},
	{name: "keyed", extract: extractKeyed},
	{name: "data", extract: extractBareData},
}

// UnwrapList extracts the item array from a list response. key names the
// endpoint-specific collection field tried by the second strategy
// ("courses", "homeworks").
func UnwrapList(payload []byte, key string) []json.RawMessage {
	for _, s := range listStrategies {
		if items, ok := s.extract(payload, key); ok {
			return items
		}
	}
	return nil
}

func extractDataList(payload []byte, _ string) ([]json.RawMessage, bool) {
	var envelope struct {
		Data struct {
			List []json.RawMessage `json:"list"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, false
	}
	if envelope.Data.List == nil {
		return nil, false
	}
	return envelope.Data.List, true
}

func extractKeyed(payload []byte, key string) ([]json.RawMessage, bool) {
	if key == "" {
		return nil, false
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, false
	}
	raw, ok := envelope[key]
	if !ok {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func extractBareData(payload []byte, _ string) ([]json.RawMessage, bool) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(envelope.Data, &items); err != nil {
		return nil, false
	}
	return items, true
}

// UnwrapObject extracts the data object from a single-record response
// (user info).
func UnwrapObject(payload []byte) (json.RawMessage, bool) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, false
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, false
	}
	return envelope.Data, true
}
