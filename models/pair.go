package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func marshalPair(name string, score int) ([]byte, error) {
	return json.Marshal([]interface{}{name, score})
}

func unmarshalPair(data []byte, h *Highscore) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Player string `json:"player"`
			Score  int    `json:"score"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		h.Player, h.Score = obj.Player, obj.Score
		return nil
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("highscore needs [name, score], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &h.Player); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &h.Score)
}
