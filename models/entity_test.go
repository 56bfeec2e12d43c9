package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestDirectionBetween(t *testing.T) {
	for _, tc := range []struct {
		from, to Position
		want     Direction
	}{
		{Pos(4, 4), Pos(4, 3), North},
		{Pos(4, 4), Pos(5, 4), East},
		{Pos(4, 4), Pos(4, 5), South},
		{Pos(4, 4), Pos(3, 4), West},
		// horizontal wins on diagonal jumps (respawn teleports)
		{Pos(4, 4), Pos(1, 1), West},
		{Pos(1, 1), Pos(8, 9), East},
	} {
		got, err := DirectionBetween(tc.from, tc.to)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%v -> %v", tc.from, tc.to)
	}

	_, err := DirectionBetween(Pos(2, 2), Pos(2, 2))
	assert.True(t, errors.Is(err, ErrSamePosition))
}

func TestDirectionAdd(t *testing.T) {
	p := Pos(4, 4)
	assert.Equal(t, Pos(4, 3), p.Add(North))
	assert.Equal(t, Pos(4, 5), p.Add(South))
	assert.Equal(t, Pos(3, 4), p.Add(West))
	assert.Equal(t, Pos(5, 4), p.Add(East))
	assert.Equal(t, West, North.Rotate(3))
	assert.Equal(t, North, West.Rotate(1))
	assert.Equal(t, South, South.Rotate(4))
}

func TestPositionEncoding(t *testing.T) {
	data, err := json.Marshal(Pos(3, 7))
	require.NoError(t, err)
	assert.JSONEq(t, `[3, 7]`, string(data))

	var p Position
	require.NoError(t, json.Unmarshal([]byte(`[9, 2]`), &p))
	assert.Equal(t, Pos(9, 2), p)

	var list []Position
	require.NoError(t, yaml.Unmarshal([]byte("- [1, 2]\n- [3, 4]\n"), &list))
	assert.Equal(t, []Position{Pos(1, 2), Pos(3, 4)}, list)

	assert.Error(t, yaml.Unmarshal([]byte("- [1, 2, 3]\n"), &list))
}

func TestHighscoreEncoding(t *testing.T) {
	data, err := json.Marshal([]Highscore{{Player: "ana", Score: 3300}})
	require.NoError(t, err)
	assert.JSONEq(t, `[["ana", 3300]]`, string(data))

	var scores []Highscore
	require.NoError(t, json.Unmarshal([]byte(`[["bob", 10], {"player": "eve", "score": 20}]`), &scores))
	assert.Equal(t, []Highscore{{"bob", 10}, {"eve", 20}}, scores)
}
