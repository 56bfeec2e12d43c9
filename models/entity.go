package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrSamePosition is returned when a facing direction is requested between two
// identical positions. Movement never produces that case, so seeing it means a
// caller has a bug.
var ErrSamePosition = errors.New("no direction between identical positions")

// Position is a cell coordinate on the map. It travels on the wire as [x, y].
type Position struct {
	X int
	Y int
}

// Pos is a shorthand constructor for Position
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Add returns the neighbouring position in the given direction
func (p Position) Add(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Dist returns the euclidean distance between two positions
func (p Position) Dist(o Position) float64 {
	return math.Hypot(float64(p.X-o.X), float64(p.Y-o.Y))
}

// In reports whether p is one of the given positions
func (p Position) In(positions []Position) bool {
	for _, o := range positions {
		if o == p {
			return true
		}
	}
	return false
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var xy [2]int
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

func (p Position) MarshalYAML() (interface{}, error) {
	return []int{p.X, p.Y}, nil
}

func (p *Position) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var xy []int
	if err := unmarshal(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("position needs 2 coordinates, got %d", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Direction is one of the four compass directions. The numeric values are part
// of the wire format.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in enumeration order. Candidate scans walk
// this order, so it also decides ties.
var Directions = []Direction{North, East, South, West}

// Delta returns the unit displacement for the direction
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case West:
		return -1, 0
	case East:
		return 1, 0
	}
	return 0, 0
}

// Rotate returns the direction n quarter turns clockwise
func (d Direction) Rotate(n int) Direction {
	return Direction(((int(d)+n)%4 + 4) % 4)
}

// Horizontal reports whether the direction is East or West
func (d Direction) Horizontal() bool {
	return d == East || d == West
}

func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case East:
		return "EAST"
	case South:
		return "SOUTH"
	case West:
		return "WEST"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// DirectionBetween returns the direction of travel from one position to
// another. Horizontal displacement takes precedence over vertical.
func DirectionBetween(from, to Position) (Direction, error) {
	switch {
	case to.X < from.X:
		return West, nil
	case to.X > from.X:
		return East, nil
	case to.Y < from.Y:
		return North, nil
	case to.Y > from.Y:
		return South, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrSamePosition, from)
}
