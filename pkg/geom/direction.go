package geom

import (
	"fmt"
	"math"
	"strings"
)

// Direction is a compass direction in screen space: north is -Y.
type Direction int

const (
	// DirUnknown marks a door whose direction metadata could not be parsed.
	DirUnknown Direction = iota - 1
	North
	East
	South
	West
)

var dirNames = [...]string{"n", "e", "s", "w"}

// ParseDirection accepts "n", "north", "e", "east", ... in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, nil
	case "e", "east":
		return East, nil
	case "s", "south":
		return South, nil
	case "w", "west":
		return West, nil
	}
	return DirUnknown, fmt.Errorf("unknown direction %q", s)
}

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool { return d >= North && d <= West }

// Vec returns the unit vector pointing in direction d, or the zero vector.
func (d Direction) Vec() Vec {
	switch d {
	case North:
		return Vec{0, -1}
	case East:
		return Vec{1, 0}
	case South:
		return Vec{0, 1}
	case West:
		return Vec{-1, 0}
	}
	return Vec{}
}

// Opposite returns the reverse direction. DirUnknown stays unknown.
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return DirUnknown
	}
	return (d + 2) % 4
}

// Transform maps d through the linear part of m and snaps the result to
// the nearest compass direction.
func (d Direction) Transform(m Mat) Direction {
	if !d.Valid() {
		return DirUnknown
	}
	return DirectionOf(m.ApplyLinear(d.Vec()))
}

// DirectionOf snaps v to the nearest compass direction.
func DirectionOf(v Vec) Direction {
	if v.X == 0 && v.Y == 0 {
		return DirUnknown
	}
	if math.Abs(v.X) >= math.Abs(v.Y) {
		if v.X > 0 {
			return East
		}
		return West
	}
	if v.Y > 0 {
		return South
	}
	return North
}

func (d Direction) String() string {
	if !d.Valid() {
		return "?"
	}
	return dirNames[d]
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. "?" decodes to DirUnknown.
func (d *Direction) UnmarshalText(b []byte) error {
	if string(b) == "?" || len(b) == 0 {
		*d = DirUnknown
		return nil
	}
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
