package topology

import "fmt"

// Direction is one of the four cardinal directions of the mesh.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in rendering order.
var Directions = [4]Direction{North, East, South, West}

// String returns the direction name used in JSON and in element ids.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Opposite returns the direction facing d.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		panic(InvalidDirection(d))
	}
}

// Step returns the row and column deltas of one hop towards d.
func (d Direction) Step() (dRow, dCol int) {
	switch d {
	case North:
		return -1, 0
	case East:
		return 0, 1
	case South:
		return 1, 0
	case West:
		return 0, -1
	default:
		panic(InvalidDirection(d))
	}
}

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool { return d <= West }

// InvalidDirection is the panic value used when a switch meets a direction
// outside the closed set.
type InvalidDirection Direction

func (d InvalidDirection) Error() string {
	return fmt.Sprintf("invalid direction %d", uint8(d))
}

// ParseDirection parses a direction name.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "North":
		return North, nil
	case "East":
		return East, nil
	case "South":
		return South, nil
	case "West":
		return West, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler so directions can key JSON objects.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, InvalidDirection(d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
