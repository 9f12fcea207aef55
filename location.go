package tileedit

import (
	"fmt"
	"strconv"
	"strings"
)

// Location is a single tile on the grid.
type Location struct {
	X int
	Y int
	Z int
}

// Loc is shorthand for Location{x, y, z}
func Loc(x, y, z int) Location {
	return Location{X: x, Y: y, Z: z}
}

func (l Location) String() string {
	return fmt.Sprintf("%d,%d,%d", l.X, l.Y, l.Z)
}

// Offset returns l moved by (dx,dy) on the same z-level.
func (l Location) Offset(dx, dy int) Location {
	return Location{X: l.X + dx, Y: l.Y + dy, Z: l.Z}
}

// Adjacent returns if o is one of the four orthogonal neighbours of l.
func (l Location) Adjacent(o Location) bool {
	if l.Z != o.Z {
		return false
	}
	dx := abs(l.X - o.X)
	dy := abs(l.Y - o.Y)
	return dx+dy == 1
}

// Step returns the neighbouring location in the given direction.
// North is +y, east is +x.
func (l Location) Step(d Direction) Location {
	switch d {
	case North:
		return l.Offset(0, 1)
	case South:
		return l.Offset(0, -1)
	case East:
		return l.Offset(1, 0)
	case West:
		return l.Offset(-1, 0)
	}
	return l
}

// attachStep is Step with east & west swapped. Attachment rules are
// authored against a mirrored view of the map.
func (l Location) attachStep(d Direction) Location {
	switch d {
	case East:
		return l.Offset(-1, 0)
	case West:
		return l.Offset(1, 0)
	}
	return l.Step(d)
}

// relKey renders the x,y part of a location as used in prefab files.
func (l Location) relKey() string {
	return fmt.Sprintf("%d,%d", l.X, l.Y)
}

// parseRelKey reads "x,y" into a location on z-level 0
func parseRelKey(in string) (Location, error) {
	parts := strings.Split(in, ",")
	if len(parts) != 2 {
		return Location{}, fmt.Errorf("invalid tile position %q", in)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Location{}, fmt.Errorf("invalid tile position %q: %w", in, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Location{}, fmt.Errorf("invalid tile position %q: %w", in, err)
	}
	return Location{X: x, Y: y}, nil
}

// Direction is a compass direction, valued as the usual dir bit flags
// so that sets of directions can be or'd together.
type Direction int

const (
	North Direction = 1
	South Direction = 2
	East  Direction = 4
	West  Direction = 8
)

// Cardinals lists directions in the order rules are applied.
var Cardinals = []Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	}
	return strconv.Itoa(int(d))
}

// ParseDirection reads one of N, S, E, W (case insensitive).
func ParseDirection(in string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(in)) {
	case "N", "NORTH":
		return North, true
	case "S", "SOUTH":
		return South, true
	case "E", "EAST":
		return East, true
	case "W", "WEST":
		return West, true
	}
	return 0, false
}

// Bounds is an inclusive box of locations.
type Bounds struct {
	Min Location
	Max Location
}

// Contains returns if l lies inside the bounds.
func (b Bounds) Contains(l Location) bool {
	return l.X >= b.Min.X && l.X <= b.Max.X &&
		l.Y >= b.Min.Y && l.Y <= b.Max.Y &&
		l.Z >= b.Min.Z && l.Z <= b.Max.Z
}

// rect returns the corners of the rectangle spanned by a & b on a's z-level.
func rect(a, b Location) (Location, Location) {
	lo := Location{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: a.Z}
	hi := Location{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: a.Z}
	return lo, hi
}

// eachInRect calls fn for every location in the rectangle, rows low -> high.
func eachInRect(lo, hi Location, fn func(Location)) {
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			fn(Location{X: x, Y: y, Z: lo.Z})
		}
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
