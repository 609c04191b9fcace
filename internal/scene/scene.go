// Package scene caches the state of animated objects: where they are, which
// way they face, their color and transparency. Every tick mutation goes
// through an Object so exports and captures can read back the result.
package scene

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Scene owns a set of objects and the counter their IDs come from.
type Scene struct {
	objects []*Object
	byName  map[string]*Object
	counter int
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{byName: make(map[string]*Object)}
}

// Add creates an object at origin facing +z. The object's name is base
// followed by its zero-padded ID, e.g. "ball.00000001".
func (s *Scene) Add(base string, origin mgl64.Vec3) *Object {
	s.counter++
	o := &Object{
		ID:          s.counter,
		Name:        fmt.Sprintf("%s.%08d", base, s.counter),
		Origin:      origin,
		Normal:      mgl64.Vec3{0, 0, 1},
		Orientation: mgl64.QuatIdent(),
		Color:       colorful.Color{R: 1, G: 1, B: 1},
		Alpha:       1,
		Radius:      0.5,
	}
	s.objects = append(s.objects, o)
	s.byName[o.Name] = o
	return o
}

// Get looks up an object by its full name.
func (s *Scene) Get(name string) (*Object, bool) {
	o, ok := s.byName[name]
	return o, ok
}

// Remove deletes the named object. It reports whether it was present.
func (s *Scene) Remove(name string) bool {
	o, ok := s.byName[name]
	if !ok {
		return false
	}
	delete(s.byName, name)
	for i, cand := range s.objects {
		if cand == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}
	return true
}

// Objects returns the scene's objects ordered by ID.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the number of objects.
func (s *Scene) Len() int { return len(s.objects) }

// Bounds returns the axis-aligned box around every object's origin, padded
// by its radius. An empty scene has zero bounds.
func (s *Scene) Bounds() (lo, hi mgl64.Vec3) {
	for i, o := range s.objects {
		r := mgl64.Vec3{o.Radius, o.Radius, o.Radius}
		a, b := o.Origin.Sub(r), o.Origin.Add(r)
		if i == 0 {
			lo, hi = a, b
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], a[k])
			hi[k] = max(hi[k], b[k])
		}
	}
	return lo, hi
}
