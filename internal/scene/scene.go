// Package scene holds the in-memory scene aggregate: named mesh objects with
// transforms, materials and annotations, plus the camera and light used by the
// render rig. The scene is owned by the pipeline and passed by reference
// through every stage; no stage touches global state.
package scene

import (
	"fmt"

	"github.com/unixpickle/model3d/model3d"
)

// ShapeTagKey is the annotation key carrying an object's semantic role
// (e.g. "sphere_core"). The label writer reads this key, never literals.
const ShapeTagKey = "shape_tag"

// Scene is the single mutable aggregate of a run. All mutation happens on one
// goroutine; the renderer only reads it while producing a still.
type Scene struct {
	objects []*Object
	byName  map[string]*Object
	meshes  map[string]*model3d.Mesh

	// Camera and Light are singletons of the render rig, ensured by name so
	// repeated runs reuse them instead of duplicating.
	Camera *Camera
	Light  *Light
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		byName: make(map[string]*Object),
		meshes: make(map[string]*model3d.Mesh),
	}
}

// Add creates a mesh-backed object with the given unique name and an identity
// transform. Name collisions are a precondition failure.
func (s *Scene) Add(name string, mesh *model3d.Mesh) (*Object, error) {
	if name == "" {
		return nil, fmt.Errorf("scene: object name must not be empty")
	}
	if _, ok := s.byName[name]; ok {
		return nil, fmt.Errorf("scene: object %q already exists", name)
	}
	o := &Object{
		Name:      name,
		Transform: IdentityTransform(),
		Mesh:      mesh,
		tags:      make(map[string]string),
	}
	s.objects = append(s.objects, o)
	s.byName[name] = o
	return o, nil
}

// Lookup returns the object with the given name, if present.
func (s *Scene) Lookup(name string) (*Object, bool) {
	o, ok := s.byName[name]
	return o, ok
}

// Objects returns the objects in creation order. The slice is a copy; the
// objects are shared.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Len returns the number of objects in the scene.
func (s *Scene) Len() int { return len(s.objects) }

// RegisterMesh tracks a mesh data block by name so Reset can purge it once no
// object references it anymore.
func (s *Scene) RegisterMesh(name string, m *model3d.Mesh) {
	s.meshes[name] = m
}

// MeshCount returns the number of registered mesh data blocks.
func (s *Scene) MeshCount() int { return len(s.meshes) }

// Reset removes every object (camera and light included) and purges registered
// mesh data blocks with zero remaining references. Running it on an empty
// scene is a no-op.
func (s *Scene) Reset() {
	s.objects = nil
	s.byName = make(map[string]*Object)
	s.Camera = nil
	s.Light = nil

	for name, m := range s.meshes {
		if s.meshUsers(m) == 0 {
			delete(s.meshes, name)
		}
	}
}

func (s *Scene) meshUsers(m *model3d.Mesh) int {
	n := 0
	for _, o := range s.objects {
		if o.Mesh == m {
			n++
		}
	}
	return n
}

// EnsureCamera returns the scene camera, creating it with the given placement
// when absent. An existing camera with the same name is reused untouched.
func (s *Scene) EnsureCamera(name string, position, target model3d.Coord3D, fov float64) *Camera {
	if s.Camera != nil && s.Camera.Name == name {
		return s.Camera
	}
	s.Camera = &Camera{Name: name, Position: position, Target: target, FOV: fov}
	return s.Camera
}

// EnsureLight returns the scene light, creating it at the given position when
// absent. An existing light with the same name is reused, but its energy is
// updated to the requested level.
func (s *Scene) EnsureLight(name string, position model3d.Coord3D, energy float64) *Light {
	if s.Light != nil && s.Light.Name == name {
		s.Light.Energy = energy
		return s.Light
	}
	s.Light = &Light{Name: name, Position: position, Energy: energy}
	return s.Light
}

// RotateAll applies a world-space rotation about the origin to every
// non-camera entity: each root object's orbit takes the delta, and the light
// position rotates with the asset. Children follow their parents. The euler
// components compose only from rest state; the render rig always restores the
// saved snapshot between views.
func (s *Scene) RotateAll(e Euler) {
	for _, o := range s.objects {
		if o.Parent != nil {
			continue
		}
		o.Transform.Orbit.X += e.X
		o.Transform.Orbit.Y += e.Y
		o.Transform.Orbit.Z += e.Z
	}
	if s.Light != nil {
		s.Light.Position = e.Apply(s.Light.Position)
	}
}

// TransformSnapshot captures the transform of every object plus the light
// position, so a view render can restore state directly instead of replaying
// negated rotations.
type TransformSnapshot struct {
	transforms map[string]Transform
	light      model3d.Coord3D
	hasLight   bool
}

// SaveTransforms snapshots all object transforms and the light position.
func (s *Scene) SaveTransforms() TransformSnapshot {
	snap := TransformSnapshot{transforms: make(map[string]Transform, len(s.objects))}
	for _, o := range s.objects {
		snap.transforms[o.Name] = o.Transform
	}
	if s.Light != nil {
		snap.light = s.Light.Position
		snap.hasLight = true
	}
	return snap
}

// RestoreTransforms puts every snapshotted object transform and the light
// position back exactly as saved. Objects created after the snapshot keep
// their current transform.
func (s *Scene) RestoreTransforms(snap TransformSnapshot) {
	for _, o := range s.objects {
		if t, ok := snap.transforms[o.Name]; ok {
			o.Transform = t
		}
	}
	if snap.hasLight && s.Light != nil {
		s.Light.Position = snap.light
	}
}

// Camera is the render viewpoint: a position looking at a target with a
// vertical field of view in radians.
type Camera struct {
	Name     string
	Position model3d.Coord3D
	Target   model3d.Coord3D
	FOV      float64
}

// Light is a single point-style light with a wattage-like energy level.
type Light struct {
	Name     string
	Position model3d.Coord3D
	Energy   float64
}
