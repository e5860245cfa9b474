package scene

import (
	"github.com/unixpickle/model3d/model3d"
)

// Euler is a rotation as three angles in radians, applied in X, then Y, then
// Z order.
type Euler struct {
	X, Y, Z float64
}

// Apply rotates a coordinate by the euler angles in X, Y, Z order.
func (e Euler) Apply(c model3d.Coord3D) model3d.Coord3D {
	if e.X != 0 {
		c = model3d.Rotation(model3d.X(1), e.X).Apply(c)
	}
	if e.Y != 0 {
		c = model3d.Rotation(model3d.Y(1), e.Y).Apply(c)
	}
	if e.Z != 0 {
		c = model3d.Rotation(model3d.Z(1), e.Z).Apply(c)
	}
	return c
}

// IsZero reports whether all three angles are zero.
func (e Euler) IsZero() bool { return e == Euler{} }

// Transform is an object's placement: local scale, local rotation and
// position, plus an orbit rotation about the world origin applied last. The
// orbit is what the render rig uses to spin the whole asset for a view.
type Transform struct {
	Position model3d.Coord3D
	Rotation Euler
	Scale    model3d.Coord3D
	Orbit    Euler
}

// IdentityTransform returns a transform that leaves coordinates unchanged.
func IdentityTransform() Transform {
	return Transform{Scale: model3d.XYZ(1, 1, 1)}
}

// Apply maps a local mesh coordinate into the parent's space: scale, rotate,
// translate, then orbit about the world origin.
func (t Transform) Apply(c model3d.Coord3D) model3d.Coord3D {
	c = c.Mul(t.Scale)
	c = t.Rotation.Apply(c)
	c = c.Add(t.Position)
	c = t.Orbit.Apply(c)
	return c
}

// BlendMode selects how a material's alpha is treated when compositing.
type BlendMode int

const (
	// BlendOpaque ignores alpha; the surface fully occludes what is behind it.
	BlendOpaque BlendMode = iota
	// BlendAlpha composites the surface over what is behind it using alpha.
	BlendAlpha
)

// RGBA is a base color with straight (non-premultiplied) alpha in [0, 1].
// Alpha drives opacity directly: 0 invisible, 1 opaque.
type RGBA struct {
	R, G, B, A float64
}

// Material is a reusable appearance definition shared by reference across
// objects that need the same look.
type Material struct {
	Name  string
	Color RGBA
	Blend BlendMode
	// TransparentBack keeps back-facing surfaces visible through the front
	// ones so nested translucent and opaque shells composite from any angle.
	TransparentBack bool
}

// NewMaterial creates a material. When transparent is true the blend mode is
// alpha-blended with back-face transparency enabled; otherwise the material is
// opaque regardless of the color's alpha channel.
func NewMaterial(name string, color RGBA, transparent bool) *Material {
	m := &Material{Name: name, Color: color}
	if transparent {
		m.Blend = BlendAlpha
		m.TransparentBack = true
	}
	return m
}

// Opacity returns the effective alpha used when compositing.
func (m *Material) Opacity() float64 {
	if m.Blend == BlendOpaque {
		return 1
	}
	return m.Color.A
}

// Object is a named mesh entity: a transform, a mesh reference, material
// slots, an optional parent for grouping, and free-form string annotations.
type Object struct {
	Name      string
	Transform Transform
	Mesh      *model3d.Mesh
	Materials []*Material
	Parent    *Object

	tags map[string]string
}

// HasMesh reports whether the object is mesh-backed.
func (o *Object) HasMesh() bool { return o.Mesh != nil }

// SetMaterial binds a material into slot 0, replacing any existing slot-0
// material or appending when no slot exists.
func (o *Object) SetMaterial(m *Material) {
	if len(o.Materials) > 0 {
		o.Materials[0] = m
		return
	}
	o.Materials = append(o.Materials, m)
}

// Material returns the slot-0 material, or nil when no slot is bound.
func (o *Object) Material() *Material {
	if len(o.Materials) == 0 {
		return nil
	}
	return o.Materials[0]
}

// SetTag attaches a string annotation under the given key.
func (o *Object) SetTag(key, value string) {
	o.tags[key] = value
}

// Tag returns the annotation stored under key, if present.
func (o *Object) Tag(key string) (string, bool) {
	v, ok := o.tags[key]
	return v, ok
}

// WorldApply maps a local mesh coordinate to world space through the full
// parent chain.
func (o *Object) WorldApply(c model3d.Coord3D) model3d.Coord3D {
	c = o.Transform.Apply(c)
	for p := o.Parent; p != nil; p = p.Parent {
		c = p.Transform.Apply(c)
	}
	return c
}

// WorldMesh bakes the object's mesh into world space. The object's own mesh
// is left untouched. Returns nil when the object is not mesh-backed.
func (o *Object) WorldMesh() *model3d.Mesh {
	if o.Mesh == nil {
		return nil
	}
	return o.Mesh.MapCoords(o.WorldApply)
}
