// Package builder creates the primitives of the annotated sphere asset:
// a translucent UV sphere, an inverted-normal outline shell, and torus hoops
// aligned to coordinate axes. Pure mesh generation lives in geometry.go;
// functions here mutate the scene and stamp shape tags at creation time.
package builder

import (
	"fmt"

	"github.com/unixpickle/model3d/model3d"

	"shapeset/internal/scene"
)

// Axis names a world coordinate axis for hoop orientation.
type Axis string

const (
	AxisX Axis = "X"
	AxisY Axis = "Y"
	AxisZ Axis = "Z"
)

// Shape tags stamped on objects at creation. The label writer reads these
// back from the scene; nothing re-types them downstream.
const (
	TagSphereCore    = "sphere_core"
	TagSphereOutline = "sphere_outline"
)

// SphereName is the name of the core sphere object.
const SphereName = "core_sphere"

// Hoop tessellation, matching the asset's visual density. Not part of the
// configuration surface.
const (
	hoopMajorSegments = 96
	hoopMinorSegments = 16
)

// HoopTag returns the shape tag (and object name) for a hoop on the given axis.
func HoopTag(axis Axis) string {
	return "hoop_" + string(axis)
}

// Sphere creates the core UV sphere centered at the origin. segments controls
// both latitude and longitude subdivisions. The material is bound by the
// caller; the shape tag is stamped here.
func Sphere(sc *scene.Scene, radius float64, segments int) (*scene.Object, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("builder: sphere radius must be positive, got %v", radius)
	}
	if segments < 3 {
		return nil, fmt.Errorf("builder: sphere needs at least 3 segments, got %d", segments)
	}
	mesh := SphereMesh(radius, segments)
	obj, err := sc.Add(SphereName, mesh)
	if err != nil {
		return nil, err
	}
	sc.RegisterMesh(SphereName, mesh)
	obj.SetTag(scene.ShapeTagKey, TagSphereCore)
	return obj, nil
}

// Outline duplicates the source geometry, scales the duplicate up uniformly
// by (1+thickness), and flips every face so the shell renders as a dark rim
// visible through the translucent parent. The outline is parented to its
// source so export treats the pair as one logical asset. The source must be
// mesh-backed.
func Outline(sc *scene.Scene, source *scene.Object, thickness float64) (*scene.Object, error) {
	if source == nil || !source.HasMesh() {
		return nil, fmt.Errorf("builder: outline source has no mesh data")
	}
	mesh := FlippedCopy(source.Mesh)
	name := source.Name + "_outline"
	obj, err := sc.Add(name, mesh)
	if err != nil {
		return nil, err
	}
	sc.RegisterMesh(name, mesh)
	s := OutlineScale(thickness)
	obj.Transform.Scale = model3d.XYZ(s, s, s)
	obj.Parent = source
	obj.SetMaterial(scene.NewMaterial("outline_black", scene.RGBA{A: 1}, false))
	obj.SetTag(scene.ShapeTagKey, TagSphereOutline)
	return obj, nil
}

// Hoop creates a torus with the given major radius and tube thickness,
// oriented so its plane is perpendicular to the named axis. The torus is
// generated in the XY plane (plane normal Z); axis X and Y are reached by a
// 90-degree rotation about the orthogonal axis, exactly as eulers in radians.
func Hoop(sc *scene.Scene, radius, thickness float64, axis Axis) (*scene.Object, error) {
	if radius <= 0 || thickness <= 0 {
		return nil, fmt.Errorf("builder: hoop radius and thickness must be positive, got %v, %v", radius, thickness)
	}
	switch axis {
	case AxisX, AxisY, AxisZ:
	default:
		return nil, fmt.Errorf("builder: unknown hoop axis %q", axis)
	}
	name := HoopTag(axis)
	mesh := TorusMesh(radius, thickness, hoopMajorSegments, hoopMinorSegments)
	obj, err := sc.Add(name, mesh)
	if err != nil {
		return nil, err
	}
	sc.RegisterMesh(name, mesh)
	switch axis {
	case AxisX:
		obj.Transform.Rotation = scene.Euler{Y: halfPi}
	case AxisY:
		obj.Transform.Rotation = scene.Euler{X: halfPi}
	}
	obj.SetMaterial(scene.NewMaterial("hoop_black", scene.RGBA{A: 1}, false))
	obj.SetTag(scene.ShapeTagKey, name)
	return obj, nil
}

// Params are the asset parameters, mirroring the configuration surface.
type Params struct {
	Radius           float64
	Segments         int
	Opacity          float64
	OutlineThickness float64
	HoopThickness    float64
}

// Asset builds the complete annotated asset: core sphere, outline shell, and
// equator (Z) plus meridian (X) hoops, with hoops parented to the sphere.
// Objects are returned in build order, the order the label file uses.
func Asset(sc *scene.Scene, p Params) ([]*scene.Object, error) {
	sphere, err := Sphere(sc, p.Radius, p.Segments)
	if err != nil {
		return nil, err
	}
	sphere.SetMaterial(scene.NewMaterial(
		"sphere_transparent",
		scene.RGBA{R: 1, G: 1, B: 1, A: p.Opacity},
		true,
	))

	outline, err := Outline(sc, sphere, p.OutlineThickness)
	if err != nil {
		return nil, err
	}

	hoopZ, err := Hoop(sc, p.Radius, p.HoopThickness, AxisZ)
	if err != nil {
		return nil, err
	}
	hoopX, err := Hoop(sc, p.Radius, p.HoopThickness, AxisX)
	if err != nil {
		return nil, err
	}
	hoopZ.Parent = sphere
	hoopX.Parent = sphere

	return []*scene.Object{sphere, outline, hoopZ, hoopX}, nil
}
