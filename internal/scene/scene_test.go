package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
)

func singleTriangle() *model3d.Mesh {
	m := model3d.NewMesh()
	m.Add(&model3d.Triangle{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(1, 0, 0),
		model3d.XYZ(0, 1, 0),
	})
	return m
}

func TestAddAndLookup(t *testing.T) {
	sc := New()
	obj, err := sc.Add("thing", singleTriangle())
	require.NoError(t, err)
	assert.Equal(t, "thing", obj.Name)
	assert.True(t, obj.HasMesh())

	got, ok := sc.Lookup("thing")
	require.True(t, ok)
	assert.Same(t, obj, got)
	assert.Equal(t, 1, sc.Len())
}

func TestAddRejectsCollisionsAndEmptyNames(t *testing.T) {
	sc := New()
	_, err := sc.Add("thing", nil)
	require.NoError(t, err)

	_, err = sc.Add("thing", nil)
	assert.Error(t, err)

	_, err = sc.Add("", nil)
	assert.Error(t, err)
}

func TestResetEmptySceneIsNoOp(t *testing.T) {
	sc := New()
	require.NotPanics(t, sc.Reset)
	assert.Equal(t, 0, sc.Len())
	require.NotPanics(t, sc.Reset)
	assert.Equal(t, 0, sc.Len())
}

func TestResetPurgesObjectsAndOrphanMeshes(t *testing.T) {
	sc := New()
	mesh := singleTriangle()
	_, err := sc.Add("thing", mesh)
	require.NoError(t, err)
	sc.RegisterMesh("thing", mesh)
	sc.EnsureCamera("Camera", model3d.Y(-4), model3d.Origin, math.Pi/4)
	sc.EnsureLight("Light", model3d.XYZ(0, -3, 3), 500)

	sc.Reset()
	assert.Equal(t, 0, sc.Len())
	assert.Equal(t, 0, sc.MeshCount())
	assert.Nil(t, sc.Camera)
	assert.Nil(t, sc.Light)
}

func TestEnsureCameraAndLightIdempotent(t *testing.T) {
	sc := New()
	cam := sc.EnsureCamera("Camera", model3d.Y(-4), model3d.Origin, math.Pi/4)
	light := sc.EnsureLight("Light", model3d.XYZ(0, -3, 3), 500)

	again := sc.EnsureCamera("Camera", model3d.Y(-10), model3d.Z(1), math.Pi/2)
	assert.Same(t, cam, again)
	assert.Equal(t, model3d.Y(-4), again.Position)

	lightAgain := sc.EnsureLight("Light", model3d.XYZ(9, 9, 9), 250)
	assert.Same(t, light, lightAgain)
	assert.Equal(t, model3d.XYZ(0, -3, 3), lightAgain.Position)
	assert.Equal(t, 250.0, lightAgain.Energy)
}

func TestEulerApplyOrder(t *testing.T) {
	// Rotating +X by 90 degrees about Z gives +Y.
	e := Euler{Z: math.Pi / 2}
	got := e.Apply(model3d.X(1))
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 1, got.Y, 1e-9)
	assert.InDelta(t, 0, got.Z, 1e-9)

	// X then Y order: +Z rotated 90 about X lands on -Y, unaffected by the
	// following Y rotation only if order is X-first.
	e = Euler{X: math.Pi / 2, Y: math.Pi / 2}
	got = e.Apply(model3d.Z(1))
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, -1, got.Y, 1e-9)
	assert.InDelta(t, 0, got.Z, 1e-9)
}

func TestTransformApplyOrder(t *testing.T) {
	tr := Transform{
		Position: model3d.X(10),
		Rotation: Euler{Z: math.Pi / 2},
		Scale:    model3d.XYZ(2, 2, 2),
	}
	// (1,0,0) scaled to (2,0,0), rotated to (0,2,0), translated to (10,2,0).
	got := tr.Apply(model3d.X(1))
	assert.InDelta(t, 10, got.X, 1e-9)
	assert.InDelta(t, 2, got.Y, 1e-9)
	assert.InDelta(t, 0, got.Z, 1e-9)
}

func TestOrbitRotatesAboutWorldOrigin(t *testing.T) {
	tr := IdentityTransform()
	tr.Position = model3d.X(2)
	tr.Orbit = Euler{Z: math.Pi / 2}
	got := tr.Apply(model3d.Origin)
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 2, got.Y, 1e-9)
}

func TestRotateAllAndRestore(t *testing.T) {
	sc := New()
	root, err := sc.Add("root", singleTriangle())
	require.NoError(t, err)
	child, err := sc.Add("child", singleTriangle())
	require.NoError(t, err)
	child.Parent = root
	sc.EnsureLight("Light", model3d.XYZ(0, -3, 3), 500)

	snap := sc.SaveTransforms()
	sc.RotateAll(Euler{X: 1, Y: 0.5, Z: 0.25})

	assert.Equal(t, Euler{X: 1, Y: 0.5, Z: 0.25}, root.Transform.Orbit)
	// Children follow their parent; their own orbit stays zero.
	assert.True(t, child.Transform.Orbit.IsZero())
	assert.NotEqual(t, model3d.XYZ(0, -3, 3), sc.Light.Position)

	sc.RestoreTransforms(snap)
	assert.True(t, root.Transform.Orbit.IsZero())
	assert.Equal(t, model3d.XYZ(0, -3, 3), sc.Light.Position)
}

func TestMaterialSlotSemantics(t *testing.T) {
	sc := New()
	obj, err := sc.Add("thing", singleTriangle())
	require.NoError(t, err)
	assert.Nil(t, obj.Material())

	white := NewMaterial("white", RGBA{R: 1, G: 1, B: 1, A: 0.4}, true)
	obj.SetMaterial(white)
	require.Same(t, white, obj.Material())
	assert.Equal(t, BlendAlpha, white.Blend)
	assert.True(t, white.TransparentBack)
	assert.InDelta(t, 0.4, white.Opacity(), 1e-12)

	black := NewMaterial("black", RGBA{A: 1}, false)
	obj.SetMaterial(black)
	assert.Same(t, black, obj.Material())
	assert.Len(t, obj.Materials, 1)
	assert.Equal(t, BlendOpaque, black.Blend)
	assert.Equal(t, 1.0, black.Opacity())
}

func TestTags(t *testing.T) {
	sc := New()
	obj, err := sc.Add("thing", nil)
	require.NoError(t, err)

	_, ok := obj.Tag(ShapeTagKey)
	assert.False(t, ok)

	obj.SetTag(ShapeTagKey, "sphere_core")
	v, ok := obj.Tag(ShapeTagKey)
	require.True(t, ok)
	assert.Equal(t, "sphere_core", v)
}

func TestWorldMeshBakesParentChain(t *testing.T) {
	sc := New()
	parent, err := sc.Add("parent", nil)
	require.NoError(t, err)
	parent.Transform.Position = model3d.Z(5)

	child, err := sc.Add("child", singleTriangle())
	require.NoError(t, err)
	child.Parent = parent
	child.Transform.Scale = model3d.XYZ(2, 2, 2)

	world := child.WorldMesh()
	max := world.Max()
	assert.InDelta(t, 2, max.X, 1e-9)
	assert.InDelta(t, 2, max.Y, 1e-9)
	assert.InDelta(t, 5, max.Z, 1e-9)

	assert.Nil(t, parent.WorldMesh())
}
