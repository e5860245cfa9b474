package render

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
	"go.uber.org/goleak"

	"shapeset/internal/builder"
	"shapeset/internal/scene"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testRig() Rig {
	return Rig{
		CameraPosition: model3d.Y(-4),
		CameraTarget:   model3d.Origin,
		FOV:            40 * math.Pi / 180,
		LightPosition:  model3d.XYZ(0, -3, 3),
		LightEnergy:    500,
	}
}

func buildAssetScene(t *testing.T) *scene.Scene {
	t.Helper()
	sc := scene.New()
	_, err := builder.Asset(sc, builder.Params{
		Radius:           1.0,
		Segments:         24,
		Opacity:          0.4,
		OutlineThickness: 0.04,
		HoopThickness:    0.02,
	})
	require.NoError(t, err)
	return sc
}

func TestEnsureRigIdempotent(t *testing.T) {
	sc := scene.New()
	EnsureRig(sc, testRig())
	cam, light := sc.Camera, sc.Light
	require.NotNil(t, cam)
	require.NotNil(t, light)

	EnsureRig(sc, testRig())
	assert.Same(t, cam, sc.Camera)
	assert.Same(t, light, sc.Light)
}

func TestRenderViewRequiresRig(t *testing.T) {
	sc := buildAssetScene(t)
	r := &Renderer{Width: 8, Height: 8}
	err := r.RenderView(sc, View{Name: "front"}, filepath.Join(t.TempDir(), "x.png"))
	assert.Error(t, err)
}

func TestRenderViewRestoresTransforms(t *testing.T) {
	sc := buildAssetScene(t)
	EnsureRig(sc, testRig())

	type state struct {
		transforms map[string]scene.Transform
		light      model3d.Coord3D
	}
	capture := func() state {
		s := state{transforms: make(map[string]scene.Transform)}
		for _, o := range sc.Objects() {
			s.transforms[o.Name] = o.Transform
		}
		s.light = sc.Light.Position
		return s
	}
	before := capture()

	r := &Renderer{Width: 16, Height: 16}
	views := []View{
		{Name: "front", Rotation: scene.Euler{}},
		{Name: "side", Rotation: scene.Euler{Y: math.Pi / 2}},
		{Name: "top", Rotation: scene.Euler{X: math.Pi / 2}},
		{Name: "3quarter", Rotation: scene.Euler{X: 35 * math.Pi / 180, Y: 40 * math.Pi / 180}},
	}
	dir := t.TempDir()
	for _, v := range views {
		require.NoError(t, r.RenderView(sc, v, filepath.Join(dir, v.Name+".png")))
		after := capture()
		// Direct snapshot restore: exact, well under the 1e-9 tolerance.
		assert.Equal(t, before, after, "view %s must leave transforms untouched", v.Name)
	}
}

func TestRenderViewWritesDecodablePNG(t *testing.T) {
	sc := buildAssetScene(t)
	EnsureRig(sc, testRig())

	path := filepath.Join(t.TempDir(), "front.png")
	r := &Renderer{Width: 64, Height: 64}
	require.NoError(t, r.RenderView(sc, View{Name: "front"}, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())

	// A point on the sphere away from both hoop bands must be visibly
	// brighter than the empty background corner: the translucent sphere
	// composites over the dark outline rim instead of being occluded by the
	// shell's near side.
	sphere := brightness(img, 44, 20)
	corner := brightness(img, 2, 2)
	assert.Greater(t, sphere, corner+0.05)
	assert.Less(t, sphere, 0.99)
}

func TestRenderViewFailsOnUnwritablePath(t *testing.T) {
	sc := buildAssetScene(t)
	EnsureRig(sc, testRig())
	r := &Renderer{Width: 8, Height: 8}
	err := r.RenderView(sc, View{Name: "front"}, filepath.Join(t.TempDir(), "missing", "x.png"))
	assert.Error(t, err)
}

func brightness(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return float64(r+g+b) / (3 * 65535)
}
