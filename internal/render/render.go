// Package render turns the scene into PNG stills. The rig (one camera, one
// light) is ensured idempotently by name; each view rotates the whole asset
// about the world origin, renders, and restores the saved transforms.
//
// The renderer is a small alpha-compositing ray caster: every object hit
// along a pixel ray is depth-sorted and blended front to back. Back-facing
// hits of opaque materials are culled, which is what makes the inverted-normal
// outline shell read as a dark rim behind the translucent sphere instead of a
// solid silhouette.
package render

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/model3d/render3d"

	"shapeset/internal/scene"
)

// Names the rig objects are ensured under. Repeated runs reuse them.
const (
	CameraName = "Camera"
	LightName  = "Light"
)

// View is a named whole-asset rotation applied before a still. Static
// configuration; never mutated at runtime.
type View struct {
	Name     string
	Rotation scene.Euler
}

// Rig describes camera and light placement.
type Rig struct {
	CameraPosition model3d.Coord3D
	CameraTarget   model3d.Coord3D
	// FOV is the camera's vertical field of view in radians.
	FOV           float64
	LightPosition model3d.Coord3D
	LightEnergy   float64
}

// EnsureRig idempotently ensures the scene has exactly one camera and one
// light, reusing existing ones by name rather than duplicating on repeated
// runs.
func EnsureRig(sc *scene.Scene, rig Rig) {
	sc.EnsureCamera(CameraName, rig.CameraPosition, rig.CameraTarget, rig.FOV)
	sc.EnsureLight(LightName, rig.LightPosition, rig.LightEnergy)
}

// Renderer produces stills of a scene.
type Renderer struct {
	Width  int
	Height int
	// Workers bounds the row-rendering goroutines. Zero means GOMAXPROCS.
	Workers int
}

const (
	// ambient keeps unlit faces from going fully black.
	ambient = 0.15
	// background is the gray the world fades to where nothing is hit.
	background = 0.05
	// minThroughput stops compositing once the remaining contribution is
	// invisible.
	minThroughput = 1e-3
	// minHitDist rejects self-intersections right at the ray origin.
	minHitDist = 1e-8
)

// RenderView renders one still: save transforms of every non-camera entity,
// rotate the whole set about the world origin (X, then Y, then Z), write the
// PNG, then restore the snapshot directly. Views are independent; each starts
// from rest state.
func (r *Renderer) RenderView(sc *scene.Scene, view View, path string) error {
	if sc.Camera == nil || sc.Light == nil {
		return fmt.Errorf("render: camera and light must be ensured before rendering")
	}
	snap := sc.SaveTransforms()
	sc.RotateAll(view.Rotation)
	err := r.renderStill(sc, path)
	sc.RestoreTransforms(snap)
	if err != nil {
		return fmt.Errorf("render: view %q: %w", view.Name, err)
	}
	return nil
}

// renderable is one scene object baked into world space for ray queries.
type renderable struct {
	collider model3d.Collider
	material *scene.Material
}

// defaultMaterial covers mesh objects that never got a material slot.
var defaultMaterial = scene.NewMaterial("default_gray", scene.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}, false)

func (r *Renderer) renderStill(sc *scene.Scene, path string) error {
	var objects []renderable
	for _, o := range sc.Objects() {
		if !o.HasMesh() {
			continue
		}
		mat := o.Material()
		if mat == nil {
			mat = defaultMaterial
		}
		objects = append(objects, renderable{
			collider: model3d.MeshToCollider(o.WorldMesh()),
			material: mat,
		})
	}

	cam := render3d.NewCameraAt(sc.Camera.Position, sc.Camera.Target, sc.Camera.FOV)
	caster := cam.Caster(float64(r.Width), float64(r.Height))
	light := *sc.Light

	img := render3d.NewImage(r.Width, r.Height)
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > r.Height {
		workers = r.Height
	}

	rows := make(chan int, r.Height)
	for y := 0; y < r.Height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				for x := 0; x < r.Width; x++ {
					ray := &model3d.Ray{
						Origin:    cam.Origin,
						Direction: caster(float64(x), float64(y)),
					}
					img.Data[y*r.Width+x] = shadePixel(objects, ray, light)
				}
			}
		}()
	}
	wg.Wait()

	if err := img.Save(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// hit is one surface crossing along a pixel ray.
type hit struct {
	dist     float64
	normal   model3d.Coord3D
	point    model3d.Coord3D
	material *scene.Material
}

// shadePixel gathers every surface the ray crosses, depth-sorts them, and
// composites front to back with straight alpha.
func shadePixel(objects []renderable, ray *model3d.Ray, light scene.Light) render3d.Color {
	var hits []hit
	for _, o := range objects {
		mat := o.material
		o.collider.RayCollisions(ray, func(rc model3d.RayCollision) {
			if rc.Scale < minHitDist {
				return
			}
			hits = append(hits, hit{
				dist:     rc.Scale,
				normal:   rc.Normal,
				point:    ray.Origin.Add(ray.Direction.Scale(rc.Scale)),
				material: mat,
			})
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	color := render3d.NewColor(0)
	throughput := 1.0
	for _, h := range hits {
		backFacing := h.normal.Dot(ray.Direction) > 0
		if backFacing && !h.material.TransparentBack {
			continue
		}
		n := h.normal
		if backFacing {
			n = n.Scale(-1)
		}
		alpha := h.material.Opacity()
		color = color.Add(shade(h.material, h.point, n, light).Scale(throughput * alpha))
		throughput *= 1 - alpha
		if throughput < minThroughput {
			break
		}
	}
	color = color.Add(render3d.NewColor(background).Scale(throughput))
	return color
}

// shade applies point-light diffuse with an ambient floor. The light's
// energy is treated as wattage falling off with the square of the distance.
func shade(mat *scene.Material, point, normal model3d.Coord3D, light scene.Light) render3d.Color {
	base := render3d.NewColorRGB(mat.Color.R, mat.Color.G, mat.Color.B)
	toLight := light.Position.Sub(point)
	dist2 := toLight.Dot(toLight)
	if dist2 == 0 {
		return base
	}
	lambert := math.Max(0, normal.Dot(toLight.Normalize()))
	intensity := light.Energy / (4 * math.Pi * dist2)
	shaded := ambient + lambert*intensity
	if shaded > 1 {
		shaded = 1
	}
	return base.Scale(shaded)
}
