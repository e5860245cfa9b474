package builder

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
)

const halfPi = math.Pi / 2

// OutlineScale returns the uniform scale factor for an outline shell of the
// given thickness fraction.
func OutlineScale(thickness float64) float64 {
	return 1 + thickness
}

// SphereMesh generates a UV sphere of the given radius centered at the
// origin. segments drives both latitude and longitude subdivisions, trading
// smoothness against vertex count.
func SphereMesh(radius float64, segments int) *model3d.Mesh {
	return model3d.NewMeshPolar(func(g model3d.GeoCoord) float64 {
		return radius
	}, segments)
}

// TorusMesh generates a torus in the XY plane, centered at the origin, with
// outward-facing normals. major is the radius of the center circle, minor the
// tube radius.
func TorusMesh(major, minor float64, majorSegments, minorSegments int) *model3d.Mesh {
	point := func(i, j int) model3d.Coord3D {
		u := 2 * math.Pi * float64(i%majorSegments) / float64(majorSegments)
		v := 2 * math.Pi * float64(j%minorSegments) / float64(minorSegments)
		ring := major + minor*math.Cos(v)
		return model3d.XYZ(
			ring*math.Cos(u),
			ring*math.Sin(u),
			minor*math.Sin(v),
		)
	}
	mesh := model3d.NewMesh()
	for i := 0; i < majorSegments; i++ {
		for j := 0; j < minorSegments; j++ {
			p00 := point(i, j)
			p10 := point(i+1, j)
			p11 := point(i+1, j+1)
			p01 := point(i, j+1)
			mesh.Add(&model3d.Triangle{p00, p10, p11})
			mesh.Add(&model3d.Triangle{p00, p11, p01})
		}
	}
	return mesh
}

// FlippedCopy returns a copy of the mesh with every face winding reversed, so
// all normals point the opposite way. The input mesh is untouched.
func FlippedCopy(m *model3d.Mesh) *model3d.Mesh {
	out := model3d.NewMesh()
	m.Iterate(func(t *model3d.Triangle) {
		out.Add(&model3d.Triangle{t[0], t[2], t[1]})
	})
	return out
}
