// Package export writes the asset to a Wavefront OBJ file with a sibling MTL
// material library. Each scene object becomes one named group with its slot-0
// material bound, and coordinates are baked into world space so the file
// stands alone.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unixpickle/model3d/model3d"

	"shapeset/internal/scene"
)

// Stats reports what an export actually wrote, so callers can verify the
// operation instead of assuming it succeeded.
type Stats struct {
	Objects   int
	Triangles int
	MTLPath   string
}

// WriteOBJ exports exactly the given objects to path, in list order. Every
// object must exist in the scene and be mesh-backed; either violation aborts
// before anything is written. File-system failures surface as errors rather
// than silently dropping the export.
func WriteOBJ(sc *scene.Scene, objects []*scene.Object, path string) (Stats, error) {
	if len(objects) == 0 {
		return Stats{}, fmt.Errorf("export: no objects to export")
	}
	for _, o := range objects {
		live, ok := sc.Lookup(o.Name)
		if !ok || live != o {
			return Stats{}, fmt.Errorf("export: object %q is not in the scene", o.Name)
		}
		if !o.HasMesh() {
			return Stats{}, fmt.Errorf("export: object %q has no mesh data", o.Name)
		}
	}

	mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
	materials, err := collectMaterials(objects)
	if err != nil {
		return Stats{}, err
	}
	if err := writeMTL(mtlPath, materials); err != nil {
		return Stats{}, err
	}

	f, err := os.Create(path)
	if err != nil {
		return Stats{}, fmt.Errorf("export: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "mtllib %s\n", filepath.Base(mtlPath))

	stats := Stats{MTLPath: mtlPath}
	offset := 1 // OBJ vertex indices are global and 1-based
	for _, o := range objects {
		world := o.WorldMesh()
		verts := world.VertexSlice()
		index := make(map[model3d.Coord3D]int, len(verts))
		for i, v := range verts {
			index[v] = offset + i
		}

		fmt.Fprintf(w, "o %s\n", o.Name)
		for _, v := range verts {
			fmt.Fprintf(w, "v %f %f %f\n", v.X, v.Y, v.Z)
		}
		if mat := o.Material(); mat != nil {
			fmt.Fprintf(w, "usemtl %s\n", mat.Name)
		}
		world.Iterate(func(t *model3d.Triangle) {
			fmt.Fprintf(w, "f %d %d %d\n", index[t[0]], index[t[1]], index[t[2]])
			stats.Triangles++
		})
		offset += len(verts)
		stats.Objects++
	}
	if err := w.Flush(); err != nil {
		return Stats{}, fmt.Errorf("export: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return Stats{}, fmt.Errorf("export: closing %s: %w", path, err)
	}
	return stats, nil
}

// collectMaterials gathers slot-0 materials in first-use order. Materials are
// shared by reference; two distinct materials with the same name would
// collide in the MTL file, so the first definition under a name wins and any
// later conflicting definition is an error.
func collectMaterials(objects []*scene.Object) ([]*scene.Material, error) {
	var out []*scene.Material
	byName := make(map[string]*scene.Material)
	for _, o := range objects {
		mat := o.Material()
		if mat == nil {
			continue
		}
		prev, ok := byName[mat.Name]
		if !ok {
			byName[mat.Name] = mat
			out = append(out, mat)
			continue
		}
		if prev != mat && *prev != *mat {
			return nil, fmt.Errorf("export: conflicting definitions for material %q", mat.Name)
		}
	}
	return out, nil
}

func writeMTL(path string, materials []*scene.Material) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, m := range materials {
		fmt.Fprintf(w, "newmtl %s\n", m.Name)
		fmt.Fprintf(w, "Ka 0.000 0.000 0.000\n")
		fmt.Fprintf(w, "Kd %.6f %.6f %.6f\n", m.Color.R, m.Color.G, m.Color.B)
		fmt.Fprintf(w, "Ks 0.000 0.000 0.000\n")
		fmt.Fprintf(w, "d %.6f\n", m.Color.A)
		fmt.Fprintf(w, "illum 1\n")
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	return f.Close()
}
