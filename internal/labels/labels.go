// Package labels writes the ground-truth CSV mapping object names to shape
// tags. Rows are derived from the live annotations on the scene objects, in
// build order, so the file can never drift from what was actually created.
package labels

import (
	"encoding/csv"
	"fmt"
	"os"

	"shapeset/internal/scene"
)

// Header is the fixed CSV schema.
var Header = []string{"object", "shape_tag"}

// Records derives one (object, shape_tag) row per tracked object, in the
// given order. An object without the shape-tag annotation is a consistency
// failure.
func Records(objects []*scene.Object) ([][]string, error) {
	rows := make([][]string, 0, len(objects))
	for _, o := range objects {
		tag, ok := o.Tag(scene.ShapeTagKey)
		if !ok {
			return nil, fmt.Errorf("labels: object %q has no %s annotation", o.Name, scene.ShapeTagKey)
		}
		rows = append(rows, []string{o.Name, tag})
	}
	if len(rows) != len(objects) {
		return nil, fmt.Errorf("labels: derived %d rows for %d objects", len(rows), len(objects))
	}
	return rows, nil
}

// Write emits the label CSV for the tracked objects to path.
func Write(objects []*scene.Object, path string) error {
	rows, err := Records(objects)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("labels: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("labels: writing %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("labels: writing %s: %w", path, err)
	}
	// WriteAll flushes; surface any buffered error before closing.
	if err := w.Error(); err != nil {
		return fmt.Errorf("labels: writing %s: %w", path, err)
	}
	return f.Close()
}
