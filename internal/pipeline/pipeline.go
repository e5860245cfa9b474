// Package pipeline runs the dataset generation stages strictly forward:
// scene reset, asset build, mesh export, per-view renders, label CSV. Data
// never flows backward; any stage error aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/unixpickle/model3d/model3d"
	"go.uber.org/zap"

	"shapeset/internal/builder"
	"shapeset/internal/config"
	"shapeset/internal/export"
	"shapeset/internal/labels"
	"shapeset/internal/render"
	"shapeset/internal/scene"
)

// Artifact names inside the output directory.
const (
	MeshFileName  = "core_sphere.obj"
	LabelFileName = "core_sphere_labels.csv"
)

// ImageFileName returns the PNG name for a render view.
func ImageFileName(view string) string {
	return fmt.Sprintf("sphere_%s.png", view)
}

// Run executes the whole pipeline into cfg.OutputDir, creating it if absent.
// The context is checked between stages and between views, so a long render
// batch can be cancelled cleanly; the single actor over the scene is the
// calling goroutine.
func Run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("pipeline: creating output dir: %w", err)
	}

	sc := scene.New()
	sc.Reset()
	log.Info("scene reset", zap.Int("objects", sc.Len()))

	if err := checkCtx(ctx); err != nil {
		return err
	}
	objects, err := builder.Asset(sc, builder.Params{
		Radius:           cfg.Sphere.Radius,
		Segments:         cfg.Sphere.Segments,
		Opacity:          cfg.Sphere.Opacity,
		OutlineThickness: cfg.Outline.Thickness,
		HoopThickness:    cfg.Hoop.Thickness,
	})
	if err != nil {
		return fmt.Errorf("pipeline: building asset: %w", err)
	}
	log.Info("asset built", zap.Int("objects", len(objects)))

	if err := checkCtx(ctx); err != nil {
		return err
	}
	meshPath := filepath.Join(cfg.OutputDir, MeshFileName)
	stats, err := export.WriteOBJ(sc, objects, meshPath)
	if err != nil {
		return fmt.Errorf("pipeline: exporting mesh: %w", err)
	}
	if stats.Objects != len(objects) {
		return fmt.Errorf("pipeline: exported %d of %d objects", stats.Objects, len(objects))
	}
	log.Info("mesh exported",
		zap.String("path", meshPath),
		zap.Int("objects", stats.Objects),
		zap.Int("triangles", stats.Triangles))

	render.EnsureRig(sc, render.Rig{
		CameraPosition: coord(cfg.Render.CameraPosition),
		CameraTarget:   model3d.Origin,
		FOV:            cfg.Render.FOVDeg * degToRad,
		LightPosition:  coord(cfg.Render.LightPosition),
		LightEnergy:    cfg.Render.LightEnergy,
	})
	renderer := &render.Renderer{Width: cfg.Render.Width, Height: cfg.Render.Height}
	for _, v := range cfg.Views {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		imgPath := filepath.Join(cfg.OutputDir, ImageFileName(v.Name))
		view := render.View{Name: v.Name, Rotation: v.Rotation()}
		if err := renderer.RenderView(sc, view, imgPath); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		log.Info("view rendered", zap.String("view", v.Name), zap.String("path", imgPath))
	}

	if err := checkCtx(ctx); err != nil {
		return err
	}
	labelPath := filepath.Join(cfg.OutputDir, LabelFileName)
	if err := labels.Write(objects, labelPath); err != nil {
		return fmt.Errorf("pipeline: writing labels: %w", err)
	}
	log.Info("labels written", zap.String("path", labelPath), zap.Int("rows", len(objects)))

	log.Info("all done", zap.String("output_dir", cfg.OutputDir))
	return nil
}

const degToRad = math.Pi / 180

func coord(v [3]float64) model3d.Coord3D {
	return model3d.XYZ(v[0], v[1], v[2])
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
