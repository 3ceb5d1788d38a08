// Command linedemo builds a line scene and renders it to a PNG on the CPU.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/raster"
)

func main() {
	var (
		output   = flag.String("o", "lines.png", "output file")
		width    = flag.Int("w", 800, "image width")
		height   = flag.Int("h", 600, "image height")
		scene    = flag.String("scene", "grid", "scene to draw: grid, arcs or polys")
		capacity = flag.Int("capacity", lines.DefaultCapacity, "vertex slot capacity")
		lw       = flag.Float64("width", 3, "line width in pixels")
		verbose  = flag.Bool("v", false, "log builder activity")
	)
	flag.Parse()

	if *verbose {
		lines.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	b, err := lines.New(lines.WithCapacity(*capacity))
	if err != nil {
		log.Fatalf("Failed to create builder: %v", err)
	}
	defer b.Destroy()

	ctx := b.Context2D()
	ctx.SetLineWidth(float32(*lw))
	w, h := float32(*width), float32(*height)

	switch *scene {
	case "grid":
		err = drawGrid(ctx, w, h)
	case "arcs":
		err = drawArcs(ctx, w, h)
	case "polys":
		err = drawPolys(ctx, w, h)
	default:
		err = fmt.Errorf("unknown scene %q", *scene)
	}
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}

	r := raster.New(*width, *height)
	r.Clear(color.White)
	if err := r.Draw(b, lines.PixelParams(w, h)); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := save(*output, r); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	c := b.Cursor()
	log.Printf("Scene %s saved to %s (%dx%d, %d slots, %d quads, %d fill triangles)\n",
		*scene, *output, *width, *height, c.Vertex, c.Quad, c.FillTri)
}

func save(path string, r *raster.Renderer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, r.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func drawGrid(ctx *lines.Context2D, w, h float32) error {
	const step = 40
	if err := ctx.SetStrokeStyle("#3366cc"); err != nil {
		return err
	}
	for x := float32(step); x < w; x += step {
		if err := segment(ctx, x, step/2, x, h-step/2); err != nil {
			return err
		}
	}
	ctx.SetGlobalAlpha(0.5)
	for y := float32(step); y < h; y += step {
		if err := segment(ctx, step/2, y, w-step/2, y); err != nil {
			return err
		}
	}
	return nil
}

func segment(ctx *lines.Context2D, x0, y0, x1, y1 float32) error {
	if err := ctx.BeginPath(); err != nil {
		return err
	}
	if err := ctx.MoveTo(x0, y0); err != nil {
		return err
	}
	if err := ctx.LineTo(x1, y1); err != nil {
		return err
	}
	return ctx.Stroke()
}

func drawArcs(ctx *lines.Context2D, w, h float32) error {
	colors := []string{"#e63946", "#f4a261", "#2a9d8f", "#264653"}
	cx, cy := w/2, h/2
	for i, c := range colors {
		if err := ctx.SetStrokeStyle(c); err != nil {
			return err
		}
		r := float32(40 + 50*i)
		if err := ctx.BeginPath(); err != nil {
			return err
		}
		end := float32(math.Pi) * float32(i+1) / 2
		if err := ctx.Arc(cx, cy, r, 0, end, i%2 == 1); err != nil {
			return err
		}
		if err := ctx.Stroke(); err != nil {
			return err
		}
	}
	return ctx.StrokeRect(20, 20, w-40, h-40)
}

func drawPolys(ctx *lines.Context2D, w, h float32) error {
	const points = 5
	for i := 0; i < 3; i++ {
		ctx.Save()
		ctx.Translate(w*float32(i+1)/4, h/2)
		ctx.Rotate(float32(i) * math.Pi / 12)
		if err := ctx.SetFillStyle([]string{"#ffd166", "#06d6a0", "#118ab2"}[i]); err != nil {
			return err
		}
		if err := star(ctx, points, 80, 35); err != nil {
			return err
		}
		if err := ctx.Restore(); err != nil {
			return err
		}
	}
	return nil
}

func star(ctx *lines.Context2D, points int, outer, inner float64) error {
	if err := ctx.BeginPath(); err != nil {
		return err
	}
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := float64(i)*math.Pi/float64(points) - math.Pi/2
		x, y := float32(r*math.Cos(angle)), float32(r*math.Sin(angle))
		var err error
		if i == 0 {
			err = ctx.MoveTo(x, y)
		} else {
			err = ctx.LineTo(x, y)
		}
		if err != nil {
			return err
		}
	}
	if err := ctx.ClosePath(); err != nil {
		return err
	}
	if err := ctx.Fill(); err != nil {
		return err
	}
	return ctx.Stroke()
}
