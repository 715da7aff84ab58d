package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"diffraster/internal/buffer"
	"diffraster/internal/gradient"
	"diffraster/internal/imageio"
	"diffraster/internal/visualize"
)

func main() {
	in := flag.String("in", "", "Input image (png, jpeg, gif, bmp, webp, tga)")
	maskPath := flag.String("mask", "", "Boundary mask image, white = boundary (boundary mode only)")
	out := flag.String("out", "", "Output directory (default: next to input)")
	mode := flag.String("mode", "sobel", "sobel or boundary")
	aperture := flag.Int("aperture", 1, "Kernel aperture, 1 or 3")
	channel := flag.Int("channel", 0, "Channel to visualize")
	scale := flag.Int("scale", 1, "Upscale factor for written images")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "Usage: imagegrad -in <image> [-mode sobel|boundary -mask <mask>] [-out dir]")
		os.Exit(1)
	}

	img, err := imageio.Load(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Image: %dx%d, %d channel(s)\n", img.W, img.H, img.C)

	est := gradient.Estimator{Aperture: *aperture}
	var dx, dy *buffer.Field
	switch *mode {
	case "sobel":
		dx, dy, err = est.Sobel(img)
	case "boundary":
		var mask *buffer.Mask
		if *maskPath == "" {
			mask = buffer.NewMask(img.W, img.H)
		} else if mask, err = imageio.LoadMask(*maskPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Boundary pixels: %d\n", mask.Count())
		dx, dy, err = est.BoundaryAware(img, mask)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", *mode)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dir := *out
	if dir == "" {
		dir = filepath.Dir(*in)
	}
	base := strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))

	for _, f := range []struct {
		name  string
		field *buffer.Field
	}{{"dx", dx}, {"dy", dy}} {
		vis, err := visualize.Field(f.field, *channel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.webp", base, f.name))
		if err := imageio.SaveWebP(path, visualize.Upscale(vis, *scale)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  %s: %s\n", f.name, path)
	}
}
