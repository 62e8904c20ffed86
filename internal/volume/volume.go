// Package volume holds the in-memory demo volume the command line tool
// shades. There is no file loading; the volume is synthesized so the
// pipeline can run self-contained.
package volume

import (
	"fmt"
	"runtime"
	"sync"

	"volshade/pkg/scalar"
)

// Volume represents a 3D scalar volume
type Volume struct {
	// Data is the voxel data as a 1D array in row-major order, one
	// density value in [0, 1] per voxel
	Data []float64

	// Width is the width of the volume in voxels
	Width int

	// Height is the height of the volume in voxels
	Height int

	// Depth is the depth of the volume in voxels
	Depth int
}

// New returns a zero-filled volume with the given dimensions
func New(width, height, depth int) (*Volume, error) {
	if width < 1 || height < 1 || depth < 1 {
		return nil, fmt.Errorf("volume: dimensions %dx%dx%d must be positive", width, height, depth)
	}
	return &Volume{
		Data:   make([]float64, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}, nil
}

// At returns the voxel at (x, y, z). Indices must be in range.
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[z*v.Width*v.Height+y*v.Width+x]
}

// Synthesize fills a new volume with a smooth radial density field: 1 at
// the center falling off to 0 at the corners. Planes are filled in parallel
// across numWorkers goroutines; numWorkers < 1 uses all available cores.
// The result is independent of the worker count.
func Synthesize(width, height, depth, numWorkers int) (*Volume, error) {
	v, err := New(width, height, depth)
	if err != nil {
		return nil, err
	}
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}

	// Divide the planes among the workers
	planesPerWorker := (depth + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)

		go func(workerID int) {
			defer wg.Done()

			// Calculate the plane range for this worker
			startPlane := workerID * planesPerWorker
			endPlane := (workerID + 1) * planesPerWorker
			if endPlane > depth {
				endPlane = depth
			}
			if startPlane >= depth {
				return
			}

			for z := startPlane; z < endPlane; z++ {
				nz := normCoord(z, depth)
				for y := 0; y < height; y++ {
					ny := normCoord(y, height)
					for x := 0; x < width; x++ {
						nx := normCoord(x, width)
						r2 := nx*nx + ny*ny + nz*nz
						d := 1 - r2
						if d < 0 {
							d = 0
						}
						v.Data[z*width*height+y*width+x] = d
					}
				}
			}
		}(w)
	}
	wg.Wait()

	return v, nil
}

// Samples returns the voxel densities mapped onto dt's default range, the
// form the histogram consumes. The returned slice is freshly allocated.
func (v *Volume) Samples(dt scalar.DataType) []float64 {
	rng := dt.DefaultRange()
	lo := rng.Lo.Float64()
	span := rng.Span()

	samples := make([]float64, len(v.Data))
	for i, d := range v.Data {
		samples[i] = lo + d*span
	}
	return samples
}

// normCoord maps index i of an n-wide axis onto [-1, 1]. A single-voxel
// axis sits at the center.
func normCoord(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return 2*float64(i)/float64(n-1) - 1
}
