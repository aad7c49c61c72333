package render

import (
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// octree renders using marching tetrahedra with octree space sampling.
type octree struct {
	dc        dc3
	todo      []cube
	unwritten triangle3Buffer
	// concurrent goroutine processing.
	concurrent int
	// stats
	triangles int
	cubes     atomic.Int64 // cubes polygonized
}

type cube struct {
	sdf.V3i      // origin of cube as integers
	n       uint // level of cube, size = 1 << n
}

// NewOctreeRenderer returns a marching tetrahedra renderer using octree
// cube sampling. meshCells is the number of cells along the longest side
// of the bounding box.
func NewOctreeRenderer(s sdf.SDF3, meshCells int) *octree {
	if meshCells < 2 {
		panic("meshCells must be 2 or larger")
	}
	// Scale the bounding box about the center to make sure the boundaries
	// aren't on the object surface.
	bb := d3.Box(s.Bounds())
	bb = bb.ScaleAboutCenter(1.01)
	longAxis := d3.Max(bb.Size())
	// We want to test the smallest cube (side == resolution) for emptiness
	// so the level = 0 cube is at half resolution.
	resolution := 0.5 * d3.Max(bb.Size()) / float64(meshCells)

	// how many cube levels for the octree?
	levels := uint(math.Ceil(math.Log2(longAxis/resolution))) + 1

	// Calculate theoretical max amount of cubes
	divisions := r3.Scale(1/resolution, bb.Size())
	maxCubes := int(divisions.X) * int(divisions.Y) * int(divisions.Z)

	// Allocate a reasonable size for cube slice
	cubes := make([]cube, 1, max(1, maxCubes/64))
	cubes[0] = cube{sdf.V3i{0, 0, 0}, levels - 1} // process the octree, start at the top level
	return &octree{
		dc:        *newDc3(s, bb.Min, resolution, levels),
		unwritten: triangle3Buffer{buf: make([]Triangle3, 0, 1024)},
		todo:      cubes,
	}
}

// SetConcurrency sets the number of goroutines used to process cubes.
// Values below 2 render on the calling goroutine.
func (oc *octree) SetConcurrency(n int) {
	oc.concurrent = n
}

// ReadTriangles writes triangles rendered from the model into the argument buffer.
// returns number of triangles written and an error if present.
func (oc *octree) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if oc.unwritten.Len() > 0 {
		n += oc.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if len(oc.todo) == 0 && oc.unwritten.Len() == 0 {
		// Done rendering model.
		return n, io.EOF
	}
	var nt int
	if oc.concurrent <= 1 {
		nt = oc.readTriangles(dst[n:])
	} else {
		nt = oc.readTrianglesConcurrent(dst[n:])
	}
	n += nt
	return n, err
}

// readTriangles is single threaded implementation of ReadTriangles and only returns
// number of triangles written.
func (oc *octree) readTriangles(dst []Triangle3) (n int) {
	cubesProcessed := 0
	var newCubes []cube
	for _, cube := range oc.todo {
		if n == len(dst) {
			// Finished writing all the buffer
			break
		}
		if n+maxCubeTriangles > len(dst) {
			// Not enough room in buffer to write all triangles the cube could produce.
			var tmp [maxCubeTriangles]Triangle3
			tri, cubes := oc.processCube(tmp[:], cube)
			oc.unwritten.Write(tmp[:tri])
			oc.triangles += tri
			newCubes = append(newCubes, cubes...)
			cubesProcessed++
			break
		}
		tri, cubes := oc.processCube(dst[n:], cube)
		newCubes = append(newCubes, cubes...)
		cubesProcessed++
		oc.triangles += tri
		n += tri
	}
	oc.todo = append(oc.todo, newCubes...)
	oc.todo = oc.todo[cubesProcessed:]
	return n
}

// readTrianglesConcurrent processes a batch of cubes split among
// oc.concurrent goroutines. Triangles that do not fit in dst are kept for
// the next read. A panic raised by the SDF in any worker is re-raised here.
func (oc *octree) readTrianglesConcurrent(dst []Triangle3) int {
	type result struct {
		triangles []Triangle3
		cubes     []cube
		failure   interface{}
	}
	batch := len(oc.todo)
	if limit := oc.concurrent * 256; batch > limit {
		batch = limit
	}
	work := oc.todo[:batch]
	results := make([]result, oc.concurrent)
	var wg sync.WaitGroup
	for w := range results {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			defer func() {
				if a := recover(); a != nil {
					results[w].failure = a
				}
			}()
			var tmp [maxCubeTriangles]Triangle3
			for i := w; i < len(work); i += len(results) {
				nt, cubes := oc.processCube(tmp[:], work[i])
				results[w].triangles = append(results[w].triangles, tmp[:nt]...)
				results[w].cubes = append(results[w].cubes, cubes...)
			}
		}(w)
	}
	wg.Wait()
	// A panic in a worker resurfaces on the calling goroutine.
	for _, r := range results {
		if r.failure != nil {
			panic(r.failure)
		}
	}
	oc.todo = oc.todo[batch:]
	for _, r := range results {
		oc.todo = append(oc.todo, r.cubes...)
		oc.unwritten.Write(r.triangles)
		oc.triangles += len(r.triangles)
	}
	return oc.unwritten.Read(dst)
}

// Process a cube. Generate triangles, or more cubes.
func (oc *octree) processCube(dst []Triangle3, c cube) (writtenTriangles int, newCubes []cube) {
	if c.n == 1 {
		// this cube is at the required resolution
		c0, d0 := oc.dc.Evaluate(c.Add(sdf.V3i{0, 0, 0}))
		c1, d1 := oc.dc.Evaluate(c.Add(sdf.V3i{2, 0, 0}))
		c2, d2 := oc.dc.Evaluate(c.Add(sdf.V3i{2, 2, 0}))
		c3, d3 := oc.dc.Evaluate(c.Add(sdf.V3i{0, 2, 0}))
		c4, d4 := oc.dc.Evaluate(c.Add(sdf.V3i{0, 0, 2}))
		c5, d5 := oc.dc.Evaluate(c.Add(sdf.V3i{2, 0, 2}))
		c6, d6 := oc.dc.Evaluate(c.Add(sdf.V3i{2, 2, 2}))
		c7, d7 := oc.dc.Evaluate(c.Add(sdf.V3i{0, 2, 2}))
		corners := [8]r3.Vec{c0, c1, c2, c3, c4, c5, c6, c7}
		values := [8]float64{d0, d1, d2, d3, d4, d5, d6, d7}
		// output the triangle(s) for this cube
		writtenTriangles = mtToTriangles(dst, corners, values, 0)
		oc.cubes.Add(1)
	} else {
		// process the sub cubes
		n := c.n - 1
		s := 1 << n
		subCubes := [8]cube{
			{c.Add(sdf.V3i{0, 0, 0}), n},
			{c.Add(sdf.V3i{s, 0, 0}), n},
			{c.Add(sdf.V3i{s, s, 0}), n},
			{c.Add(sdf.V3i{0, s, 0}), n},
			{c.Add(sdf.V3i{0, 0, s}), n},
			{c.Add(sdf.V3i{s, 0, s}), n},
			{c.Add(sdf.V3i{s, s, s}), n},
			{c.Add(sdf.V3i{0, s, s}), n},
		}
		// Eliminate empty cubes.
		for _, candidate := range subCubes {
			if !oc.dc.IsEmpty(&candidate) {
				newCubes = append(newCubes, candidate)
			}
		}
	}
	return writtenTriangles, newCubes
}

// dc3 implements a 3 dimensional distance cache. evaluates the SDF3 via a distance cache to avoid repeated evaluations.
// Experimentally about 2/3 of lookups get a hit, and the overall speedup
// is about 2x a non-cached evaluation.
type dc3 struct {
	mu         sync.Mutex          // lock the the cache during reads/writes
	cache      map[sdf.V3i]float64 // cache of distances
	origin     r3.Vec              // origin of the overall bounding cube
	resolution float64             // size of smallest octree cube
	hdiag      []float64           // lookup table of cube half diagonals
	s          sdf.SDF3            // the SDF3 to be rendered
}

// Evaluate returns the position of lattice point vi and the SDF value there.
func (dc *dc3) Evaluate(vi sdf.V3i) (r3.Vec, float64) {
	v := r3.Add(dc.origin, r3.Scale(dc.resolution, vi.ToV3()))

	// do we have it in the cache?
	dist, found := dc.read(vi)
	if found {
		return v, dist
	}
	// evaluate the SDF3
	dist = dc.s.Evaluate(v)
	// write it to the cache
	dc.write(vi, dist)
	return v, dist
}

// IsEmpty returns true if the cube contains no SDF surface
func (dc *dc3) IsEmpty(c *cube) bool {
	// evaluate the SDF3 at the center of the cube
	s := 1 << (c.n - 1) // half side
	_, d := dc.Evaluate(c.AddScalar(s))
	// compare to the center/corner distance
	return math.Abs(d) >= dc.hdiag[c.n]
}

func newDc3(s sdf.SDF3, origin r3.Vec, resolution float64, n uint) *dc3 {
	if n >= 64 {
		panic("size of n must be less than size of word for hdiag generation")
	}
	dc := dc3{
		origin:     origin,
		resolution: resolution,
		hdiag:      make([]float64, n),
		s:          s,
		cache:      make(map[sdf.V3i]float64),
	}
	// build a lut for cube half diagonal lengths
	for i := range dc.hdiag {
		si := 1 << uint(i)
		s := float64(si) * dc.resolution
		dc.hdiag[i] = 0.5 * math.Sqrt(3.0*s*s)
	}
	return &dc
}

// read from the cache
func (dc *dc3) read(vi sdf.V3i) (float64, bool) {
	dc.mu.Lock()
	dist, found := dc.cache[vi]
	dc.mu.Unlock()
	return dist, found
}

// write to the cache
func (dc *dc3) write(vi sdf.V3i, dist float64) {
	dc.mu.Lock()
	dc.cache[vi] = dist
	dc.mu.Unlock()
}

func max(a, b int) int {
	if a >= b {
		return a
	}
	return b
}
