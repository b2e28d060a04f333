// Package terrain implements the deterministic seeded Nether generator:
// a pure function of (seed, chunk position) producing a dense solidity
// array (spec.md §6's generateChunk contract). It is the one concrete
// Generator the engine ships with; spec.md treats the generator itself as
// an external collaborator, so only its contract — not its exact terrain
// shape — is load-bearing.
package terrain

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"netherpath/internal/geometry"
	"netherpath/internal/telemetry"
	"netherpath/internal/voxel"
)

// Config tunes the noise field. Zero values fall back to DefaultConfig's.
type Config struct {
	Seed        int64
	Frequency   float64
	Amplitude   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	// Workers bounds the number of goroutines used to generate one
	// chunk's columns in parallel. 0 selects runtime.GOMAXPROCS(0)*2.
	Workers int
}

// DefaultConfig mirrors the teacher's terrain defaults, retuned for a 3D
// cave field instead of a 2D heightmap.
func DefaultConfig() Config {
	return Config{
		Seed:        1337,
		Frequency:   0.045,
		Amplitude:   1.0,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Workers:     0,
	}
}

// Generator produces Nether-style cave chunks: solid netherrack riddled
// with caverns and tunnels, via hashed 3D value noise thresholded by
// height (denser near the floor and ceiling "shelves", airier through the
// middle), so generated worlds exercise both Grow (open caverns) and
// Shrink (tight tunnels) during search.
type Generator struct {
	cfg     Config
	metrics *telemetry.Metrics
}

// NewGenerator builds a Generator. A nil metrics is fine (all calls no-op).
func NewGenerator(cfg Config, metrics *telemetry.Metrics) *Generator {
	if cfg.Octaves <= 0 {
		cfg.Octaves = 1
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = DefaultConfig().Frequency
	}
	if cfg.Persistence <= 0 {
		cfg.Persistence = DefaultConfig().Persistence
	}
	if cfg.Lacunarity <= 0 {
		cfg.Lacunarity = DefaultConfig().Lacunarity
	}
	return &Generator{cfg: cfg, metrics: metrics}
}

// Generate implements voxel.Generator.
func (g *Generator) Generate(ctx context.Context, pos geometry.ChunkPos) (*voxel.Chunk, error) {
	start := time.Now()
	cells := make([]bool, voxel.CellCount)

	workers := g.workerCount()
	group, gctx := errgroup.WithContext(ctx)
	columns := geometry.ChunkWidth * geometry.ChunkWidth
	chunkSize := (columns + workers - 1) / workers

	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if hi > columns {
			hi = columns
		}
		if lo >= hi {
			continue
		}
		lo, hi := lo, hi
		group.Go(func() error {
			for idx := lo; idx < hi; idx++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				localX := int32(idx % geometry.ChunkWidth)
				localZ := int32(idx / geometry.ChunkWidth)
				g.fillColumn(pos, localX, localZ, cells)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("terrain: generate %v: %w", pos, err)
	}

	chunk, err := voxel.NewChunk(pos, cells, voxel.Generated)
	if err != nil {
		return nil, err
	}
	g.metrics.ChunkGenerated(ctx)
	g.metrics.GenerationLatency(ctx, float64(time.Since(start).Microseconds())/1000)
	return chunk, nil
}

func (g *Generator) workerCount() int {
	if g.cfg.Workers > 0 {
		return g.cfg.Workers
	}
	w := runtime.GOMAXPROCS(0) * 2
	if w <= 0 {
		w = 1
	}
	return w
}

func (g *Generator) fillColumn(pos geometry.ChunkPos, localX, localZ int32, cells []bool) {
	globalX := pos.CX*geometry.ChunkWidth + localX
	globalZ := pos.CZ*geometry.ChunkWidth + localZ

	for y := int32(0); y < geometry.ChunkHeight; y++ {
		if g.isSolid(globalX, y, globalZ) {
			i := int(y)<<8 | int(localZ)<<4 | int(localX)
			cells[i] = true
		}
	}
}

// isSolid decides netherrack occupancy at a global block position: a
// shelf of solid ground near the floor (y<6) and ceiling (y>=122) always
// solid, and in between, 3D fractal value noise thresholded so caverns
// and narrow tunnels both occur.
func (g *Generator) isSolid(x, y, z int32) bool {
	if y < 6 || y >= geometry.ChunkHeight-6 {
		return true
	}

	noise := g.fractalNoise3D(float64(x), float64(y), float64(z))

	// Bias the threshold by height so the mid-band (around y=64) is the
	// airiest, producing large caverns there and tighter passages nearer
	// the shelves.
	mid := float64(geometry.ChunkHeight) / 2
	distFromMid := math.Abs(float64(y) - mid)
	bias := distFromMid / mid // 0 at the center, ~1 near the shelves
	threshold := -0.15 + 0.55*bias

	return noise < threshold
}

func (g *Generator) fractalNoise3D(x, y, z float64) float64 {
	frequency := g.cfg.Frequency
	amplitude := 1.0
	sum := 0.0
	maxAmplitude := 0.0

	for i := 0; i < g.cfg.Octaves; i++ {
		sum += g.valueNoise3D(x*frequency, y*frequency, z*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= g.cfg.Persistence
		frequency *= g.cfg.Lacunarity
	}
	if maxAmplitude == 0 {
		return 0
	}
	return sum / maxAmplitude
}

func (g *Generator) valueNoise3D(x, y, z float64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	x1, y1, z1 := x0+1, y0+1, z0+1

	sx := smooth(x - x0)
	sy := smooth(y - y0)
	sz := smooth(z - z0)

	c000 := g.random3D(x0, y0, z0)
	c100 := g.random3D(x1, y0, z0)
	c010 := g.random3D(x0, y1, z0)
	c110 := g.random3D(x1, y1, z0)
	c001 := g.random3D(x0, y0, z1)
	c101 := g.random3D(x1, y0, z1)
	c011 := g.random3D(x0, y1, z1)
	c111 := g.random3D(x1, y1, z1)

	ix00 := lerp(c000, c100, sx)
	ix10 := lerp(c010, c110, sx)
	ix01 := lerp(c001, c101, sx)
	ix11 := lerp(c011, c111, sx)

	iy0 := lerp(ix00, ix10, sy)
	iy1 := lerp(ix01, ix11, sy)

	return lerp(iy0, iy1, sz)
}

func (g *Generator) random3D(x, y, z float64) float64 {
	h := hash4(int64(x), int64(y), int64(z), g.cfg.Seed)
	return float64(h&0xFFFF)/0x8000 - 1.0
}

func smooth(t float64) float64 { return t * t * (3 - 2*t) }

func lerp(a, b, t float64) float64 { return a + t*(b-a) }

func hash4(x, y, z, seed int64) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647 + seed*6547)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}
