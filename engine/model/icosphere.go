package model

import (
	"math"
)

var (
	icosahedronPhi = (1 + math.Sqrt(5)) / 2

	icosahedronVertices = [12][3]float64{
		{-1, icosahedronPhi, 0}, {1, icosahedronPhi, 0}, {-1, -icosahedronPhi, 0}, {1, -icosahedronPhi, 0},
		{0, -1, icosahedronPhi}, {0, 1, icosahedronPhi}, {0, -1, -icosahedronPhi}, {0, 1, -icosahedronPhi},
		{icosahedronPhi, 0, -1}, {icosahedronPhi, 0, 1}, {-icosahedronPhi, 0, -1}, {-icosahedronPhi, 0, 1},
	}

	icosahedronFaces = [20][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// vertexKey identifies a vertex for merging. Positions and UVs are quantized so vertices produced
// by neighbouring faces collapse into one, while vertices on the UV seam stay separate.
type vertexKey [5]int64

const mergePrecision = 1e4

func keyOf(v GPUVertex) vertexKey {
	q := func(f float32) int64 { return int64(math.Round(float64(f) * mergePrecision)) }
	return vertexKey{q(v.Position[0]), q(v.Position[1]), q(v.Position[2]), q(v.TexCoord[0]), q(v.TexCoord[1])}
}

// IcosphereTriangleCount returns the number of triangles NewIcosphere produces for a detail level.
func IcosphereTriangleCount(detail int) int {
	n := max(detail, 0) + 1
	return 20 * n * n
}

// NewIcosphere builds a sphere by subdividing each icosahedron face into (detail+1)^2 triangles and
// projecting every vertex onto the sphere. Vertices shared by adjacent triangles are merged so the
// surface deforms without cracks.
//
// Parameters:
//   - radius: sphere radius
//   - detail: number of extra subdivisions per face edge; 0 yields the plain icosahedron
//
// Returns:
//   - []GPUVertex: merged vertices with unit normals and equirectangular UVs
//   - []uint32: triangle list indices, counter-clockwise when viewed from outside
func NewIcosphere(radius float32, detail int) ([]GPUVertex, []uint32) {
	n := max(detail, 0) + 1

	vertices := make([]GPUVertex, 0, 10*n*n+2)
	indices := make([]uint32, 0, IcosphereTriangleCount(detail)*3)
	lookup := make(map[vertexKey]uint32, 10*n*n+2)

	emit := func(p [3]float64) uint32 {
		v := sphereVertex(p, radius)
		k := keyOf(v)
		if idx, ok := lookup[k]; ok {
			return idx
		}
		idx := uint32(len(vertices))
		vertices = append(vertices, v)
		lookup[k] = idx
		return idx
	}

	for _, f := range icosahedronFaces {
		a, b, c := icosahedronVertices[f[0]], icosahedronVertices[f[1]], icosahedronVertices[f[2]]

		// Grid of points on the face: row i runs from a towards c, column j from the left edge towards b.
		grid := make([][]uint32, n+1)
		for i := 0; i <= n; i++ {
			aj := lerp3(a, c, float64(i)/float64(n))
			bj := lerp3(b, c, float64(i)/float64(n))
			rows := n - i
			grid[i] = make([]uint32, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == n {
					grid[i][j] = emit(aj)
					continue
				}
				grid[i][j] = emit(lerp3(aj, bj, float64(j)/float64(rows)))
			}
		}

		for i := 0; i < n; i++ {
			for j := 0; j < 2*(n-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					indices = append(indices, grid[i][k+1], grid[i+1][k], grid[i][k])
				} else {
					indices = append(indices, grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
				}
			}
		}
	}
	return correctSeam(vertices, indices), indices
}

// correctSeam rewrites triangles that straddle the u=0/1 seam so their UVs run past 1 instead of
// wrapping back across the whole texture. Affected vertices are duplicated with u+1; the gradient
// sampler repeats so the shifted coordinates sample the same texels.
func correctSeam(vertices []GPUVertex, indices []uint32) []GPUVertex {
	shifted := make(map[uint32]uint32)
	for tri := 0; tri+2 < len(indices); tri += 3 {
		lo, hi := float32(1), float32(0)
		for _, idx := range indices[tri : tri+3] {
			u := vertices[idx].TexCoord[0]
			lo, hi = min(lo, u), max(hi, u)
		}
		if hi-lo < 0.5 {
			continue
		}
		for k := tri; k < tri+3; k++ {
			idx := indices[k]
			if vertices[idx].TexCoord[0] >= 0.5 {
				continue
			}
			dup, ok := shifted[idx]
			if !ok {
				v := vertices[idx]
				v.TexCoord[0]++
				dup = uint32(len(vertices))
				vertices = append(vertices, v)
				shifted[idx] = dup
			}
			indices[k] = dup
		}
	}
	return vertices
}

func lerp3(a, b [3]float64, t float64) [3]float64 {
	return [3]float64{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// sphereVertex projects p onto a sphere of the given radius and derives its normal and UV.
func sphereVertex(p [3]float64, radius float32) GPUVertex {
	l := math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
	x, y, z := p[0]/l, p[1]/l, p[2]/l

	u := math.Atan2(z, -x)/(2*math.Pi) + 0.5
	v := math.Atan2(-y, math.Sqrt(x*x+z*z))/math.Pi + 0.5

	r := float64(radius)
	return GPUVertex{
		Position: [3]float32{float32(x * r), float32(y * r), float32(z * r)},
		Normal:   [3]float32{float32(x), float32(y), float32(z)},
		TexCoord: [2]float32{float32(u), float32(1 - v)},
	}
}
