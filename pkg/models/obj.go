package models

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/dotraster/pkg/math3d"
)

// LoadOBJ reads a Wavefront .obj file and returns its geometry as a Mesh.
// It supports v/vn/vt, f (triangles and convex polygons, fan-triangulated),
// and negative relative indices. mtllib directives load a companion .mtl
// file (best-effort: a missing or unreadable library is skipped rather
// than failing the whole load) into the mesh's material palette, and
// usemtl assigns the current material to subsequently emitted faces.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	var positions []math3d.Vec3
	var normals []math3d.Vec3
	var uvs []math3d.Vec2

	mesh := NewMesh(filepath.Base(path))
	hasNormals := false

	mtlDefs := map[string]Material{}
	materialIndex := map[string]int{}
	currentMaterial := -1
	dir := filepath.Dir(path)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			positions = append(positions, v)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			normals = append(normals, n)
		case "vt":
			uv, err := parseVec2(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			uvs = append(uvs, uv)
		case "mtllib":
			for _, name := range fields[1:] {
				defs, err := loadMTL(filepath.Join(dir, name))
				if err != nil {
					continue
				}
				for k, v := range defs {
					mtlDefs[k] = v
				}
			}
		case "usemtl":
			if len(fields) < 2 {
				continue
			}
			name := fields[1]
			idx, ok := materialIndex[name]
			if !ok {
				def, found := mtlDefs[name]
				if !found {
					def = Material{Name: name, BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 1}
				}
				mesh.Materials = append(mesh.Materials, def)
				idx = len(mesh.Materials) - 1
				materialIndex[name] = idx
			}
			currentMaterial = idx
		case "f":
			verts := make([]int, 0, len(fields)-1)
			for _, token := range fields[1:] {
				idx, err := appendOBJVertex(mesh, token, positions, normals, uvs)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
				}
				verts = append(verts, idx)
				if len(normals) > 0 {
					hasNormals = true
				}
			}
			// Fan-triangulate convex polygons (the common case is a
			// triangle, where this loop runs once).
			for i := 1; i+1 < len(verts); i++ {
				mesh.Faces = append(mesh.Faces, Face{
					V:        [3]int{verts[0], verts[i], verts[i+1]},
					Material: currentMaterial,
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if !hasNormals {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// loadMTL parses a Wavefront .mtl material library, returning its
// definitions keyed by material name.
func loadMTL(path string) (map[string]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	defs := map[string]Material{}
	var current string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				continue
			}
			current = fields[1]
			defs[current] = Material{Name: current, BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 1}
		case "Kd":
			if current == "" || len(fields) < 4 {
				continue
			}
			c, err := parseVec3(fields[1:])
			if err != nil {
				continue
			}
			m := defs[current]
			m.BaseColor[0], m.BaseColor[1], m.BaseColor[2] = c.X, c.Y, c.Z
			defs[current] = m
		case "Ns":
			if current == "" || len(fields) < 2 {
				continue
			}
			shininess, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				continue
			}
			m := defs[current]
			m.Roughness = 1 - clamp01(shininess/1000)
			defs[current] = m
		case "Pm":
			if current == "" || len(fields) < 2 {
				continue
			}
			metallic, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				continue
			}
			m := defs[current]
			m.Metallic = clamp01(metallic)
			defs[current] = m
		case "map_Kd":
			if current == "" {
				continue
			}
			m := defs[current]
			m.HasTexture = true
			defs[current] = m
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// appendOBJVertex resolves a face-vertex token ("v", "v/vt", "v//vn", or
// "v/vt/vn", any of which may use OBJ's 1-based or negative relative
// indexing) into a MeshVertex appended to mesh, returning its index.
func appendOBJVertex(mesh *Mesh, token string, positions, normals []math3d.Vec3, uvs []math3d.Vec2) (int, error) {
	parts := strings.Split(token, "/")

	vi, err := resolveOBJIndex(parts[0], len(positions))
	if err != nil {
		return 0, fmt.Errorf("vertex index %q: %w", token, err)
	}

	var uv math3d.Vec2
	if len(parts) > 1 && parts[1] != "" {
		ti, err := resolveOBJIndex(parts[1], len(uvs))
		if err != nil {
			return 0, fmt.Errorf("uv index %q: %w", token, err)
		}
		uv = uvs[ti]
	}

	var normal math3d.Vec3
	if len(parts) > 2 && parts[2] != "" {
		ni, err := resolveOBJIndex(parts[2], len(normals))
		if err != nil {
			return 0, fmt.Errorf("normal index %q: %w", token, err)
		}
		normal = normals[ni]
	}

	mesh.Vertices = append(mesh.Vertices, MeshVertex{
		Position: positions[vi],
		Normal:   normal,
		UV:       uv,
	})
	return len(mesh.Vertices) - 1, nil
}

// resolveOBJIndex converts a 1-based or negative-relative OBJ index into a
// zero-based slice index.
func resolveOBJIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = count + n
	} else {
		n--
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("index %s out of range for %d elements", s, count)
	}
	return n, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return math3d.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return math3d.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return math3d.Vec3{}, err
	}
	return math3d.V3(x, y, z), nil
}

func parseVec2(fields []string) (math3d.Vec2, error) {
	if len(fields) < 2 {
		return math3d.Vec2{}, fmt.Errorf("expected 2 components, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return math3d.Vec2{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return math3d.Vec2{}, err
	}
	// OBJ texture coordinates use a bottom-left origin already, matching
	// this engine's UV convention, so no flip is needed here (unlike GLTF).
	return math3d.V2(x, y), nil
}
