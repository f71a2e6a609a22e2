package formats

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Faultbox/midgard-morph/pkg/math"
	"github.com/Faultbox/midgard-morph/pkg/mesh"
)

// WriteSTLFile writes m to path as binary STL. STL carries no color or
// per-corner normals; facet normals are derived from the winding.
func WriteSTLFile(path string, m *mesh.Mesh) error {
	tris := make([]*sdf.Triangle3, len(m.Faces))
	for i := range m.Faces {
		c := m.Corners(i)
		tris[i] = &sdf.Triangle3{toV3(c[0]), toV3(c[1]), toV3(c[2])}
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("writing STL file: %w", err)
	}
	return nil
}

func toV3(v math.Vec3) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
