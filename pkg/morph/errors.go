package morph

import "errors"

var (
	// ErrReconstruction is returned when a sphere point has no preimage on a
	// mesh, which happens when the mesh is not star-shaped about its centroid.
	ErrReconstruction = errors.New("inverse projection failed")

	// ErrDegenerateVertex is returned for a vertex located at the mesh
	// centroid, whose sphere projection is undefined.
	ErrDegenerateVertex = errors.New("vertex at projection center")

	// ErrInvalidRatio is returned by Interpolate for a ratio outside [0, 1].
	ErrInvalidRatio = errors.New("ratio out of range")

	// ErrInvalidOption is returned by NewProjection for a radius or
	// tolerance that is not positive.
	ErrInvalidOption = errors.New("invalid projection option")

	// ErrConfigMismatch is returned by Build when the two projections do not
	// share a sphere radius and tolerance.
	ErrConfigMismatch = errors.New("projection settings differ")
)
