package geom

import "errors"

// Error taxonomy shared by every pipeline stage. Stages wrap these with
// fmt.Errorf("...: %w", ...) so callers can classify failures with
// errors.Is while keeping the stage-local detail in the message.
var (
	// ErrDegenerateInput marks collinear or coincident points, zero-length
	// vectors, and triangulation parameters with no real solution.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrNotFound marks a landmark label absent from the repository.
	ErrNotFound = errors.New("not found")

	// ErrNoIntersection marks a cutting plane or sheet that does not meet
	// the target mesh.
	ErrNoIntersection = errors.New("no intersection")

	// ErrEmptyResult marks a clip, shell, or carve stage that produced no
	// geometry.
	ErrEmptyResult = errors.New("empty result")
)
