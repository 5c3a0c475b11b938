package artifact

import "fmt"

// ModelArtifactLoadError reports a missing or malformed model artifact.
type ModelArtifactLoadError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *ModelArtifactLoadError) Error() string {
	return fmt.Sprintf("load model artifact %s (%s): %v", e.Artifact, e.Path, e.Err)
}

func (e *ModelArtifactLoadError) Unwrap() error {
	return e.Err
}
