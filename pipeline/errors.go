package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig indicates an invalid configuration value.
	ErrConfig = errors.New("pipeline: invalid config")

	// ErrBranch indicates a branch order the stack cannot serve.
	ErrBranch = errors.New("pipeline: invalid branch order")
)

func pipelineErrorf(tag string, err error) error {
	return fmt.Errorf("pipeline.%s: %w", tag, err)
}
