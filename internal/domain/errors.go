package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPropertyNotFound is returned by Node.Property when the node has no
	// property of that name.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrPropertyNotString is returned by Node.Property when the value
	// cannot be read as a string.
	ErrPropertyNotString = errors.New("property is not a string")

	// ErrRunInProgress means another run holds the repository lock.
	ErrRunInProgress = errors.New("another run is active against this repository")

	// ErrScaleLimitExceeded means the backend matched more nodes than
	// max_results allowed to be retrieved in one page.
	ErrScaleLimitExceeded = errors.New("match count exceeds max_results")
)

// ValidationError lists the request parameters that were missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing parameters: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError creates a ValidationError for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// QueryBackendError wraps a failed candidate search.
type QueryBackendError struct {
	BasePath string
	Cause    error
}

func (e *QueryBackendError) Error() string {
	return fmt.Sprintf("query under %s failed: %v", e.BasePath, e.Cause)
}

func (e *QueryBackendError) Unwrap() error {
	return e.Cause
}

// NodeStage names the step of a node mutation that failed.
type NodeStage string

const (
	StageRead   NodeStage = "read"
	StageWrite  NodeStage = "write"
	StageCommit NodeStage = "commit"
)

// NodeError is a failure isolated to one node. Stage distinguishes a
// property read error, a property write error and a commit error.
type NodeError struct {
	Stage NodeStage
	Path  string
	Cause error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Cause)
}

func (e *NodeError) Unwrap() error {
	return e.Cause
}

// NewNodeError creates a NodeError.
func NewNodeError(stage NodeStage, path string, cause error) *NodeError {
	return &NodeError{Stage: stage, Path: path, Cause: cause}
}
