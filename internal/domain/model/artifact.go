package model

import (
	"path/filepath"
	"strconv"
	"time"
)

// FailureReason explains why an artifact could not be produced.
type FailureReason string

const (
	// FailureTimeoutExhausted means every attempt hit the per-attempt deadline.
	FailureTimeoutExhausted FailureReason = "timeout_exhausted"
	// FailureGeneratorFailed means at least one attempt returned an error and none succeeded.
	FailureGeneratorFailed FailureReason = "generator_failed"
)

// ArtifactResult is the outcome of generating one artifact with retries.
// It lives only for the duration of a job run.
type ArtifactResult struct {
	Path     string
	Reason   FailureReason
	Attempts int
	LastErr  error
}

// Success builds a successful result.
func Success(path string, attempts int) ArtifactResult {
	return ArtifactResult{Path: path, Attempts: attempts}
}

// Failure builds a failed result.
func Failure(reason FailureReason, attempts int, lastErr error) ArtifactResult {
	return ArtifactResult{Reason: reason, Attempts: attempts, LastErr: lastErr}
}

// Succeeded reports whether the result carries an artifact path.
func (r ArtifactResult) Succeeded() bool {
	return r.Reason == "" && r.Path != ""
}

// NumberedFilename is a sequentially numbered artifact name of the form
// {Dir}/{Prefix}{Seq}{Ext}.
//
// Numbers are derived from a directory scan, so only one writer per
// directory is supported.
type NumberedFilename struct {
	Dir    string
	Prefix string
	Seq    int
	Ext    string
}

// Base returns the file name without the directory.
func (n NumberedFilename) Base() string {
	return n.Prefix + strconv.Itoa(n.Seq) + n.Ext
}

// Path returns the full path of the file.
func (n NumberedFilename) Path() string {
	return filepath.Join(n.Dir, n.Base())
}

// DeliveryRequest asks a delivery session to transmit one artifact.
type DeliveryRequest struct {
	Path        string
	Destination Destination
	Timeout     time.Duration
	Caption     string
}
