package common

import (
	"errors"
	"fmt"
)

// DecodeError reports an input image that could not be decoded at all.
// It is the only error the analysis pipeline propagates to its caller;
// everything else degrades to an absent section in the result record.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("undecodable image: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("undecodable image: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConversionError reports a GPS rational that cannot be converted to a
// decimal coordinate (zero denominator, incomplete triple, unknown
// hemisphere reference, or an out-of-range result).
type ConversionError struct {
	Field  string
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("gps conversion failed for %s: %s", e.Field, e.Reason)
}

// MalformedDataError reports a metadata block that exists but cannot be
// parsed. The owning extractor recovers by reporting its section absent.
type MalformedDataError struct {
	Section string
	Err     error
}

func (e *MalformedDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s block: %v", e.Section, e.Err)
	}
	return fmt.Sprintf("malformed %s block", e.Section)
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}

// EngineFailureError reports a runtime fault from an engine that probed
// as available. Recovered locally: the call behaves as if the engine
// produced no output.
type EngineFailureError struct {
	Engine string
	Err    error
}

func (e *EngineFailureError) Error() string {
	return fmt.Sprintf("%s engine failure: %v", e.Engine, e.Err)
}

func (e *EngineFailureError) Unwrap() error {
	return e.Err
}

// ConfigError reports invalid application configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func NewDecodeError(reason string, err error) error {
	return &DecodeError{Reason: reason, Err: err}
}

func NewConversionError(field, reason string) error {
	return &ConversionError{Field: field, Reason: reason}
}

func NewMalformedDataError(section string, err error) error {
	return &MalformedDataError{Section: section, Err: err}
}

func NewEngineFailureError(engine string, err error) error {
	return &EngineFailureError{Engine: engine, Err: err}
}

func NewConfigError(message string) error {
	return &ConfigError{Message: message}
}

// IsDecodeError reports whether err is a DecodeError anywhere in its chain.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsConversionError reports whether err is a ConversionError anywhere in its chain.
func IsConversionError(err error) bool {
	var ce *ConversionError
	return errors.As(err, &ce)
}
