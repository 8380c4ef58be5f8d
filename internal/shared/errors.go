package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Proxy scheme errors
	ErrSchemeNotFound = fmt.Errorf("proxy scheme not found")

	// Pipeline errors
	ErrSessionReleased   = fmt.Errorf("session released")
	ErrTransformReleased = fmt.Errorf("transform released")
	ErrNoRelevantResult  = fmt.Errorf("no relevant result")
	ErrVideoNotFound     = fmt.Errorf("video not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidRow      = fmt.Errorf("row must provide an id or a title and author name")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
