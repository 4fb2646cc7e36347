package models

import (
	"fmt"
	"strings"
)

// ProviderErrorKind classifies a statistics provider failure
type ProviderErrorKind string

const (
	ProviderTransport ProviderErrorKind = "transport"
	ProviderStatus    ProviderErrorKind = "status"
	ProviderDecode    ProviderErrorKind = "decode"
	ProviderUpstream  ProviderErrorKind = "upstream"
	ProviderMalformed ProviderErrorKind = "malformed"
)

// ProviderError is returned once the statistics provider has failed every attempt
type ProviderError struct {
	Kind     ProviderErrorKind
	TeamID   string
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s error for team %s after %d attempts: %v", e.Kind, e.TeamID, e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NotFoundError reports a category the provider did not return for a team
type NotFoundError struct {
	Category  string
	Team      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no stats found for category: %s. Available categories: %s", e.Category, strings.Join(e.Available, ", "))
}

// EmptyResultError reports an aggregation that produced no statistics for a team
type EmptyResultError struct {
	Team string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no stats available for team %s", e.Team)
}

// CompletionError wraps any failure of the narrative completion call
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion failed: %v", e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// InvalidTeamError reports a team key outside the supported roster
type InvalidTeamError struct {
	Team      string
	Available []string
}

func (e *InvalidTeamError) Error() string {
	return fmt.Sprintf("invalid team selection %q. Available teams: %s", e.Team, strings.Join(e.Available, ", "))
}
