// tournament/service/errors.go
package service

import "errors"

// Sentinel errors the API layer maps to HTTP status codes.
var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerAlreadyExists = errors.New("player already exists")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamAlreadyExists   = errors.New("team already exists")
	ErrMatchNotFound       = errors.New("match not found")
	ErrLineupNotFound      = errors.New("lineup not found")
	ErrLineupExists        = errors.New("lineup already named for this match and team")
	ErrInvalidLineup       = errors.New("invalid playing eleven")
	ErrInvalidRole         = errors.New("unknown player role")
	ErrSameTeams           = errors.New("a match needs two different teams")
)
