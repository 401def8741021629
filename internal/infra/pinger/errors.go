package pinger

import "errors"

// ErrPingerAlreadyRegistered is returned when attempting to register a pinger that already exists
var ErrPingerAlreadyRegistered = errors.New("pinger already registered")
