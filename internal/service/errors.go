package service

import "errors"

var (
	ErrTimezoneNotSet   = errors.New("timezone not set")
	ErrInvalidTimezone  = errors.New("invalid timezone")
	ErrUnknownTerritory = errors.New("unknown territory")
	ErrSlotNotFound     = errors.New("timeslot not found")
	ErrSlotUnavailable  = errors.New("timeslot not found or already booked")
	ErrAlreadyBooked    = errors.New("user already has a booking")
	ErrEmptyUsername    = errors.New("got username is required")
)
