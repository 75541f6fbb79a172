package appointment

import "errors"

var (
	ErrNotFound           = errors.New("appointment not found")
	ErrForbidden          = errors.New("not allowed to change this appointment")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidTransition  = errors.New("status change not allowed from current status")
	ErrIncompleteProfile  = errors.New("patient profile must have a name and contact email")
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrInvalidSchedule    = errors.New("invalid preferred date or time")
)
