// Package repository wraps gorm queries behind small interfaces so handlers and
// services never touch a global database handle.
package repository

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = stderrors.New("record not found")
	ErrDuplicate = stderrors.New("duplicate record")
)

// Repositories bundles every repository built on one connection pool.
type Repositories struct {
	Users        UserRepository
	Patients     PatientRepository
	Doctors      DoctorRepository
	Predictions  PredictionRepository
	Reports      ReportRepository
	Appointments AppointmentRepository
	Messages     MessageRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Patients:     NewPatientRepository(db),
		Doctors:      NewDoctorRepository(db),
		Predictions:  NewPredictionRepository(db),
		Reports:      NewReportRepository(db),
		Appointments: NewAppointmentRepository(db),
		Messages:     NewMessageRepository(db),
	}
}

// translate maps gorm sentinel errors to repository ones and annotates the rest.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return errors.Wrap(err, op)
	}
}
