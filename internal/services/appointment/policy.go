package appointment

import "dermacare-backend/internal/models"

var transitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled},
}

// CanTransition reports whether the workflow allows from -> to.
// Staying in the same status is always allowed and treated as a no-op.
func CanTransition(from, to models.AppointmentStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func isAssignedDoctor(u *models.User, a *models.Appointment) bool {
	return a.Doctor.UserID != 0 && a.Doctor.UserID == u.ID
}

// CanCancel: the owning patient, any doctor, the assigned doctor or staff.
func CanCancel(u *models.User, a *models.Appointment) bool {
	return u.IsStaff || u.IsDoctor() || a.PatientID == u.ID || isAssignedDoctor(u, a)
}

// CanConfirm: any doctor, the assigned doctor or staff.
func CanConfirm(u *models.User, a *models.Appointment) bool {
	return u.IsStaff || u.IsDoctor() || isAssignedDoctor(u, a)
}

// canConfirmAny is the part of CanConfirm that needs no appointment.
func canConfirmAny(u *models.User) bool {
	return u.IsStaff || u.IsDoctor()
}

// CanSetStatus is the role rule of the generic status update:
// patients may only cancel, doctors may set anything but cancelled.
func CanSetStatus(u *models.User, target models.AppointmentStatus) bool {
	switch {
	case u.IsPatient():
		return target == models.StatusCancelled
	case u.IsDoctor():
		return target != models.StatusCancelled
	}
	return false
}
