package handlers

import (
	"time"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/services/auth"
	"dermacare-backend/internal/services/messaging"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// The web client reads camelCase keys and string "_id" values.

const displayTimeLayout = "03:04 PM"

func accountView(u *models.User, name string) gin.H {
	return gin.H{
		"_id":         utils.FormatID(u.ID),
		"email":       u.Email,
		"role":        u.Role,
		"name":        name,
		"isActive":    u.IsActive,
		"isStaff":     u.IsStaff,
		"createdAt":   u.CreatedAt,
		"lastLoginAt": u.LastLoginAt,
	}
}

func sessionView(s *auth.Session) gin.H {
	view := accountView(s.User, s.Name)
	view["accessToken"] = s.Token
	view["refreshToken"] = s.Token
	return view
}

func doctorView(d *models.Doctor) gin.H {
	return gin.H{
		"_id":            utils.FormatID(d.ID),
		"userId":         utils.FormatID(d.UserID),
		"name":           d.Name,
		"specialization": "Dermatologist",
		"bio":            "Practicing at " + d.Hospital,
		"qualifications": []string{d.Education},
		"responseTime":   "24 hours",
		"isAvailable":    true,
		"avatar":         "",
		"rating":         4.5,
		"hospital":       d.Hospital,
		"location":       d.HospitalLocation,
		"education":      d.Education,
	}
}

func doctorDetailView(d *models.Doctor) gin.H {
	view := doctorView(d)
	view["specialization"] = "Dermatology"
	view["bio"] = "Practicing at " + d.Hospital + ", " + d.HospitalLocation
	view["reviewCount"] = 150
	view["experience"] = 10
	return view
}

func patientView(p *models.Patient) gin.H {
	return gin.H{
		"_id":     utils.FormatID(p.ID),
		"name":    p.Name,
		"age":     p.Age,
		"gender":  p.Gender,
		"mail_id": p.MailID,
	}
}

func predictionView(p *models.Prediction) gin.H {
	return gin.H{
		"_id":        utils.FormatID(p.ID),
		"disease":    p.Disease,
		"confidence": p.Confidence,
		"timestamp":  p.Timestamp.Format(time.RFC3339),
		"imageUrl":   p.ImageURL,
		"bodyPart":   p.BodyPart,
		"symptoms":   p.Symptoms,
		"duration":   p.Duration,
	}
}

func appointmentView(a *models.Appointment, patientName string) gin.H {
	disease, confidence, imageURL := "General Consultation", 0.0, ""
	if a.Prediction != nil {
		disease, confidence, imageURL = a.Prediction.Disease, a.Prediction.Confidence, a.Prediction.ImageURL
	}

	return gin.H{
		"_id":          utils.FormatID(a.ID),
		"doctorId":     utils.FormatID(a.DoctorID),
		"doctorName":   a.Doctor.Name,
		"doctorAvatar": "",
		"patientId":    utils.FormatID(a.PatientID),
		"patientName":  patientName,
		"date":         a.Date,
		"time":         displayTime(a.Time),
		"status":       a.Status,
		"disease":      disease,
		"confidence":   confidence,
		"imageUrl":     imageURL,
	}
}

// displayTime renders "14:30" as "02:30 PM"; unparsable values pass through.
func displayTime(clock string) string {
	t, err := time.Parse(models.AppointmentTimeLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format(displayTimeLayout)
}

func messageView(m *models.Message) gin.H {
	return gin.H{
		"_id":          utils.FormatID(m.ID),
		"senderId":     utils.FormatID(m.SenderID),
		"senderName":   m.Sender.Email,
		"receiverId":   utils.FormatID(m.ReceiverID),
		"receiverName": m.Receiver.Email,
		"content":      m.Content,
		"timestamp":    m.Timestamp.Format(time.RFC3339),
		"isRead":       m.IsRead,
	}
}

func conversationView(c *messaging.Conversation) gin.H {
	view := gin.H{
		"_id":             utils.FormatID(c.Counterpart.ID),
		"participantId":   utils.FormatID(c.Counterpart.ID),
		"participantName": c.CounterpartName,
		"doctorId":        "",
		"doctorName":      "",
		"doctorAvatar":    "",
		"lastMessage":     c.LastMessage.Content,
		"lastMessageTime": c.LastMessage.Timestamp.Format(time.RFC3339),
		"unreadCount":     c.UnreadCount,
	}
	if c.DoctorID != 0 {
		view["doctorId"] = utils.FormatID(c.DoctorID)
		view["doctorName"] = c.CounterpartName
	}
	return view
}

func reportView(r *models.Report) gin.H {
	return gin.H{
		"_id":           utils.FormatID(r.ID),
		"predictionId":  utils.FormatID(r.PredictionID),
		"patientName":   r.PatientName,
		"patientAge":    r.PatientAge,
		"patientGender": r.PatientGender,
		"disease":       r.Prediction.Disease,
		"confidence":    r.Prediction.Confidence,
		"timestamp":     r.CreatedAt.Format(time.RFC3339),
		"pdfUrl":        r.PDFURL,
	}
}
