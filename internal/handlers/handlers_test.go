package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dermacare-backend/internal/handlers"
	"dermacare-backend/internal/middleware"
	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/internal/routes"
	"dermacare-backend/internal/services/appointment"
	"dermacare-backend/internal/services/auth"
	"dermacare-backend/internal/services/messaging"
	"dermacare-backend/internal/services/report"
	"dermacare-backend/internal/testutil"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *utils.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	repos := repository.New(db)
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	log := zap.NewNop()
	notifier := utils.NopNotifier{}

	h := handlers.New(
		repos,
		auth.New(repos, tokens, log),
		appointment.New(repos, notifier, log),
		messaging.New(repos, notifier, log),
		report.New(repos, log),
		log,
	)

	r := gin.New()
	routes.SetupRoutes(r, h, middleware.AuthMiddleware(tokens, repos.Users))
	return &testEnv{router: r, db: db, tokens: tokens}
}

// do sends a JSON request, authenticated as user when user is not nil.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := e.tokens.GenerateToken(user.ID, user.Email)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *testEnv) appointmentStatus(t *testing.T, id string) models.AppointmentStatus {
	t.Helper()
	var a models.Appointment
	require.NoError(t, e.db.First(&a, utils.StringToUint64(id)).Error)
	return a.Status
}

func TestConfigAndPing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/config", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"strategy":"email"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", gin.H{"email": "ann@example.com", "password": "pw"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "ann@example.com", body["email"])
	assert.Equal(t, "patient", body["role"])
	assert.Equal(t, body["accessToken"], body["refreshToken"])
	assert.NotEmpty(t, body["accessToken"])

	w = env.do(t, http.MethodPost, "/api/auth/register", gin.H{"email": "ann@example.com", "password": "pw2"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decodeBody(t, w)["message"])

	var count int64
	env.db.Model(&models.User{}).Where("email = ?", "ann@example.com").Count(&count)
	assert.EqualValues(t, 1, count)

	w = env.do(t, http.MethodPost, "/api/auth/register", gin.H{"email": "not-an-email"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodPost, "/api/auth/register", gin.H{"email": "bob@example.com", "role": "admin"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDoctorLoginWithNameReturnsUserSubject(t *testing.T) {
	env := newTestEnv(t)
	doctorUser, _ := testutil.CreateDoctor(t, env.db, "gregoryhouse@hospital.com", "Gregory House")

	w := env.do(t, http.MethodPost, "/api/auth/login",
		gin.H{"email": "gregoryhouse@hospital.com", "password": "Gregory House"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Gregory House", body["name"])
	assert.Equal(t, "doctor", body["role"])

	sub, claims, err := env.tokens.ParseToken(body["accessToken"].(string))
	require.NoError(t, err)
	assert.Equal(t, doctorUser.ID, sub)
	assert.Equal(t, "gregoryhouse@hospital.com", claims.Email)

	w = env.do(t, http.MethodPost, "/api/auth/login",
		gin.H{"email": "gregoryhouse@hospital.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email or password is incorrect", decodeBody(t, w)["message"])
}

func TestMeAndRefresh(t *testing.T) {
	env := newTestEnv(t)
	user, _ := testutil.CreatePatient(t, env.db, "pat@example.com", "Pat")

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pat", decodeBody(t, w)["name"])

	w = env.do(t, http.MethodPost, "/api/auth/token/refresh", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	sub, _, err := env.tokens.ParseToken(data["accessToken"].(string))
	require.NoError(t, err)
	assert.Equal(t, user.ID, sub)
}

func TestDoctors(t *testing.T) {
	env := newTestEnv(t)
	_, doctor := testutil.CreateDoctor(t, env.db, "house@hospital.com", "Gregory House")

	w := env.do(t, http.MethodGet, "/api/auth/doctors", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	doctors := decodeBody(t, w)["doctors"].([]interface{})
	require.Len(t, doctors, 1)
	first := doctors[0].(map[string]interface{})
	assert.Equal(t, utils.FormatID(doctor.ID), first["_id"])
	assert.Equal(t, "Practicing at City Hospital", first["bio"])
	assert.Equal(t, "Dermatologist", first["specialization"])

	w = env.do(t, http.MethodGet, "/api/auth/doctors/"+utils.FormatID(doctor.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody(t, w)
	assert.Equal(t, "Practicing at City Hospital, Downtown", detail["bio"])
	assert.EqualValues(t, 150, detail["reviewCount"])

	w = env.do(t, http.MethodGet, "/api/auth/doctors/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Doctor not found", decodeBody(t, w)["message"])
}

func TestAppointmentWorkflow(t *testing.T) {
	env := newTestEnv(t)
	patient, _ := testutil.CreatePatient(t, env.db, "pat@example.com", "Pat")
	other, _ := testutil.CreatePatient(t, env.db, "other@example.com", "Other")
	doctorUser, doctor := testutil.CreateDoctor(t, env.db, "house@hospital.com", "Gregory House")
	pred := testutil.CreatePrediction(t, env.db, patient.ID, "Melanoma")

	w := env.do(t, http.MethodGet, "/api/auth/appointments", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// doctors cannot book
	w = env.do(t, http.MethodPost, "/api/auth/appointments",
		gin.H{"doctorId": utils.FormatID(doctor.ID)}, doctorUser)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// role is decided before the doctor lookup
	w = env.do(t, http.MethodPost, "/api/auth/appointments", gin.H{"doctorId": "not-a-number"}, doctorUser)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// unknown doctor is not replaced by another one
	w = env.do(t, http.MethodPost, "/api/auth/appointments/request", gin.H{"doctorId": "9999"}, patient)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodPost, "/api/auth/appointments/request", gin.H{"doctorId": "not-a-number"}, patient)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/appointments/request", gin.H{
		"doctorId":      utils.FormatID(doctor.ID),
		"predictionId":  utils.FormatID(pred.ID),
		"preferredDate": "2026-05-04",
		"preferredTime": "14:30",
	}, patient)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody(t, w)
	assert.Equal(t, "pending", created["status"])
	id := created["_id"].(string)

	w = env.do(t, http.MethodGet, "/api/auth/appointments", nil, doctorUser)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody(t, w)["appointments"].([]interface{})
	require.Len(t, list, 1)
	row := list[0].(map[string]interface{})
	assert.Equal(t, "Pat", row["patientName"])
	assert.Equal(t, "Gregory House", row["doctorName"])
	assert.Equal(t, "02:30 PM", row["time"])
	assert.Equal(t, "Melanoma", row["disease"])

	w = env.do(t, http.MethodGet, "/api/auth/appointments", nil, other)
	assert.Empty(t, decodeBody(t, w)["appointments"])

	// patient confirm is refused and leaves the status alone
	w = env.do(t, http.MethodPost, "/api/auth/appointments/"+id+"/confirm", nil, patient)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.StatusPending, env.appointmentStatus(t, id))

	// invalid status value fails validation before the caller is even considered
	w = env.do(t, http.MethodPost, "/api/auth/appointments/"+id+"/status", gin.H{"status": "archived"}, other)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid status", decodeBody(t, w)["message"])

	w = env.do(t, http.MethodPost, "/api/auth/appointments/9999/confirm", nil, doctorUser)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/appointments/"+id+"/confirm", nil, doctorUser)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", decodeBody(t, w)["status"])

	w = env.do(t, http.MethodPost, "/api/auth/appointments/"+id+"/status", gin.H{"status": "completed"}, doctorUser)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", decodeBody(t, w)["status"])

	w = env.do(t, http.MethodDelete, "/api/auth/appointments/"+id+"/cancel", nil, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// owner cancel works even after completion
	w = env.do(t, http.MethodDelete, "/api/auth/appointments/"+id, nil, patient)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decodeBody(t, w)["status"])
	assert.Equal(t, models.StatusCancelled, env.appointmentStatus(t, id))

	w = env.do(t, http.MethodGet, "/api/auth/doctor/stats", nil, doctorUser)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody(t, w)
	assert.EqualValues(t, 1, stats["totalPatients"])
	assert.EqualValues(t, 1, stats["cancelledAppointments"])

	w = env.do(t, http.MethodGet, "/api/auth/doctor/stats", nil, patient)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateAppointmentNeedsCompleteProfile(t *testing.T) {
	env := newTestEnv(t)
	bare := testutil.CreateUser(t, env.db, "bare@example.com", models.RolePatient)
	_, doctor := testutil.CreateDoctor(t, env.db, "house@hospital.com", "Gregory House")

	w := env.do(t, http.MethodPost, "/api/auth/appointments", gin.H{"doctorId": utils.FormatID(doctor.ID)}, bare)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/patient/profile",
		gin.H{"name": "Bare", "age": 41, "gender": "other", "mail_id": "bare@example.com"}, bare)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/auth/appointments", gin.H{"doctorId": utils.FormatID(doctor.ID)}, bare)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestProfiles(t *testing.T) {
	env := newTestEnv(t)
	patient := testutil.CreateUser(t, env.db, "pat@example.com", models.RolePatient)
	doctorUser := testutil.CreateUser(t, env.db, "doc@example.com", models.RoleDoctor)

	w := env.do(t, http.MethodGet, "/api/auth/patient-profile", nil, patient)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/patient-profile", gin.H{"name": "Pat", "gender": "robot"}, patient)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/patient-profile",
		gin.H{"name": "Pat", "age": 33, "gender": "female", "mail_id": "pat@mail.com"}, patient)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/auth/patient-profile",
		gin.H{"name": "Patricia", "age": 34, "gender": "female", "mail_id": "pat@mail.com"}, patient)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/patient/profile", nil, patient)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Patricia", body["name"])
	assert.EqualValues(t, 34, body["age"])

	var count int64
	env.db.Model(&models.Patient{}).Count(&count)
	assert.EqualValues(t, 1, count)

	w = env.do(t, http.MethodGet, "/api/auth/patient-profile", nil, doctorUser)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/doctor-profile", gin.H{"name": "Dr Who"}, patient)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/doctor-profile",
		gin.H{"name": "Dr Who", "education": "MBBS", "hospital": "Tardis General", "hospital_location": "Gallifrey"}, doctorUser)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/auth/doctors", nil, nil)
	doctors := decodeBody(t, w)["doctors"].([]interface{})
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr Who", doctors[0].(map[string]interface{})["name"])
}

func TestPredictionsAndReports(t *testing.T) {
	env := newTestEnv(t)
	patient, _ := testutil.CreatePatient(t, env.db, "pat@example.com", "Pat")
	other, _ := testutil.CreatePatient(t, env.db, "other@example.com", "Other")

	w := env.do(t, http.MethodPost, "/api/auth/predictions", gin.H{"disease": "Eczema", "confidence": 140, "imageUrl": "x"}, patient)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/predictions", gin.H{
		"disease": "Eczema", "confidence": 65.8, "imageUrl": "https://example.com/e.jpg", "bodyPart": "Hand",
	}, patient)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	predID := decodeBody(t, w)["_id"].(string)

	w = env.do(t, http.MethodGet, "/api/auth/predictions", nil, patient)
	assert.Len(t, decodeBody(t, w)["predictions"], 1)
	w = env.do(t, http.MethodGet, "/api/auth/predictions", nil, other)
	assert.Empty(t, decodeBody(t, w)["predictions"])

	w = env.do(t, http.MethodGet, "/api/auth/predictions/"+predID, nil, patient)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/auth/predictions/"+predID, nil, other)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/reports/generate", gin.H{"predictionId": predID}, other)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodPost, "/api/auth/reports/generate", gin.H{"predictionId": "mock"}, patient)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/reports/generate", gin.H{"predictionId": predID}, patient)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rep := decodeBody(t, w)
	assert.Equal(t, "Pat", rep["patientName"])
	assert.Equal(t, "Eczema", rep["disease"])
	assert.Regexp(t, `^/reports/report_.+\.pdf$`, rep["pdfUrl"])

	w = env.do(t, http.MethodGet, "/api/auth/reports", nil, patient)
	assert.Len(t, decodeBody(t, w)["reports"], 1)
}

func TestMessaging(t *testing.T) {
	env := newTestEnv(t)
	patient, _ := testutil.CreatePatient(t, env.db, "pat@example.com", "Pat")
	doctorUser, doctor := testutil.CreateDoctor(t, env.db, "house@hospital.com", "Gregory House")

	w := env.do(t, http.MethodPost, "/api/auth/messages/send", gin.H{"doctorId": "9999", "content": "hi"}, patient)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/messages", gin.H{"doctorId": utils.FormatID(doctor.ID)}, patient)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/messages/send",
		gin.H{"doctorId": utils.FormatID(doctor.ID), "content": "Is this mole serious?"}, patient)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sent := decodeBody(t, w)
	assert.Equal(t, "Message sent successfully", sent["message"])
	msgID := sent["data"].(map[string]interface{})["_id"].(string)

	w = env.do(t, http.MethodGet, "/api/auth/conversations", nil, doctorUser)
	require.Equal(t, http.StatusOK, w.Code)
	convs := decodeBody(t, w)["conversations"].([]interface{})
	require.Len(t, convs, 1)
	conv := convs[0].(map[string]interface{})
	assert.Equal(t, "Pat", conv["participantName"])
	assert.EqualValues(t, 1, conv["unreadCount"])

	w = env.do(t, http.MethodGet, "/api/auth/doctor/stats", nil, doctorUser)
	assert.EqualValues(t, 1, decodeBody(t, w)["unreadMessages"])

	w = env.do(t, http.MethodPost, "/api/auth/messages/"+msgID+"/read", nil, patient)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodPost, "/api/auth/messages/"+msgID+"/read", nil, doctorUser)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/messages", nil, doctorUser)
	msgs := decodeBody(t, w)["messages"].([]interface{})
	require.Len(t, msgs, 1)
	assert.Equal(t, true, msgs[0].(map[string]interface{})["isRead"])
}
