// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"dermacare-backend/internal/database"
	"dermacare-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts an active account with the given role.
func CreateUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Role: role, PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreatePatient(t *testing.T, db *gorm.DB, email, name string) (*models.User, *models.Patient) {
	t.Helper()
	u := CreateUser(t, db, email, models.RolePatient)
	p := &models.Patient{UserID: u.ID, Name: name, Age: 30, Gender: "female", MailID: email}
	require.NoError(t, db.Create(p).Error)
	return u, p
}

func CreateDoctor(t *testing.T, db *gorm.DB, email, name string) (*models.User, *models.Doctor) {
	t.Helper()
	u := CreateUser(t, db, email, models.RoleDoctor)
	d := &models.Doctor{UserID: u.ID, Name: name, Education: "MD", Hospital: "City Hospital", HospitalLocation: "Downtown"}
	require.NoError(t, db.Create(d).Error)
	return u, d
}

func CreatePrediction(t *testing.T, db *gorm.DB, userID uint64, disease string) *models.Prediction {
	t.Helper()
	p := &models.Prediction{UserID: userID, Disease: disease, Confidence: 87.5, ImageURL: "https://example.com/x.jpg"}
	require.NoError(t, db.Create(p).Error)
	return p
}
