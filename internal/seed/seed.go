// Package seed loads reference and demo data for the manage command.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/pkg/utils"

	"go.uber.org/zap"
)

// Column headers expected in the doctors sheet.
const (
	colName     = "fam_dr_name"
	colEdu      = "fam_dr_edu"
	colHospital = "fam_dr_hospital"
	colLocation = "fam_dr_hospital_location"
)

const doctorEmailDomain = "hospital.com"

// DoctorEmail derives the login email from a doctor's name: spaces dropped, lower-cased.
func DoctorEmail(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@" + doctorEmailDomain
}

type Seeder struct {
	repos *repository.Repositories
	log   *zap.Logger
}

func New(repos *repository.Repositories, log *zap.Logger) *Seeder {
	return &Seeder{repos: repos, log: log}
}

// ImportDoctors reads a CSV with a header row and creates one doctor account and
// profile per row. Existing accounts and profiles are left untouched, so the
// import can be re-run. It returns the number of rows processed.
func (s *Seeder) ImportDoctors(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{colName, colEdu, colHospital, colLocation} {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	count := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read row %d: %w", count+2, err)
		}

		field := func(col string) string { return strings.TrimSpace(record[index[col]]) }
		name := field(colName)
		if name == "" {
			continue
		}

		if err := s.importDoctor(ctx, name, field(colEdu), field(colHospital), field(colLocation)); err != nil {
			return count, fmt.Errorf("import %s: %w", name, err)
		}
		count++
	}

	s.log.Info("doctors imported", zap.Int("count", count))
	return count, nil
}

func (s *Seeder) importDoctor(ctx context.Context, name, education, hospital, location string) error {
	user, _, err := s.getOrCreateUser(ctx, DoctorEmail(name), models.RoleDoctor, name)
	if err != nil {
		return err
	}

	_, err = s.repos.Doctors.FindByUserID(ctx, user.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return s.repos.Doctors.Save(ctx, &models.Doctor{
		UserID:           user.ID,
		Name:             name,
		Education:        education,
		Hospital:         hospital,
		HospitalLocation: location,
	})
}

// SampleEmail is the demo patient created by SeedSample.
const SampleEmail = "patient@example.com"

var samplePredictions = []models.Prediction{
	{Disease: "Melanoma", Confidence: 87.5, ImageURL: "https://example.com/image1.jpg"},
	{Disease: "Psoriasis", Confidence: 72.3, ImageURL: "https://example.com/image2.jpg"},
	{Disease: "Eczema", Confidence: 65.8, ImageURL: "https://example.com/image3.jpg"},
}

// SeedSample creates a demo patient with a profile and three predictions.
// Running it twice does not duplicate anything.
func (s *Seeder) SeedSample(ctx context.Context) error {
	user, _, err := s.getOrCreateUser(ctx, SampleEmail, models.RolePatient, "patient123")
	if err != nil {
		return err
	}

	_, err = s.repos.Patients.FindByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		profile := &models.Patient{UserID: user.ID, Name: "John Doe", Age: 30, Gender: "male", MailID: SampleEmail}
		if err := s.repos.Patients.Save(ctx, profile); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	existing, err := s.repos.Predictions.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.Disease] = true
	}

	for _, sample := range samplePredictions {
		if have[sample.Disease] {
			continue
		}
		p := sample
		p.UserID = user.ID
		p.BodyPart = "Arm"
		p.Symptoms = "Itching and redness"
		p.Duration = "2 weeks"
		if err := s.repos.Predictions.Create(ctx, &p); err != nil {
			return err
		}
	}

	s.log.Info("sample data ready", zap.String("email", SampleEmail))
	return nil
}

func (s *Seeder) getOrCreateUser(ctx context.Context, email, role, password string) (*models.User, bool, error) {
	user, err := s.repos.Users.FindByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	user = &models.User{Email: email, Role: role, PasswordHash: hash, IsActive: true}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
