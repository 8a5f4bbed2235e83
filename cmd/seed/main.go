package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/database"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/scheduling"
)

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
}

var treatments = []string{
	"Physiotherapy",
	"Blood pressure monitoring",
	"Allergy immunotherapy",
	"Post-operative follow-up",
	"Diabetes management",
	"",
}

var clockTimes = []string{"09:00", "09:30", "10:00", "10:30", "11:00", "13:00", "14:00", "15:30", "16:00"}

func main() {
	professionals := flag.Int("professionals", 5, "number of professionals to create")
	appointments := flag.Int("appointments", 40, "number of appointments to book")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer st.Close(context.Background())

	svc := scheduling.NewService(st, nil, log)

	ids, err := seedProfessionals(ctx, svc, *professionals)
	if err != nil {
		log.WithError(err).Fatal("seed professionals")
	}
	booked, err := seedAppointments(ctx, svc, ids, *appointments)
	if err != nil {
		log.WithError(err).Fatal("seed appointments")
	}

	log.WithField("professionals", len(ids)).WithField("appointments", booked).Info("seed complete")
}

func seedProfessionals(ctx context.Context, svc *scheduling.Service, count int) ([]string, error) {
	ids := make([]string, 0, count)
	for len(ids) < count {
		p, err := svc.AddProfessional(ctx, scheduling.ProfessionalInput{
			Name:      "Dr. " + gofakeit.Name(),
			Email:     gofakeit.Email(),
			Specialty: specialties[gofakeit.Number(0, len(specialties)-1)],
		})
		if errors.Is(err, scheduling.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// seedAppointments books random slots over the next 30 days. Collisions are
// skipped, so fewer than count may be booked.
func seedAppointments(ctx context.Context, svc *scheduling.Service, professionalIDs []string, count int) (int, error) {
	if len(professionalIDs) == 0 {
		return 0, nil
	}

	start := time.Now().UTC()
	booked := 0
	for i := 0; i < count; i++ {
		_, err := svc.CreateAppointment(ctx, scheduling.CreateAppointmentInput{
			Date: start.AddDate(0, 0, gofakeit.Number(1, 30)),
			Time: clockTimes[gofakeit.Number(0, len(clockTimes)-1)],
			Professional: scheduling.ProfessionalRef{
				ID: professionalIDs[gofakeit.Number(0, len(professionalIDs)-1)],
			},
			Patient: scheduling.PatientInput{
				Name:             gofakeit.Name(),
				DateOfBirth:      gofakeit.DateRange(time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)),
				CurrentTreatment: gofakeit.RandomString(treatments),
			},
		})
		if errors.Is(err, scheduling.ErrConflict) {
			continue
		}
		if err != nil {
			return booked, err
		}
		booked++
	}
	return booked, nil
}
