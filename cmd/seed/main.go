package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/job-portal/config"
	"github.com/oksasatya/job-portal/internal/application"
	domainerrors "github.com/oksasatya/job-portal/internal/domain/errors"
	"github.com/oksasatya/job-portal/internal/infrastructure/mongodb"
	"github.com/oksasatya/job-portal/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoConnectTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDatabase)

	users := mongodb.NewUserRepository(db)
	jobs := mongodb.NewJobRepository(db)
	jwt := helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL, cfg.JWTIssuer)
	accounts := application.NewAccountService(users, helpers.NewPasswordHasher(cfg.BcryptCost), jwt, nil, nil, nil, logger)
	jobSvc := application.NewJobService(jobs, users, nil, logger)

	const password = "password123"
	seedAccount := func(name, email, phone, role string) {
		err := accounts.Register(ctx, application.RegisterInput{
			Fullname:    name,
			Email:       email,
			PhoneNumber: phone,
			Password:    password,
			Role:        role,
		})
		switch {
		case err == nil:
			fmt.Printf("seeded %s: email=%s password=%s\n", role, email, password)
		case domainerrors.Is(err, domainerrors.ErrEmailTaken):
			fmt.Printf("%s already exists, skipping\n", email)
		default:
			log.Fatalf("failed to seed %s: %v", email, err)
		}
	}
	seedAccount("Demo Recruiter", "recruiter@example.com", "081200000001", "recruiter")
	seedAccount("Demo Student", "student@example.com", "081200000002", "student")

	res, err := accounts.Login(ctx, application.LoginInput{Email: "recruiter@example.com", Password: password, Role: "recruiter"})
	if err != nil {
		log.Fatalf("failed to log in seeded recruiter: %v", err)
	}
	existing, err := jobSvc.ListRecruiterJobs(ctx, res.User.ID)
	if err != nil {
		log.Fatalf("failed to list jobs: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("recruiter already has %d jobs, skipping job seed\n", len(existing))
		return
	}

	samples := []application.PostJobInput{
		{
			Title:           "Backend Engineer",
			Description:     "Build and run the APIs behind our hiring platform",
			Requirements:    []string{"Go. MongoDB. Docker"},
			Salary:          12,
			Location:        "Jakarta",
			JobType:         "Full Time",
			ExperienceLevel: 2,
			Position:        2,
			CompanyName:     "Acme",
		},
		{
			Title:           "Frontend Intern",
			Description:     "Help ship the candidate dashboard",
			Requirements:    []string{"React", "TypeScript"},
			Salary:          4,
			Location:        "Bandung",
			JobType:         "Internship",
			ExperienceLevel: 0,
			Position:        1,
			CompanyName:     "Acme",
		},
	}
	for _, in := range samples {
		j, err := jobSvc.PostJob(ctx, res.User.ID, in)
		if err != nil {
			log.Fatalf("failed to seed job %q: %v", in.Title, err)
		}
		fmt.Printf("seeded job: id=%s title=%s\n", j.ID, j.Title)
	}
}
