package main

import (
	"context"
	"log"
	"os"
	"time"

	"edunotes-be/internal/entity"
	"edunotes-be/internal/repository/specification"
	"edunotes-be/internal/repository/unitofwork"
	"edunotes-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo admin, a demo uploader and a spread of approved notes so the
// browse filters and suggestion endpoints return data on a fresh database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	admin := seedUser(ctx, uow, "admin@edunotes.local", "admin123", "Admin", entity.UserRoleAdmin)
	uploader := seedUser(ctx, uow, "demo@edunotes.local", "demo1234", "Demo Uploader", entity.UserRoleUser)
	_ = admin

	notes := []entity.Note{
		{
			Subject: "Signals and Systems Unit 1", Category: "engineering",
			Institute: "IIT Madras", State: "Tamil Nadu", District: "Chennai",
			Departments: []string{"ECE", "EEE"}, Year: "2nd Year", Semester: "3",
		},
		{
			Subject: "Data Structures Complete Notes", Category: "engineering",
			Institute: "NIT Warangal", State: "Telangana", District: "Warangal",
			Departments: []string{"CSE"}, Year: "2nd Year", Semester: "3",
		},
		{
			Subject: "Physics Important Questions", Category: "intermediate",
			Institute: "Narayana Junior College", State: "Andhra Pradesh", District: "Guntur",
			Stream: "MPC", Year: "2",
		},
		{
			Subject: "Class 10 Mathematics Formulas", Category: "school",
			Institute: "Zilla Parishad High School", State: "Andhra Pradesh", District: "Krishna",
			ClassLevel: "Class 10",
		},
	}

	for i := range notes {
		n := notes[i]
		n.Id = uuid.New()
		n.Status = entity.StatusApproved
		n.FileName = "seed.pdf"
		n.FileUrl = "/uploads/seed.pdf"
		n.UploaderPhone = "+91 90000 00000"
		n.UploaderConsent = true
		n.UserId = uploader
		n.CreatedAt = time.Now()
		if err := uow.NoteRepository().Create(ctx, &n); err != nil {
			log.Fatalf("Error: Failed to seed note %q: %v", n.Subject, err)
		}
	}

	log.Printf("Seeded %d notes.", len(notes))
}

func seedUser(ctx context.Context, uow unitofwork.UnitOfWork, email, password, name string, role entity.UserRole) uuid.UUID {
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		log.Fatalf("Error: Failed to look up %s: %v", email, err)
	}
	if existing != nil {
		log.Printf("User %s already present, skipping", email)
		return existing.Id
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	hashStr := string(hash)
	user := entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		log.Fatalf("Error: Failed to seed user %s: %v", email, err)
	}
	log.Printf("Seeded user %s", email)
	return user.Id
}
