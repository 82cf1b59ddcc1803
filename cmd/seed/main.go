package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/google/uuid"

	"drc-backend/internal/config"
	"drc-backend/internal/domain"
	"drc-backend/internal/logger"
	"drc-backend/internal/repository/postgres"
	"drc-backend/internal/service"
)

// Demo dataset: four dining locations, a handful of users, 100 containers,
// and enough historical returns to light up the impact dashboard.

var seedLocations = []domain.Location{
	{Code: "MKT", Name: "The Marketplace", Type: domain.LocationTypeDiningHall, Address: "Central Campus", Hours: "7am-9pm", Capacity: 200, ReturnPolicy: domain.ReturnPolicyCleaning, IsActive: true},
	{Code: "WU", Name: "West Union", Type: domain.LocationTypeDiningHall, Address: "West Campus", Hours: "8am-10pm", Capacity: 150, ReturnPolicy: domain.ReturnPolicyCleaning, IsActive: true},
	{Code: "FARM", Name: "The Farmstead", Type: domain.LocationTypeDiningHall, Address: "East Campus", Hours: "8am-6pm", Capacity: 75, ReturnPolicy: domain.ReturnPolicyAvailable, IsActive: true},
	{Code: "LOOP", Name: "The Loop", Type: domain.LocationTypeReturnStation, Address: "Student Center", Hours: "11am-11pm", Capacity: 100, ReturnPolicy: domain.ReturnPolicyAvailable, IsActive: true},
}

var seedUsers = []domain.User{
	{NetID: "ab123", Name: "Alice Brown", Email: "ab123@campus.edu", Role: domain.RoleStudent},
	{NetID: "cd456", Name: "Carlos Diaz", Email: "cd456@campus.edu", Role: domain.RoleStudent},
	{NetID: "ef789", Name: "Emma Fisher", Email: "ef789@campus.edu", Role: domain.RoleStudent},
	{NetID: "gh012", Name: "Grace Hall", Email: "gh012@campus.edu", Role: domain.RoleDiningStaff},
	{NetID: "jk345", Name: "James Kim", Email: "jk345@campus.edu", Role: domain.RoleFacilities},
	{NetID: "admin1", Name: "Dana Admin", Email: "admin1@campus.edu", Role: domain.RoleAdmin},
}

// containers per location, 100 total
var seedCounts = map[string]int{"MKT": 40, "WU": 30, "FARM": 15, "LOOP": 15}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store := postgres.NewStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := range seedLocations {
		loc := seedLocations[i]
		loc.CreatedOn = now
		if err := store.LocationRepository.Create(ctx, &loc); err != nil {
			log.Fatalf("Failed to seed location %s: %v", loc.Code, err)
		}
	}
	logger.Info("Seeded locations", "count", len(seedLocations))

	for i := range seedUsers {
		u := seedUsers[i]
		u.CreatedOn = now
		if err := store.UserRepository.Create(ctx, &u); err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.NetID, err)
		}
	}
	logger.Info("Seeded users", "count", len(seedUsers))

	registrationSvc := service.NewRegistrationService(store.ContainerRepository, store.LocationRepository)
	totalContainers := 0
	for code, count := range seedCounts {
		cs, err := registrationSvc.RegisterBatch(ctx, code, count)
		if err != nil {
			log.Fatalf("Failed to seed containers at %s: %v", code, err)
		}
		totalContainers += len(cs)
	}
	logger.Info("Seeded containers", "count", totalContainers)

	seedHistory(ctx, store, cfg, now)

	impactSvc := service.NewImpactService(store.TransactionRepository, store.ImpactStatsRepository)
	for _, u := range seedUsers {
		if u.Role != domain.RoleStudent {
			continue
		}
		if _, _, err := impactSvc.RecomputeForUser(ctx, u.NetID); err != nil {
			log.Fatalf("Failed to recompute impact for %s: %v", u.NetID, err)
		}
	}
	if err := impactSvc.RecomputeLeaderboard(ctx); err != nil {
		log.Fatalf("Failed to recompute leaderboard: %v", err)
	}

	logger.Info("Seed complete")
}

// seedHistory backdates a couple weeks of checkout/return pairs so streaks
// and badges have something to chew on.
func seedHistory(ctx context.Context, store *postgres.Store, cfg *config.Config, now time.Time) {
	students := []string{"ab123", "cd456", "ef789"}
	returnsPerStudent := []int{14, 9, 3}

	containers, _, err := store.ContainerRepository.ListByLocation(ctx, "MKT", 1, 40)
	if err != nil {
		log.Fatalf("Failed to list seed containers: %v", err)
	}
	if len(containers) == 0 {
		log.Fatalf("No seed containers at MKT")
	}

	ci := 0
	for si, netID := range students {
		for day := returnsPerStudent[si]; day >= 1; day-- {
			c := containers[ci%len(containers)]
			ci++
			checkoutAt := now.AddDate(0, 0, -day).Add(-3 * time.Hour)
			returnAt := checkoutAt.Add(4 * time.Hour)
			txn := &domain.Transaction{
				ID:           uuid.New(),
				ContainerID:  c.ContainerID,
				UserNetID:    netID,
				CheckoutAt:   checkoutAt,
				LocationCode: c.LocationCode,
			}
			if err := store.TransactionRepository.CreateCheckout(ctx, txn, checkoutAt.Add(cfg.Policy.ReturnWindow())); err != nil {
				log.Fatalf("Failed to seed checkout %s: %v", c.ContainerID, err)
			}
			if _, err := store.TransactionRepository.CloseReturn(ctx, c.ContainerID, returnAt, false, nil, domain.ContainerStatusAvailable); err != nil {
				log.Fatalf("Failed to seed return %s: %v", c.ContainerID, err)
			}
		}
	}
	logger.Info("Seeded transaction history", "students", len(students))
}
