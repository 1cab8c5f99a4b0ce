package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beautyshop/beautyshop-server/internal/db"
	"github.com/beautyshop/beautyshop-server/internal/user"
)

const (
	masterCount         = 20
	servicesPerMaster   = 4
	clientsPerMaster    = 15
	apptsPerMaster      = 12
	expensesPerMaster   = 8
	demoPassword        = "password123"
	appointmentDuration = time.Hour
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedMasters(context.Background(), pool); err != nil {
		log.Fatalf("seed masters: %v", err)
	}

	log.Println("seed complete")
}

func seedMasters(ctx context.Context, pool *pgxpool.Pool) error {
	log.Printf("seeding %d masters", masterCount)

	hash, err := user.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	for i := 0; i < masterCount; i++ {
		masterID := uuid.New()
		name := gofakeit.Name()
		slug := fmt.Sprintf("%s-%s", user.Slugify(name), uuid.NewString()[:6])
		email := fmt.Sprintf("master%d@%s", i, gofakeit.DomainName())

		_, err := pool.Exec(ctx, `
			INSERT INTO users (id, email, password_hash, name, slug, booking_mode, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'manual', now(), now())
		`, masterID, email, hash, name, slug)
		if err != nil {
			return fmt.Errorf("insert master: %w", err)
		}

		serviceIDs, err := seedServices(ctx, pool, masterID)
		if err != nil {
			return err
		}
		if err := seedClients(ctx, pool, masterID); err != nil {
			return err
		}
		if err := seedAppointments(ctx, pool, masterID, serviceIDs); err != nil {
			return err
		}
		if err := seedExpenses(ctx, pool, masterID); err != nil {
			return err
		}
	}

	return nil
}

func seedServices(ctx context.Context, pool *pgxpool.Pool, masterID uuid.UUID) ([]uuid.UUID, error) {
	names := []string{"Manicure", "Pedicure", "Haircut", "Styling", "Coloring", "Massage", "Brows", "Makeup"}
	durations := []int{30, 45, 60, 90, 120}

	ids := make([]uuid.UUID, 0, servicesPerMaster)
	for i := 0; i < servicesPerMaster; i++ {
		id := uuid.New()
		_, err := pool.Exec(ctx, `
			INSERT INTO services (id, user_id, name, price, duration_min, is_public, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		`, id, masterID,
			names[gofakeit.Number(0, len(names)-1)],
			gofakeit.Number(10, 80)*100,
			durations[gofakeit.Number(0, len(durations)-1)],
			gofakeit.Number(0, 9) > 1)
		if err != nil {
			return nil, fmt.Errorf("insert service: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedClients(ctx context.Context, pool *pgxpool.Pool, masterID uuid.UUID) error {
	for i := 0; i < clientsPerMaster; i++ {
		var notes *string
		if gofakeit.Bool() {
			n := gofakeit.Sentence(6)
			notes = &n
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO clients (id, user_id, name, phone, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, uuid.New(), masterID, gofakeit.Name(), gofakeit.Phone(), notes)
		if err != nil {
			return fmt.Errorf("insert client: %w", err)
		}
	}
	return nil
}

// seedAppointments lays each master's appointments out on consecutive slots
// so the demo data never trips the no-overlap constraint.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, masterID uuid.UUID, serviceIDs []uuid.UUID) error {
	statuses := []string{"booked", "confirmed", "completed", "canceled"}

	day := time.Now().UTC().Truncate(24 * time.Hour)
	slot := day.Add(-7 * 24 * time.Hour).Add(9 * time.Hour)

	for i := 0; i < apptsPerMaster; i++ {
		var serviceID *uuid.UUID
		if gofakeit.Number(0, 4) > 0 {
			serviceID = &serviceIDs[gofakeit.Number(0, len(serviceIDs)-1)]
		}

		status := statuses[gofakeit.Number(0, len(statuses)-1)]
		if slot.Before(time.Now()) {
			status = "completed"
		}

		var finalPrice *int
		if status == "completed" {
			p := gofakeit.Number(10, 80) * 100
			finalPrice = &p
		}

		_, err := pool.Exec(ctx, `
			INSERT INTO appointments
				(id, user_id, service_id, client_name, client_phone,
				 start_time, end_time, status, final_price, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL, now(), now())
		`, uuid.New(), masterID, serviceID, gofakeit.Name(), gofakeit.Phone(),
			slot, slot.Add(appointmentDuration), status, finalPrice)
		if err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}

		// Advance two hours; roll to the next morning after 18:00.
		slot = slot.Add(2 * time.Hour)
		if slot.Hour() >= 18 {
			slot = slot.Add(24 * time.Hour).Truncate(24 * time.Hour).Add(9 * time.Hour)
		}
	}
	return nil
}

func seedExpenses(ctx context.Context, pool *pgxpool.Pool, masterID uuid.UUID) error {
	for i := 0; i < expensesPerMaster; i++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO expenses (id, user_id, amount, description, created_at)
			VALUES ($1, $2, $3, $4, now() - ($5 || ' days')::interval)
		`, uuid.New(), masterID,
			gofakeit.Number(2, 50)*100,
			gofakeit.ProductName(),
			gofakeit.Number(0, 150))
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
	}
	return nil
}
