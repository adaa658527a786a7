package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetcare/clinic-backoffice/internal/db"
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

	if err := seedVets(context.Background(), pool, 20); err != nil {
		log.Fatalf("seed vets: %v", err)
	}
	if err := seedPets(context.Background(), pool, 500); err != nil {
		log.Fatalf("seed pets: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, 200); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedVets(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d vets", count)

	specialties := []string{
		"general medicine",
		"canine surgery",
		"feline medicine",
		"exotic and avian care",
		"equine medicine",
		"canine dermatology",
		"feline cardiology",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		specialty := specialties[gofakeit.Number(0, len(specialties)-1)]
		phone := gofakeit.Phone()

		_, err := tx.Exec(ctx, `
			INSERT INTO vets (name, specialty, phone, available, hours_start, hours_end)
			VALUES ($1, $2, $3, true, '08:00', '18:00')
		`, name, specialty, phone)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("vets seeded")
	return nil
}

func seedPets(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d pets", count)

	species := []string{"canine", "feline", "avian", "equine", "exotic"}

	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			name := gofakeit.PetName()
			sp := species[gofakeit.Number(0, len(species)-1)]
			breed := gofakeit.Animal()
			age := gofakeit.Number(0, 18)
			ownerID := int64(gofakeit.Number(1, 200))

			if _, err := tx.Exec(ctx, `
				INSERT INTO pets (name, species, breed, age, owner_id)
				VALUES ($1, $2, $3, $4, $5)
			`, name, sp, breed, age, ownerID); err != nil {
				tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
	}

	log.Println("pets seeded")
	return nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d appointments", count)

	reasons := []string{"consultation", "vaccination", "surgery", "checkup"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		vetID := int64(gofakeit.Number(1, 20))
		petID := int64(gofakeit.Number(1, 500))
		day := time.Now().AddDate(0, 0, gofakeit.Number(1, 14))
		hhmm := fmt.Sprintf("%02d:00", gofakeit.Number(8, 17))
		reason := reasons[gofakeit.Number(0, len(reasons)-1)]

		// Seeded data tolerates slot collisions; conflict enforcement
		// lives in the booking path, not the schema.
		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (vet_id, pet_id, scheduled_on, scheduled_at, reason, status, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'confirmed', '', now(), now())
		`, vetID, petID, day, hhmm, reason)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("appointments seeded")
	return nil
}
