package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/vetcare/clinic-backoffice/internal/config"
	"github.com/vetcare/clinic-backoffice/internal/db"
	"github.com/vetcare/clinic-backoffice/internal/reminder"
	"github.com/vetcare/clinic-backoffice/internal/scheduling"
)

// The worker arms the day-before reminder for every confirmed appointment
// coming up within the lead window, then drives the scan-based dispatch
// pass. Arming is deduplicated per appointment for the lifetime of the
// process.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("reminder-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running reminder worker in env=%s interval=%s", cfg.Env, cfg.WorkerInterval)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	repo := scheduling.NewPgRepository(pgPool)
	sched := reminder.NewScheduler(reminder.NewDispatcher(nil, nil, nil))

	w := &worker{
		repo:  repo,
		sched: sched,
		lead:  cfg.ReminderLead,
		armed: make(map[int64]bool),
	}

	// Run once at startup
	w.runOnce(rootCtx)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			w.runOnce(rootCtx)
		}
	}
}

type worker struct {
	repo  scheduling.Repository
	sched *reminder.Scheduler
	lead  time.Duration
	armed map[int64]bool
}

func (w *worker) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()

	upcoming := time.Now().Add(w.lead)
	appts, err := w.repo.FindByDate(runCtx, upcoming)
	if err != nil {
		log.Printf("find upcoming appointments: %v", err)
		return
	}

	newlyArmed := 0
	for _, a := range appts {
		if a.Status() != scheduling.StatusConfirmed || w.armed[a.ID] {
			continue
		}
		w.sched.ScheduleForAppointment(runCtx, a.ID, a.Pet.ID, a.Pet.OwnerID, a.Date)
		w.armed[a.ID] = true
		newlyArmed++
	}

	dispatched := w.sched.DispatchDue(runCtx)

	log.Printf("reminder run complete in %s armed=%d dispatched=%d", time.Since(start), newlyArmed, dispatched)
}
