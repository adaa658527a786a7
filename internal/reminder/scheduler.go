package reminder

import (
	"container/heap"
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Scheduler owns the set of pending reminders. Pending items sit in a
// min-heap ordered by due instant with an id index for cancellation; there
// is no global timer registry. A single Run goroutine sleeps until the head
// of the heap comes due and dispatches it.
//
// Firing and cancellation take the same mutex: a reminder is marked sent
// while still under the lock, before its message is handed to the
// dispatcher, so Cancel can never catch a reminder halfway through firing.
//
// Dispatch is fire-and-forget. A send error is logged and the reminder
// stays sent; there is no retry path.
type Scheduler struct {
	dispatcher *Dispatcher

	mu        sync.Mutex
	reminders map[int64]*Reminder // every non-cancelled reminder, sent or not
	queue     pendingQueue        // pending only, min by DueAt
	byID      map[int64]*pendingItem
	nextID    int64

	wake chan struct{}
}

func NewScheduler(dispatcher *Dispatcher) *Scheduler {
	if dispatcher == nil {
		dispatcher = NewDispatcher(nil, nil, nil)
	}
	return &Scheduler{
		dispatcher: dispatcher,
		reminders:  make(map[int64]*Reminder),
		byID:       make(map[int64]*pendingItem),
		nextID:     1,
		wake:       make(chan struct{}, 1),
	}
}

// Schedule arms a reminder. A due instant at or before now is not an error:
// the reminder fires immediately, synchronously. Otherwise it fires when
// the Run loop reaches it, or on a DispatchDue pass.
func (s *Scheduler) Schedule(ctx context.Context, message string, dueAt time.Time, category Category) Reminder {
	return s.schedule(ctx, message, dueAt, category, 0, 0)
}

func (s *Scheduler) schedule(ctx context.Context, message string, dueAt time.Time, category Category, petID, clientID int64) Reminder {
	s.mu.Lock()

	r := &Reminder{
		ID:       s.nextID,
		Message:  message,
		DueAt:    dueAt,
		Category: category,
		PetID:    petID,
		ClientID: clientID,
	}
	s.nextID++
	s.reminders[r.ID] = r

	if !dueAt.After(time.Now()) {
		r.Sent = true
		snapshot := *r
		s.mu.Unlock()
		s.send(ctx, snapshot)
		return snapshot
	}

	item := &pendingItem{r: r}
	heap.Push(&s.queue, item)
	s.byID[r.ID] = item
	snapshot := *r
	s.mu.Unlock()

	s.kick()
	return snapshot
}

// ScheduleForAppointment arms the standard day-before reminder: due at
// 10:00 local time on the day preceding the appointment.
func (s *Scheduler) ScheduleForAppointment(ctx context.Context, appointmentID, petID, clientID int64, appointmentDate time.Time) Reminder {
	eve := appointmentDate.AddDate(0, 0, -1)
	dueAt := time.Date(eve.Year(), eve.Month(), eve.Day(), 10, 0, 0, 0, eve.Location())

	return s.schedule(ctx,
		fmt.Sprintf("Reminder: appointment #%d for your pet is scheduled for tomorrow", appointmentID),
		dueAt, CategoryAppointment, petID, clientID)
}

// ScheduleForVaccination arms a vaccine-expiry reminder one week before the
// expiry date.
func (s *Scheduler) ScheduleForVaccination(ctx context.Context, petID, clientID int64, vaccine string, expiry time.Time) Reminder {
	return s.schedule(ctx,
		fmt.Sprintf("Reminder: your pet's %s vaccine expires soon. Book an appointment.", vaccine),
		expiry.AddDate(0, 0, -7), CategoryVaccination, petID, clientID)
}

// ScheduleReminder is the capability the scheduling service books against.
// Reminders armed this way carry the general category.
func (s *Scheduler) ScheduleReminder(ctx context.Context, message string, dueAt time.Time) error {
	s.Schedule(ctx, message, dueAt, CategoryGeneral)
	return nil
}

// Cancel removes a reminder that has not fired yet. It reports false for an
// unknown id, an already-fired reminder, or one that was already cancelled.
func (s *Scheduler) Cancel(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&s.queue, item.index)
	delete(s.byID, id)
	delete(s.reminders, id)
	return true
}

// DispatchDue fires every pending reminder whose due instant has passed and
// returns how many were dispatched. It is the scan-based path for callers
// that do not run the timer loop.
func (s *Scheduler) DispatchDue(ctx context.Context) int {
	due := s.takeDue(time.Now())
	for _, r := range due {
		s.send(ctx, r)
	}
	return len(due)
}

// Run drives the timer loop until ctx is done. Reminders armed while the
// loop sleeps wake it up so a nearer due instant is never missed.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		now := time.Now()
		for _, r := range s.takeDue(now) {
			s.send(ctx, r)
		}

		s.mu.Lock()
		var wait time.Duration
		empty := s.queue.Len() == 0
		if !empty {
			wait = s.queue[0].r.DueAt.Sub(now)
		}
		s.mu.Unlock()

		if empty {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
			}
			continue
		}

		timer.Reset(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.wake:
			if !timer.Stop() {
				<-timer.C
			}
		case <-timer.C:
		}
	}
}

// Pending returns a snapshot of reminders that have not fired yet.
func (s *Scheduler) Pending() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Reminder, 0, s.queue.Len())
	for _, item := range s.queue {
		out = append(out, *item.r)
	}
	return out
}

// PendingByCategory returns the pending reminders of one category.
func (s *Scheduler) PendingByCategory(cat Category) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Reminder
	for _, item := range s.queue {
		if item.r.Category == cat {
			out = append(out, *item.r)
		}
	}
	return out
}

// All returns a snapshot of every reminder the scheduler still knows about,
// fired ones included.
func (s *Scheduler) All() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		out = append(out, *r)
	}
	return out
}

// Stats reports totals for the reminder set.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{ByCategory: make(map[Category]int)}
	for _, r := range s.reminders {
		st.Total++
		if r.Sent {
			st.Sent++
		} else {
			st.Pending++
		}
		st.ByCategory[r.Category]++
	}
	return st
}

// takeDue pops every pending reminder due at or before now, marking each
// sent before the lock is released.
func (s *Scheduler) takeDue(now time.Time) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Reminder
	for s.queue.Len() > 0 && !s.queue[0].r.DueAt.After(now) {
		item := heap.Pop(&s.queue).(*pendingItem)
		delete(s.byID, item.r.ID)
		item.r.Sent = true
		due = append(due, *item.r)
	}
	return due
}

func (s *Scheduler) send(ctx context.Context, r Reminder) {
	if err := s.dispatcher.Dispatch(ctx, r); err != nil {
		log.Printf("reminder %d dispatch failed (no retry): %v", r.ID, err)
	}
}

func (s *Scheduler) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pendingQueue is a min-heap over due instants, with heap positions tracked
// so Cancel can remove by index.

type pendingItem struct {
	r     *Reminder
	index int
}

type pendingQueue []*pendingItem

func (q pendingQueue) Len() int { return len(q) }

func (q pendingQueue) Less(i, j int) bool { return q[i].r.DueAt.Before(q[j].r.DueAt) }

func (q pendingQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *pendingQueue) Push(x any) {
	item := x.(*pendingItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *pendingQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}
