package appointment

import (
	"context"
	"log"
	"time"

	"farmavisitas/internal/domain"
)

// ReminderConfig controls the background reminder scan.
type ReminderConfig struct {
	Interval time.Duration // how often to scan (default: 60s)
	Lead     time.Duration // announce appointments this far ahead (default: 30m)
	Enabled  bool
}

func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Interval: time.Minute,
		Lead:     30 * time.Minute,
		Enabled:  true,
	}
}

// withDefaults fills unset fields so a partially populated config still
// runs on the documented cadence.
func (c ReminderConfig) withDefaults() ReminderConfig {
	def := DefaultReminderConfig()
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
	if c.Lead <= 0 {
		c.Lead = def.Lead
	}
	return c
}

// Announcer receives due reminders. Implementations must not block.
type Announcer interface {
	AnnounceReminder(a domain.Appointment)
}

type logAnnouncer struct{}

func (logAnnouncer) AnnounceReminder(a domain.Appointment) {
	log.Printf("Recordatorio: cita con %s a las %s (%s)", a.ClienteNombre, a.Hora, a.Motivo)
}

// LogAnnouncer writes reminders to the process log.
func LogAnnouncer() Announcer { return logAnnouncer{} }

// Reminder periodically scans for appointments about to start and
// announces each one exactly once.
type Reminder struct {
	repo     Repository
	announce Announcer
	now      func() time.Time
}

func NewReminder(repo Repository, announce Announcer) *Reminder {
	if announce == nil {
		announce = logAnnouncer{}
	}
	return &Reminder{repo: repo, announce: announce, now: time.Now}
}

// Schedule starts the background reminder goroutine. The returned channel
// stops it when closed.
func (r *Reminder) Schedule(ctx context.Context, config ReminderConfig) chan struct{} {
	if !config.Enabled {
		log.Println("Appointment reminders are disabled")
		return nil
	}
	config = config.withDefaults()

	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := r.RunScan(ctx, config.Lead); err != nil {
					log.Printf("Reminder scan error: %v", err)
				}
			case <-stopCh:
				log.Println("Appointment reminders stopped")
				return
			case <-ctx.Done():
				log.Println("Appointment reminders stopped (context Done)")
				return
			}
		}
	}()

	log.Printf("Appointment reminders started with interval %v", config.Interval)
	return stopCh
}

// RunScan announces every pending reminder for today whose start time
// falls within the lead window, then marks it notified.
func (r *Reminder) RunScan(ctx context.Context, lead time.Duration) error {
	now := r.now()
	today := domain.DateKey(now)

	pending, err := r.repo.PendingReminders(ctx, today)
	if err != nil {
		return err
	}

	for _, a := range pending {
		if !Due(a, now, lead) {
			continue
		}
		r.announce.AnnounceReminder(a)
		if err := r.repo.MarkNotified(ctx, a.ID); err != nil {
			log.Printf("Mark reminder %s notified: %v", a.ID, err)
		}
	}
	return nil
}

// Due reports whether an appointment starts within the lead window from
// now. Already-started appointments still count until their start time
// passes by more than the lead, so a rep who opens the app late still
// sees them once.
func Due(a domain.Appointment, now time.Time, lead time.Duration) bool {
	start, err := time.ParseInLocation("2006-01-02 15:04", a.Fecha+" "+a.Hora, now.Location())
	if err != nil {
		return false
	}
	diff := start.Sub(now)
	return diff <= lead && diff >= -lead
}
