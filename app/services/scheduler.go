package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"school-calendar/app/eventstore"
	"school-calendar/app/routes/calendar"
)

// StartScheduler runs the periodic background refresh: re-fetch the event
// list and ask the stats collaborator to resync. spec is a cron expression;
// empty disables the scheduler. stats may be nil.
func StartScheduler(spec string, session *calendar.Session, stats *eventstore.StatsClient) *cron.Cron {
	if spec == "" {
		log.Println("Scheduler disabled (no refresh schedule configured)")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log.Println("Scheduler: refreshing events...")
		session.Refresh(ctx)

		if stats != nil {
			if err := stats.ResyncStats(ctx); err != nil {
				log.Printf("Scheduler: stats resync failed: %v", err)
			}
		}
	})
	if err != nil {
		log.Printf("Scheduler: invalid refresh schedule %q: %v", spec, err)
		return nil
	}

	c.Start()
	log.Printf("Scheduler started (refresh %q)", spec)
	return c
}
