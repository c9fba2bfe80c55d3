package syncsched

import (
	"github.com/robfig/cron/v3"
)

// scheduleParser accepts standard 5-field cron expressions
// (minute, hour, dom, month, dow).
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidSchedule reports whether expr parses as a 5-field cron expression.
func ValidSchedule(expr string) bool {
	_, err := scheduleParser.Parse(expr)
	return err == nil
}

type Scheduler struct {
	c *cron.Cron
}

// Start runs fn on the given schedule until Stop is called.
func Start(expr string, fn func()) (*Scheduler, error) {
	c := cron.New(cron.WithParser(scheduleParser))
	if _, err := c.AddFunc(expr, fn); err != nil {
		return nil, err
	}
	c.Start()
	return &Scheduler{c: c}, nil
}

func (s *Scheduler) Stop() {
	s.c.Stop()
}
