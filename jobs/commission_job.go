package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/HSouheill/dispensary_backend/commission"
	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/services"
)

const runTimeout = 10 * time.Minute

// MonthlyGenerator is the part of the commission service the job drives
type MonthlyGenerator interface {
	GenerateMonth(ctx context.Context, month string) (services.GenerationReport, error)
}

// CommissionJob generates last month's commission records on a cron schedule
type CommissionJob struct {
	generator MonthlyGenerator
	cron      string
	now       func() time.Time
}

func NewCommissionJob(generator MonthlyGenerator, cron string) *CommissionJob {
	return &CommissionJob{generator: generator, cron: cron, now: time.Now}
}

// Run generates the records of the calendar month before now (UTC)
func (j *CommissionJob) Run(ctx context.Context) (services.GenerationReport, error) {
	month := commission.PreviousMonthKey(j.now().UTC())
	log := logger.WithFields(map[string]interface{}{"job": "commissions", "month": month})
	log.Info("Running monthly commission generation...")

	report, err := j.generator.GenerateMonth(ctx, month)
	if err != nil {
		log.WithError(err).Error("commission generation failed")
		return report, err
	}
	log.WithFields(map[string]interface{}{
		"created": report.Created,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("commission generation finished")
	return report, nil
}

// Start schedules Run in UTC. Overlapping runs are skipped. The caller stops
// the returned scheduler on shutdown.
func (j *CommissionJob) Start() (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Cron(j.cron).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		_, _ = j.Run(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule commission job %q: %w", j.cron, err)
	}

	scheduler.StartAsync()
	logger.Infof("Commission generation cron job started (%s)", j.cron)
	return scheduler, nil
}
