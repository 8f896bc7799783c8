package scheduler

import (
	"context"
	"sync"
	"time"

	"homework_status_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Cycler runs one poll cycle and returns the state for the next one.
type Cycler interface {
	Cycle(ctx context.Context, state app.State) app.State
}

// PollScheduler runs poll cycles at a fixed interval. Cycles never overlap:
// a tick that arrives while a cycle is running is skipped.
type PollScheduler struct {
	cronEngine *cron.Cron
	cycler     Cycler
	interval   time.Duration
	logger     *logrus.Entry
	job        cron.Job
	wg         sync.WaitGroup

	// state is only touched from inside the job, which SkipIfStillRunning serializes.
	state app.State
}

func NewPollScheduler(cycler Cycler, interval time.Duration, initial app.State, logger *logrus.Entry) *PollScheduler {
	cl := cronLogger{entry: logger}
	s := &PollScheduler{
		cronEngine: cron.New(cron.WithLogger(cl)),
		cycler:     cycler,
		interval:   interval,
		logger:     logger,
		state:      initial,
	}
	s.job = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(s.runCycle))
	return s
}

// Start runs the first cycle right away and schedules the rest.
func (s *PollScheduler) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("Starting poll scheduler...")

	s.cronEngine.Schedule(cron.Every(s.interval), s.job)
	s.cronEngine.Start()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()

	s.logger.Info("Poll scheduler started.")
}

func (s *PollScheduler) runCycle() {
	// No deadline beyond the HTTP client's own timeout.
	s.state = s.cycler.Cycle(context.Background(), s.state)
}

// Stop waits for a running cycle to finish.
func (s *PollScheduler) Stop() {
	s.logger.Info("Stopping poll scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.wg.Wait()
	s.logger.Info("Poll scheduler gracefully stopped.")
}

// State returns the state after the last cycle. Only safe to call after Stop.
func (s *PollScheduler) State() app.State {
	return s.state
}

// cronLogger routes cron's internal logging to logrus.
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithError(err).WithFields(toFields(keysAndValues)).Error(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
