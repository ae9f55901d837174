package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm/internal/client"
	"crm/internal/config"
	"crm/internal/jobs"
	"crm/internal/logger"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `Usage:
  jobs run <heartbeat|lowstock|reminders|report>   run one job and exit
  jobs schedule [--run-on-start]                   run every job on its interval

`

// registry builds each job with the client and log file it needs
func registry(cfg config.JobsConfig, log *zap.Logger) map[string]jobs.Job {
	apiClient := client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithRetries(cfg.Retries),
		client.WithBackoff(cfg.RetryBackoff),
	)
	heartbeatClient := client.New(cfg.APIURL,
		client.WithTimeout(cfg.HeartbeatTimeout),
		client.WithRetries(cfg.Retries),
		client.WithBackoff(cfg.RetryBackoff),
	)

	opts := []jobs.Option{jobs.WithLogger(log)}
	return map[string]jobs.Job{
		jobs.HeartbeatJob: jobs.NewHeartbeat(heartbeatClient, cfg.HeartbeatLog, opts...),
		jobs.LowStockJob:  jobs.NewLowStock(apiClient, cfg.LowStockLog, opts...),
		jobs.RemindersJob: jobs.NewReminders(apiClient, cfg.RemindersLog, opts...),
		jobs.ReportJob:    jobs.NewWeeklyReport(apiClient, cfg.ReportLog, opts...),
	}
}

func runOnce(ctx context.Context, job jobs.Job, log *zap.Logger) int {
	report := job.Run(ctx)
	if !report.Success {
		log.Warn("Job failed", zap.String("job", report.Job), zap.String("summary", report.Summary))
		return 1
	}
	log.Info("Job finished", zap.String("job", report.Job), zap.String("summary", report.Summary))
	return 0
}

func schedule(ctx context.Context, cfg config.JobsConfig, registered map[string]jobs.Job, runOnStart bool, log *zap.Logger) error {
	s := jobs.NewScheduler(log, runOnStart)

	intervals := map[string]time.Duration{
		jobs.HeartbeatJob: cfg.HeartbeatInterval,
		jobs.LowStockJob:  cfg.LowStockInterval,
		jobs.RemindersJob: cfg.RemindersInterval,
		jobs.ReportJob:    cfg.ReportInterval,
	}
	for name, job := range registered {
		if err := s.Add(job, intervals[name]); err != nil {
			return err
		}
	}
	return s.Run(ctx)
}

func main() {
	os.Exit(run())
}

func run() int {
	flags := flag.NewFlagSet("jobs", flag.ContinueOnError)
	runOnStart := flags.Bool("run-on-start", false, "run every job once when the scheduler starts")
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	if err := flags.Parse(os.Args[1:]); err != nil {
		return 2
	}
	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		return 2
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, "jobs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registered := registry(cfg.Jobs, log)

	switch args[0] {
	case "run":
		if len(args) != 2 {
			flags.Usage()
			return 2
		}
		job, ok := registered[args[1]]
		if !ok {
			log.Error("Unknown job", zap.String("job", args[1]))
			return 2
		}
		return runOnce(ctx, job, log)

	case "schedule":
		log.Info("Starting job scheduler", zap.String("api", cfg.Jobs.APIURL), zap.Bool("runOnStart", *runOnStart))
		if err := schedule(ctx, cfg.Jobs, registered, *runOnStart, log); err != nil {
			log.Error("Scheduler failed", zap.Error(err))
			return 1
		}
		return 0

	default:
		flags.Usage()
		return 2
	}
}
