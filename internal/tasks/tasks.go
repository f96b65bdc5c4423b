// Package tasks schedules the background jobs of the daemon.
package tasks

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoInvenTree/GoInvenTree/internal/config"
	"github.com/GoInvenTree/GoInvenTree/internal/logger/adapter/stdlogger"
	pluginreg "github.com/GoInvenTree/GoInvenTree/internal/plugin"
)

// Scheduler runs the periodic background jobs.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler for the configured background jobs.
// An empty schedule disables the corresponding job.
func New(cfg *config.Config, registry *pluginreg.Registry) (*Scheduler, error) {
	c := cron.New(cron.WithLogger(cron.PrintfLogger(stdlogger.New())))

	if cfg.Tasks.PluginSyncSchedule != "" {
		_, err := c.AddFunc(cfg.Tasks.PluginSyncSchedule, func() {
			if err := registry.ReloadPlugins(); err != nil {
				log.Error().Err(err).Msg("scheduled plugin sync failed")
			}
		})
		if err != nil {
			return nil, err
		}

		log.Info().Str("schedule", cfg.Tasks.PluginSyncSchedule).Msg("plugin sync task scheduled")
	}

	return &Scheduler{cron: c}, nil
}

// Start starts the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
