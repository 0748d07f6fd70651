package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/relaybank/internal/infrastructure/config"
	"github.com/nerrad567/relaybank/internal/infrastructure/logging"
	"github.com/nerrad567/relaybank/internal/journal"
	"github.com/nerrad567/relaybank/internal/project"
	"github.com/nerrad567/relaybank/internal/relay"
)

// runHeadless applies the project's relay string to the board once.
// Any failure is returned and ends the process with a non-zero status.
func runHeadless(cmd *cobra.Command, cfg *config.Config, opts *rootOptions, proj *project.Project) error {
	ctx := cmd.Context()

	log := logging.New(cfg.Logging, version)
	defer log.Close() //nolint:errcheck // nothing useful to do on exit

	if err := project.ValidatePort(proj.Interface); err != nil {
		return err
	}

	svc, err := openServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.close(log)

	opener, _ := newBoard(cfg, opts, proj.SlaveID)
	driver := newDriver(cfg, opener, log)
	target := relay.Target{Port: proj.Interface, SlaveID: proj.SlaveID}

	// A signal must not stop the write half way through the bank.
	opCtx := context.WithoutCancel(ctx)
	start := time.Now()
	err = driver.Apply(opCtx, target, proj.State)
	entry := &journal.Entry{
		Kind:      journal.KindSet,
		Port:      target.Port,
		SlaveID:   target.SlaveID,
		Relays:    proj.State.String(),
		Duration:  time.Since(start),
		StartedAt: start.UTC(),
	}
	if err != nil {
		entry.Relays = ""
		entry.Error = err.Error()
	}
	svc.record(opCtx, entry, log)

	if err != nil {
		return fmt.Errorf("setting relays on %s (slave %d): %w", target.Port, target.SlaveID, err)
	}
	if svc.influx != nil {
		svc.influx.WriteRelayState(target.Port, target.SlaveID, journal.KindSet, proj.State)
	}

	log.Info("relays set", "port", target.Port, "slave", target.SlaveID, "relays", proj.State.String())
	fmt.Fprintln(cmd.OutOrStdout(), proj.State.String())
	return nil
}
