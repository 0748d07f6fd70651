package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nerrad567/relaybank/internal/controller"
	"github.com/nerrad567/relaybank/internal/infrastructure/config"
	"github.com/nerrad567/relaybank/internal/infrastructure/logging"
	"github.com/nerrad567/relaybank/internal/infrastructure/mqtt"
	"github.com/nerrad567/relaybank/internal/project"
	"github.com/nerrad567/relaybank/internal/remote"
	"github.com/nerrad567/relaybank/internal/tui"
)

// sendFunc adapts a function to the Sender interfaces of the front-ends.
type sendFunc func(ev controller.Event) error

func (f sendFunc) Send(ev controller.Event) error { return f(ev) }

// runInteractive runs the controller with the terminal UI and, when
// enabled, the MQTT surface. It returns once the controller has stopped.
func runInteractive(cmd *cobra.Command, cfg *config.Config, opts *rootOptions, proj *project.Project) error {
	ctx := cmd.Context()

	// The UI owns the terminal, so logs go to the file or nowhere.
	log, err := logging.NewFile(cfg.Logging, version)
	if err != nil {
		return fmt.Errorf("terminal UI needs a writable log file: %w", err)
	}
	defer log.Close() //nolint:errcheck // nothing useful to do on exit

	log.Info("starting relaybank", "version", version, "commit", commit, "build_date", date)

	svc, err := openServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.close(log)

	opener, ports := newBoard(cfg, opts, proj.SlaveID)
	driver := newDriver(cfg, opener, log)

	// The front-ends are built before the controller they feed.
	var ctrl *controller.Controller
	send := sendFunc(func(ev controller.Event) error { return ctrl.Send(ev) })

	program := tea.NewProgram(tui.NewModel(tui.Options{Sender: send, Logger: log}),
		tea.WithAltScreen(), tea.WithContext(ctx))
	renderers := controller.MultiRenderer{tui.NewRenderer(program)}

	var surface *remote.Surface
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, surface, err = startRemote(cfg, send, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		renderers = append(renderers, surface)
	} else {
		log.Info("MQTT disabled")
	}

	ctrlOpts := controller.Options{
		Device:   driver,
		Ports:    ports,
		Renderer: renderers,
		Project:  proj,
		Buffer:   cfg.UI.EventBuffer,
		Logger:   log,
	}
	if svc.journal != nil {
		ctrlOpts.Journal = svc.journal
	}
	if svc.influx != nil {
		ctrlOpts.History = svc.influx
	}
	ctrl = controller.New(ctrlOpts)

	ctrlErr := make(chan error, 1)
	go func() { ctrlErr <- ctrl.Run(ctx) }()

	if surface != nil {
		if err := surface.Start(ctx); err != nil {
			log.Error("starting MQTT surface", "error", err)
		} else {
			mqttClient.SetOnConnect(surface.Republish)
			defer surface.Stop()
		}
	}

	_, uiErr := program.Run()
	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		log.Error("terminal UI failed", "error", uiErr)
	}

	// The UI sends Close on quit; make sure the loop ends on any other exit.
	if err := ctrl.Send(controller.Close{}); err != nil && !errors.Is(err, controller.ErrClosed) {
		log.Warn("stopping controller", "error", err)
	}
	runErr := <-ctrlErr

	log.Info("relaybank stopped")
	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI: %w", uiErr)
	}
	return runErr
}

// startRemote connects to the broker and builds the MQTT surface.
func startRemote(cfg *config.Config, sender remote.Sender, log *logging.Logger) (*mqtt.Client, *remote.Surface, error) {
	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	surface, err := remote.New(remote.Options{
		Client: client,
		Topics: client.Topics(),
		QoS:    client.QoS(),
		Sender: sender,
		Logger: log,
	})
	if err != nil {
		client.Close() //nolint:errcheck // best effort cleanup on error path
		return nil, nil, err
	}
	return client, surface, nil
}
