package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/nerrad567/relaybank/internal/controller"
	"github.com/nerrad567/relaybank/internal/infrastructure/mqtt"
)

// MQTTClient is the subset of mqtt.Client used by the surface.
type MQTTClient interface {
	PublishRetained(topic string, payload []byte) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Sender queues events for the controller. controller.Controller implements it.
type Sender interface {
	Send(ev controller.Event) error
}

// Logger defines the logging interface used by the surface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures a Surface.
type Options struct {
	Client MQTTClient
	Topics mqtt.Topics
	QoS    byte
	Sender Sender
	Logger Logger
}

// Surface bridges the controller and an MQTT broker.
//
// Thread Safety: render methods may be called from any goroutine.
type Surface struct {
	client MQTTClient
	topics mqtt.Topics
	qos    byte
	sender Sender
	logger Logger

	box *outbox

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// New creates a surface. Start must be called before commands are accepted
// or state is published.
func New(opts Options) (*Surface, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("remote: client is required")
	}
	if opts.Sender == nil {
		return nil, fmt.Errorf("remote: sender is required")
	}
	if opts.Topics == (mqtt.Topics{}) {
		opts.Topics = mqtt.NewTopics("")
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Surface{
		client: opts.Client,
		topics: opts.Topics,
		qos:    opts.QoS,
		sender: opts.Sender,
		logger: logger,
		box:    newOutbox(),
	}, nil
}

// Start subscribes to the command topics and starts the publisher.
// The publisher stops when ctx is cancelled or Stop is called.
func (s *Surface) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return fmt.Errorf("remote: already started")
	}

	if err := s.client.Subscribe(s.topics.AllCommands(), s.qos, s.handleMessage); err != nil {
		return fmt.Errorf("subscribing to commands: %w", err)
	}

	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.publishLoop(ctx, s.stop, s.stopped)

	s.logger.Info("remote surface started", "prefix", s.topics.Prefix())
	return nil
}

// Stop unsubscribes and waits for the publisher to drain.
func (s *Surface) Stop() {
	s.mu.Lock()
	stop, stopped := s.stop, s.stopped
	s.stop = nil
	s.mu.Unlock()
	if stop == nil {
		return
	}

	if err := s.client.Unsubscribe(s.topics.AllCommands()); err != nil {
		s.logger.Warn("unsubscribing from commands", "error", err)
	}
	close(stop)
	<-stopped
}

// Republish queues the last published state of every topic again. It is
// meant to be called after a broker reconnect.
func (s *Surface) Republish() {
	s.box.requeue()
}

func (s *Surface) publishLoop(ctx context.Context, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	for {
		select {
		case <-s.box.wake:
			s.flush()
		case <-stop:
			s.flush()
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Surface) flush() {
	for _, m := range s.box.take() {
		if err := s.client.PublishRetained(m.topic, m.payload); err != nil {
			s.logger.Warn("publishing state", "topic", m.topic, "error", err)
		}
	}
}

// handleMessage turns one command message into a controller event.
func (s *Surface) handleMessage(topic string, payload []byte) error {
	action, ok := s.topics.ParseCommand(topic)
	if !ok {
		return fmt.Errorf("%w: unexpected topic %q", ErrUnknownAction, topic)
	}

	ev, err := ParseCommand(action, payload)
	if err != nil {
		return err
	}

	s.logger.Debug("remote command", "action", action)
	if err := s.sender.Send(ev); err != nil {
		return fmt.Errorf("queueing %s: %w", action, err)
	}
	return nil
}

// RenderRelay implements controller.Renderer. index is 0-based; the topic
// carries the physical relay number.
func (s *Surface) RenderRelay(index int, ind controller.Indicator) {
	s.box.put(s.topics.RelayState(index+1), []byte(ind.String()))
}

// RenderControl implements controller.Renderer.
func (s *Surface) RenderControl(c controller.Control, st controller.ControlState) {
	s.box.put(s.topics.ControlState(string(c)), []byte(st.String()))
}

type portsPayload struct {
	Ports    []string `json:"ports"`
	Selected string   `json:"selected"`
}

// RenderPorts implements controller.Renderer.
func (s *Surface) RenderPorts(ports []string, selected string) {
	if ports == nil {
		ports = []string{}
	}
	s.putJSON(s.topics.Ports(), portsPayload{Ports: ports, Selected: selected})
}

type presetsPayload struct {
	Names    []string `json:"names"`
	Selected *int     `json:"selected"`
}

// RenderPresets implements controller.Renderer.
func (s *Surface) RenderPresets(list controller.PresetList) {
	p := presetsPayload{Names: list.Names}
	if p.Names == nil {
		p.Names = []string{}
	}
	if i, ok := list.Selection.Index(); ok {
		p.Selected = &i
	}
	s.putJSON(s.topics.Presets(), p)
}

// RenderRealtime implements controller.Renderer.
func (s *Surface) RenderRealtime(on bool) {
	s.box.put(s.topics.Realtime(), []byte(strconv.FormatBool(on)))
}

type projectPayload struct {
	Name      string `json:"name"`
	Interface string `json:"interface"`
	SlaveID   string `json:"slave_id"`
}

// RenderProject implements controller.Renderer.
func (s *Surface) RenderProject(v controller.ProjectView) {
	s.putJSON(s.topics.Project(), projectPayload{Name: v.Name, Interface: v.Interface, SlaveID: v.SlaveID})
}

func (s *Surface) putJSON(topic string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encoding state", "topic", topic, "error", err)
		return
	}
	s.box.put(topic, data)
}

var _ controller.Renderer = (*Surface)(nil)
