package controller

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/nerrad567/relaybank/internal/bridges/modbus"
	"github.com/nerrad567/relaybank/internal/journal"
	"github.com/nerrad567/relaybank/internal/project"
	"github.com/nerrad567/relaybank/internal/relay"
)

// DefaultEventBuffer is the event channel capacity when none is configured.
const DefaultEventBuffer = 64

// ErrClosed is returned by Send once the loop has stopped.
var ErrClosed = errors.New("controller: closed")

// Logger defines the logging interface used by the controller.
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

// Device performs relay operations on the board. relay.Driver implements it.
type Device interface {
	Apply(ctx context.Context, t relay.Target, state relay.State) error
	Read(ctx context.Context, t relay.Target) (relay.State, error)
	WriteRelay(ctx context.Context, t relay.Target, index int, on bool) error
}

// Journal records device operations. journal.SQLiteRepository implements it.
type Journal interface {
	Record(ctx context.Context, e *journal.Entry) error
}

// StateRecorder stores relay state history. influxdb.Client implements it.
type StateRecorder interface {
	WriteRelayState(port string, slaveID byte, source string, state relay.State)
}

// Options configures a Controller.
type Options struct {
	// Device runs relay operations. Required.
	Device Device

	// Ports enumerates serial ports for RefreshPorts. Optional.
	Ports modbus.PortLister

	// Renderer receives render commands. Optional.
	Renderer Renderer

	// Project is the initial project. Nil means project.New().
	Project *project.Project

	// Journal and History are optional sinks for completed device operations.
	Journal Journal
	History StateRecorder

	// Buffer is the event channel capacity.
	Buffer int

	Logger Logger
}

// Controller is the single consumer of relay bank events.
type Controller struct {
	device   Device
	ports    modbus.PortLister
	renderer Renderer
	journal  Journal
	history  StateRecorder
	logger   Logger

	events   chan Event
	done     chan struct{}
	stopOnce sync.Once

	// Loop-owned state. Only the Run goroutine touches it.
	proj      *project.Project
	slaveText string
	portList  []string
}

// New creates a Controller. Call Run to start processing events.
func New(opts Options) *Controller {
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = nopRenderer{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	proj := opts.Project
	if proj == nil {
		proj = project.New()
	}

	return &Controller{
		device:    opts.Device,
		ports:     opts.Ports,
		renderer:  renderer,
		journal:   opts.Journal,
		history:   opts.History,
		logger:    logger,
		events:    make(chan Event, buffer),
		done:      make(chan struct{}),
		proj:      proj,
		slaveText: strconv.Itoa(int(proj.SlaveID)),
	}
}

// Send queues ev. It blocks while the queue is full and returns ErrClosed
// once the loop has stopped. Safe for concurrent use.
func (c *Controller) Send(ev Event) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.events <- ev:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// Done is closed when the loop has stopped.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Run processes events until a Close event arrives or ctx is cancelled.
//
// It first enumerates ports and pushes a full render. Events still queued
// when the loop stops are discarded.
func (c *Controller) Run(ctx context.Context) error {
	defer c.stop()

	c.logger.Info("controller started", "interface", c.proj.Interface, "slave", c.slaveText)
	c.refreshPorts()
	c.renderAll()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("controller stopped", "reason", ctx.Err())
			return nil
		case ev := <-c.events:
			if _, ok := ev.(Close); ok {
				c.logger.Info("controller stopped", "reason", "close event")
				return nil
			}
			c.handle(ctx, ev)
		}
	}
}

func (c *Controller) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// handle dispatches one event. Device operations run detached from ctx so a
// shutdown never interrupts a write sequence half way.
func (c *Controller) handle(ctx context.Context, ev Event) {
	opCtx := context.WithoutCancel(ctx)
	c.logger.Debug("handling event", "event", ev.eventName())

	switch e := ev.(type) {
	case ToggleRelay:
		c.toggleRelay(opCtx, e.Index, e.On)
	case SetAll:
		c.setAll(opCtx)
	case GetAll:
		c.getAll(opCtx)
	case AllOn:
		c.setEvery(opCtx, true)
	case AllOff:
		c.setEvery(opCtx, false)
	case AddPreset:
		c.addPreset(e.Name)
	case RemovePreset:
		c.removePreset(e.Index)
	case SelectPreset:
		c.selectPreset(e.Index)
	case ApplyPreset:
		c.applyPreset(opCtx)
	case SaveProject:
		c.saveProject(e.Path)
	case OpenProject:
		c.openProject(e.Path)
	case RefreshPorts:
		c.refreshPorts()
		c.renderer.RenderPorts(c.portList, c.proj.Interface)
	case ToggleRealtime:
		c.toggleRealtime(opCtx)
	case SetInterface:
		c.proj.Interface = e.Name
		c.renderer.RenderPorts(c.portList, c.proj.Interface)
		c.renderProject()
	case SetSlaveID:
		c.setSlaveText(e.Text)
		c.renderProject()
	case SavePresetFile:
		c.savePresetFile(e.Path)
	case LoadPresetFile:
		c.loadPresetFile(opCtx, e.Path)
	default:
		c.logger.Warn("ignoring unknown event", "event", ev.eventName())
	}
}

// renderAll pushes every piece of displayed state.
func (c *Controller) renderAll() {
	c.renderRelays()
	c.renderer.RenderPorts(c.portList, c.proj.Interface)
	c.renderPresets()
	c.renderer.RenderRealtime(c.proj.Realtime)
	c.renderProject()
}

func (c *Controller) renderProject() {
	c.renderer.RenderProject(ProjectView{
		Name:      c.proj.Name,
		Interface: c.proj.Interface,
		SlaveID:   c.slaveText,
	})
}

func (c *Controller) renderRelays() {
	for i, on := range c.proj.State {
		c.renderer.RenderRelay(i, IndicatorFor(on))
	}
}

func (c *Controller) renderPresets() {
	c.renderer.RenderPresets(PresetList{
		Names:     c.proj.PresetNames(),
		Selection: c.proj.Selection,
	})
}

func (c *Controller) fail(ctrl Control, msg string, err error) {
	c.logger.Warn(msg, "control", string(ctrl), "error", err)
	c.renderer.RenderControl(ctrl, ControlError)
}

func (c *Controller) ok(ctrl Control) {
	c.renderer.RenderControl(ctrl, ControlNormal)
}
