package controller

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/nerrad567/relaybank/internal/bridges/modbus"
	"github.com/nerrad567/relaybank/internal/journal"
	"github.com/nerrad567/relaybank/internal/project"
	"github.com/nerrad567/relaybank/internal/relay"
)

// target validates the interface and slave fields.
func (c *Controller) target() (relay.Target, error) {
	if err := project.ValidatePort(c.proj.Interface); err != nil {
		return relay.Target{}, err
	}
	slave, err := project.ParseSlaveID(c.slaveText)
	if err != nil {
		return relay.Target{}, err
	}
	c.proj.SlaveID = slave
	return relay.Target{Port: c.proj.Interface, SlaveID: slave}, nil
}

func (c *Controller) toggleRelay(ctx context.Context, index int, on bool) {
	if err := relay.CheckIndex(index); err != nil {
		c.logger.Warn("ignoring toggle", "error", err)
		return
	}
	c.proj.State[index] = on
	c.renderer.RenderRelay(index, IndicatorFor(on))

	if !c.proj.Realtime {
		return
	}

	t, err := c.target()
	if err != nil {
		c.logger.Warn("realtime write not possible", "relay", index+1, "error", err)
		c.renderer.RenderRelay(index, IndicatorError)
		return
	}

	err = c.deviceOp(ctx, journal.KindWrite, t, func() (relay.State, error) {
		return c.proj.State, c.writeRelay(ctx, t, index, on)
	})
	if err != nil {
		c.renderer.RenderRelay(index, IndicatorError)
	}
}

func (c *Controller) writeRelay(ctx context.Context, t relay.Target, index int, on bool) error {
	if c.device == nil {
		return fmt.Errorf("%w: no device configured", modbus.ErrConnect)
	}
	return c.device.WriteRelay(ctx, t, index, on)
}

// setAll writes the relay vector to the board and reports success.
func (c *Controller) setAll(ctx context.Context) bool {
	t, err := c.target()
	if err != nil {
		c.fail(ControlSet, "set rejected", err)
		return false
	}

	state := c.proj.State
	err = c.deviceOp(ctx, journal.KindSet, t, func() (relay.State, error) {
		if c.device == nil {
			return state, fmt.Errorf("%w: no device configured", modbus.ErrConnect)
		}
		return state, c.device.Apply(ctx, t, state)
	})
	if err != nil {
		c.fail(ControlSet, "set failed", err)
		return false
	}
	c.ok(ControlSet)
	return true
}

func (c *Controller) getAll(ctx context.Context) {
	t, err := c.target()
	if err != nil {
		c.fail(ControlGet, "get rejected", err)
		return
	}

	var state relay.State
	err = c.deviceOp(ctx, journal.KindGet, t, func() (relay.State, error) {
		if c.device == nil {
			return state, fmt.Errorf("%w: no device configured", modbus.ErrConnect)
		}
		var err error
		state, err = c.device.Read(ctx, t)
		return state, err
	})
	if err != nil {
		c.fail(ControlGet, "get failed", err)
		return
	}

	c.proj.State = state
	c.renderRelays()
	c.ok(ControlGet)
}

// deviceOp runs one device operation and records it. op returns the relay
// vector that was written or read.
func (c *Controller) deviceOp(ctx context.Context, kind string, t relay.Target, op func() (relay.State, error)) error {
	start := time.Now()
	state, err := op()
	elapsed := time.Since(start)

	entry := &journal.Entry{
		Kind:      kind,
		Port:      t.Port,
		SlaveID:   t.SlaveID,
		Duration:  elapsed,
		StartedAt: start.UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
	} else {
		entry.Relays = state.String()
	}
	if c.journal != nil {
		if jerr := c.journal.Record(ctx, entry); jerr != nil {
			c.logger.Warn("journal write failed", "op", kind, "error", jerr)
		}
	}

	if err != nil {
		return err
	}

	c.logger.Info("device operation complete", "op", kind, "port", t.Port, "slave", t.SlaveID,
		"relays", state.String(), "duration", elapsed)
	if c.history != nil {
		c.history.WriteRelayState(t.Port, t.SlaveID, kind, state)
	}
	return nil
}

func (c *Controller) setEvery(ctx context.Context, on bool) {
	c.proj.State = relay.All(on)
	c.renderRelays()
	if c.proj.Realtime {
		c.setAll(ctx)
	}
}

func (c *Controller) toggleRealtime(ctx context.Context) {
	c.proj.Realtime = !c.proj.Realtime
	c.renderer.RenderRealtime(c.proj.Realtime)
	c.logger.Info("realtime mode changed", "enabled", c.proj.Realtime)
	if c.proj.Realtime {
		c.setAll(ctx)
	}
}

func (c *Controller) setSlaveText(text string) {
	c.slaveText = text
	if slave, err := project.ParseSlaveID(text); err == nil {
		c.proj.SlaveID = slave
	}
}

func (c *Controller) addPreset(name string) {
	index, added, err := c.proj.AddPreset(name, c.proj.State)
	if err != nil {
		c.fail(ControlPreset, "add preset rejected", err)
		return
	}
	if added {
		c.logger.Info("preset added", "name", name, "index", index)
	}
	c.renderPresets()
	c.ok(ControlPreset)
}

func (c *Controller) removePreset(index int) {
	if err := c.proj.RemovePreset(index); err != nil {
		c.fail(ControlPreset, "remove preset rejected", err)
		return
	}
	c.renderPresets()
	c.ok(ControlPreset)
}

func (c *Controller) selectPreset(index int) {
	if err := c.proj.Select(index); err != nil {
		c.fail(ControlApply, "select preset rejected", err)
		return
	}
	c.renderPresets()
}

func (c *Controller) applyPreset(ctx context.Context) {
	p, err := c.proj.SelectedPreset()
	if err != nil {
		c.fail(ControlApply, "apply preset rejected", err)
		return
	}

	c.proj.State = p.State
	c.renderRelays()
	c.ok(ControlApply)
	if c.proj.Realtime {
		c.setAll(ctx)
	}
}

func (c *Controller) saveProject(path string) {
	if err := project.Save(path, c.proj); err != nil {
		c.fail(ControlSave, "save project failed", err)
		return
	}
	c.logger.Info("project saved", "path", path)
	c.ok(ControlSave)
}

func (c *Controller) openProject(path string) {
	p, err := project.Load(path)
	if err != nil {
		c.fail(ControlOpen, "open project failed", err)
		return
	}

	c.proj = p
	c.slaveText = strconv.Itoa(int(p.SlaveID))
	c.logger.Info("project opened", "path", path, "name", p.Name, "presets", len(p.Presets))
	c.renderAll()
	c.ok(ControlOpen)
}

func (c *Controller) savePresetFile(path string) {
	if err := project.SavePresetFile(path, c.proj.State); err != nil {
		c.fail(ControlSave, "save preset file failed", err)
		return
	}
	c.ok(ControlSave)
}

func (c *Controller) loadPresetFile(ctx context.Context, path string) {
	state, err := project.LoadPresetFile(path)
	if err != nil {
		c.fail(ControlApply, "load preset file failed", err)
		return
	}
	if _, _, err := c.proj.PutPreset(project.PresetName(path), state); err != nil {
		c.fail(ControlApply, "load preset file failed", err)
		return
	}
	c.renderPresets()
	c.applyPreset(ctx)
}

// refreshPorts re-enumerates ports. The current interface is kept when it is
// still listed, otherwise the first port is chosen. An empty or failed
// enumeration leaves the interface alone.
func (c *Controller) refreshPorts() {
	if c.ports == nil {
		return
	}
	ports, err := c.ports.ListPorts()
	if err != nil {
		c.logger.Warn("listing serial ports failed", "error", err)
		return
	}
	c.portList = ports

	if len(ports) == 0 || slices.Contains(ports, c.proj.Interface) {
		return
	}
	c.logger.Info("interface not available, selecting first port",
		"previous", c.proj.Interface, "selected", ports[0])
	c.proj.Interface = ports[0]
}
