package influxdb

import (
	"fmt"
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/relaybank/internal/relay"
)

// relayStateMeasurement is the measurement holding relay snapshots.
const relayStateMeasurement = "relay_state"

// WriteRelayState records the state of every relay on a board.
//
// source names the operation that produced the state (set, get, write).
// The write is non-blocking.
func (c *Client) WriteRelayState(port string, slaveID byte, source string, state relay.State) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(relayStatePoint(port, slaveID, source, state, time.Now()))
}

// relayStatePoint builds the point: one boolean field per relay plus the
// integer mask.
func relayStatePoint(port string, slaveID byte, source string, state relay.State, ts time.Time) *write.Point {
	fields := make(map[string]interface{}, relay.N+1)
	for i, on := range state {
		fields[fmt.Sprintf("relay_%02d", i+1)] = on
	}
	fields["mask"] = int64(state.Mask())

	return write.NewPoint(
		relayStateMeasurement,
		map[string]string{
			"port":   port,
			"slave":  strconv.Itoa(int(slaveID)),
			"source": source,
		},
		fields,
		ts,
	)
}
