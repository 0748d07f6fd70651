// Package influxdb records relay state history in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. After every successful
// device operation the controller writes one relay_state point:
//
//	relay_state,port=/dev/ttyUSB0,slave=1,source=set mask=5i,relay_01=true,relay_02=false,...
//
// Writes are non-blocking and batched according to batch_size and
// flush_interval. Asynchronous write failures are delivered to the callback
// set with SetOnError; they never affect relay control.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteRelayState("/dev/ttyUSB0", 1, "set", state)
package influxdb
