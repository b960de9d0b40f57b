// Package collect polls many PDUs at once.
package collect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/cznic/mathutil"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// MaxConcurrency bounds the worker pool whatever --concurrency says.
const MaxConcurrency = 1000

// Params are the knobs of the collect command and the scheduled collection.
type Params struct {
	Concurrency int
	// Timeout bounds each host's poll. Zero means no bound beyond ctx.
	Timeout time.Duration
	// Details also reads the first PDU's info page.
	Details bool
}

// DeviceFunc returns the device to poll for host.
type DeviceFunc func(host string) (*mpx.Device, error)

type job struct {
	index int
	host  string
}

// Collect polls every distinct host with a pool of workers and returns one
// snapshot per host, in the order the hosts were first given. Failures are
// recorded in the snapshot and never abort the other polls.
func Collect(ctx context.Context, hosts []string, newDevice DeviceFunc, params Params) Snapshots {
	hosts = Dedupe(hosts)
	if len(hosts) == 0 {
		return Snapshots{}
	}

	limit := mathutil.Min(len(hosts), MaxConcurrency)
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = limit
	}
	concurrency = mathutil.Clamp(concurrency, 1, limit)

	var (
		snapshots = make(Snapshots, len(hosts))
		jobs      = make(chan job, concurrency)
		wg        sync.WaitGroup
	)

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				snapshots[j.index] = poll(ctx, j.host, newDevice, params)
			}
		}()
	}
	for i, host := range hosts {
		jobs <- job{index: i, host: host}
	}
	close(jobs)
	wg.Wait()

	return snapshots
}

func poll(ctx context.Context, host string, newDevice DeviceFunc, params Params) Snapshot {
	var (
		snap  = NewSnapshot(host)
		start = time.Now()
		err   error
	)
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	err = fill(ctx, &snap, newDevice, params)
	if err != nil {
		snap.Error = err.Error()
		log.Error().Err(err).Str("host", host).Msg("failed to poll PDU")
	} else {
		log.Info().
			Str("host", host).
			Int("receptacles", len(snap.Receptacles)).
			Int("events", len(snap.Events)).
			Msg("polled PDU")
	}
	recordPoll(snap, time.Since(start))
	return snap
}

func fill(ctx context.Context, snap *Snapshot, newDevice DeviceFunc, params Params) error {
	device, err := newDevice(snap.Host)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	receptacles, err := device.Receptacles(ctx)
	if err != nil {
		return err
	}
	snap.Receptacles = receptacles
	events, err := device.Events(ctx)
	if err != nil {
		return err
	}
	snap.Events = events
	if params.Details {
		info, err := device.PDUInfo(ctx, 1)
		if err != nil {
			return err
		}
		snap.PDU = &info
	}
	return nil
}

// Dedupe drops blank and repeated hosts, keeping first occurrences in order.
func Dedupe(hosts []string) []string {
	unique := make([]string, 0, len(hosts))
	for _, host := range hosts {
		if host == "" || slices.Contains(unique, host) {
			continue
		}
		unique = append(unique, host)
	}
	return unique
}
