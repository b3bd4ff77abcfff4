// Command worker runs one node's worth of ranks: BYTEPS_LOCAL_SIZE local
// ranks, each its own Engine, sharing one signal bus and one collective
// adapter the way several accelerators on one host share a PCIe/NVLink
// fabric. In distributed mode every rank's root also shares one
// parameter-server client dialed against an etcd cluster.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/Light-Reflection/byteps/internal/collective"
	"github.com/Light-Reflection/byteps/internal/config"
	"github.com/Light-Reflection/byteps/internal/device"
	"github.com/Light-Reflection/byteps/internal/engine"
	"github.com/Light-Reflection/byteps/internal/logging"
	"github.com/Light-Reflection/byteps/internal/psclient"
	"github.com/Light-Reflection/byteps/internal/signalbus"
	clientv3 "go.etcd.io/etcd/client/v3"
)

var (
	deviceSize = flag.Uint64("device-size", 64<<20, "per-rank simulated device memory size, in bytes, used when BYTEPS_DEVICE_ADDRS is unset")
	debug      = flag.Bool("debug", false, "enable development-mode (human-readable) logging")
)

func main() {
	flag.Parse()

	cfg := config.FromEnv()
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("worker: %v", err)
	}

	logger, err := logging.New(*debug)
	if err != nil {
		log.Fatalf("worker: failed to build logger: %v", err)
	}

	bus := signalbus.New(cfg.LocalSize)
	coll := collective.NewLocal(cfg.LocalSize)

	var ps psclient.Client
	if cfg.IsDistributed {
		cli, err := clientv3.New(clientv3.Config{Endpoints: config.EtcdEndpoints()})
		if err != nil {
			log.Fatalf("worker: failed to dial etcd: %v", err)
		}
		defer cli.Close()
		ps = psclient.NewEtcdClient(cli, "byteps/", barrierSizeFromEnv())
	}

	devices := buildDevices(cfg.LocalSize, *deviceSize)
	defer func() {
		for _, d := range devices {
			if closer, ok := d.(interface{ Close() error }); ok {
				closer.Close()
			}
		}
	}()

	engines := make([]*engine.Engine, cfg.LocalSize)
	for localRank := 0; localRank < cfg.LocalSize; localRank++ {
		rankCfg := cfg
		rankCfg.LocalRank = localRank
		rankCfg.Rank = cfg.WorkerID*cfg.LocalSize + localRank
		e := engine.New(rankCfg, bus, coll, ps, devices[localRank], logger)
		e.Init()
		engines[localRank] = e
	}

	logger.Infow("worker started", "rank", cfg.Rank, "local_size", cfg.LocalSize, "distributed", cfg.IsDistributed)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Infow("worker shutting down")
	for _, e := range engines {
		e.RequestShutdown()
	}
	// Closing the shared bus unblocks every non-root loop parked in
	// RecvSignal before any Wait call below can join it.
	bus.Close()
	for _, e := range engines {
		e.Wait()
	}
}

// buildDevices returns one Device per local rank: a dialed device.Remote
// per address in BYTEPS_DEVICE_ADDRS (a comma-separated list, one address
// per local rank) if set, or a freshly allocated device.Simulated of
// defaultSize otherwise.
func buildDevices(localSize int, defaultSize uint64) []device.Device {
	addrs := deviceAddrsFromEnv()
	devices := make([]device.Device, localSize)
	for i := 0; i < localSize; i++ {
		if i < len(addrs) {
			d, err := device.DialRemote(addrs[i], defaultSize)
			if err != nil {
				log.Fatalf("worker: failed to dial device %d at %s: %v", i, addrs[i], err)
			}
			devices[i] = d
			continue
		}
		devices[i] = device.NewSimulated(defaultSize)
	}
	return devices
}

func deviceAddrsFromEnv() []string {
	v := os.Getenv("BYTEPS_DEVICE_ADDRS")
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

func barrierSizeFromEnv() int {
	v := os.Getenv("BYTEPS_BARRIER_SIZE")
	if v == "" {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 1
	}
	return n
}
