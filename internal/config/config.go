// Package config reads deployment configuration the way the rest of this
// codebase does: flag for process-local knobs like listen port, and
// environment variables (with sane defaults) for the rank/role and
// cluster-topology settings a launcher sets per process.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Light-Reflection/byteps/internal/registry"
)

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envUint64(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// FromEnv builds a registry.Config from the BYTEPS_* environment
// variables, falling back to defaults suitable for a single-process,
// single-rank run.
func FromEnv() registry.Config {
	return registry.Config{
		Rank:           envInt("BYTEPS_RANK", 0),
		LocalRank:      envInt("BYTEPS_LOCAL_RANK", 0),
		Size:           envInt("BYTEPS_SIZE", 1),
		LocalSize:      envInt("BYTEPS_LOCAL_SIZE", 1),
		RootRank:       envInt("BYTEPS_ROOT_RANK", 0),
		IsDistributed:  envBool("BYTEPS_DISTRIBUTED", false),
		WorkerID:       envInt("BYTEPS_WORKER_ID", 0),
		PartitionBound: envUint64("BYTEPS_PARTITION_BOUND", 4*1024*1024),
		NcclGroupSize:  envInt("BYTEPS_NCCL_GROUP_SIZE", 4),
	}
}

// EtcdEndpoints splits BYTEPS_ETCD_ENDPOINTS on commas. Empty input yields
// a single localhost default, matching a developer running etcd locally.
func EtcdEndpoints() []string {
	v := os.Getenv("BYTEPS_ETCD_ENDPOINTS")
	if v == "" {
		return []string{"127.0.0.1:2379"}
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if i > start {
				out = append(out, v[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// Validate reports a user error if cfg describes an impossible topology.
func Validate(cfg registry.Config) error {
	if cfg.LocalSize <= 0 {
		return fmt.Errorf("config: local_size must be positive, got %d", cfg.LocalSize)
	}
	if cfg.LocalRank < 0 || cfg.LocalRank >= cfg.LocalSize {
		return fmt.Errorf("config: local_rank %d out of range [0,%d)", cfg.LocalRank, cfg.LocalSize)
	}
	if cfg.RootRank < 0 || cfg.RootRank >= cfg.LocalSize {
		return fmt.Errorf("config: root_rank %d out of range [0,%d)", cfg.RootRank, cfg.LocalSize)
	}
	if cfg.PartitionBound == 0 {
		return fmt.Errorf("config: partition_bound must be positive")
	}
	if cfg.NcclGroupSize <= 0 {
		return fmt.Errorf("config: nccl_group_size must be positive, got %d", cfg.NcclGroupSize)
	}
	return nil
}
