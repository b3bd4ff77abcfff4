package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Light-Reflection/byteps/internal/registry"
)

func TestEnvIntDefaultAndOverride(t *testing.T) {
	assert.Equal(t, 7, envInt("BYTEPS_TEST_INT", 7))
	t.Setenv("BYTEPS_TEST_INT", "42")
	assert.Equal(t, 42, envInt("BYTEPS_TEST_INT", 7))
	t.Setenv("BYTEPS_TEST_INT", "not-a-number")
	assert.Equal(t, 7, envInt("BYTEPS_TEST_INT", 7))
}

func TestEnvUint64DefaultAndOverride(t *testing.T) {
	assert.Equal(t, uint64(1024), envUint64("BYTEPS_TEST_UINT", 1024))
	t.Setenv("BYTEPS_TEST_UINT", "2048")
	assert.Equal(t, uint64(2048), envUint64("BYTEPS_TEST_UINT", 1024))
	t.Setenv("BYTEPS_TEST_UINT", "-1")
	assert.Equal(t, uint64(1024), envUint64("BYTEPS_TEST_UINT", 1024))
}

func TestEnvBoolDefaultAndOverride(t *testing.T) {
	assert.False(t, envBool("BYTEPS_TEST_BOOL", false))
	t.Setenv("BYTEPS_TEST_BOOL", "true")
	assert.True(t, envBool("BYTEPS_TEST_BOOL", false))
	t.Setenv("BYTEPS_TEST_BOOL", "garbage")
	assert.False(t, envBool("BYTEPS_TEST_BOOL", false))
}

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	assert.Equal(t, registry.Config{
		Rank: 0, LocalRank: 0, Size: 1, LocalSize: 1, RootRank: 0,
		IsDistributed: false, WorkerID: 0,
		PartitionBound: 4 * 1024 * 1024, NcclGroupSize: 4,
	}, cfg)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BYTEPS_RANK", "3")
	t.Setenv("BYTEPS_LOCAL_RANK", "1")
	t.Setenv("BYTEPS_SIZE", "4")
	t.Setenv("BYTEPS_LOCAL_SIZE", "2")
	t.Setenv("BYTEPS_DISTRIBUTED", "true")
	t.Setenv("BYTEPS_WORKER_ID", "1")

	cfg := FromEnv()
	assert.Equal(t, 3, cfg.Rank)
	assert.Equal(t, 1, cfg.LocalRank)
	assert.Equal(t, 4, cfg.Size)
	assert.Equal(t, 2, cfg.LocalSize)
	assert.True(t, cfg.IsDistributed)
	assert.Equal(t, 1, cfg.WorkerID)
}

func TestEtcdEndpointsDefault(t *testing.T) {
	assert.Equal(t, []string{"127.0.0.1:2379"}, EtcdEndpoints())
}

func TestEtcdEndpointsSplitsOnComma(t *testing.T) {
	t.Setenv("BYTEPS_ETCD_ENDPOINTS", "10.0.0.1:2379,10.0.0.2:2379,10.0.0.3:2379")
	assert.Equal(t, []string{"10.0.0.1:2379", "10.0.0.2:2379", "10.0.0.3:2379"}, EtcdEndpoints())
}

func TestValidateRejectsBadTopology(t *testing.T) {
	base := registry.Config{LocalSize: 2, LocalRank: 0, RootRank: 0, PartitionBound: 1, NcclGroupSize: 1}

	assert.NoError(t, Validate(base))

	bad := base
	bad.LocalSize = 0
	assert.Error(t, Validate(bad))

	bad = base
	bad.LocalRank = 2
	assert.Error(t, Validate(bad))

	bad = base
	bad.RootRank = -1
	assert.Error(t, Validate(bad))

	bad = base
	bad.PartitionBound = 0
	assert.Error(t, Validate(bad))

	bad = base
	bad.NcclGroupSize = 0
	assert.Error(t, Validate(bad))
}
