package benchmark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KlikkAI/verdict/pkg/metrics"
)

func registries(t *testing.T) map[string]Registry {
	t.Helper()

	badgerReg, err := NewBadgerRegistry(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { badgerReg.Close() })

	return map[string]Registry{
		"memory": NewMemoryRegistry(),
		"badger": badgerReg,
	}
}

func TestRegistryConfigRoundTrip(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			cfg := buildTimeConfig()
			require.NoError(t, reg.SaveConfig(cfg))

			got, err := reg.Config(cfg.Name)
			require.NoError(t, err)
			assert.Equal(t, cfg.Name, got.Name)
			assert.Equal(t, cfg.Thresholds, got.Thresholds)
			assert.False(t, got.CreatedAt.IsZero())
			assert.False(t, got.UpdatedAt.IsZero())
		})
	}
}

func TestRegistryConfigNotFound(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			_, err := reg.Config("absent")
			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, "config", nf.Kind)
			assert.Equal(t, "absent", nf.Name)
		})
	}
}

func TestRegistryUpdatePreservesCreatedAt(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			cfg := buildTimeConfig()
			require.NoError(t, reg.SaveConfig(cfg))

			first, err := reg.Config(cfg.Name)
			require.NoError(t, err)

			updated := buildTimeConfig()
			updated.Description = "tightened targets"
			require.NoError(t, reg.SaveConfig(updated))

			second, err := reg.Config(cfg.Name)
			require.NoError(t, err)
			assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
			assert.Equal(t, "tightened targets", second.Description)
		})
	}
}

func TestRegistryConfigsSortedByName(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			for _, n := range []string{"zeta", "alpha", "mid"} {
				cfg := buildTimeConfig()
				cfg.Name = n
				require.NoError(t, reg.SaveConfig(cfg))
			}

			configs, err := reg.Configs()
			require.NoError(t, err)
			require.Len(t, configs, 3)
			assert.Equal(t, "alpha", configs[0].Name)
			assert.Equal(t, "mid", configs[1].Name)
			assert.Equal(t, "zeta", configs[2].Name)
		})
	}
}

func TestRegistryResultsForConfigSortedByTimestamp(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			for i, id := range []string{"r-late", "r-early", "r-mid"} {
				offsets := []int{2, 0, 1}
				result := &Result{
					ID:         id,
					ConfigName: "build-only",
					Timestamp:  base.AddDate(0, 0, offsets[i]),
					Overall:    80,
				}
				require.NoError(t, reg.SaveResult(result))
			}
			require.NoError(t, reg.SaveResult(&Result{
				ID:         "other",
				ConfigName: "unrelated",
				Timestamp:  base,
			}))

			results, err := reg.ResultsForConfig("build-only")
			require.NoError(t, err)
			require.Len(t, results, 3)
			assert.Equal(t, "r-early", results[0].ID)
			assert.Equal(t, "r-mid", results[1].ID)
			assert.Equal(t, "r-late", results[2].ID)
		})
	}
}

func TestBadgerRegistryPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	reg, err := NewBadgerRegistry(dir)
	require.NoError(t, err)
	require.NoError(t, reg.SaveConfig(buildTimeConfig()))
	require.NoError(t, reg.SaveResult(&Result{
		ID:         "persisted",
		ConfigName: "build-only",
		Timestamp:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Scores:     map[metrics.Metric]float64{metrics.BuildTime: 100},
		Overall:    100,
	}))
	require.NoError(t, reg.Close())

	reopened, err := NewBadgerRegistry(dir)
	require.NoError(t, err)
	defer reopened.Close()

	cfg, err := reopened.Config("build-only")
	require.NoError(t, err)
	assert.Equal(t, "build-only", cfg.Name)

	result, err := reopened.Result("persisted")
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Overall)
	assert.Equal(t, 100.0, result.Scores[metrics.BuildTime])
}
