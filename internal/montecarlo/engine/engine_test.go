package engine_test

//go:generate mockgen -destination mock_strategy_test.go -package engine_test -write_package_comment=false github.com/wesleyorama2/montepi/internal/montecarlo/strategy Strategy

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/wesleyorama2/montepi/internal/montecarlo"
	"github.com/wesleyorama2/montepi/internal/montecarlo/config"
	"github.com/wesleyorama2/montepi/internal/montecarlo/engine"
	"github.com/wesleyorama2/montepi/internal/montecarlo/metrics"
	"github.com/wesleyorama2/montepi/internal/montecarlo/strategy"
)

func storeOf(distances ...float64) *montecarlo.SampleStore {
	store := montecarlo.NewSampleStore(len(distances))
	store.RecordBatch(distances)
	return store
}

func TestRatio(t *testing.T) {
	tests := []struct {
		inside, n int
		want      float64
	}{
		{7837, 10000, 3.1348},
		{0, 10, 0},
		{10, 10, 4},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := engine.Ratio(tt.inside, tt.n); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Ratio(%d, %d) = %v, want %v", tt.inside, tt.n, got, tt.want)
		}
	}
}

func TestEstimateWithMock(t *testing.T) {
	ctrl := gomock.NewController(t)

	cfg := &strategy.Config{Name: "mocked", Type: strategy.TypeWorkerPool, NumPoints: 4, Radius: 10}
	m := metrics.NewEngine()

	s := NewMockStrategy(ctrl)
	gomock.InOrder(
		s.EXPECT().Init(gomock.Any(), cfg).Return(nil),
		s.EXPECT().Run(gomock.Any(), m).Return(storeOf(1, 10, 10.5, 3), nil),
	)
	s.EXPECT().Type().Return(strategy.TypeWorkerPool).AnyTimes()
	s.EXPECT().GetStats().Return(&strategy.Stats{Workers: 2})

	result, err := engine.Estimate(context.Background(), s, cfg, m)
	require.NoError(t, err)

	assert.Equal(t, strategy.TypeWorkerPool, result.Strategy)
	assert.Equal(t, "mocked", result.Name)
	assert.Equal(t, 4, result.Recorded)
	assert.Equal(t, 3, result.Inside, "boundary distance counts as inside")
	assert.InDelta(t, 3.0, result.Pi, 1e-12)
	assert.InDelta(t, math.Pi-3.0, result.Deviation, 1e-12)
	assert.Equal(t, 2, result.Workers)
	require.NotNil(t, result.Metrics)
	assert.Equal(t, metrics.PhaseDone, result.Metrics.CurrentPhase)
}

func TestEstimateUsesConfiguredDenominator(t *testing.T) {
	ctrl := gomock.NewController(t)

	// A truncating pool recorded 3 of 4 configured samples.
	cfg := &strategy.Config{Type: strategy.TypeWorkerPool, NumPoints: 4, Radius: 10}
	s := NewMockStrategy(ctrl)
	s.EXPECT().Init(gomock.Any(), cfg).Return(nil)
	s.EXPECT().Run(gomock.Any(), gomock.Any()).Return(storeOf(1, 2, 3), nil)
	s.EXPECT().Type().Return(strategy.TypeWorkerPool).AnyTimes()
	s.EXPECT().GetStats().Return(nil)

	result, err := engine.Estimate(context.Background(), s, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Recorded)
	assert.InDelta(t, 3.0, result.Pi, 1e-12)
	assert.Nil(t, result.Metrics)
}

func TestEstimateErrors(t *testing.T) {
	boom := errors.New("boom")
	cfg := &strategy.Config{Type: strategy.TypeSerial, NumPoints: 1, Radius: 1}

	t.Run("init failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := NewMockStrategy(ctrl)
		s.EXPECT().Init(gomock.Any(), cfg).Return(boom)

		result, err := engine.Estimate(context.Background(), s, cfg, nil)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("run failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := NewMockStrategy(ctrl)
		s.EXPECT().Init(gomock.Any(), cfg).Return(nil)
		s.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, &strategy.WorkerError{Worker: 1, Err: boom})

		result, err := engine.Estimate(context.Background(), s, cfg, nil)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, boom)

		var werr *strategy.WorkerError
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, 1, werr.Worker)
	})

	t.Run("nil store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := NewMockStrategy(ctrl)
		s.EXPECT().Init(gomock.Any(), cfg).Return(nil)
		s.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := engine.Estimate(context.Background(), s, cfg, nil)
		assert.Error(t, err)
	})
}

func TestEstimateSerialGolden(t *testing.T) {
	cfg := &strategy.Config{
		Type:      strategy.TypeSerial,
		NumPoints: 10000,
		Radius:    10000,
		Seed:      269222,
	}

	result, err := engine.Estimate(context.Background(), strategy.NewSerial(), cfg, metrics.NewEngine())
	require.NoError(t, err)
	assert.Equal(t, 10000, result.Recorded)
	assert.Equal(t, 7837, result.Inside)
	assert.InDelta(t, 3.1348, result.Pi, 1e-12)
}

func quickConfig() *config.Config {
	return &config.Config{
		Name:      "quick",
		NumPoints: 10000,
		Radius:    10000,
		Seed:      config.Int64Ptr(269222),
		SpinWaits: config.IntPtr(0),
		Workers:   4,
		Generator: "per-worker",
	}
}

func TestEngineRun(t *testing.T) {
	e, err := engine.NewEngine(quickConfig())
	require.NoError(t, err)

	var started, finished []strategy.Type
	e.OnStart = func(cfg *strategy.Config) { started = append(started, cfg.Type) }
	e.OnResult = func(r *engine.Result) { finished = append(finished, r.Strategy) }

	report, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "quick", report.Name)
	assert.Empty(t, report.Errors)
	assert.GreaterOrEqual(t, report.CPUs, 1)
	assert.False(t, report.EndTime.Before(report.StartTime))

	want := []strategy.Type{strategy.TypeSerial, strategy.TypeWorkerPool, strategy.TypeStructuredParallel}
	assert.Equal(t, want, started)
	assert.Equal(t, want, finished)
	require.Len(t, report.Results, 3)

	assert.Equal(t, 7837, report.Result(strategy.TypeSerial).Inside)
	assert.Equal(t, 7756, report.Result(strategy.TypeWorkerPool).Inside)
	assert.Equal(t, 7858, report.Result(strategy.TypeStructuredParallel).Inside)
	for _, r := range report.Results {
		assert.Equal(t, 10000, r.Recorded, "%s recorded", r.Strategy)
		assert.LessOrEqual(t, r.Inside, r.Recorded)
	}
}

func TestEngineRunCollectsErrors(t *testing.T) {
	cfg := quickConfig()
	cfg.Strategies = []string{"serial", "worker-pool"}

	e, err := engine.NewEngine(cfg)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	boom := errors.New("pool exploded")

	e.SetFactory(func(typ strategy.Type) (strategy.Strategy, error) {
		if typ == strategy.TypeSerial {
			return strategy.NewSerial(), nil
		}
		s := NewMockStrategy(ctrl)
		s.EXPECT().Init(gomock.Any(), gomock.Any()).Return(nil)
		s.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, boom)
		return s, nil
	})

	var failed []strategy.Type
	e.OnError = func(typ strategy.Type, err error) { failed = append(failed, typ) }

	report, err := e.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []strategy.Type{strategy.TypeWorkerPool}, failed)

	require.Len(t, report.Results, 1)
	assert.Equal(t, strategy.TypeSerial, report.Results[0].Strategy)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "pool exploded")
	assert.Nil(t, report.Result(strategy.TypeWorkerPool))
}

func TestEngineRunCancelled(t *testing.T) {
	e, err := engine.NewEngine(quickConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := e.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Results)
}

func TestNewEngineInvalidConfig(t *testing.T) {
	_, err := engine.NewEngine(&config.Config{NumPoints: -1})
	require.Error(t, err)

	var verrs *config.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestNewEngineAppliesDefaults(t *testing.T) {
	e, err := engine.NewEngine(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultNumPoints, e.Config().NumPoints)
	assert.Equal(t, config.DefaultStrategies, e.Config().Strategies)
}
