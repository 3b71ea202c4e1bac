package timeline

import (
	"testing"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	traceType model.TraceType
	byType    map[model.TimestampType][]int64
}

func (s stubSource) TraceType() model.TraceType { return s.traceType }

func (s stubSource) Timestamps(t model.TimestampType) ([]model.Timestamp, bool) {
	values, ok := s.byType[t]
	if !ok {
		return nil, false
	}
	out := make([]model.Timestamp, len(values))
	for i, v := range values {
		out[i] = model.NewTimestamp(t, v)
	}
	return out, true
}

func values(ts []model.Timestamp) []int64 {
	out := make([]int64, len(ts))
	for i, t := range ts {
		out[i] = t.ValueNs
	}
	return out
}

func TestMergeSortedUnionWithoutDuplicates(t *testing.T) {
	merger := NewMerger(nil)
	sources := []TimestampSource{
		stubSource{traceType: model.TraceSurfaceFlinger, byType: map[model.TimestampType][]int64{
			model.TimestampReal: {10, 30, 50},
		}},
		stubSource{traceType: model.TraceWindowManager, byType: map[model.TimestampType][]int64{
			model.TimestampReal: {20, 30, 40, 50},
		}},
	}

	result, err := merger.Merge(sources)

	require.NoError(t, err)
	assert.Equal(t, model.TimestampReal, result.Type)
	assert.Equal(t, []int64{10, 20, 30, 40, 50}, values(result.Timestamps))
	for i := 1; i < len(result.Timestamps); i++ {
		assert.Less(t, result.Timestamps[i-1].ValueNs, result.Timestamps[i].ValueNs)
	}
}

func TestMergeFallsBackWhenOneSourceLacksPreferredType(t *testing.T) {
	merger := NewMerger([]model.TimestampType{model.TimestampReal, model.TimestampElapsed})
	sources := []TimestampSource{
		stubSource{traceType: model.TraceSurfaceFlinger, byType: map[model.TimestampType][]int64{
			model.TimestampReal:    {1000, 2000},
			model.TimestampElapsed: {1, 2},
		}},
		stubSource{traceType: model.TraceScreenRecording, byType: map[model.TimestampType][]int64{
			model.TimestampElapsed: {2, 3},
		}},
	}

	result, err := merger.Merge(sources)

	require.NoError(t, err)
	assert.Equal(t, model.TimestampElapsed, result.Type)
	assert.Equal(t, []int64{1, 2, 3}, values(result.Timestamps))
}

func TestMergeHonoursConfiguredOrder(t *testing.T) {
	both := stubSource{traceType: model.TraceSurfaceFlinger, byType: map[model.TimestampType][]int64{
		model.TimestampReal:    {1000},
		model.TimestampElapsed: {1},
	}}

	result, err := NewMerger([]model.TimestampType{model.TimestampElapsed, model.TimestampReal}).Merge([]TimestampSource{both})

	require.NoError(t, err)
	assert.Equal(t, model.TimestampElapsed, result.Type)
}

func TestMergeNoCommonType(t *testing.T) {
	sources := []TimestampSource{
		stubSource{traceType: model.TraceSurfaceFlinger, byType: map[model.TimestampType][]int64{
			model.TimestampReal: {1},
		}},
		stubSource{traceType: model.TraceWindowManager, byType: map[model.TimestampType][]int64{
			model.TimestampElapsed: {1},
		}},
	}

	_, err := NewMerger(nil).Merge(sources)

	assert.ErrorIs(t, err, ErrNoCommonTimestampType)
}

func TestMergeZeroSourcesIsEmpty(t *testing.T) {
	result, err := NewMerger(nil).Merge(nil)

	require.NoError(t, err)
	assert.Empty(t, result.Timestamps)
	assert.Equal(t, 0, result.Len())
}

func TestMergeSingleSourceDeduplicates(t *testing.T) {
	source := stubSource{traceType: model.TraceSurfaceFlinger, byType: map[model.TimestampType][]int64{
		model.TimestampElapsed: {5, 3, 5, 1, 3},
	}}

	result, err := NewMerger(nil).Merge([]TimestampSource{source})

	require.NoError(t, err)
	assert.Equal(t, model.TimestampElapsed, result.Type)
	assert.Equal(t, []int64{1, 3, 5}, values(result.Timestamps))
}

func TestMergeSourceWithEmptySequenceStillSupportsType(t *testing.T) {
	sources := []TimestampSource{
		stubSource{traceType: model.TraceSurfaceFlinger, byType: map[model.TimestampType][]int64{
			model.TimestampReal: {},
		}},
		stubSource{traceType: model.TraceWindowManager, byType: map[model.TimestampType][]int64{
			model.TimestampReal: {7},
		}},
	}

	result, err := NewMerger(nil).Merge(sources)

	require.NoError(t, err)
	assert.Equal(t, model.TimestampReal, result.Type)
	assert.Equal(t, []int64{7}, values(result.Timestamps))
}
