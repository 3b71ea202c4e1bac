package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layersBlob(name string, clocks ...fixtures.Clock) Blob {
	b := fixtures.NewTraceBuilder(model.TraceSurfaceFlinger)
	for _, c := range clocks {
		b.AddLayers(c, fixtures.VisibilityLayers()...)
	}
	return Blob{Name: name, Data: b.Bytes()}
}

func TestNewParser(t *testing.T) {
	assert.Equal(t, 4, NewParser(4).concurrency)
	assert.Equal(t, 1, NewParser(0).concurrency)
}

func TestParseLookupPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    LookupPolicy
		wantErr bool
	}{
		{"", LookupFloor, false},
		{"floor", LookupFloor, false},
		{"EXACT", LookupExact, false},
		{"nearest", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLookupPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBlobSurfaceFlinger(t *testing.T) {
	blob := layersBlob("layers.jsonl", fixtures.AtReal(20, 1020), fixtures.AtReal(10, 1010))

	file, err := NewParser(1).ParseBlob(blob)
	require.NoError(t, err)

	assert.Equal(t, "layers.jsonl", file.Name())
	assert.Equal(t, model.TraceSurfaceFlinger, file.TraceType())
	assert.Equal(t, 2, file.Len())
	assert.Equal(t, []model.TimestampType{model.TimestampReal, model.TimestampElapsed}, file.SupportedTimestampTypes())

	elapsed, ok := file.Timestamps(model.TimestampElapsed)
	require.True(t, ok)
	assert.Equal(t, []model.Timestamp{model.NewElapsedTimestamp(10), model.NewElapsedTimestamp(20)}, elapsed)

	entry, ok := file.EntryAt(model.NewRealTimestamp(1015))
	require.True(t, ok)
	current, ok := entry.Current.(model.LayerTraceEntry)
	require.True(t, ok)
	assert.Equal(t, int64(10), current.ElapsedNs)
	assert.Len(t, current.Layers, 8)
	assert.Nil(t, entry.Previous)
}

func TestParseBlobRealClockRequiresEveryEntry(t *testing.T) {
	blob := layersBlob("layers.jsonl", fixtures.AtReal(10, 1010), fixtures.At(20))

	file, err := NewParser(1).ParseBlob(blob)
	require.NoError(t, err)

	_, ok := file.Timestamps(model.TimestampReal)
	assert.False(t, ok)
	assert.Equal(t, []model.TimestampType{model.TimestampElapsed}, file.SupportedTimestampTypes())
}

func TestTraceFileEntryAtFloor(t *testing.T) {
	file, err := NewParser(1).ParseBlob(layersBlob("l", fixtures.At(10), fixtures.At(20), fixtures.At(30)))
	require.NoError(t, err)

	tests := []struct {
		name        string
		ts          model.Timestamp
		wantOK      bool
		wantCurrent int64
		wantPrev    int64
	}{
		{"before first", model.NewElapsedTimestamp(5), false, 0, 0},
		{"first", model.NewElapsedTimestamp(10), true, 10, 0},
		{"between", model.NewElapsedTimestamp(25), true, 20, 10},
		{"after last", model.NewElapsedTimestamp(99), true, 30, 20},
		{"unsupported clock", model.NewRealTimestamp(25), false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := file.EntryAt(tt.ts)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantCurrent, entry.Current.(model.LayerTraceEntry).ElapsedNs)
			if tt.wantPrev == 0 {
				assert.Nil(t, entry.Previous)
			} else {
				assert.Equal(t, tt.wantPrev, entry.Previous.(model.LayerTraceEntry).ElapsedNs)
			}
		})
	}
}

func TestTraceFileEntryAtExact(t *testing.T) {
	data := fixtures.NewTraceBuilder(model.TraceScreenRecording).
		Lookup("exact").
		AddFrame(fixtures.At(100), 0).
		AddFrame(fixtures.At(200), 1).
		Bytes()

	file, err := NewParser(1).ParseBlob(Blob{Name: "video", Data: data})
	require.NoError(t, err)

	_, ok := file.EntryAt(model.NewElapsedTimestamp(150))
	assert.False(t, ok, "exact lookup misses between frames")

	entry, ok := file.EntryAt(model.NewElapsedTimestamp(200))
	require.True(t, ok)
	assert.Equal(t, 1, entry.Current.(model.ScreenRecordingFrame).FrameIndex)
}

func TestParseBlobWindowManagerAndTransactions(t *testing.T) {
	wm := fixtures.NewTraceBuilder(model.TraceWindowManager).
		AddWindows(fixtures.At(1), "com.app", fixtures.WindowSpec{
			HashCode: "a1", Name: "root", Kind: "RootWindowContainer", Visible: true,
			Children: []fixtures.WindowSpec{{HashCode: "b2", Name: "Display 0", Kind: "DisplayContent", Visible: true}},
		}).Bytes()
	tx := fixtures.NewTraceBuilder(model.TraceTransactions).
		AddTransactions(fixtures.At(1), 7, fixtures.TransactionSpec{
			ID: 3, PID: 100, Changes: []fixtures.LayerChangeSpec{{LayerID: 4, What: "eAlphaChanged", Extra: map[string]any{"alpha": 0.5}}},
		}).Bytes()

	p := NewParser(2)
	files, err := p.ParseBlobs(context.Background(), []Blob{{Name: "wm", Data: wm}, {Name: "tx", Data: tx}})
	require.NoError(t, err)
	require.Len(t, files, 2)

	entry, ok := files[0].EntryAt(model.NewElapsedTimestamp(1))
	require.True(t, ok)
	state := entry.Current.(model.WindowManagerState)
	assert.Equal(t, "com.app", state.FocusedApp)
	require.Len(t, state.Root.Children, 1)
	assert.Equal(t, "Display 0", state.Root.Children[0].Name)

	entry, ok = files[1].EntryAt(model.NewElapsedTimestamp(1))
	require.True(t, ok)
	txEntry := entry.Current.(model.TransactionsEntry)
	assert.Equal(t, int64(7), txEntry.VsyncID)
	require.Len(t, txEntry.Transactions, 1)
	assert.Equal(t, 0.5, txEntry.Transactions[0].LayerChanges[0].Properties["alpha"])
}

func TestParseBlobSkipsInvalidLines(t *testing.T) {
	data := append(layersBlob("l", fixtures.At(10)).Data, []byte("not json\n\n")...)
	data = append(data, layersBlob("l", fixtures.At(20)).Data...)

	// the second header line decodes as an entry without elapsedNanos
	_, err := NewParser(1).ParseBlob(Blob{Name: "l", Data: data})
	require.Error(t, err)

	clean := append(layersBlob("l", fixtures.At(10)).Data, []byte("not json\n")...)
	file, err := NewParser(1).ParseBlob(Blob{Name: "l", Data: clean})
	require.NoError(t, err)
	assert.Equal(t, 1, file.Len())
}

func TestParseBlobErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"missing trace type", `{"lookup":"floor"}`},
		{"unknown trace type", `{"traceType":"ProtoLog"}`},
		{"bad lookup", `{"traceType":"sf","lookup":"nearest"}`},
		{"bad header", `not json`},
		{"missing elapsed", "{\"traceType\":\"sf\"}\n{\"layers\":[]}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(1).ParseBlob(Blob{Name: tt.name, Data: []byte(tt.data)})
			assert.Error(t, err)
		})
	}
}

func TestParseBlobsFailsAsAWhole(t *testing.T) {
	blobs := []Blob{
		layersBlob("good", fixtures.At(1)),
		{Name: "bad", Data: []byte("garbage")},
	}

	files, err := NewParser(2).ParseBlobs(context.Background(), blobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	assert.Nil(t, files)
}

func TestParseBlobsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser(1).ParseBlobs(ctx, []Blob{layersBlob("l", fixtures.At(1))})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "layers.jsonl")
	require.NoError(t, fixtures.NewTraceBuilder(model.TraceSurfaceFlinger).AddLayers(fixtures.At(1)).WriteFile(path))

	blob, err := ReadBlob(path)
	require.NoError(t, err)
	assert.Equal(t, "layers.jsonl", blob.Name)

	_, err = ReadBlob(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.True(t, os.IsNotExist(err))
}
