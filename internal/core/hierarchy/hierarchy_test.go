package hierarchy

import (
	"fmt"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLayers(t *testing.T, layers ...fixtures.LayerSpec) *Tree {
	t.Helper()
	tree, err := DefaultRegistry().Build(fixtures.LayerEntry(1, layers...))
	require.NoError(t, err)
	return tree
}

func childNames(n *Node) []string {
	names := make([]string, len(n.Children))
	for i, c := range n.Children {
		names[i] = c.Name
	}
	return names
}

func TestSurfaceFlingerBuild(t *testing.T) {
	tree := buildLayers(t, fixtures.VisibilityLayers()...)

	assert.Equal(t, 8, tree.Count())
	require.Len(t, tree.Root.Children, 1)

	display := tree.Root.Children[0]
	assert.Equal(t, "1 Display 0#1", display.StableID)
	assert.Equal(t, []string{"StatusBar#3", "TaskBar#2", "App#4", "Hidden#8"}, childNames(display), "children ordered by z, highest first")
	assert.True(t, display.HasChip(model.VisibleChip))

	surface, ok := tree.Find("6 Surface#6")
	require.True(t, ok)
	assert.True(t, surface.HasChip(model.HWCChip))
	assert.Equal(t, int64(0), surface.DisplayID)

	parent, ok := tree.ParentOf("6 Surface#6")
	require.True(t, ok)
	assert.Equal(t, "5 ActivityRecord#5", parent)

	_, ok = tree.ParentOf(tree.Root.StableID)
	assert.False(t, ok)

	hidden, ok := tree.Find("8 Hidden#8")
	require.True(t, ok)
	assert.False(t, hidden.HasChip(model.VisibleChip))
	assert.Equal(t, int64(8), hidden.Properties["id"])
}

func TestSurfaceFlingerChips(t *testing.T) {
	tree := buildLayers(t,
		fixtures.LayerSpec{ID: 1, Name: "A", Visible: true, RelativeOf: 2},
		fixtures.LayerSpec{ID: 2, Name: "B", Composition: "CLIENT"},
		fixtures.LayerSpec{ID: 3, Name: "C", RelativeOf: 99},
	)

	a, _ := tree.Find("1 A")
	b, _ := tree.Find("2 B")
	c, _ := tree.Find("3 C")

	assert.Equal(t, []model.Chip{model.VisibleChip, model.RelativeZChip}, a.Chips)
	assert.Equal(t, []model.Chip{model.GPUChip, model.RelativeZParentChip}, b.Chips)
	assert.Equal(t, []model.Chip{model.MissingZParentChip}, c.Chips)
}

func TestSurfaceFlingerParentCycle(t *testing.T) {
	tree := buildLayers(t,
		fixtures.LayerSpec{ID: 1, Parent: 2, Name: "A"},
		fixtures.LayerSpec{ID: 2, Parent: 1, Name: "B"},
		fixtures.LayerSpec{ID: 3, Parent: 42, Name: "Orphan"},
	)

	assert.Equal(t, 3, tree.Count())
	assert.Contains(t, childNames(tree.Root), "Orphan")
	assert.Contains(t, childNames(tree.Root), "A")
}

func TestWindowManagerBuild(t *testing.T) {
	state := fixtures.WindowState(1, "com.app", fixtures.WindowSpec{
		HashCode: "1a", Name: "root", Kind: "RootWindowContainer", Visible: true,
		Children: []fixtures.WindowSpec{
			{HashCode: "2b", Name: "Display 0", Kind: "DisplayContent", Visible: true, DisplayID: 0,
				Children: []fixtures.WindowSpec{{HashCode: "3c", Name: "com.app/.Main", Kind: "WindowState", Visible: false, DisplayID: 0}}},
		},
	})

	tree, err := DefaultRegistry().Build(state)
	require.NoError(t, err)

	assert.Equal(t, 3, tree.Count())
	window, ok := tree.Find(WindowStableID("WindowState", "3c", "com.app/.Main"))
	require.True(t, ok)
	assert.False(t, window.IsVisible)
	assert.Empty(t, window.Chips)
	assert.NotContains(t, window.Properties, "children")

	parent, _ := tree.ParentOf(window.StableID)
	assert.Equal(t, "DisplayContent 2b Display 0", parent)
}

func TestTransactionsBuild(t *testing.T) {
	entry := model.TransactionsEntry{
		VsyncID: 9,
		Transactions: []model.Transaction{
			{ID: 1, PID: 10, LayerChanges: []model.LayerChange{{LayerID: 4, What: "eAlphaChanged"}, {LayerID: 4, What: "ePositionChanged"}}},
			{ID: 2, PID: 11},
		},
	}

	tree, err := DefaultRegistry().Build(entry)
	require.NoError(t, err)

	assert.Equal(t, 4, tree.Count())
	assert.Equal(t, []string{"Transaction 1", "Transaction 2"}, childNames(tree.Root))
	assert.Equal(t, []string{"Layer 4 eAlphaChanged", "Layer 4 ePositionChanged"}, childNames(tree.Root.Children[0]))
}

func TestTransactionsChangeIdentityIgnoresOrder(t *testing.T) {
	changes := []model.LayerChange{{LayerID: 4, What: "eAlphaChanged"}, {LayerID: 5, What: "ePositionChanged"}}
	build := func(vsync int64, changes ...model.LayerChange) *Tree {
		tree, err := DefaultRegistry().Build(model.TransactionsEntry{
			VsyncID:      vsync,
			Transactions: []model.Transaction{{ID: 1, LayerChanges: changes}},
		})
		require.NoError(t, err)
		return tree
	}
	previous := build(9, changes...)
	current := build(10, changes[1], changes[0])

	diffed := Diff(current, previous)

	diffed.Root.Walk(func(n *Node, _ int) bool {
		assert.Equal(t, model.DiffNone, n.Diff, n.StableID)
		return true
	})
	assert.Equal(t, current.Count(), diffed.Count())
	assert.Equal(t, int64(10), diffed.Root.Properties["vsyncId"])
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []model.TraceType{model.TraceSurfaceFlinger, model.TraceWindowManager, model.TraceTransactions}, r.TraceTypes())

	_, ok := r.Lookup(model.TraceScreenRecording)
	assert.False(t, ok)

	_, err := r.Build(model.ScreenRecordingFrame{})
	assert.ErrorIs(t, err, model.ErrUnknownTraceType)

	_, err = r.Build(nil)
	assert.Error(t, err)

	_, err = NewSurfaceFlingerAdapter().Build(model.TransactionsEntry{})
	assert.Error(t, err)
}

func TestFlattenPreservesNodes(t *testing.T) {
	tests := []struct {
		name   string
		layers []fixtures.LayerSpec
	}{
		{"visibility", fixtures.VisibilityLayers()},
		{"wallpaper", fixtures.WallpaperLayers()},
		{"single", []fixtures.LayerSpec{{ID: 1, Name: "only"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildLayers(t, tt.layers...)
			before := tree.Clone()

			flat := Flatten(tree)

			assert.Equal(t, tree.Count(), flat.Count())
			assert.Len(t, flat.Root.Children, len(tt.layers))
			for _, child := range flat.Root.Children {
				assert.Empty(t, child.Children)
				assert.True(t, tree.Contains(child.StableID))
			}
			assert.Equal(t, before.Root, tree.Root, "source tree is not modified")
		})
	}
}

func TestWallpaperScenario(t *testing.T) {
	tree := buildLayers(t, fixtures.WallpaperLayers()...)
	require.Len(t, tree.Root.Children, fixtures.WallpaperRootCount)

	flat := Flatten(tree)
	assert.Len(t, flat.Root.Children, fixtures.WallpaperLayerCount)

	filtered := FilterText(flat, "Wallpaper")
	assert.Len(t, filtered.Root.Children, fixtures.WallpaperMatches)
}

func TestFilterVisible(t *testing.T) {
	tree := buildLayers(t, fixtures.VisibilityLayers()...)

	visible := FilterVisible(tree)

	assert.Equal(t, 7, visible.Count())
	assert.False(t, visible.Contains("8 Hidden#8"))
}

func TestFilterVisibleKeepsPassThroughAncestor(t *testing.T) {
	tree := buildLayers(t,
		fixtures.LayerSpec{ID: 1, Name: "Container", Visible: false},
		fixtures.LayerSpec{ID: 2, Parent: 1, Name: "Leaf", Visible: true},
		fixtures.LayerSpec{ID: 3, Parent: 1, Name: "Gone", Visible: false},
	)

	visible := FilterVisible(tree)

	assert.Equal(t, 2, visible.Count())
	assert.True(t, visible.Contains("1 Container"))
	assert.False(t, visible.Contains("3 Gone"))
}

func TestFilterTextKeepsAncestors(t *testing.T) {
	tree := buildLayers(t, fixtures.VisibilityLayers()...)

	filtered := FilterText(tree, "surface#6")

	assert.Equal(t, 4, filtered.Count())
	for _, id := range []string{"1 Display 0#1", "4 App#4", "5 ActivityRecord#5", "6 Surface#6"} {
		assert.True(t, filtered.Contains(id), id)
	}
	display := filtered.Root.Children[0]
	assert.Equal(t, []string{"App#4"}, childNames(display), "siblings without a match are dropped")
}

func TestFilterTextEmptyQuery(t *testing.T) {
	tree := buildLayers(t, fixtures.VisibilityLayers()...)
	assert.Equal(t, tree.Root, FilterText(tree, "  ").Root)
	assert.Equal(t, 0, FilterText(tree, "no such layer").Count())
}

func TestSimplifyName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Layer#1", "Layer#1"},
		{"com.android.systemui.ImageWallpaper#12", "c.a.s.ImageWallpaper#12"},
		{"com.google.android.apps.nexuslauncher/com.android.launcher3.Launcher#5",
			"c.g.a.a.nexuslauncher/c.a.l.Launcher#5"},
		{"com.example.Short", "com.example.Short"},
		{"com.android.systemui NavigationBar0 StatusBar", "c.a.systemui NavigationBar0 StatusBar"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SimplifyName(tt.in))
		})
	}
}

func TestSimplifyNamesKeepsFullName(t *testing.T) {
	tree := buildLayers(t, fixtures.WallpaperLayers()...)

	simplified := SimplifyNames(tree)

	node, ok := simplified.Find(LayerStableID(8, "com.android.systemui.ImageWallpaper#8"))
	require.True(t, ok)
	assert.Equal(t, "c.a.s.ImageWallpaper#8", node.DisplayName())
	assert.Equal(t, "com.android.systemui.ImageWallpaper#8", node.Name)
	assert.Len(t, FilterText(Flatten(simplified), "Wallpaper").Root.Children, fixtures.WallpaperMatches)
}

func diffOf(t *testing.T, tree *Tree, stableID string) []model.DiffType {
	t.Helper()
	var diffs []model.DiffType
	tree.Root.Walk(func(n *Node, _ int) bool {
		if n.StableID == stableID {
			diffs = append(diffs, n.Diff)
		}
		return true
	})
	return diffs
}

func TestDiff(t *testing.T) {
	previous := buildLayers(t, fixtures.VisibilityLayers()...)

	layers := fixtures.VisibilityLayers()
	// TaskBar modified, Popup moved from App to Display, Hidden deleted
	layers[1].Z = 9
	layers[6].Parent = 1
	layers = layers[:7]
	layers = append(layers, fixtures.LayerSpec{ID: 9, Parent: 1, Name: "New#9", Visible: true})
	current := buildLayers(t, layers...)

	diffed := Diff(current, previous)

	tests := []struct {
		stableID string
		want     []model.DiffType
	}{
		{"LayerTraceEntry root", []model.DiffType{model.DiffNone}},
		{"3 StatusBar#3", []model.DiffType{model.DiffNone}},
		{"2 TaskBar#2", []model.DiffType{model.DiffModified}},
		{"9 New#9", []model.DiffType{model.DiffAdded}},
		{"8 Hidden#8", []model.DiffType{model.DiffDeleted}},
		{"7 Popup#7", []model.DiffType{model.DiffAddedMove, model.DiffDeletedMove}},
	}
	for _, tt := range tests {
		t.Run(tt.stableID, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, diffOf(t, diffed, tt.stableID))
		})
	}

	hiddenParent, _ := diffed.ParentOf("8 Hidden#8")
	assert.Equal(t, "1 Display 0#1", hiddenParent)

	app, _ := diffed.Find("4 App#4")
	var ghost *Node
	for _, c := range app.Children {
		if c.StableID == "7 Popup#7" {
			ghost = c
		}
	}
	require.NotNil(t, ghost, "moved node leaves a copy under its old parent")
	assert.Equal(t, model.DiffDeletedMove, ghost.Diff)

	live, _ := diffed.Find("7 Popup#7")
	assert.Equal(t, model.DiffAddedMove, live.Diff, "index prefers the live node")

	assert.Equal(t, model.DiffNone, current.Root.Diff, "input tree is not modified")
	_, stillThere := current.Find("8 Hidden#8")
	assert.False(t, stillThere)
}

func TestDiffChipOnlyChange(t *testing.T) {
	previous := buildLayers(t,
		fixtures.LayerSpec{ID: 1, Name: "A", Visible: true},
		fixtures.LayerSpec{ID: 2, Name: "B", Visible: true},
	)
	current := buildLayers(t,
		fixtures.LayerSpec{ID: 1, Name: "A", Visible: true},
		fixtures.LayerSpec{ID: 2, Name: "B", Visible: true, RelativeOf: 1},
	)

	diffed := Diff(current, previous)

	a, ok := diffed.Find("1 A")
	require.True(t, ok)
	assert.True(t, a.HasChip(model.RelativeZParentChip))
	assert.Equal(t, model.DiffModified, a.Diff, "gaining a chip modifies the node")
}

func TestDiffLargeIntegerProperty(t *testing.T) {
	build := func(bufferID int64) *Tree {
		var layer model.Layer
		data := fmt.Sprintf(`{"id":1,"name":"A","parent":-1,"isVisible":true,"bufferId":%d}`, bufferID)
		require.NoError(t, sonic.Unmarshal([]byte(data), &layer))
		tree, err := DefaultRegistry().Build(model.LayerTraceEntry{Layers: []model.Layer{layer}})
		require.NoError(t, err)
		return tree
	}
	previous := build(9007199254740992)
	current := build(9007199254740993)

	diffed := Diff(current, previous)

	a, ok := diffed.Find("1 A")
	require.True(t, ok)
	assert.Equal(t, int64(9007199254740993), a.Properties["bufferId"])
	assert.Equal(t, model.DiffModified, a.Diff)
}

func TestDiffDeletedSubtreeStaysNested(t *testing.T) {
	previous := buildLayers(t,
		fixtures.LayerSpec{ID: 1, Name: "Keep"},
		fixtures.LayerSpec{ID: 2, Parent: 1, Name: "GoneParent"},
		fixtures.LayerSpec{ID: 3, Parent: 2, Name: "GoneChild"},
	)
	current := buildLayers(t, fixtures.LayerSpec{ID: 1, Name: "Keep"})

	diffed := Diff(current, previous)

	parent, ok := diffed.ParentOf("3 GoneChild")
	require.True(t, ok)
	assert.Equal(t, "2 GoneParent", parent)
	parent, _ = diffed.ParentOf("2 GoneParent")
	assert.Equal(t, "1 Keep", parent)
}

func TestDiffWithoutReference(t *testing.T) {
	current := buildLayers(t, fixtures.VisibilityLayers()...)

	diffed := Diff(current, nil)

	diffed.Root.Walk(func(n *Node, _ int) bool {
		assert.Equal(t, model.DiffNone, n.Diff, n.StableID)
		return true
	})
	assert.Equal(t, current.Count(), diffed.Count())
}

func TestBuilderApply(t *testing.T) {
	b := NewBuilder(nil)
	entry := model.TraceEntry{Current: fixtures.LayerEntry(2, fixtures.WallpaperLayers()...)}

	tests := []struct {
		name         string
		opts         model.UserOptions
		query        string
		wantChildren int
	}{
		{"defaults", nil, "", fixtures.WallpaperRootCount},
		{"flat", model.UserOptions{}.With(model.OptionFlat, true), "", fixtures.WallpaperLayerCount},
		{"flat filtered", model.UserOptions{}.With(model.OptionFlat, true), "Wallpaper", fixtures.WallpaperMatches},
		{"flat disabled", model.UserOptions{}.With(model.OptionFlat, false), "", fixtures.WallpaperRootCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := b.Apply(entry, tt.opts, tt.query)
			require.NoError(t, err)
			assert.Len(t, tree.Root.Children, tt.wantChildren)
		})
	}
}

func TestBuilderApplyDiffAgainstPrevious(t *testing.T) {
	b := NewBuilder(nil)
	opts := model.UserOptions{}.With(model.OptionShowDiff, true)

	first, err := b.Apply(model.TraceEntry{Current: fixtures.LayerEntry(1, fixtures.VisibilityLayers()...)}, opts, "")
	require.NoError(t, err)
	first.Root.Walk(func(n *Node, _ int) bool {
		assert.Equal(t, model.DiffNone, n.Diff)
		return true
	})

	grown := append(fixtures.VisibilityLayers(), fixtures.LayerSpec{ID: 10, Parent: 1, Name: "Toast#10", Visible: true})
	second, err := b.Apply(model.TraceEntry{
		Current:  fixtures.LayerEntry(2, grown...),
		Previous: fixtures.LayerEntry(1, fixtures.VisibilityLayers()...),
	}, opts.With(model.OptionOnlyVisible, true), "")
	require.NoError(t, err)

	toast, ok := second.Find("10 Toast#10")
	require.True(t, ok)
	assert.Equal(t, model.DiffAdded, toast.Diff)
	assert.Equal(t, 8, second.Count())
}
