package profiler

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances one millisecond per reading.
func fakeClock() func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func decode(t *testing.T, p *Profiler) ssFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.WriteSpeedscope(&buf))
	var doc ssFile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	return doc
}

func TestNestedScopes(t *testing.T) {
	p := New(16)
	p.now = fakeClock()

	endFrame := p.Start("frame")
	p.Start("update")()
	p.Start("draw")()
	endFrame()

	doc := decode(t, p)
	require.Len(t, doc.Profiles, 1)
	assert.Equal(t, []ssFrame{{"frame"}, {"update"}, {"draw"}}, doc.Shared.Frames)

	evs := doc.Profiles[0].Events
	require.Len(t, evs, 6)
	assert.Equal(t, ssEvent{Type: "O", At: 0, Frame: 0}, evs[0])
	assert.Equal(t, ssEvent{Type: "C", At: 5000, Frame: 0}, evs[5])
	assert.Equal(t, int64(5000), doc.Profiles[0].EndValue)
}

func TestRingDropsOldEventsAndBalances(t *testing.T) {
	p := New(3)
	p.now = fakeClock()
	endA := p.Start("a")
	endB := p.Start("b")
	endB()
	endA()
	p.Start("c")
	// Ring holds: close b, close a, open c.

	doc := decode(t, p)
	evs := doc.Profiles[0].Events
	require.Len(t, evs, 2)
	assert.Equal(t, "O", evs[0].Type)
	assert.Equal(t, "C", evs[1].Type)
	assert.Equal(t, 2, evs[1].Frame)
}

func TestEmptyAndNil(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, New(4).WriteSpeedscope(&buf), ErrNoEvents)

	var p *Profiler
	p.Start("ignored")()
	assert.Zero(t, p.Len())
	assert.ErrorIs(t, p.WriteSpeedscope(&buf), ErrNoEvents)
}

func TestSaveSpeedscope(t *testing.T) {
	p := New(8)
	p.Start("x")()
	path := filepath.Join(t.TempDir(), "capture.json")
	require.NoError(t, p.SaveSpeedscope(path))
	assert.FileExists(t, path)
	assert.NoFileExists(t, path+".tmp")
}

func TestReadRuntime(t *testing.T) {
	rt := ReadRuntime()
	assert.Positive(t, rt.Goroutines)
	assert.Positive(t, rt.CPUs)
}
