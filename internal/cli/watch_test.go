package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/circlepack/pkg/geom"
	"github.com/matzehuels/circlepack/pkg/pack"
)

func testWatchModel(t *testing.T, budget int) watchModel {
	t.Helper()
	packer, err := pack.New(geom.Pt(0, 0), pack.Options{
		Count:     4,
		MinRadius: 1,
		MaxRadius: 2,
		Seed:      42,
	})
	if err != nil {
		t.Fatal(err)
	}
	return watchModel{
		packer:    packer,
		algorithm: pack.AlgorithmDouble,
		damping:   pack.DefaultDamping,
		decay:     pack.DefaultDecay,
		budget:    budget,
		interval:  time.Millisecond,
		start:     time.Now(),
	}
}

func TestWatchModelSteps(t *testing.T) {
	m := testWatchModel(t, 1000)

	updated, cmd := m.Update(tickMsg(time.Now()))
	m = updated.(watchModel)

	if m.iteration != 1 {
		t.Errorf("iteration = %d, want 1 after one tick", m.iteration)
	}
	if m.damping >= pack.DefaultDamping {
		t.Error("damping should decay after a tick")
	}
	if !m.done() && cmd == nil {
		t.Error("an unfinished model should schedule the next tick")
	}
}

func TestWatchModelStopsAtBudget(t *testing.T) {
	m := testWatchModel(t, 2)

	for i := 0; i < 10; i++ {
		updated, _ := m.Update(tickMsg(time.Now()))
		m = updated.(watchModel)
	}
	if m.iteration > 2 {
		t.Errorf("iteration = %d, should stop at budget 2", m.iteration)
	}
	if !m.done() {
		t.Error("model should report done at budget")
	}
}

func TestWatchModelQuitKeys(t *testing.T) {
	m := testWatchModel(t, 10)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestWatchModelCommitOnlyWhenDone(t *testing.T) {
	m := testWatchModel(t, 10)

	// Before finishing, c does nothing.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = updated.(watchModel)
	if m.commit || cmd != nil {
		t.Error("commit should be ignored while the run is active")
	}

	// Exhaust the budget, then commit.
	for i := 0; i < 20; i++ {
		next, _ := m.Update(tickMsg(time.Now()))
		m = next.(watchModel)
	}
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = updated.(watchModel)
	if !m.commit {
		t.Error("commit should be accepted once the run is done")
	}
	if cmd == nil {
		t.Error("commit should quit the program")
	}
}

func TestWatchModelView(t *testing.T) {
	m := testWatchModel(t, 10)
	m.width = 80
	m.height = 24

	view := m.View()
	if !strings.Contains(view, "circlepack watch") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "iteration 0/10") {
		t.Error("view missing iteration counter")
	}
	if !strings.Contains(view, "●") {
		t.Error("view should draw at least one circle cell")
	}
}
