package tray

import "testing"

func TestTray_Toggle(t *testing.T) {
	tr := New()
	if !tr.IsEnabled() {
		t.Fatal("tray should start enabled")
	}

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || got[0] || !got[1] {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("two toggles should leave the tray enabled")
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New()

	t.Run("strategy callback updates the layout", func(t *testing.T) {
		tr.OnStrategy(func() string { return "single" })
		tr.handleStrategy()

		tr.mu.RLock()
		defer tr.mu.RUnlock()
		if tr.strategy != "single" {
			t.Errorf("strategy = %q, want single", tr.strategy)
		}
	})

	t.Run("recalibrate and open", func(t *testing.T) {
		var recalibrated, opened bool
		tr.OnRecalibrate(func() { recalibrated = true })
		tr.OnOpen(func() { opened = true })

		tr.handleRecalibrate()
		tr.handleOpen()

		if !recalibrated || !opened {
			t.Errorf("recalibrated=%v opened=%v, want both true", recalibrated, opened)
		}
	})

	t.Run("missing callbacks are ignored", func(t *testing.T) {
		empty := New()
		empty.handleRecalibrate()
		empty.handleOpen()
		empty.handleStrategy()
	})
}

func TestTray_Status(t *testing.T) {
	tr := New()
	if tr.Status() != "Calibrating" {
		t.Errorf("initial status = %q", tr.Status())
	}
	tr.SetStatus("Trying on")
	if tr.Status() != "Trying on" {
		t.Errorf("status = %q, want Trying on", tr.Status())
	}
	if got := statusTitle("Trying on"); got != "Status: Trying on" {
		t.Errorf("statusTitle() = %q", got)
	}
}
