package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/ayusman/tryon/internal/app"
	"github.com/ayusman/tryon/internal/calibration"
	"github.com/ayusman/tryon/internal/placement"
)

type fakeEvents struct {
	ch           chan app.Event
	unsubscribed chan struct{}
}

func (f *fakeEvents) Subscribe() (<-chan app.Event, func()) {
	return f.ch, func() { close(f.unsubscribed) }
}

func TestEventsHandler(t *testing.T) {
	src := &fakeEvents{ch: make(chan app.Event, 1), unsubscribed: make(chan struct{})}
	ts := httptest.NewServer(NewEventsHandler(src, zaptest.NewLogger(t).Sugar()))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	src.ch <- app.Event{
		Seq:         3,
		Phase:       app.PhaseTryingOn,
		Calibration: calibration.State{ShouldersOK: true, TorsoOK: true, LegsOK: true, FeetOK: true},
		NextZone:    calibration.ZoneNone,
		Placements:  []app.PlacementView{{Slot: placement.SlotTop, Name: "top1", Width: 250}},
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got struct {
		Seq         uint64 `json:"seq"`
		Phase       string `json:"phase"`
		NextZone    string `json:"next_zone"`
		Calibration struct {
			FeetOK bool `json:"feet_ok"`
		} `json:"calibration"`
		Placements []struct {
			Slot  string  `json:"slot"`
			Name  string  `json:"name"`
			Width float64 `json:"width"`
		} `json:"placements"`
	}
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	if got.Seq != 3 || got.Phase != "trying_on" || got.NextZone != "none" || !got.Calibration.FeetOK {
		t.Errorf("event = %+v", got)
	}
	if len(got.Placements) != 1 || got.Placements[0].Slot != "top" || got.Placements[0].Width != 250 {
		t.Errorf("placements = %+v", got.Placements)
	}

	conn.Close()
	select {
	case <-src.unsubscribed:
	case <-time.After(2 * time.Second):
		t.Error("handler did not unsubscribe after the client left")
	}
}
