package main

import (
	"encoding/json"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		want    string
		wantErr bool
	}{
		{
			name: "calibration complete",
			req:  Request{Event: "calibration.complete"},
			want: "Calibration complete. Garments are now shown.",
		},
		{
			name: "garment selected",
			req:  Request{Event: "garment.changed", Data: json.RawMessage(`{"class":"top","name":"top3"}`)},
			want: "Top: top3",
		},
		{
			name: "garment hidden",
			req:  Request{Event: "garment.changed", Data: json.RawMessage(`{"class":"shoes"}`)},
			want: "Shoes hidden",
		},
		{
			name:    "unknown event",
			req:     Request{Event: "something.else"},
			wantErr: true,
		},
		{
			name:    "bad payload",
			req:     Request{Event: "garment.changed", Data: json.RawMessage(`[]`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildMessage(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("buildMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
