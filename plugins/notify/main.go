// Package main provides a hook that shows a desktop notification for try-on events.
// It uses osascript on macOS and notify-send elsewhere.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the hook executor.
type Request struct {
	Event     string          `json:"event"`
	Timestamp int64           `json:"timestamp"`
	Config    json.RawMessage `json:"config"`
	Data      json.RawMessage `json:"data"`
}

// Response represents the output to the hook executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config is the optional hook configuration from hook.json.
type Config struct {
	Title  string `json:"title"`
	DryRun bool   `json:"dry_run"`
}

// garmentChange is the payload of garment.changed.
type garmentChange struct {
	Class string `json:"class"`
	Name  string `json:"name"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	cfg := Config{Title: "Try-On"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	msg, err := buildMessage(req)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	if !cfg.DryRun {
		if err := notify(cfg.Title, msg); err != nil {
			writeErrorResponse(fmt.Sprintf("notification failed: %v", err))
			return
		}
	}

	data, _ := json.Marshal(map[string]string{"message": msg})
	writeResponse(Response{Success: true, Data: data})
}

// buildMessage renders the notification text for an event.
func buildMessage(req Request) (string, error) {
	switch req.Event {
	case "calibration.complete":
		return "Calibration complete. Garments are now shown.", nil
	case "garment.changed":
		var c garmentChange
		if err := json.Unmarshal(req.Data, &c); err != nil {
			return "", fmt.Errorf("failed to parse data: %w", err)
		}
		if c.Name == "" {
			return fmt.Sprintf("%s hidden", capitalize(c.Class)), nil
		}
		return fmt.Sprintf("%s: %s", capitalize(c.Class), c.Name), nil
	default:
		return "", fmt.Errorf("unknown event: %s", req.Event)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func notify(title, msg string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf(`display notification %q with title %q`, msg, title)
		cmd = exec.Command("osascript", "-e", script)
	} else {
		cmd = exec.Command("notify-send", title, msg)
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	writeResponse(Response{Success: false, Error: errMsg})
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
