package logrus

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"digests-a11y/core/interfaces"
)

var _ interfaces.Logger = (*Logger)(nil)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "info"}, &buf)

	log.Info("Translation cached", map[string]interface{}{
		"source": "fr",
		"target": "en",
	})

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["msg"] != "Translation cached" || line["level"] != "info" {
		t.Errorf("line = %v", line)
	}
	if line["source"] != "fr" || line["target"] != "en" {
		t.Errorf("fields missing from %v", line)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "warn"}, &buf)

	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	log.Warn("shown", nil)
	log.Error("shown too", map[string]interface{}{"error": "boom"})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn were written: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("want two lines, got %q", out)
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "debug", Format: "text"}, &buf)

	log.Debug("Recognition restarted", map[string]interface{}{"restarts": 2})

	out := buf.String()
	if !strings.Contains(out, `msg="Recognition restarted"`) || !strings.Contains(out, "restarts=2") {
		t.Errorf("text output = %q", out)
	}
}
