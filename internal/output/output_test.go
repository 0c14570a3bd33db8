package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/deskctl/deskctl/internal/geom"
)

func capture(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	callErr := fn()
	w.Close()
	os.Stdout = old
	if callErr != nil {
		t.Fatalf("print failed: %v", callErr)
	}
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestPrintJSONCompact(t *testing.T) {
	result := FindResult{
		Template: "button.png",
		TS:       1707500000,
		Matches: []Match{
			{BBox: geom.BBox{Left: 10, Top: 20, Width: 100, Height: 30}, Score: 0.97},
		},
	}
	out := capture(t, func() error { return PrintJSON(result) })
	if strings.Count(out, "\n") > 1 {
		t.Errorf("compact output should be single line, got:\n%s", out)
	}
	var decoded FindResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Template != "button.png" {
		t.Errorf("template: got %q, want %q", decoded.Template, "button.png")
	}
	if len(decoded.Matches) != 1 || decoded.Matches[0].Score != 0.97 {
		t.Errorf("matches: got %+v", decoded.Matches)
	}
}

func TestPrintPrettyJSON(t *testing.T) {
	result := ListResult{TS: 123, Windows: []WindowResult{{ID: 7, Title: "Editor"}}}
	out := capture(t, func() error { return PrintPrettyJSON(result) })
	if strings.Count(out, "\n") <= 1 {
		t.Errorf("pretty output should be multi-line, got:\n%s", out)
	}
	var decoded ListResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Windows) != 1 || decoded.Windows[0].Title != "Editor" {
		t.Errorf("windows: got %+v", decoded.Windows)
	}
}

func TestPrintYAML(t *testing.T) {
	result := CaptureResult{Path: "shot.png", BBox: geom.BBox{Width: 800, Height: 600}, Width: 800, Height: 600, TS: 5}
	out := capture(t, func() error { return PrintYAML(result) })
	if !strings.Contains(out, "path: shot.png") {
		t.Errorf("yaml output missing path field:\n%s", out)
	}
	if !strings.Contains(out, "width: 800") {
		t.Errorf("yaml output missing width field:\n%s", out)
	}
}

func TestPrintHonorsFormat(t *testing.T) {
	prevFormat, prevPretty := OutputFormat, PrettyOutput
	t.Cleanup(func() { OutputFormat, PrettyOutput = prevFormat, prevPretty })

	v := ActionResult{Action: "click", OK: true}

	OutputFormat = FormatJSON
	PrettyOutput = false
	out := capture(t, func() error { return Print(v) })
	if !strings.HasPrefix(out, "{") {
		t.Errorf("json format output = %q, want JSON object", out)
	}

	OutputFormat = FormatYAML
	out = capture(t, func() error { return Print(v) })
	if !strings.Contains(out, "action: click") {
		t.Errorf("yaml format output = %q, want YAML mapping", out)
	}

	OutputFormat = Format("xml")
	if err := Print(v); err == nil {
		t.Fatal("Print() with unsupported format = nil, want error")
	}
}

func TestWindowResultOmitEmpty(t *testing.T) {
	data, err := json.Marshal(WindowResult{ID: 1, Title: "x"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["backend"]; ok {
		t.Error("empty backend should be omitted")
	}
	if _, ok := m["bbox"]; ok {
		t.Error("nil bbox should be omitted")
	}
}
