package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/deskctl/deskctl/internal/geom"
	"github.com/deskctl/deskctl/internal/input"
	"github.com/deskctl/deskctl/internal/output"
	"github.com/deskctl/deskctl/internal/version"
	"github.com/deskctl/deskctl/internal/vision"
	"github.com/deskctl/deskctl/internal/window"
)

// mcpServer exposes the toolkit over the Model Context Protocol. The
// device and resolver are shared across tool calls, guarded by mu:
// synthetic input must never interleave.
type mcpServer struct {
	mu       sync.Mutex
	device   input.Device
	resolver *window.Resolver
	cache    *mcpFrameCache
	mcp      *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// newMCPServer creates and configures an MCP server with all deskctl tools.
func newMCPServer(mcfg MCPConfig) (*mcpServer, error) {
	resolver, err := window.NewResolver()
	if err != nil {
		return nil, err
	}

	s := &mcpServer{
		device:   input.New(),
		resolver: resolver,
		cache:    newMCPFrameCache(mcfg.CacheTTL),
	}

	s.mcp = mcpserver.NewMCPServer("deskctl", version.Version)

	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(mcfg MCPConfig) error {
	switch mcfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", mcfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", mcfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("windows",
			mcp.WithDescription("List open windows with their ID, title, bounds, and active state"),
			mcp.WithBoolean("all", mcp.Description("Include hidden and minimized windows")),
		),
		s.handleWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("screenshot",
			mcp.WithDescription("Capture the screen or a window and return the image"),
			mcp.WithString("window", mcp.Description("Capture window by title substring")),
			mcp.WithNumber("window-id", mcp.Description("Capture window by native ID")),
			mcp.WithString("bbox", mcp.Description("Capture region as left,top,width,height")),
		),
		s.handleScreenshot,
	)

	s.mcp.AddTool(
		mcp.NewTool("find",
			mcp.WithDescription("Locate a template image on screen and return match positions with scores"),
			mcp.WithString("template", mcp.Description("Template image path"), mcp.Required()),
			mcp.WithString("window", mcp.Description("Confine the search to this window")),
			mcp.WithBoolean("all", mcp.Description("Return every match, not just the best")),
			mcp.WithNumber("min-score", mcp.Description("Minimum match score in [0,1]")),
		),
		s.handleFind,
	)

	s.mcp.AddTool(
		mcp.NewTool("click",
			mcp.WithDescription("Click at screen coordinates or on a template match"),
			mcp.WithNumber("x", mcp.Description("Click at X coordinate")),
			mcp.WithNumber("y", mcp.Description("Click at Y coordinate")),
			mcp.WithString("template", mcp.Description("Locate this template and click its center")),
			mcp.WithString("window", mcp.Description("Confine the template search to this window")),
			mcp.WithString("button", mcp.Description("Mouse button: left, right, middle")),
			mcp.WithBoolean("double", mcp.Description("Double-click")),
		),
		s.handleClick,
	)

	s.mcp.AddTool(
		mcp.NewTool("drag",
			mcp.WithDescription("Drag the mouse from one point to another"),
			mcp.WithNumber("from-x", mcp.Description("Start X coordinate"), mcp.Required()),
			mcp.WithNumber("from-y", mcp.Description("Start Y coordinate"), mcp.Required()),
			mcp.WithNumber("to-x", mcp.Description("End X coordinate"), mcp.Required()),
			mcp.WithNumber("to-y", mcp.Description("End Y coordinate"), mcp.Required()),
			mcp.WithNumber("duration", mcp.Description("Sweep duration in seconds (default: 0.5)")),
		),
		s.handleDrag,
	)

	s.mcp.AddTool(
		mcp.NewTool("scroll",
			mcp.WithDescription("Scroll the mouse wheel. Positive dy scrolls down, positive dx scrolls right"),
			mcp.WithNumber("dx", mcp.Description("Horizontal wheel clicks")),
			mcp.WithNumber("dy", mcp.Description("Vertical wheel clicks")),
			mcp.WithNumber("x", mcp.Description("Move the pointer here before scrolling")),
			mcp.WithNumber("y", mcp.Description("Move the pointer here before scrolling")),
		),
		s.handleScroll,
	)

	s.mcp.AddTool(
		mcp.NewTool("type",
			mcp.WithDescription("Type text or press a named key in the focused window"),
			mcp.WithString("text", mcp.Description("Text to type")),
			mcp.WithString("key", mcp.Description("Key to press (e.g. Return, tab, ctrl)")),
			mcp.WithString("window", mcp.Description("Focus this window first")),
		),
		s.handleType,
	)
}

// stringParam reads a string argument with a default.
func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

// intParam reads a numeric argument as int with a default. JSON
// numbers arrive as float64.
func intParam(params map[string]interface{}, key string, def int) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return def
}

// numberParam reads a numeric argument as int, reporting whether it
// was present. Coordinates need presence rather than a sentinel value:
// negative coordinates are valid on multi-monitor layouts.
func numberParam(params map[string]interface{}, key string) (int, bool) {
	if v, ok := params[key].(float64); ok {
		return int(v), true
	}
	return 0, false
}

// floatParam reads a numeric argument with a default.
func floatParam(params map[string]interface{}, key string, def float64) float64 {
	if v, ok := params[key].(float64); ok {
		return v
	}
	return def
}

// boolParam reads a boolean argument with a default.
func boolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

func yamlResult(v interface{}) *mcp.CallToolResult {
	b, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(b))
}

// resolveParam resolves a window from tool arguments, or nil when no
// targeting argument was given.
func (s *mcpServer) resolveParam(params map[string]interface{}) (*window.Window, error) {
	q := window.Query{
		Title: stringParam(params, "window", ""),
		ID:    uint64(intParam(params, "window-id", 0)),
	}
	if q.Title == "" && q.ID == 0 {
		return nil, nil
	}
	return s.resolver.Get(q)
}

func (s *mcpServer) handleWindows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	all := boolParam(params, "all", false)

	s.mu.Lock()
	defer s.mu.Unlock()

	windows, err := s.resolver.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries := []output.WindowResult{}
	for _, w := range windows {
		if !listable(w, all) {
			continue
		}
		entry := output.WindowResult{
			ID:     w.ID(),
			Title:  w.Title(),
			Active: w.IsActive(),
		}
		if box, err := w.BBox(); err == nil {
			entry.BBox = &box
		}
		entries = append(entries, entry)
	}
	return yamlResult(entries), nil
}

func (s *mcpServer) handleScreenshot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.mu.Lock()
	defer s.mu.Unlock()

	region, err := s.regionFromParams(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	frame, err := s.cache.grab(region)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     encoded,
				MIMEType: "image/png",
			},
		},
	}, nil
}

func (s *mcpServer) handleFind(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	templatePath := stringParam(params, "template", "")
	if templatePath == "" {
		return mcp.NewToolResultError("template is required"), nil
	}
	all := boolParam(params, "all", false)
	minScore := floatParam(params, "min-score", -1)

	s.mu.Lock()
	defer s.mu.Unlock()

	dets, err := s.findCached(params, templatePath, minScore, all)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches := []output.Match{}
	for _, d := range dets {
		matches = append(matches, output.Match{BBox: d.BBox, Score: d.Score, Label: d.ClassName})
	}
	return yamlResult(output.FindResult{
		Template: templatePath,
		TS:       time.Now().Unix(),
		Matches:  matches,
	}), nil
}

// findCached runs a template search against the TTL frame cache.
func (s *mcpServer) findCached(params map[string]interface{}, templatePath string, minScore float64, all bool) ([]vision.Detection, error) {
	opts, err := matcherOptions(minScore)
	if err != nil {
		return nil, err
	}
	m, err := vision.Matchers.Get(templatePath, opts)
	if err != nil {
		return nil, err
	}

	w, err := s.resolveParam(params)
	if err != nil {
		return nil, err
	}
	region, err := captureRegion(w)
	if err != nil {
		return nil, err
	}
	frame, err := s.cache.grab(region)
	if err != nil {
		return nil, err
	}

	var dets []vision.Detection
	if all {
		dets = vision.LocateAll(frame, m, 0)
	} else if d := vision.Locate(frame, m); d != nil {
		dets = []vision.Detection{*d}
	}
	for i := range dets {
		dets[i].BBox.Left += region.Left
		dets[i].BBox.Top += region.Top
	}
	return dets, nil
}

func (s *mcpServer) regionFromParams(params map[string]interface{}) (geom.BBox, error) {
	if spec := stringParam(params, "bbox", ""); spec != "" {
		return geom.Parse(spec)
	}
	w, err := s.resolveParam(params)
	if err != nil {
		return geom.BBox{}, err
	}
	if w != nil {
		if err := w.Activate(); err != nil {
			return geom.BBox{}, err
		}
		return w.BBox()
	}
	return captureRegion(nil)
}

func (s *mcpServer) handleClick(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	btn, err := input.ParseButton(stringParam(params, "button", "left"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	x, hasX := numberParam(params, "x")
	y, hasY := numberParam(params, "y")
	target := fmt.Sprintf("%d,%d", x, y)
	if templatePath := stringParam(params, "template", ""); templatePath != "" {
		dets, err := s.findCached(params, templatePath, -1, false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(dets) == 0 {
			return mcp.NewToolResultError(fmt.Sprintf("template %s not found on screen", templatePath)), nil
		}
		x, y = dets[0].Center()
		target = templatePath
	} else if !hasX || !hasY {
		return mcp.NewToolResultError("either template or both x and y are required"), nil
	}

	timing := timingFromConfig(cfg)
	if boolParam(params, "double", false) {
		err = input.DoubleClick(s.device, x, y, btn, timing)
	} else {
		err = input.Click(s.device, x, y, btn, timing)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.invalidate()
	return yamlResult(output.ActionResult{Action: "click", Target: target, OK: true}), nil
}

func (s *mcpServer) handleDrag(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	fromX, okFromX := numberParam(params, "from-x")
	fromY, okFromY := numberParam(params, "from-y")
	toX, okToX := numberParam(params, "to-x")
	toY, okToY := numberParam(params, "to-y")
	if !okFromX || !okFromY || !okToX || !okToY {
		return mcp.NewToolResultError("from-x, from-y, to-x, and to-y are all required"), nil
	}
	seconds := floatParam(params, "duration", 0.5)

	s.mu.Lock()
	defer s.mu.Unlock()

	duration := time.Duration(seconds * float64(time.Second))
	if err := input.Drag(s.device, fromX, fromY, toX, toY, input.ButtonLeft, duration, timingFromConfig(cfg)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.invalidate()
	return yamlResult(output.ActionResult{
		Action: "drag",
		Target: fmt.Sprintf("%d,%d -> %d,%d", fromX, fromY, toX, toY),
		OK:     true,
	}), nil
}

func (s *mcpServer) handleScroll(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	dx := intParam(params, "dx", 0)
	dy := intParam(params, "dy", 0)
	if dx == 0 && dy == 0 {
		return mcp.NewToolResultError("dx or dy is required"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	x, hasX := numberParam(params, "x")
	y, hasY := numberParam(params, "y")
	if hasX && hasY {
		if err := s.device.Move(x, y); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if err := input.Scroll(s.device, dx, dy, timingFromConfig(cfg)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.invalidate()
	return yamlResult(output.ActionResult{
		Action: "scroll",
		Target: fmt.Sprintf("dx=%d dy=%d", dx, dy),
		OK:     true,
	}), nil
}

func (s *mcpServer) handleType(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := stringParam(params, "text", "")
	key := stringParam(params, "key", "")
	if text == "" && key == "" {
		return mcp.NewToolResultError("text or key is required"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if w, err := s.resolveParam(params); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if w != nil {
		if err := w.Activate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	action, target := "type", text
	var err error
	if key != "" {
		action, target = "key", key
		err = input.Press(s.device, key)
	} else {
		err = s.device.TypeText(text)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.invalidate()
	return yamlResult(output.ActionResult{Action: action, Target: target, OK: true}), nil
}
