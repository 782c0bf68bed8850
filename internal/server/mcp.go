package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wethinkt/go-colorname/internal/applog"
	"github.com/wethinkt/go-colorname/internal/config"
	"github.com/wethinkt/go-colorname/internal/metrics"
	"github.com/wethinkt/go-colorname/internal/palette"
	"github.com/wethinkt/go-colorname/internal/version"
)

// MCPServer exposes palette lookups as MCP tools.
type MCPServer struct {
	server        *mcp.Server
	matcher       *palette.Matcher
	neighborCount int
}

// NewMCPServer creates an MCP server with the colorname tools registered.
func NewMCPServer(matcher *palette.Matcher, neighborCount int) *MCPServer {
	if neighborCount <= 0 {
		neighborCount = config.DefaultNeighborCount
	}
	ms := &MCPServer{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "colorname",
			Version: version.Get(),
		}, nil),
		matcher:       matcher,
		neighborCount: neighborCount,
	}
	ms.registerTools()
	return ms
}

func (ms *MCPServer) registerTools() {
	mcp.AddTool(ms.server, &mcp.Tool{
		Name:        "nearest_name",
		Description: "Name the palette color closest to a sample given as hex (#rrggbb) or r, g, b components in [0,1]",
	}, ms.handleNearestName)

	mcp.AddTool(ms.server, &mcp.Tool{
		Name:        "color_for_name",
		Description: "Look up the stored color for an exact palette name",
	}, ms.handleColorForName)

	mcp.AddTool(ms.server, &mcp.Tool{
		Name:        "neighbors",
		Description: "List the names adjacent to a color in palette order",
	}, ms.handleNeighbors)

	mcp.AddTool(ms.server, &mcp.Tool{
		Name:        "palette_info",
		Description: "Report the palette size, source and any rows with malformed hex values",
	}, ms.handlePaletteInfo)
}

// Tool input/output types

type nearestNameInput struct {
	Hex string   `json:"hex,omitempty"`
	R   *float64 `json:"r,omitempty"`
	G   *float64 `json:"g,omitempty"`
	B   *float64 `json:"b,omitempty"`
}

type colorForNameInput struct {
	Name string `json:"name"`
}

type neighborsInput struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"` // defaults to the configured window
}

type paletteInfoInput struct{}

type toolErrorOutput struct {
	Error toolError `json:"error"`
}

type toolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// toolErrorResult renders err as an IsError result with a JSON body.
func toolErrorResult(code, message string, err error) (*mcp.CallToolResult, any, error) {
	out := toolErrorOutput{Error: toolError{Code: code, Message: message}}
	if err != nil {
		out.Error.Details = err.Error()
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: formatJSON(out)}},
	}, out, nil
}

func toolFailure(done func(string), err error) (*mcp.CallToolResult, any, error) {
	_, code, outcome := classify(err)
	if done != nil {
		done(outcome)
	}
	return toolErrorResult(code, "palette lookup failed", err)
}

func toolResult(out any) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: formatJSON(out)}},
	}, out, nil
}

// Tool handlers

func (ms *MCPServer) handleNearestName(ctx context.Context, req *mcp.CallToolRequest, input nearestNameInput) (*mcp.CallToolResult, any, error) {
	done := metrics.Track(metrics.OpNearest)

	var sample palette.RGBA
	var err error
	switch {
	case input.Hex != "":
		sample, err = palette.ParseColor(input.Hex)
	case input.R != nil && input.G != nil && input.B != nil:
		sample, err = palette.ParseColor(fmt.Sprintf("%g,%g,%g", *input.R, *input.G, *input.B))
	default:
		err = fmt.Errorf("%w: provide hex or r, g and b", palette.ErrInvalidColor)
	}
	if err != nil {
		return toolFailure(done, err)
	}

	match, err := ms.matcher.Nearest(ctx, sample)
	if err != nil {
		return toolFailure(done, err)
	}
	done(metrics.OutcomeOK)
	return toolResult(NearestResponse{Name: match.Name, Hex: match.Color.Hex(), Distance: match.Distance})
}

func (ms *MCPServer) handleColorForName(ctx context.Context, req *mcp.CallToolRequest, input colorForNameInput) (*mcp.CallToolResult, any, error) {
	done := metrics.Track(metrics.OpColor)
	c, ok, err := ms.matcher.ColorForName(ctx, input.Name)
	if err != nil {
		return toolFailure(done, err)
	}
	if !ok {
		return toolFailure(done, fmt.Errorf("%w: %q", errUnknownName, input.Name))
	}
	done(metrics.OutcomeOK)
	return toolResult(ColorResponse{Name: input.Name, Hex: c.Hex(), RGBA: c})
}

func (ms *MCPServer) handleNeighbors(ctx context.Context, req *mcp.CallToolRequest, input neighborsInput) (*mcp.CallToolResult, any, error) {
	done := metrics.Track(metrics.OpNeighbors)
	count := input.Count
	if count == 0 {
		count = ms.neighborCount
	}
	names, err := ms.matcher.Neighbors(ctx, input.Name, count)
	if err != nil {
		return toolFailure(done, err)
	}
	done(metrics.OutcomeOK)
	return toolResult(NeighborsResponse{Name: input.Name, Count: count, Neighbors: names})
}

func (ms *MCPServer) handlePaletteInfo(ctx context.Context, req *mcp.CallToolRequest, _ paletteInfoInput) (*mcp.CallToolResult, any, error) {
	done := metrics.Track(metrics.OpCount)
	p, err := ms.matcher.Palette(ctx)
	if err != nil {
		return toolFailure(done, err)
	}
	done(metrics.OutcomeOK)
	return toolResult(paletteInfo(p, ms.matcher.Source()))
}

// RunStdio serves MCP over stdin/stdout until ctx is done.
func (ms *MCPServer) RunStdio(ctx context.Context) error {
	applog.Log.Info("MCP server starting on stdio")
	var t mcp.Transport = &mcp.StdioTransport{}
	if applog.Log.Enabled() {
		t = &mcp.LoggingTransport{Transport: t, Writer: applog.Log.Writer()}
	}
	return ms.server.Run(ctx, t)
}

// RunHTTP serves MCP over SSE on host:port until ctx is done.
func (ms *MCPServer) RunHTTP(ctx context.Context, host string, port int, token string) error {
	var handler http.Handler = mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return ms.server }, nil)
	if token != "" {
		handler = bearerAuth(token)(handler)
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	if port == 0 {
		port = ln.Addr().(*net.TCPAddr).Port
	}

	inst := config.Instance{
		Type:      config.InstanceServeMCP,
		PID:       os.Getpid(),
		Host:      host,
		Port:      port,
		Palette:   ms.matcher.Source().String(),
		StartedAt: time.Now(),
	}
	if err := config.RegisterInstance(inst); err != nil {
		applog.Log.Warn("Failed to register MCP instance", "error", err)
	}

	go func() {
		<-ctx.Done()
		config.UnregisterInstance(os.Getpid())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	applog.Log.Info("MCP server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Server returns the underlying MCP server.
func (ms *MCPServer) Server() *mcp.Server { return ms.server }

func formatJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
