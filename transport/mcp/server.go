package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/session"
)

// Game is the part of a session the tools drive
type Game interface {
	Status() session.Status
	ASCII() string
	Snapshot() engine.Frame
	TogglePause() (session.State, error)
	Step() (engine.TickReport, error)
	EndGame(reason string)
}

// Steerer receives player directions
type Steerer interface {
	Set(d engine.Direction)
}

// Server exposes a running game as MCP tools
type Server struct {
	game      Game
	steering  Steerer
	mcpServer *server.MCPServer
	log       *logrus.Entry
}

// NewServer creates the MCP server. steering may be nil when the world has no player.
func NewServer(game Game, steering Steerer, log *logrus.Entry) *Server {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	s := &Server{
		game:     game,
		steering: steering,
		log:      log.WithField("component", "mcp"),
	}

	s.mcpServer = server.NewMCPServer(
		"wandrian",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`wandrian - MCP Interface

A grid world that advances in ticks. Every entity picks a target square each
tick; when several want the same square a collision policy decides who moves.

AVAILABLE TOOLS:
- game_status: run id, state, tick, entity count and the last tick report
- world_view: the grid as text (or JSON cells with format=json)
- describe_cell: what is on one square
- steer: set the player's next direction (up/down/left/right/stay)
- toggle_pause: pause or resume the loop
- step: advance one tick while paused
- end_game: finish the run

LEGEND: '#' wall, '~' water, '*' goal, '.' floor, '@' player.`),
	)

	s.registerTools()
	return s
}

// GetMCPServer returns the underlying MCP server
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves MCP over stdin/stdout until the input closes
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// HTTPHandler serves single JSON-RPC requests over POST
func (s *Server) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := s.mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
}

func (s *Server) registerTools() {
	noArgs := mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_status",
		Description: "Get the run id, lifecycle state, tick and last tick report",
		InputSchema: noArgs,
	}, s.handleStatus)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "world_view",
		Description: "Draw the world grid",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"format": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"text", "json"},
					"description": "text (default) for an ASCII grid, json for every cell",
				},
			},
		},
	}, s.handleWorldView)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe the square at x,y and its occupant",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"x": map[string]interface{}{
					"type":        "number",
					"description": "Column, 0 is the left edge",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Row, 0 is the top edge",
				},
			},
			Required: []string{"x", "y"},
		},
	}, s.handleDescribeCell)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "steer",
		Description: "Set the direction the player takes on the next tick",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right", "stay"},
					"description": "Direction to move",
				},
			},
			Required: []string{"direction"},
		},
	}, s.handleSteer)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_pause",
		Description: "Pause a running game or resume a paused one",
		InputSchema: noArgs,
	}, s.handleTogglePause)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: "Advance a paused game by one tick",
		InputSchema: noArgs,
	}, s.handleStep)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "end_game",
		Description: "Finish the run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"reason": map[string]interface{}{
					"type":        "string",
					"description": "Why the game ends (optional)",
				},
			},
		},
	}, s.handleEndGame)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatStatus(s.game.Status())), nil
}

func (s *Server) handleWorldView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, _ := arguments(request)["format"].(string)

	if format == "json" {
		data, err := json.Marshal(s.game.Snapshot())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	st := s.game.Status()
	return mcp.NewToolResultText(fmt.Sprintf("Tick %d (%s)\n%s", st.Tick, st.State, s.game.ASCII())), nil
}

func (s *Server) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required numbers"), nil
	}
	x, y := int(xf), int(yf)

	frame := s.game.Snapshot()
	if x < 0 || x >= frame.Width || y < 0 || y >= frame.Height {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Grid is %dx%d (x 0-%d, y 0-%d)",
			x, y, frame.Width, frame.Height, frame.Width-1, frame.Height-1)), nil
	}

	return mcp.NewToolResultText(formatCell(frame.Cells[y*frame.Width+x])), nil
}

func (s *Server) handleSteer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.steering == nil {
		return mcp.NewToolResultError("this world has no player to steer"), nil
	}

	raw, _ := arguments(request)["direction"].(string)
	dir, err := engine.ParseDirection(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.steering.Set(dir)
	s.log.WithField("direction", string(dir)).Debug("Player steered")

	if dir == engine.None {
		return mcp.NewToolResultText("The player will stay put on the next tick"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("The player will head %s on the next tick", dir)), nil
}

func (s *Server) handleTogglePause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.game.TogglePause()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Game is now %s", state)), nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.game.Step()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n%s", formatReport(report), s.game.ASCII())), nil
}

func (s *Server) handleEndGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reason, _ := arguments(request)["reason"].(string)
	if reason == "" {
		reason = "ended over MCP"
	}
	s.game.EndGame(reason)
	return mcp.NewToolResultText(formatStatus(s.game.Status())), nil
}

func formatStatus(st session.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\n", st.RunID)
	if st.Name != "" {
		fmt.Fprintf(&b, "World: %s\n", st.Name)
	}
	fmt.Fprintf(&b, "State: %s\n", st.State)
	fmt.Fprintf(&b, "Tick: %d\n", st.Tick)
	fmt.Fprintf(&b, "Entities: %d\n", st.Entities)
	if st.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", st.Reason)
	}
	if st.Tick > 0 {
		fmt.Fprintf(&b, "Last tick: %s\n", formatReport(st.LastReport))
	}
	return b.String()
}

func formatReport(r engine.TickReport) string {
	s := fmt.Sprintf("tick %d: %d intents, %d moves, %d resolution rounds", r.Tick, r.Intents, r.Moves, r.Rounds)
	if !r.Converged {
		s += " (round limit hit)"
	}
	return s
}

func formatCell(c engine.Cell) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell %s: %s '%s'", c.Position, c.Kind, c.Glyph)
	if c.Blocking {
		b.WriteString(", blocking")
	} else {
		b.WriteString(", walkable")
	}
	if occ := c.Occupant; occ != nil {
		fmt.Fprintf(&b, "\nOccupant: %s#%d '%s'", occ.Kind, occ.ID, occ.Glyph)
	} else {
		b.WriteString("\nOccupant: none")
	}
	return b.String()
}
