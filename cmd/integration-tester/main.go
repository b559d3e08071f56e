package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type StepResult struct {
	Name      string `json:"name"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Output    string `json:"output,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type Report struct {
	SSEURL     string       `json:"sse_url"`
	StartedAt  time.Time    `json:"started_at"`
	DurationMs int64        `json:"duration_ms"`
	Steps      []StepResult `json:"steps"`
	Passed     bool         `json:"passed"`
}

func main() {
	sseURL := flag.String("sse-url", "http://localhost:8080/sse", "SSE endpoint URL")
	name := flag.String("name", "Mount Everest", "Item name to search for")
	queries := flag.String("queries", "height,elevation", "Comma-separated attribute queries")
	language := flag.String("language", "en", "Language code")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "integration-tester", Version: "dev"}, nil)
	transport := mcp.NewSSEClientTransport(*sseURL, nil)

	start := time.Now()
	report := Report{SSEURL: *sseURL, StartedAt: start}
	steps := make([]StepResult, 0, 8)

	// Connect
	tConn := time.Now()
	connRes := StepResult{Name: "connect"}
	session, err := client.Connect(ctx, transport)
	if err != nil {
		connRes.Success = false
		connRes.Error = err.Error()
		connRes.ElapsedMs = elapsedMsSince(tConn)
		report.Steps = append(steps, connRes)
		report.DurationMs = elapsedMsSince(start)
		report.Passed = false
		writeReport(report)
		os.Exit(1)
	}
	defer session.Close()
	connRes.Success = true
	connRes.ElapsedMs = elapsedMsSince(tConn)
	steps = append(steps, connRes)

	// Individual steps
	steps = append(steps, runListTools(ctx, session))
	steps = append(steps, runHealth(ctx, session))
	find, itemID := runFindItem(ctx, session, *name, *language)
	steps = append(steps, find)
	if itemID != "" {
		steps = append(steps, runQueryData(ctx, session, itemID, splitQueries(*queries), *language))
	}

	// finalize report
	report.Steps = steps
	report.DurationMs = elapsedMsSince(start)
	report.Passed = true
	for _, s := range steps {
		if !s.Success {
			report.Passed = false
			break
		}
	}

	writeReport(report)

	if !report.Passed {
		os.Exit(1)
	}
}

func writeReport(report Report) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}

func runListTools(ctx context.Context, session *mcp.ClientSession) StepResult {
	t0 := time.Now()
	res := StepResult{Name: "list_tools"}
	if _, err := session.ListTools(ctx, &mcp.ListToolsParams{}); err != nil {
		res.Success = false
		res.Error = err.Error()
	} else {
		res.Success = true
	}
	res.ElapsedMs = elapsedMsSince(t0)
	return res
}

func runHealth(ctx context.Context, session *mcp.ClientSession) StepResult {
	t0 := time.Now()
	res := StepResult{Name: "health_check"}
	_, err := callTool(ctx, session, "health_check", apptype.HealthArgs{})
	if err != nil {
		res.Success = false
		res.Error = err.Error()
	} else {
		res.Success = true
	}
	res.ElapsedMs = elapsedMsSince(t0)
	return res
}

// runFindItem also returns the id of the top candidate for the next step.
func runFindItem(ctx context.Context, session *mcp.ClientSession, name, language string) (StepResult, string) {
	t0 := time.Now()
	res := StepResult{Name: "find_item"}
	text, err := callTool(ctx, session, "find_item", apptype.FindItemArgs{Name: name, Language: language})
	res.Output = text
	var itemID string
	if err == nil {
		var refs []apptype.EntityRef
		if derr := json.NewDecoder(strings.NewReader(text)).Decode(&refs); derr != nil {
			err = fmt.Errorf("decode candidates: %w", derr)
		} else if len(refs) > 0 {
			itemID = refs[0].ID
		}
	}
	if err != nil {
		res.Success = false
		res.Error = err.Error()
	} else {
		res.Success = true
	}
	res.ElapsedMs = elapsedMsSince(t0)
	return res, itemID
}

func runQueryData(ctx context.Context, session *mcp.ClientSession, itemID string, queries []string, language string) StepResult {
	t0 := time.Now()
	res := StepResult{Name: "query_data"}
	text, err := callTool(ctx, session, "query_data", apptype.QueryDataArgs{ItemID: itemID, Queries: queries, Language: language})
	res.Output = text
	if err != nil {
		res.Success = false
		res.Error = err.Error()
	} else {
		res.Success = true
	}
	res.ElapsedMs = elapsedMsSince(t0)
	return res
}

// callTool returns the first text content. Tool-level failures become errors.
func callTool(ctx context.Context, session *mcp.ClientSession, name string, args any) (string, error) {
	raw, _ := json.Marshal(args)
	out, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: json.RawMessage(raw)})
	if err != nil {
		return "", err
	}
	var text string
	if len(out.Content) > 0 {
		if tc, ok := out.Content[0].(*mcp.TextContent); ok {
			text = tc.Text
		}
	}
	if out.IsError {
		return text, errors.New(text)
	}
	return text, nil
}

func splitQueries(s string) []string {
	var out []string
	for _, q := range strings.Split(s, ",") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// elapsedMsSince returns max(1ms, elapsed) to avoid zero durations on fast steps
func elapsedMsSince(t0 time.Time) int64 {
	d := time.Since(t0) / time.Millisecond
	if d <= 0 {
		return 1
	}
	return int64(d)
}
