package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gamedex-io/gamedex/internal/chat"
	"github.com/gamedex-io/gamedex/internal/config"
	"github.com/gamedex-io/gamedex/internal/provider"
	"github.com/gamedex-io/gamedex/internal/toolapi"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "chat":
		cmdChat(os.Args[2:])
	case "info":
		cmdInfo()
	case "tools":
		cmdTools()
	case "call":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: gamedexctl call <tool> [key=value ... | JSON]")
			os.Exit(1)
		}
		cmdCall(os.Args[2], os.Args[3:])
	case "logs":
		cmdLogs(os.Args[2:])
	case "config":
		if len(os.Args) < 3 || os.Args[2] != "validate" {
			fmt.Fprintln(os.Stderr, "usage: gamedexctl config validate [-server|-bot] <path>")
			os.Exit(1)
		}
		cmdConfigValidate(os.Args[3:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// --- chat command ---

func cmdChat(args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	provType := fs.String("provider", envOr("GAMEDEX_PROVIDER", "openai"), "Provider type: openai or anthropic")
	model := fs.String("model", envOr("GAMEDEX_MODEL", ""), "LLM model name")
	apiKey := fs.String("api-key", "", "API key (or set OPENAI_API_KEY / ANTHROPIC_API_KEY)")
	baseURL := fs.String("base-url", envOr("GAMEDEX_BASE_URL", ""), "Override API base URL")
	prompt := fs.String("prompt", "", "Single prompt (omit for interactive)")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	// Resolve API key from env if not passed as flag
	if *apiKey == "" {
		switch *provType {
		case "anthropic":
			*apiKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			*apiKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "error: API key required (--api-key, OPENAI_API_KEY, or ANTHROPIC_API_KEY)")
		os.Exit(1)
	}
	if *model == "" {
		switch *provType {
		case "anthropic":
			*model = "claude-sonnet-4-20250514"
		default:
			*model = "gpt-4o-mini"
		}
	}

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	llm, err := provider.New(*provType, *apiKey, *model, *baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	serverURL := envOr("GAMEDEX_SERVER_URL", config.DefaultToolServerURL)
	tools := toolapi.NewClient(serverURL, logger)
	engine := chat.NewEngine(llm, tools, chat.NewMemoryStore(0), logger)

	ctx := context.Background()
	if err := engine.LoadTools(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: tool server unavailable: %v\n", err)
	}

	if *prompt != "" {
		fmt.Println(engine.HandleMessage(ctx, "cli", *prompt))
		return
	}

	fmt.Println("gamedexctl chat (type 'quit' to exit)")
	fmt.Printf("Model: %s | Server: %s\n\n", *model, serverURL)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		fmt.Println(engine.HandleMessage(ctx, "cli", line))
		fmt.Println()
	}
}

// --- API client commands ---

func cmdInfo() {
	body, err := apiGet("/")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(prettyJSON(body))
}

func cmdTools() {
	body, err := apiGet("/tools")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var tools []map[string]any
	json.Unmarshal(body, &tools)
	for _, t := range tools {
		fmt.Printf("%-32s %s\n", t["name"], t["description"])
	}
}

func cmdCall(name string, args []string) {
	arguments, err := parseCallArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	body, err := apiPost("/call_tool", map[string]any{
		"tool":      name,
		"arguments": arguments,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var res struct {
		OK     bool            `json:"ok"`
		Result json.RawMessage `json:"result"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		fmt.Fprintf(os.Stderr, "error: bad response: %v\n", err)
		os.Exit(1)
	}
	if !res.OK {
		fmt.Fprintf(os.Stderr, "tool error: %s\n", res.Error)
		os.Exit(1)
	}
	fmt.Println(prettyJSON(res.Result))
}

// parseCallArgs accepts either a single JSON object or key=value pairs.
// Pair values are typed by guess: integers, floats, and booleans are
// converted, everything else stays a string.
func parseCallArgs(args []string) (map[string]any, error) {
	arguments := map[string]any{}
	if len(args) == 1 && strings.HasPrefix(strings.TrimSpace(args[0]), "{") {
		if err := json.Unmarshal([]byte(args[0]), &arguments); err != nil {
			return nil, fmt.Errorf("invalid JSON arguments: %w", err)
		}
		return arguments, nil
	}
	for _, pair := range args {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid argument %q (want key=value)", pair)
		}
		arguments[key] = guessValue(value)
	}
	return arguments, nil
}

func guessValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func cmdLogs(args []string) {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)
	level := fs.String("level", "", "Minimum level (debug|info|warn|error)")
	limit := fs.Int("limit", 50, "Max entries")
	fs.Parse(args)

	query := fmt.Sprintf("?limit=%d", *limit)
	if *level != "" {
		query += "&level=" + *level
	}

	body, err := apiGet("/logs" + query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var entries []struct {
		Time    time.Time      `json:"time"`
		Level   string         `json:"level"`
		Message string         `json:"message"`
		Attrs   map[string]any `json:"attrs"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		fmt.Fprintf(os.Stderr, "error: bad response: %v\n", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Printf("%s %-5s %s%s\n", e.Time.Format(time.RFC3339), e.Level, e.Message, formatAttrs(e.Attrs))
	}
}

func formatAttrs(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, attrs[k])
	}
	return b.String()
}

func cmdConfigValidate(args []string) {
	fs := flag.NewFlagSet("config validate", flag.ExitOnError)
	serverOnly := fs.Bool("server", false, "Validate the tool server sections only")
	botOnly := fs.Bool("bot", false, "Validate the bot sections only")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: gamedexctl config validate [-server|-bot] <path>")
		os.Exit(1)
	}

	cfg, err := config.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		os.Exit(1)
	}

	checkServer := *serverOnly || !*botOnly
	checkBot := *botOnly || !*serverOnly
	failed := false
	if checkServer {
		if err := cfg.ValidateServer(); err != nil {
			fmt.Fprintf(os.Stderr, "server config: %v\n", err)
			failed = true
		}
	}
	if checkBot {
		if err := cfg.ValidateBot(); err != nil {
			fmt.Fprintf(os.Stderr, "bot config: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
	fmt.Println("config is valid")
}

// --- Helpers ---

func apiGet(path string) ([]byte, error) {
	req, err := http.NewRequest("GET", serverURL()+path, nil)
	if err != nil {
		return nil, err
	}
	return doRequest(req)
}

func apiPost(path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("POST", serverURL()+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return doRequest(req)
}

func doRequest(req *http.Request) ([]byte, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func serverURL() string {
	return envOr("GAMEDEX_SERVER_URL", config.DefaultToolServerURL)
}

func prettyJSON(data []byte) string {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	out, _ := json.MarshalIndent(v, "", "  ")
	return string(out)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Println("gamedexctl - GameDex catalog CLI")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  chat                 Chat with the catalog assistant (REPL or -prompt)")
	fmt.Println("  info                 Show tool server info")
	fmt.Println("  tools                List available tools")
	fmt.Println("  call <tool> [args]   Invoke a tool (key=value pairs or a JSON object)")
	fmt.Println("  logs                 Show recent server logs (-level, -limit)")
	fmt.Println("  config validate <p>  Validate config file (-server, -bot)")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  GAMEDEX_SERVER_URL   Tool server URL (default: http://localhost:8000)")
	fmt.Println("  GAMEDEX_PROVIDER     Provider type: openai (default) or anthropic")
	fmt.Println("  GAMEDEX_MODEL        Model name for chat")
	fmt.Println("  OPENAI_API_KEY       API key for OpenAI provider")
	fmt.Println("  ANTHROPIC_API_KEY    API key for Anthropic provider")
}
