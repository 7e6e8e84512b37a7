// bridgesh is an interactive shell for a running bridgebase server. Plain
// input is run as a query against both backends; dot commands inspect the
// server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/ranfysvalle02/bridgebase/pkg/client"
)

const prompt = "bridge> "

func main() {
	serverURL := flag.String("server", "http://localhost:5000", "bridgebase server base URL")
	flag.Parse()

	fmt.Println("bridgebase shell")
	fmt.Printf("Connecting to %s...\n", *serverURL)

	c := client.New(*serverURL)
	ctx := context.Background()
	if err := c.Health(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Connected. Type '.help' for commands.")
	fmt.Println()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				return
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ".") {
			if runCommand(ctx, c, input) {
				return
			}
			fmt.Println()
			continue
		}

		runQuery(ctx, c, input)
		fmt.Println()
	}
}

// runCommand handles dot commands; it reports whether the shell should exit.
func runCommand(ctx context.Context, c *client.Client, input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case ".exit", ".quit":
		return true
	case ".help":
		printHelp()
	case ".health":
		if err := c.Health(ctx); err != nil {
			fmt.Printf("unhealthy: %v\n", err)
		} else {
			fmt.Println("ok")
		}
	case ".inspect":
		runInspect(ctx, c)
	case ".history":
		limit := 10
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 {
				fmt.Printf("invalid limit %q\n", fields[1])
				return false
			}
			limit = n
		}
		runHistory(ctx, c, limit)
	default:
		fmt.Printf("unknown command %q; type '.help'\n", fields[0])
	}
	return false
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  .help             Show this help")
	fmt.Println("  .health           Check server and backend health")
	fmt.Println("  .inspect          Sample documents from every collection")
	fmt.Println("  .history [n]      Show recent benchmark runs (default 10)")
	fmt.Println("  .exit             Leave the shell")
	fmt.Println()
	fmt.Println("Anything else runs as a query against both backends, e.g.")
	fmt.Println("  SELECT name FROM users WHERE age > 30 LIMIT 10")
}

func runQuery(ctx context.Context, c *client.Client, sql string) {
	res, err := c.SpeedTest(ctx, sql)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Printf("query failed: %s\n", apiErr.Message)
			if apiErr.Backend != "" {
				fmt.Printf("  backend: %s\n", apiErr.Backend)
			}
			return
		}
		fmt.Printf("request failed: %v\n", err)
		return
	}

	fmt.Printf("  document store: %d rows in %.4fs\n", res.DocumentStoreRows, res.DocumentStoreSeconds)
	fmt.Printf("  relational:     %d rows in %.4fs\n", res.RelationalRows, res.RelationalSeconds)
	fmt.Printf("  total parallel: %.4fs\n", res.TotalParallelSeconds)
	if res.DocumentStoreRows != res.RelationalRows {
		fmt.Println("  note: backends returned different row counts")
	}
	for _, cond := range res.DroppedConditions {
		fmt.Printf("  dropped condition: %s\n", cond)
	}
}

func runInspect(ctx context.Context, c *client.Client) {
	ins, err := c.Inspect(ctx)
	if err != nil {
		fmt.Printf("inspect failed: %v\n", err)
		return
	}
	if len(ins.Collections) == 0 {
		fmt.Println("no collections; run the seeder first")
		return
	}
	for _, name := range ins.Collections {
		docs := ins.Data[name]
		fmt.Printf("%s (%d sampled):\n", name, len(docs))
		for _, doc := range docs {
			b, err := json.Marshal(doc)
			if err != nil {
				continue
			}
			fmt.Printf("  %s\n", b)
		}
	}
}

func runHistory(ctx context.Context, c *client.Client, limit int) {
	runs, err := c.History(ctx, limit)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			fmt.Println("history is disabled on this server")
			return
		}
		fmt.Printf("history failed: %v\n", err)
		return
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded yet")
		return
	}
	for _, run := range runs {
		fmt.Printf("  #%-4d %.4fs  %s\n", run.ID, run.TotalParallelSeconds, run.Query)
	}
}
