package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "workscout-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: "http://localhost:8090/mcp/stream",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	testListSites(ctx, session)
	testJobSearch(ctx, session)
	testSearchHistory(ctx, session)

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: tools/list")

	result, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("tools/list failed: %v", err)
		return
	}
	for _, tool := range result.Tools {
		fmt.Printf("  %s: %s\n", tool.Name, tool.Description)
	}
}

func testListSites(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: list_sites")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "list_sites"})
	if err != nil {
		log.Printf("list_sites failed: %v", err)
		return
	}

	printResult(result)
	fmt.Println("list_sites passed")
}

func testJobSearch(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: job_search")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "job_search",
		Arguments: map[string]any{
			"keyword":  "golang",
			"location": "remote",
		},
	})
	if err != nil {
		log.Printf("job_search failed: %v", err)
		return
	}

	printResult(result)
	fmt.Println("job_search passed")
}

func testSearchHistory(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: search_history")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "search_history",
		Arguments: map[string]any{"limit": 3},
	})
	if err != nil {
		log.Printf("search_history failed: %v", err)
		return
	}

	printResult(result)
	fmt.Println("search_history passed")
}

func printResult(result *mcp.CallToolResult) {
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			fmt.Printf("  %s\n", tc.Text)
		}
	}
	if result.StructuredContent != nil {
		if data, err := json.MarshalIndent(result.StructuredContent, "  ", "  "); err == nil {
			fmt.Printf("  %s\n", data)
		}
	}
}
