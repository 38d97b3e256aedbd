// Command ragchat is a terminal client for the RAG chat backend.
//
// Usage:
//
//	ragchat chat [--session ID]       interactive TUI
//	ragchat ask [--session ID] TEXT   stream one answer to stdout
//	ragchat sessions list|create|show|rename|delete|export
//	ragchat ingest                    rebuild the knowledge base
//
// Settings come from flags, RAGCHAT_* environment variables, a .env file in
// the working directory and ~/.ragchat/config.yaml, in that order of
// precedence.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ragchat: %v\n", err)
		stop()
		os.Exit(1)
	}
}
