package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spatialkit/go-manipulate/internal/config"
	"github.com/spatialkit/go-manipulate/internal/log"
	"github.com/spatialkit/go-manipulate/pkg/web"
)

func main() {
	// Command line flags
	port := flag.String("port", config.BridgePort(), "Listen port")
	logLevel := flag.String("log-level", config.LogLevel(), "Log level (debug, info, warn, error)")
	flag.Parse()

	log.Init(*logLevel)

	fmt.Println("🖐  Manipulation Bridge")
	fmt.Printf("   Port: %s\n", *port)
	fmt.Printf("   Host feed: ws://localhost:%s/ws/host\n", *port)
	fmt.Printf("   Dashboard: http://localhost:%s\n", *port)
	fmt.Println()

	server := web.NewServer(*port)
	server.StartAsync()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n👋 Shutting down...")
	if err := server.Shutdown(); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
