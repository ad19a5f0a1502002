// Command devserver serves a directory over HTTP without logging a
// stream of errors when something speaks TLS to the plain HTTP port.
package main

import (
	"flag"
	"fmt"
	"log"

	"lyricmotion/internal/devserver"
)

func main() {
	port := flag.Int("port", 8000, "Port to listen on")
	directory := flag.String("directory", ".", "Directory to serve")
	flag.Parse()

	addr := fmt.Sprintf("0.0.0.0:%d", *port)
	if err := devserver.Serve(addr, *directory); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
