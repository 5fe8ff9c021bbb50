package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-light2d/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory searched for JSON scenes")
	flag.Parse()

	webServer := server.NewServer(*port, *scenesDir)

	log.Printf("2-D Light Transport Web Server")
	log.Printf("Visit http://localhost:%d/api/scenes to list scenes", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
