package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-reflective-raytracer/pkg/output"
	"github.com/df07/go-reflective-raytracer/web/server"
)

func main() {
	// Settings from .env are optional; real environment variables win
	_ = godotenv.Load()

	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	timeout := flag.Duration("timeout", server.DefaultRenderTimeout, "Maximum time for a single render")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(*port)
	webServer.SetRenderTimeout(*timeout)

	// Publishing is enabled only when a bucket is configured
	if s3Config := output.S3ConfigFromEnv(); s3Config.Bucket != "" {
		publisher, err := output.NewS3Publisher(s3Config)
		if err != nil {
			log.Printf("Error configuring S3 publisher: %v", err)
			os.Exit(1)
		}
		webServer.SetPublisher(publisher)
		log.Printf("Publishing renders to bucket %s", s3Config.Bucket)
	}

	log.Printf("Reflective Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering (render timeout %v)", *port, timeout.Round(time.Second))

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
