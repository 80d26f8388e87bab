package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nvasile/blockfall/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	hub := server.NewHub()

	stop := make(chan struct{})
	go hub.Run(stop)

	http.HandleFunc("/ws", hub.HandleWS)

	go func() {
		log.Printf("relay listening on %s", *addr)
		if err := http.ListenAndServe(*addr, nil); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	close(stop)
	log.Printf("relay shutting down")
}
