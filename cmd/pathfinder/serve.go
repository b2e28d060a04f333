package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"netherpath/internal/engine"
	"netherpath/internal/geometry"
	"netherpath/internal/liveview"
	"netherpath/internal/telemetry"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a debug HTTP server that streams search progress over a websocket",
	Long: `serve starts an HTTP server exposing a websocket endpoint ("/debug")
that every search run on this process's engine.Context broadcasts node
expansions and segment discoveries to, for local visual debugging of the
search frontier. It is not part of the engine's host contract.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8089", "listen address for the debug HTTP server")
}

func runServe(cmd *cobra.Command, args []string) error {
	broadcaster := liveview.New()

	metrics := telemetry.New()
	eng := engine.NewContext(cfg.Terrain.Seed, metrics)
	eng.SetObserver(broadcaster)

	mux := http.NewServeMux()
	mux.HandleFunc("/debug", broadcaster.Handler)
	mux.HandleFunc("/path", makePathHandler(eng))

	server := &http.Server{Addr: serveAddr, Handler: mux}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("serve: shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	fmt.Printf("debug websocket listening on %s/debug\n", serveAddr)
	fmt.Printf("path queries accepted at %s/path?fromX=..&fromY=..&fromZ=..&toX=..&toY=..&toZ=..\n", serveAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// makePathHandler runs a PathFind against eng for each request, so a
// connected /debug client can watch the search frontier unfold live.
func makePathHandler(eng *engine.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := blockPosFromQuery(r, "from")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		goal, err := blockPosFromQuery(r, "to")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		path, err := eng.PathFind(r.Context(), start, goal, true, cfg.Search.FailureTimeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(path)
	}
}

func blockPosFromQuery(r *http.Request, prefix string) (geometry.BlockPos, error) {
	x, err := strconv.Atoi(r.URL.Query().Get(prefix + "X"))
	if err != nil {
		return geometry.BlockPos{}, fmt.Errorf("invalid %sX: %w", prefix, err)
	}
	y, err := strconv.Atoi(r.URL.Query().Get(prefix + "Y"))
	if err != nil {
		return geometry.BlockPos{}, fmt.Errorf("invalid %sY: %w", prefix, err)
	}
	z, err := strconv.Atoi(r.URL.Query().Get(prefix + "Z"))
	if err != nil {
		return geometry.BlockPos{}, fmt.Errorf("invalid %sZ: %w", prefix, err)
	}
	return geometry.BlockPos{X: int32(x), Y: int32(y), Z: int32(z)}, nil
}
