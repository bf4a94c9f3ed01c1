package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hoperedemption/imgfs/internal/cache"
	"github.com/hoperedemption/imgfs/internal/config"
	"github.com/hoperedemption/imgfs/internal/httpd"
	"github.com/hoperedemption/imgfs/internal/imaging"
	"github.com/hoperedemption/imgfs/internal/imgfs"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
	"github.com/hoperedemption/imgfs/internal/logger"
	"github.com/hoperedemption/imgfs/internal/server"
)

const defaultPort = 8000

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", imgfserr.Message(err))
		os.Exit(imgfserr.ExitCode(err))
	}
}

func run() error {
	// Load .env file if it exists (optional).
	_ = godotenv.Load()
	logger.InitFromEnv()

	args := os.Args[1:]
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: imgfs-server <imgFS_filename> [port]")
		return imgfserr.ErrNotEnoughArguments
	}

	port := defaultPort
	if len(args) >= 2 {
		p, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil || p == 0 {
			return fmt.Errorf("%w: port %q", imgfserr.ErrInvalidArgument, args[1])
		}
		port = int(p)
	}

	cfg := config.Load()

	imaging.Startup()
	defer imaging.Shutdown()

	store, err := imgfs.Open(args[0], true, imaging.NewVipsCodec())
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Print(store.Header.String())

	payloads, err := cache.New(cfg.CacheMaxMB)
	if err != nil {
		return fmt.Errorf("%w: payload cache: %v", imgfserr.ErrRuntime, err)
	}
	defer payloads.Close()

	svc := server.New(store, payloads)

	addr := net.JoinHostPort(cfg.BindHost, strconv.Itoa(port))
	srv, err := httpd.Listen(addr, svc)
	if err != nil {
		return err
	}

	// Shutdown is a single-point event: close the passive socket, let Serve
	// return, then close the store.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Infof("[Server] Shutting down...")
		srv.Close()
	}()

	logger.Infof("[Server] ImgFS server started on http://localhost:%d", port)
	if err := srv.Serve(); err != nil {
		return fmt.Errorf("%w: serve: %v", imgfserr.ErrRuntime, err)
	}
	return nil
}
