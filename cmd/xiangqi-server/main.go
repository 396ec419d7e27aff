package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"xiangqi/internal/config"
	"xiangqi/internal/server/game"
	httpserver "xiangqi/internal/server/http"
)

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start() // 没有图形界面时会失败，忽略
}

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	webDir := flag.String("web", "", "directory with index.html / js / svg (overrides config)")
	difficulty := flag.String("difficulty", "", "default AI difficulty (overrides config)")
	open := flag.Bool("open", false, "open the default browser after start")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[server] %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *webDir != "" {
		cfg.WebDir = *webDir
	}
	if *difficulty != "" {
		cfg.DefaultDifficulty = *difficulty
	}
	store := config.NewStore(cfg)
	if err := store.Update(cfg); err != nil {
		log.Fatalf("[server] %v", err)
	}

	mgr := game.NewManager(store)
	hub := httpserver.NewHub()
	mgr.OnMove(hub.PublishMove)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx.Done())

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpserver.NewRouter(mgr, hub, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Printf("[server] listening on %s, serving static from %s, difficulty %s",
		cfg.Addr, cfg.WebDir, cfg.DefaultDifficulty)

	if *open {
		go func() {
			// 等服务起来
			time.Sleep(100 * time.Millisecond)
			host := cfg.Addr
			if strings.HasPrefix(host, ":") {
				host = "127.0.0.1" + host
			}
			openBrowser("http://" + host)
		}()
	}

	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[server] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[server] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[server] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[server] forced close failed: %v", closeErr)
		}
	}
	cancel()
	if runErr != nil {
		log.Printf("[server] exiting after server error: %v", runErr)
		os.Exit(1)
	}
}
