package mobile

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"xiangqi/internal/config"
	"xiangqi/internal/server/game"
	httpserver "xiangqi/internal/server/http"
)

var (
	mu      sync.Mutex
	server  *http.Server
	hubDone chan struct{}
)

// StartServer 在后台启动本地 HTTP 服务，不阻塞 Android UI 线程。
// webDir: 解压出来的页面目录；difficulty: 默认难度，空串用配置默认值；port: 例如 "2888"。
// 已经在运行时直接返回。
func StartServer(webDir string, difficulty string, port string) {
	mu.Lock()
	defer mu.Unlock()
	if server != nil {
		return
	}

	cfg := config.DefaultConfig()
	cfg.WebDir = webDir
	cfg.Addr = "127.0.0.1:" + port
	if difficulty != "" {
		cfg.DefaultDifficulty = difficulty
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("[mobile] %v, falling back to defaults", err)
		cfg.DefaultDifficulty = config.DefaultConfig().DefaultDifficulty
	}
	store := config.NewStore(cfg)

	mgr := game.NewManager(store)
	hub := httpserver.NewHub()
	mgr.OnMove(hub.PublishMove)
	hubDone = make(chan struct{})
	go hub.Run(hubDone)

	server = &http.Server{Addr: cfg.Addr, Handler: httpserver.NewRouter(mgr, hub, store)}
	srv := server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[mobile] server error: %v", err)
		}
	}()
}

// StopServer 应用退到后台时调用
func StopServer() {
	mu.Lock()
	defer mu.Unlock()
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[mobile] shutdown: %v", err)
	}
	close(hubDone)
	server = nil
}
