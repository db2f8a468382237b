// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/fanlog"
	"github.com/lixenwraith/fanlog/compat"
)

func main() {
	reg, err := fanlog.NewBuilder().
		Directory("/var/log/fasthttp").
		Name("server").
		LevelString("info").
		EnableFile(true).
		MaxSizeMB(5).
		BackupCount(3).
		Async(true).
		BufferSize(2048).
		Build()
	if err != nil {
		panic(err)
	}
	defer reg.Shutdown(2 * time.Second)

	builder := compat.NewBuilder("fasthttp").WithRegistry(reg)

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter, err := builder.BuildFastHTTP(
		compat.WithDefaultLevel(fanlog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)
	if err != nil {
		panic(err)
	}

	// Application code logs through log/slog, into the same registry
	handler, err := compat.NewBuilder("app").WithRegistry(reg).BuildSlog()
	if err != nil {
		panic(err)
	}
	slog.SetDefault(slog.New(handler))

	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		reg.Get("app").Exception(err, "server stopped")
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	slog.Info("request", "method", string(ctx.Method()), "path", string(ctx.Path()))
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) (int64, bool) {
	// Clients dropping mid-request are routine behind a load balancer
	if strings.Contains(msg, "connection reset by peer") || strings.Contains(msg, "broken pipe") {
		return fanlog.LevelDebug, true
	}

	// Fall back to default detection
	return compat.DetectLogLevel(msg)
}
