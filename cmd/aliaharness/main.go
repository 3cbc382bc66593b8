// Command aliaharness is a devtools CLI and HTTP server that drives a
// system.System end to end: it runs a demo controller, exposes endpoints to
// dispatch events and read back graph/scheduler/component introspection,
// and serves Prometheus metrics — the downstream adaptor spec §6 allows
// ("a full widget-tree UI layer is explicitly out of scope... supplied by
// downstream adaptors") without claiming to be one itself.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliago/alia/component"
	"github.com/aliago/alia/id"
	"github.com/aliago/alia/internal/alog"
	"github.com/aliago/alia/internal/instrument"
	"github.com/aliago/alia/system"
)

// cli mirrors the teacher's bulk-delete flag surface but parsed with kong
// instead of the standard library's flag package, per SPEC_FULL.md's
// enrichment note: the teacher itself never parses flags beyond os.Getenv,
// so this one concern is grounded in the wider examples pack instead.
var cli struct {
	Addr         string `help:"HTTP listen address." default:":8088"`
	RefreshBound int    `help:"Max refresh passes per stabilization attempt." default:"64"`
	LogLevel     string `help:"Log level (debug, info, warn, error)." default:"info" enum:"debug,info,warn,error"`
	TickMS       int    `help:"Milliseconds between automatic scheduler ticks." default:"50"`
}

func main() {
	kong.Parse(&cli)

	log := alog.Build(alog.Level(cli.LogLevel)).Named("aliaharness")
	defer log.Sync()

	reg := prometheus.NewRegistry()
	metrics := instrument.NewMetrics(reg)

	opts := system.DefaultOptions()
	opts.RefreshBound = cli.RefreshBound
	opts.Log = log
	ext := system.NewDefaultExternalInterface(nil)
	sys := system.New(demoController, ext, opts)
	sys.SetErrorHandler(func(err error) {
		metrics.DispatchPanics.Inc()
		log.Error("dispatch panic isolated", zap.Error(err))
	})

	record := newMetricsRecorder(sys, metrics)
	sys.RefreshSystem() // establish initial state before serving any requests
	record()

	router := newRouter(log, sys, reg, metrics, record)

	srv := &http.Server{
		Addr:    cli.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cli.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return runTickLoop(gctx, sys, ext, time.Duration(cli.TickMS)*time.Millisecond, record)
	})

	var shutdownErr error
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr = srv.Shutdown(shutdownCtx)
		return shutdownErr
	})

	// g.Wait only surfaces the first goroutine's error; multierr.Append
	// keeps a failed graceful shutdown visible even when ListenAndServe
	// errored first, since the two want separate remediation.
	waitErr := g.Wait()
	var combined error
	if waitErr != shutdownErr {
		combined = multierr.Append(waitErr, shutdownErr)
	} else {
		combined = waitErr
	}
	if combined != nil {
		log.Error("harness exited with error", zap.Error(combined))
	}
}

// runTickLoop is the frame loop a real host would drive: poll the external
// interface's pending-animation flag and the scheduler for due requests,
// resolving them all against the demo's own root, since this harness has
// only the one controller.
func runTickLoop(ctx context.Context, sys *system.System, ext *system.DefaultExternalInterface, interval time.Duration, record func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := ext.Tick()
			// The demo has exactly one interesting target: the system's own
			// root. A host with a real component tree would resolve target
			// ids against whatever registry it uses to hand out ids when it
			// calls timing.Scheduler.Schedule.
			sys.Tick(now, func(id.ID) *component.Container { return sys.Root() })
			if ext.PendingAnimationRefresh() {
				sys.RefreshSystem()
			}
			record()
		}
	}
}

// newMetricsRecorder closes over the refresh count last observed so
// RefreshPasses can be incremented by the delta instead of guessed at.
func newMetricsRecorder(sys *system.System, metrics *instrument.Metrics) func() {
	last := 0
	return func() {
		count := sys.RefreshCount()
		if count > last {
			metrics.RefreshPasses.Add(float64(count - last))
			last = count
		}
		metrics.AsyncInFlight.Set(0) // no in-flight async in the demo controller today
		metrics.DirtyContainers.Set(boolToFloat(sys.Root().Dirty()))
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func newRouter(log *zap.Logger, sys *system.System, reg *prometheus.Registry, metrics *instrument.Metrics, record func()) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(zapLogger(log))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	r.GET("/api/demo/state", func(c *gin.Context) {
		d := currentDemo
		if d == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "system not yet initialized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"counter": d.Counter.Read(),
			"target":  d.Target.Read(),
			"smooth":  d.Smooth.Read(),
		})
	})

	r.POST("/api/demo/increment", func(c *gin.Context) {
		d := currentDemo
		if d == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "system not yet initialized"})
			return
		}
		next := d.Counter.Read() + 1
		if err := d.Counter.Write(next); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		if err := d.Target.Write(next * 10); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		sys.RefreshSystem()
		record()
		c.JSON(http.StatusOK, gin.H{"counter": next})
	})

	r.GET("/api/graph/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, sys.Graph().Stats())
	})

	r.GET("/api/scheduler/pending", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pending": sys.Scheduler().Len()})
	})

	r.GET("/api/system/refresh-count", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"refresh_count": sys.RefreshCount(), "root_dirty": sys.Root().Dirty()})
	})

	return r
}

// zapLogger is the teacher's own gin access-log middleware, carried over
// verbatim in spirit: method/route/status/latency fields, logged at
// error severity for 5xx statuses, warn for 4xx and info otherwise.
func zapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
