package main

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
	"uk.co.dudmesh.quotedesk/internal/boot"
	"uk.co.dudmesh.quotedesk/internal/directory"
	"uk.co.dudmesh.quotedesk/internal/handlers"
	"uk.co.dudmesh.quotedesk/internal/service/register"
	"uk.co.dudmesh.quotedesk/internal/store"
)

type Template struct {
	templates *template.Template
	watcher   *fsnotify.Watcher
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

func (t *Template) Watch() {
	var err error

	t.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watcher: %+v", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-t.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) {
					log.Infof("modified file: %s", event.Name)
					t.templates = template.Must(template.ParseGlob("ui/views/*.html"))
				}
			case err, ok := <-t.watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("watcher: %+v", err)
			}
		}
	}()

	err = t.watcher.Add("./ui/views")
	if err != nil {
		log.Fatalf("watcher: %+v", err)
	}
}

func (t *Template) Close() {
	if t.watcher != nil {
		t.watcher.Close()
	}
}

func NewTemplate() (*Template, error) {
	t := &Template{
		templates: template.Must(template.ParseGlob("ui/views/*.html")),
	}
	return t, nil
}

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	if err := os.MkdirAll(config.DataDirectory(), 0o755); err != nil {
		log.Fatalf("creating data directory: %+v", err)
	}

	db, err := store.New(config)
	if err != nil {
		log.Fatalf("opening store: %+v", err)
	}
	defer db.Close()

	sessionCache, err := store.NewSessionCache(config)
	if err != nil {
		log.Fatalf("opening session cache: %+v", err)
	}
	defer sessionCache.Close()

	registerService := register.New(db, directory.New(config.Directory.BaseURL), sessionCache)

	server := echo.New()
	server.Use(middleware.BodyLimit("1M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("quotedesk"))
	server.Use(middleware.Recover())

	server.Logger.SetLevel(log.INFO)

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID}
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     config.ServerOrigins(),
		AllowHeaders:     headers,
		AllowCredentials: true,
	}))

	server.POST("/user-info", handlers.RegisterUser(registerService))
	server.GET("/user-info", handlers.GetUserInfo(db))
	server.GET("/user-info/:userId", handlers.FetchUser(db))
	server.DELETE("/session-cache", handlers.ClearSessionCache(registerService))
	server.POST("/motives", handlers.CreateMotive(db))
	server.GET("/motives", handlers.ListMotives(db))
	server.POST("/final-budgets", handlers.CreateFinalBudget(db))
	server.GET("/final-budgets", handlers.ListFinalBudgets(db))
	server.GET("/final-budgets/stats", handlers.BudgetStats(db))

	server.Static("/static", "ui/static")

	t, _ := NewTemplate()
	defer t.Close()
	if config.IsDevelopment() {
		t.Watch()
	}
	server.Renderer = t

	server.GET("/", func(c echo.Context) error {
		return c.Render(http.StatusOK, "app.html", nil)
	})

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":" + config.Server.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(":" + config.Server.Port); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
}
