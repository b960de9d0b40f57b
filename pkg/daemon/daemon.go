// Package daemon serves the command tree over HTTP, together with metrics,
// a health check and an optional scheduled collection.
package daemon

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type Config struct {
	Endpoint string
	// KeySet verifies bearer tokens. Requests are not authenticated when nil.
	KeySet jwk.Set
	// Schedule is a cron spec for Job. Nothing is scheduled when empty.
	Schedule string
	Job      func(ctx context.Context) error
	// Exclude lists top-level commands that must not be served.
	Exclude []string
	// CommandTimeout bounds one command run.
	CommandTimeout time.Duration
}

type Server struct {
	config    Config
	root      *cobra.Command
	router    *chi.Mux
	scheduler *Scheduler
	// cobra commands keep flag state between runs, so they run one at a time
	mu sync.Mutex
}

func New(root *cobra.Command, config Config) (*Server, error) {
	if config.CommandTimeout <= 0 {
		config.CommandTimeout = 5 * time.Minute
	}
	s := &Server{config: config, root: root, router: chi.NewRouter()}
	s.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.StripSlashes,
	)
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok\n")
	})
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Group(func(r chi.Router) {
		if config.KeySet != nil {
			r.Use(RequireToken(config.KeySet))
		}
		r.Use(middleware.Timeout(config.CommandTimeout))
		s.createCommandTree(r, nil, root)
	})

	if config.Schedule != "" {
		if config.Job == nil {
			return nil, errors.New("a schedule needs a job to run")
		}
		scheduler, err := NewScheduler(config.Schedule, config.Job)
		if err != nil {
			return nil, err
		}
		s.scheduler = scheduler
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.config.Endpoint, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	if s.scheduler != nil {
		s.scheduler.Start()
		defer s.scheduler.Stop()
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info().Str("endpoint", s.config.Endpoint).Msg("daemon listening")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// createCommandTree adds GET (help) and POST (run) endpoints for cmd and,
// recursively, for its runnable subcommands.
func (s *Server) createCommandTree(router chi.Router, path []string, cmd *cobra.Command) {
	endpoint := "/" + strings.Join(path, "/")
	if len(path) > 0 {
		router.Get(endpoint, s.createHelpHandler(cmd))
		if cmd.Runnable() {
			router.Post(endpoint, s.createCommandHandler(path))
		}
	}
	for _, child := range cmd.Commands() {
		if len(path) == 0 && s.excluded(child.Name()) {
			continue
		}
		if child.Hidden || child.Name() == "help" || child.Name() == "completion" {
			continue
		}
		if child.Runnable() || child.HasSubCommands() {
			s.createCommandTree(router, append(append([]string{}, path...), child.Name()), child)
		}
	}
}

func (s *Server) excluded(name string) bool {
	for _, e := range s.config.Exclude {
		if e == name {
			return true
		}
	}
	return false
}

func (s *Server) createHelpHandler(cmd *cobra.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		defer cmd.SetOut(nil)
		_ = cmd.Help()
		_, _ = w.Write(buf.Bytes())
	}
}

// createCommandHandler runs the command at path through the root command so
// persistent flags keep working. Each non-empty body line is one argument.
func (s *Server) createCommandHandler(path []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		args := append([]string{}, path...)
		for _, line := range strings.Split(string(body), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				args = append(args, line)
			}
		}

		s.mu.Lock()
		var out bytes.Buffer
		s.root.SetOut(&out)
		s.root.SetErr(&out)
		s.root.SetArgs(args)
		err = s.root.ExecuteContext(r.Context())
		s.root.SetOut(nil)
		s.root.SetErr(nil)
		ResetFlags(s.root)
		s.mu.Unlock()

		if err != nil {
			log.Error().Err(err).Strs("args", args).Msg("command failed")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write(out.Bytes())
			_, _ = io.WriteString(w, err.Error()+"\n")
			return
		}
		_, _ = w.Write(out.Bytes())
	}
}

// ResetFlags puts every flag of cmd and its subcommands that was set by the
// last run back to its default.
func ResetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		ResetFlags(child)
	}
}
