package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/rs/zerolog"

	"github.com/pthm/hxstate"
	"github.com/pthm/hxstate/example/counter"
)

func main() {
	cfg, err := LoadConfig("config.toml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)

	reg := hxstate.NewRegistry([]byte(cfg.Key))
	reg.Log = log
	reg.Strict = true

	c := counter.New()
	hxstate.MustMount[counter.Props, counter.State](reg, c)

	mux := http.NewServeMux()
	mux.Handle("/_s/", reg.Handler())
	mux.HandleFunc("/", handleIndex(c))

	log.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out io.Writer = os.Stderr
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// handleIndex cold-starts a counter instance on every page load; from then
// on the buttons carry the serialized state, so every click resumes where
// the previous response left off.
func handleIndex(c *counter.Counter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		inst, err := hxstate.Hydrate(
			r.Context(), c,
			hxstate.NewElementRef(),
			counter.Props{Step: 1},
			hxstate.None[counter.State](),
		)
		if err != nil {
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		hxstate.Render(w, r, layout(c, inst))
	}
}

func layout(c *counter.Counter, inst *hxstate.Instance[counter.Props, counter.State]) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><title>hxstate counter</title>`+
			`<script src="https://unpkg.com/htmx.org@1.9.12"></script></head><body><h1>Counter</h1>`); err != nil {
			return err
		}
		if err := c.Render(ctx, inst).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
