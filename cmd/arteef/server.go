package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi"
	"github.com/pkg/errors"
	"github.com/urandom/arteef/api"
	"github.com/urandom/arteef/config"
	"github.com/urandom/arteef/content/acquire"
	"github.com/urandom/arteef/content/fallback"
	"github.com/urandom/arteef/content/remote"
	"github.com/urandom/arteef/content/store"
	"github.com/urandom/arteef/log"
	"github.com/urandom/arteef/web"
)

var (
	serverDevelPort int
)

func runServer(cfg config.Config, args []string) error {
	logger := initLog(cfg.Log)

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0777); err != nil {
		return errors.Wrapf(err, "creating storage dir for %s", cfg.Storage.Path)
	}

	st, err := store.Open(cfg.Storage.Path, cfg.Content.Converted.CacheTTL, logger)
	if err != nil {
		return errors.WithMessage(err, "opening local store")
	}
	defer st.Close()

	client := acquire.LoggingRemote(remote.New(cfg, logger), logger)
	chain := fallback.New(cfg.Fallback.Sources, cfg.Content.Converted.ReadTimeout, logger)
	policy := acquire.New(client, chain, st, cfg, logger)

	mux := chi.NewRouter()
	mux.Mount("/api", api.Mux(policy, st, cfg, logger))
	mux.Mount("/proxy", http.StripPrefix("/proxy", web.Proxy(cfg.Remote.BaseURL, cfg.Proxy.Converted.Timeout, logger)))

	server := makeHTTPServer(mux)

	if serverDevelPort > 0 {
		server.Addr = fmt.Sprintf(":%d", serverDevelPort)

		logger.Infof("Starting server on address %s", server.Addr)
		if err = server.ListenAndServe(); err != nil {
			return errors.Wrap(err, "starting devel server")
		}

		return nil
	}

	server.Addr = fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Infof("Starting server on address %s", server.Addr)

	if cfg.Server.CertFile != "" && cfg.Server.KeyFile != "" {
		if err := server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile); err != nil {
			return errors.Wrap(err, "starting tls server")
		}
	} else {
		if err = server.ListenAndServe(); err != nil {
			return errors.Wrap(err, "starting server")
		}
	}

	return nil
}

func initLog(cfg config.Log) log.Log {
	return log.WithLogrus(cfg)
}

func makeHTTPServer(mux http.Handler) *http.Server {
	return &http.Server{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
		Handler:      mux,
	}
}

func init() {
	flags := flag.NewFlagSet("server", flag.ExitOnError)
	flags.IntVar(&serverDevelPort, "devel-port", 0, "when set, listen on the given port without tls")

	commands = append(commands, Command{
		Name:  "server",
		Desc:  "starts the arteef server",
		Flags: flags,
		Run:   runServer,
	})
}
