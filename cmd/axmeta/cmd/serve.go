package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/axmeta/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve metadata lookups over HTTP",
	Long: `Serve loads the caches and answers metadata lookups over HTTP until
interrupted.

Routes:
  GET  /healthz
  GET  /tables/{name}/fields
  GET  /tables/{name}/relations/{related}?field=F
  GET  /enums/{name}
  GET  /labels/{id}
  GET  /relations/{table}
  POST /refresh?force=true&relations=true

Example:
  axmeta serve --addr :9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Override listen address (server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(context.Background(), true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := shutdownContext(context.Background(), a.log)
	defer cancel()
	a.load(ctx)

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(a.svc, a.relations, a.log)
	readTimeout := time.Duration(a.cfg.Server.ReadTimeoutSeconds) * time.Second
	return srv.ListenAndServe(ctx, addr, readTimeout)
}
