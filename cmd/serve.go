package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/l3uddz/iconkit/config"
	"github.com/l3uddz/iconkit/search"
	"github.com/l3uddz/iconkit/server"
	"github.com/spf13/cobra"
)

var (
	flagListen string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the icon search API",
	Long:  `This command can be used to serve the icons, providers and licenses APIs.`,

	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Config

		listen := cfg.Server.Listen
		if flagListen != "" {
			listen = flagListen
		}

		// init database
		db := openDatabase()
		defer db.Close()

		// init search
		svc, err := search.NewService(db, search.Options{
			Preset:    cfg.Search.Preset,
			CacheTTL:  cfg.Search.CacheTTL,
			CacheSize: cfg.Search.CacheSize,
		})
		if err != nil {
			log.WithError(err).Error("Failed initializing search")
			return
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		// a scrape run changes icons, SIGHUP drops the cached pages
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-hup:
					svc.Purge()
					log.Info("Purged search cache")
				}
			}
		}()

		// serve
		srv := server.New(db, svc, server.Options{CorsOrigins: cfg.Server.CorsOrigins})
		if err := srv.ListenAndServe(ctx, listen); err != nil {
			log.WithError(err).Error("Failed serving API")
			return
		}

		log.Info("Finished")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address, overrides server.listen")
}
