package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/dantwoashim/Project-Parva-sub001/internal/bs"
	"github.com/dantwoashim/Project-Parva-sub001/internal/ephemeris"
	"github.com/dantwoashim/Project-Parva-sub001/internal/panchanga"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ephemeris and panchanga gRPC services",
	Long: `Serves Longitudes and the panchanga queries over gRPC. Every answered query
is written to the provenance log. When --bs-table is set the file is watched
and reloaded on change; a rejected file leaves the previous table active.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(true)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("listen"); addr != "" {
			a.cfg.ListenAddr = addr
		}
		return serve(a)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default from config, 127.0.0.1:50061)")
	rootCmd.AddCommand(serveCmd)
}

func serve(a *app) error {
	defer a.Close()

	if a.cfg.BSTable != "" {
		w, err := bs.NewWatcher(a.cfg.BSTable, a.converter)
		if err != nil {
			return fmt.Errorf("watch %s: %w", a.cfg.BSTable, err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watch %s: %w", a.cfg.BSTable, err)
		}
		defer w.Stop()
		go func() {
			for r := range w.Reloads {
				if r.Err != nil {
					log.Printf("BS table %s rejected, keeping previous table: %v", r.File, r.Err)
					continue
				}
				log.Printf("BS table %s reloaded: %d-%d", r.File, r.First, r.Last)
			}
		}()
	}

	lis, err := net.Listen("tcp", a.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.ListenAddr, err)
	}

	gs := grpc.NewServer()
	ephemeris.NewServer(a.oracle).Register(gs)
	ps := panchanga.NewServer(a.engine)
	ps.OnResult = func(method string, t time.Time, rec panchanga.Record, err error) {
		queryType := "at"
		if method == panchanga.DailyMethod {
			queryType = "daily"
		}
		a.logQuery(queryType, t, rec, err)
		if err != nil {
			log.Printf("%s %s: %v", method, t.Format(time.RFC3339), err)
		}
	}
	ps.Register(gs)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Println("shutting down")
		gs.GracefulStop()
	}()

	first, last := a.converter.Table().First, a.converter.Table().Last
	from, to := a.converter.Window()
	log.Printf("parva serving on %s (oracle %s, BS official %d-%d, estimated %d-%d, db %s)",
		lis.Addr(), oracleName(a.cfg.Oracle.Addr), first, last, from, to, a.cfg.DBPath)
	return gs.Serve(lis)
}

func oracleName(addr string) string {
	if addr == "" {
		return "analytic"
	}
	return addr
}
