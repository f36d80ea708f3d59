package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"playto-cli/fakeserver"
	"playto-cli/term"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var devServerPort int
var devServerNoSeed bool
var devServerAccessTTL time.Duration
var devServerRotate bool
var devServerPageSize int

var devServerCmd = &cobra.Command{
	Use:   "dev-server",
	Short: "Run an in-memory Playto backend for local development",
	Args:  cobra.NoArgs,
	Run:   devServer,
}

func init() {
	RootCmd.AddCommand(devServerCmd)

	devServerCmd.Flags().IntVar(&devServerPort, "port", 8088, "Port to listen on")
	devServerCmd.Flags().BoolVar(&devServerNoSeed, "no-seed", false, "Start with no users or posts")
	devServerCmd.Flags().DurationVar(&devServerAccessTTL, "access-ttl", 5*time.Minute, "Access token lifetime")
	devServerCmd.Flags().BoolVar(&devServerRotate, "rotate-refresh", false, "Issue a new refresh token on every refresh")
	devServerCmd.Flags().IntVar(&devServerPageSize, "page-size", 10, "Posts per feed page")
}

func devServer(cmd *cobra.Command, args []string) {
	s := fakeserver.New(fakeserver.Config{
		AccessTTL:           devServerAccessTTL,
		RotateRefreshTokens: devServerRotate,
		PageSize:            devServerPageSize,
	})

	if !devServerNoSeed {
		err := s.Seed()
		if err != nil {
			term.OutputErrorAndExit("Error seeding dev server: %v", err)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", devServerPort),
		Handler: s.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			log.Printf("[dev-server] error shutting down: %v", err)
		}
	}()

	fmt.Printf("🚀 Dev server listening on %s\n", color.New(color.Bold, term.ColorHiCyan).Sprintf("http://localhost:%d", devServerPort))
	if !devServerNoSeed {
		fmt.Printf("🔑 Demo account: %s / %s\n", fakeserver.DemoUsername, fakeserver.DemoPassword)
	}
	fmt.Println()
	fmt.Printf("Point the client at it with %s\n", color.New(color.Bold).Sprintf("PLAYTO_API_BASE_URL=http://localhost:%d", devServerPort))

	log.Printf("[dev-server] listening on :%d", devServerPort)

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		term.OutputErrorAndExit("Error running dev server: %v", err)
	}
}
