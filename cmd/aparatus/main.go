package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aparatus/aparatus/internal/profile"
	"github.com/aparatus/aparatus/server"
	"github.com/aparatus/aparatus/store"
	"github.com/aparatus/aparatus/store/db"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "aparatus",
	Short: "A conversational barbershop booking assistant.",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:      viper.GetString("mode"),
			Addr:      viper.GetString("addr"),
			Port:      viper.GetInt("port"),
			Data:      viper.GetString("data"),
			Driver:    viper.GetString("driver"),
			DSN:       viper.GetString("dsn"),
			Secret:    viper.GetString("secret"),
			AIAPIKey:  viper.GetString("ai-api-key"),
			AIBaseURL: viper.GetString("ai-base-url"),
			AIModel:   viper.GetString("ai-model"),
			Version:   version,
		}
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create db driver", "error", err)
			os.Exit(1)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			os.Exit(1)
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sig
			s.Shutdown(ctx)
			cancel()
		}()

		printGreetings(instanceProfile)

		if err := s.Start(ctx); err != nil {
			slog.Error("server stopped", "error", err)
		}

		<-ctx.Done()
	},
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)
	viper.SetDefault("data", "")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("secret", "aparatus")
	viper.SetDefault("ai-base-url", "https://api.openai.com/v1")
	viper.SetDefault("ai-model", "gpt-4o-mini")

	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server: "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver: "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name (required for postgres)")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("aparatus")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func printGreetings(p *profile.Profile) {
	fmt.Printf(`---
Server profile
version: %s
data: %s
addr: %s
port: %d
mode: %s
driver: %s
---
`, p.Version, p.Data, p.Addr, p.Port, p.Mode, p.Driver)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
