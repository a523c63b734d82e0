package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	pkg "git.entraide.dev/community/pkg/internal"
	"git.entraide.dev/community/pkg/internal/cache"
	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/http"
	"git.entraide.dev/community/pkg/internal/services"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" _____       _            _    _     _\n| ____|_ __ | |_ _ __ ___( )  / \\   (_) __| | ___\n|  _| | '_ \\| __| '__/ _ \\/  / _ \\  | |/ _` |/ _ \\\n| |___| | | | |_| | |  __/  / ___ \\ | | (_| |  __/\n|_____|_| |_|\\__|_|  \\___| /_/   \\_\\|_|\\__,_|\\___|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Entr'Aide"), pkg.AppVersion)
	fmt.Printf("The mutual aid platform of your neighbourhood\n")
	color.HiBlack("=====================================================\n")

	// Load .env file when present
	if err := godotenv.Load(); err == nil {
		log.Info().Msg("Loaded environment variables from .env file.")
	}

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("ENTRAIDE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	if len(viper.GetString("security.jwt_secret")) == 0 {
		log.Fatal().Msg("The security.jwt_secret setting is required to issue tokens.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.AddFunc("@every 5m", services.FlushBlogPostViews)
	quartz.Start()

	// Server
	server := http.NewServer()
	go server.Listen()

	log.Info().Str("bind", viper.GetString("bind")).Msg("Entr'Aide is running...")

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	quartz.Stop()
	services.FlushBlogPostViews()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
}
