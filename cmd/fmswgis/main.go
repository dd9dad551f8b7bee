package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/api"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/assessment"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/ingest"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/ledger"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/store"
)

var cli struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,help='Optional .env file with configuration.'"`

	DB   string `kong:"default='data/fmswgis.db',env=FMSWGIS_DB,help='Path to SQLite database.'"`
	Port string `kong:"default='8080',env=FMSWGIS_PORT,help='HTTP server port.'"`

	WeatherLat float64 `kong:"default='10.753794',env=FMSWGIS_WEATHER_LAT,help='Latitude for Open-Meteo forecasts.'"`
	WeatherLon float64 `kong:"default='123.084160',env=FMSWGIS_WEATHER_LON,help='Longitude for Open-Meteo forecasts.'"`
	TideLat    float64 `kong:"default='10.31672',env=FMSWGIS_TIDE_LAT,help='Latitude for WorldTides heights.'"`
	TideLon    float64 `kong:"default='123.89071',env=FMSWGIS_TIDE_LON,help='Longitude for WorldTides heights.'"`

	WorldTidesKey string `kong:"required,env=WORLDTIDES_API_KEY,help='WorldTides API key.'"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("fmswgis"),
		kong.Description("Flood monitoring service for Silay City: weather and tide ingestion, risk classification, and the historical flood ledger."),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		log.Printf("Warning: could not load Asia/Manila timezone, using UTC: %v", err)
		loc = time.UTC
	}

	st := store.New(db, loc)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	monitor := ingest.NewMonitor(st,
		ingest.NewOpenMeteo("", cli.WeatherLat, cli.WeatherLon),
		ingest.NewWorldTides("", cli.WorldTidesKey, cli.TideLat, cli.TideLon))

	server := api.NewServer(st, monitor, ledger.New(st), assessment.NewService(st), cli.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
