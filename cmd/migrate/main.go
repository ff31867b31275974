// migrate aplica las migraciones SQL embebidas con goose.
//
// Uso: go run ./cmd/migrate [up|down|status|version|redo|reset]
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{Env: os.Getenv("APP_ENV"), Level: "info"})

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env no encontrado; se usan solo variables de entorno")
	}

	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"up"}
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cargar configuración")
	}

	db, err := sql.Open("postgres", cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir conexión")
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("dialecto goose")
	}

	if err := goose.RunContext(context.Background(), command, db, ".", args[1:]...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("goose")
	}
	log.Info().Str("command", command).Msg("migraciones aplicadas")
}
