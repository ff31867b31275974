// seed crea el primer usuario ADMIN. El registro público solo crea CASHIER,
// así que el sistema necesita este arranque.
//
// Uso: go run ./cmd/seed -email admin@tienda.com -password ******** [-name "Administrador"]
// También lee SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD y SEED_ADMIN_NAME.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhoicas/Inventario-ledger/internal/application/auth"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/authz"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// bootstrapActor identidad del proceso de arranque; no existe como usuario.
var bootstrapActor = authz.Actor{ID: "seed", Name: "seed", Role: entity.RoleAdmin}

func main() {
	_ = godotenv.Load()

	email := flag.String("email", os.Getenv("SEED_ADMIN_EMAIL"), "email del administrador")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "contraseña (mínimo 8 caracteres)")
	name := flag.String("name", envOr("SEED_ADMIN_NAME", "Administrador"), "nombre visible")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if *email == "" || *password == "" {
		log.Fatal().Msg("email y password son requeridos")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
	})
	user, err := authUC.CreateUser(ctx, bootstrapActor, dto.CreateUserRequest{
		Email:    *email,
		Password: *password,
		Name:     *name,
		Role:     entity.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		log.Info().Str("email", *email).Msg("el usuario ya existe; nada que hacer")
		return
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("id", user.ID).Str("email", user.Email).Msg("administrador creado")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
