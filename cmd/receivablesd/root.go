package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/infrastructure/config"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/auth"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/kafka"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/observability"
	pgutil "github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/postgres"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "receivablesd",
		Short:         "Debt installment schedules and payment reconciliation",
		Long:          "receivablesd records debts, their installment schedules and the payments made against them, and serves reconciled balances over gRPC.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newScheduleCmd(),
		newEventsCmd(),
		newDevCertsCmd(),
	)
	return root
}

func newLogger(cfg config.Config) *slog.Logger {
	return observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})
}

func databaseConfig(cfg config.Config) pgutil.Config {
	return pgutil.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: int32(cfg.DB.MaxConns),
	}
}

func kafkaConfig(cfg config.Config) kafka.Config {
	return kafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.Kafka.ClientID,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLMechanism != "",
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	}
}

// jwtService builds a validation-only JWT service. An RSA public key takes
// precedence over the shared secret.
func jwtService(cfg config.AuthConfig) (*auth.JWTService, error) {
	publicKey := cfg.PublicKeyPEM
	if publicKey == "" && cfg.PublicKeyFile != "" {
		pem, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load JWT public key: %w", err)
		}
		publicKey = pem
	}
	return auth.NewJWTService(auth.JWTConfig{
		PublicKeyPEM: publicKey,
		Secret:       cfg.Secret,
		Issuer:       cfg.Issuer,
		Expiration:   time.Hour,
	})
}
