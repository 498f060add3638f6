package main

import (
	"fmt"
	"net"
	"os"
	"os/user"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/manuvikash/Thanos/pkg/server"
	"github.com/manuvikash/Thanos/pkg/services/alert"
	"github.com/manuvikash/Thanos/pkg/services/collector"
	"github.com/manuvikash/Thanos/pkg/services/config"
	"github.com/manuvikash/Thanos/pkg/services/evaluation"
	"github.com/manuvikash/Thanos/pkg/services/rules"
	scansvc "github.com/manuvikash/Thanos/pkg/services/scan"
	"github.com/manuvikash/Thanos/pkg/services/templates"
	dynamoconfig "github.com/manuvikash/Thanos/pkg/store/dynamodb/config"
	dynamofindings "github.com/manuvikash/Thanos/pkg/store/dynamodb/findings"
	dynamoinventory "github.com/manuvikash/Thanos/pkg/store/dynamodb/inventory"
	s3snapshot "github.com/manuvikash/Thanos/pkg/store/s3/snapshot"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Thanos API server",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultPath := fmt.Sprintf("%s/.thanos/profiles.ini", usr.HomeDir)

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", defaultPath,
		"Path to the tenant profiles file (default is $HOME/.thanos/profiles.ini)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	registry, err := config.NewRegistry(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to create tenant registry: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	s3Client := s3.NewFromConfig(awsCfg)
	snsClient := sns.NewFromConfig(awsCfg)

	configStore, err := dynamoconfig.NewStore(dynamoClient, envOr("CONFIG_TABLE", "thanos-config"))
	if err != nil {
		return fmt.Errorf("failed to create config store: %w", err)
	}
	inventoryStore, err := dynamoinventory.NewStore(dynamoClient, envOr("INVENTORY_TABLE", "thanos-inventory"))
	if err != nil {
		return fmt.Errorf("failed to create inventory store: %w", err)
	}
	findingsStore, err := dynamofindings.NewStore(dynamoClient, envOr("FINDINGS_TABLE", "thanos-findings"))
	if err != nil {
		return fmt.Errorf("failed to create findings store: %w", err)
	}

	bucket := os.Getenv("SNAPSHOT_BUCKET")
	if bucket == "" {
		return fmt.Errorf("SNAPSHOT_BUCKET is not set")
	}
	snapshotStore, err := s3snapshot.NewStore(s3Client, bucket)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}

	evaluator := evaluation.NewEvaluator(configStore, evaluation.Options{})
	notifier := alert.NewNotifier(snsClient, os.Getenv("ALERT_TOPIC_ARN"))

	rulePacks, err := rules.NewTenantPacks(snapshotStore, s3snapshot.RulesKey)
	if err != nil {
		return fmt.Errorf("failed to create rule pack loader: %w", err)
	}

	scanner, err := scansvc.NewController(
		collector.NewTenantCollector(awsCfg),
		evaluator,
		snapshotStore,
		inventoryStore,
		findingsStore,
		notifier,
	)
	if err != nil {
		return fmt.Errorf("failed to create scan controller: %w", err)
	}

	scheduler := scansvc.NewScheduler(scanner, registry, 0)
	defer scheduler.Shutdown()

	logger.Info().Msgf("Tenant profiles loaded from `%s`.", cfgPath)
	tenants, _ := registry.GetTenants(ctx)
	for _, tenant := range tenants {
		logger.Info().Msgf("Tenant: `%s`", tenant)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Configs:   configStore,
			Templates: templates.NewService(configStore),
			Inventory: inventoryStore,
			Findings:  findingsStore,
			Registry:  registry,
			Scanner:   scanner,
			Scheduler: scheduler,
			Rules:     rulePacks,
		},
	})

	return webAPI.Start()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
