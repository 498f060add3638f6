package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/manuvikash/Thanos/pkg/runtime/terminal"
	"github.com/manuvikash/Thanos/pkg/services/alert"
	"github.com/manuvikash/Thanos/pkg/services/collector"
	"github.com/manuvikash/Thanos/pkg/services/config"
	"github.com/manuvikash/Thanos/pkg/services/evaluation"
	scansvc "github.com/manuvikash/Thanos/pkg/services/scan"
	dynamoconfig "github.com/manuvikash/Thanos/pkg/store/dynamodb/config"
	dynamofindings "github.com/manuvikash/Thanos/pkg/store/dynamodb/findings"
	dynamoinventory "github.com/manuvikash/Thanos/pkg/store/dynamodb/inventory"
	s3snapshot "github.com/manuvikash/Thanos/pkg/store/s3/snapshot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	usr, _ := user.Current()

	v := viper.New()
	v.SetDefault("profiles", fmt.Sprintf("%s/.thanos/profiles.ini", usr.HomeDir))
	v.SetDefault("config_table", "thanos-config")
	v.SetDefault("inventory_table", "thanos-inventory")
	v.SetDefault("findings_table", "thanos-findings")
	v.SetConfigName("config")
	v.AddConfigPath(fmt.Sprintf("%s/.thanos", usr.HomeDir))
	v.AddConfigPath(".")
	v.SetEnvPrefix("THANOS")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	registry, err := config.NewRegistry(v.GetString("profiles"))
	if err != nil {
		return fmt.Errorf("failed to load tenant profiles: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)

	configStore, err := dynamoconfig.NewStore(dynamoClient, v.GetString("config_table"))
	if err != nil {
		return err
	}
	inventoryStore, err := dynamoinventory.NewStore(dynamoClient, v.GetString("inventory_table"))
	if err != nil {
		return err
	}
	findingsStore, err := dynamofindings.NewStore(dynamoClient, v.GetString("findings_table"))
	if err != nil {
		return err
	}

	bucket := v.GetString("snapshot_bucket")
	if bucket == "" {
		return fmt.Errorf("snapshot_bucket is not set")
	}
	snapshotStore, err := s3snapshot.NewStore(s3.NewFromConfig(awsCfg), bucket)
	if err != nil {
		return err
	}

	scanner, err := scansvc.NewController(
		collector.NewTenantCollector(awsCfg),
		evaluation.NewEvaluator(configStore, evaluation.Options{}),
		snapshotStore,
		inventoryStore,
		findingsStore,
		alert.NewNotifier(sns.NewFromConfig(awsCfg), v.GetString("alert_topic_arn")),
	)
	if err != nil {
		return err
	}

	cli := terminal.NewCLI(terminal.Options{
		Registry: registry,
		Runner:   scanner,
		Output:   os.Stdout,
	})
	return cli.ExecuteContext(ctx)
}
