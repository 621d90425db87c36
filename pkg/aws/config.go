package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/rs/zerolog/log"

	"timesheet.service/internal/config"
)

// NewAWSConfig creates a new AWS configuration, pointing to LocalStack in local development.
func NewAWSConfig(ctx context.Context, appConfig config.Config) (aws.Config, error) {
	return awsConfig.LoadDefaultConfig(ctx, loadOptions(appConfig)...)
}

func loadOptions(appConfig config.Config) []func(*awsConfig.LoadOptions) error {
	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(appConfig.AWSRegion),
	}

	if !appConfig.IsLocalDev {
		// Standard credential chain (e.g. IAM role for service accounts).
		log.Info().Msg("Production mode detected. Using standard AWS credential chain.")
		return opts
	}

	log.Info().Str("endpoint", appConfig.AWSEndpoint).Msg("Local development mode detected. Routing AWS calls to LocalStack.")
	opts = append(opts, awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")))
	if appConfig.AWSEndpoint != "" {
		opts = append(opts, awsConfig.WithBaseEndpoint(appConfig.AWSEndpoint))
	}
	return opts
}
