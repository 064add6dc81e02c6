package auth

import (
	"fmt"

	"github.com/bookshelf/catalog-api/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/sirupsen/logrus"
)

// LoadSigningKey returns the token signing key from JWT_SECRET, or fetches
// it from AWS Secrets Manager when JWT_SECRET_NAME is set.
func LoadSigningKey(cfg *config.Config, logger *logrus.Logger) ([]byte, error) {
	if cfg.JWT.Secret != "" {
		return []byte(cfg.JWT.Secret), nil
	}
	if cfg.JWT.SecretName == "" {
		return nil, fmt.Errorf("no token signing key configured")
	}

	sessConfig := &aws.Config{
		Region: aws.String(cfg.AWS.Region),
	}
	opts := session.Options{Config: *sessConfig}
	if cfg.AWS.Profile != "" {
		opts.Profile = cfg.AWS.Profile
		opts.SharedConfigState = session.SharedConfigEnable
	}

	sess, err := session.NewSessionWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return fetchSigningKey(secretsmanager.New(sess), cfg.JWT.SecretName, logger)
}

func fetchSigningKey(svc secretsmanageriface.SecretsManagerAPI, secretName string, logger *logrus.Logger) ([]byte, error) {
	result, err := svc.GetSecretValue(&secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve secret '%s': %w", secretName, err)
	}

	var key []byte
	switch {
	case result.SecretString != nil:
		key = []byte(*result.SecretString)
	case len(result.SecretBinary) > 0:
		key = result.SecretBinary
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("secret '%s' is empty", secretName)
	}

	logger.WithField("secret_name", secretName).Info("Token signing key retrieved from Secrets Manager")
	return key, nil
}
