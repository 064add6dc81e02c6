package auth

import (
	"errors"
	"io"
	"testing"

	"github.com/bookshelf/catalog-api/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	secretsmanageriface.SecretsManagerAPI
	output *secretsmanager.GetSecretValueOutput
	err    error
	asked  string
}

func (f *fakeSecrets) GetSecretValue(in *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = aws.StringValue(in.SecretId)
	return f.output, f.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestLoadSigningKey_FromEnvironment(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "from-env"}}

	key, err := LoadSigningKey(cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []byte("from-env"), key)

	_, err = LoadSigningKey(&config.Config{}, quietLogger())
	assert.Error(t, err)
}

func TestFetchSigningKey(t *testing.T) {
	svc := &fakeSecrets{output: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("from-secrets")}}

	key, err := fetchSigningKey(svc, "catalog/jwt", quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []byte("from-secrets"), key)
	assert.Equal(t, "catalog/jwt", svc.asked)

	svc = &fakeSecrets{output: &secretsmanager.GetSecretValueOutput{SecretBinary: []byte{1, 2, 3}}}
	key, err = fetchSigningKey(svc, "catalog/jwt", quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, key)
}

func TestFetchSigningKey_Errors(t *testing.T) {
	_, err := fetchSigningKey(&fakeSecrets{err: errors.New("access denied")}, "catalog/jwt", quietLogger())
	assert.Error(t, err)

	_, err = fetchSigningKey(&fakeSecrets{output: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("")}}, "catalog/jwt", quietLogger())
	assert.Error(t, err)
}
