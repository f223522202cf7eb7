package credential

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/dmorgan81/brandbot/internal/log"
)

type ParameterAPI interface {
	GetParameter(context.Context, *ssm.GetParameterInput, ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(context.Context, *ssm.PutParameterInput, ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// ParameterStore keeps the credential in an SSM SecureString parameter.
type ParameterStore struct {
	Client ParameterAPI
	Path   string
}

func (s *ParameterStore) Get(ctx context.Context) (string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("parameter store").With("path", s.Path)
	log.Info("fetching credential")

	out, err := s.Client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.Path),
		WithDecryption: aws.Bool(true),
	})
	var notFound *types.ParameterNotFound
	if errors.As(err, &notFound) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", err
	}

	if out == nil || out.Parameter == nil {
		return "", ErrNoCredential
	}
	value := aws.ToString(out.Parameter.Value)
	if value == "" {
		return "", ErrNoCredential
	}
	return value, nil
}

func (s *ParameterStore) Set(ctx context.Context, value string) error {
	value, err := normalize(value)
	if err != nil {
		return err
	}

	log := log.FromContextOrDiscard(ctx).WithGroup("parameter store").With("path", s.Path)
	log.Info("saving credential")

	_, err = s.Client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(s.Path),
		Value:     aws.String(value),
		Type:      types.ParameterTypeSecureString,
		Overwrite: aws.Bool(true),
	})
	return err
}
