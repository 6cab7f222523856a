package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// LoadSSMParameters copies every parameter stored under parameterPath into
// config. A parameter named /portfolio/prod/jwt-secret becomes JWT_SECRET.
// Values already present in config (usually from the environment) win.
func LoadSSMParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, parameterPath string, config map[string]string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return loaded, fmt.Errorf("failed to read SSM parameters under %s: %w", parameterPath, err)
		}

		for _, parameter := range page.Parameters {
			if parameter.Name == nil || parameter.Value == nil {
				continue
			}

			key := parameterKey(*parameter.Name)
			if _, exists := config[key]; exists {
				continue
			}
			config[key] = *parameter.Value
			loaded++
		}
	}

	return loaded, nil
}

func parameterKey(name string) string {
	key := strings.ToUpper(path.Base(name))
	return strings.NewReplacer("-", "_", ".", "_").Replace(key)
}
