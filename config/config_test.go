package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":             "9090",
		"BAD_INT":          "nine",
		"S3_USE_PATH":      "true",
		"SWEEP_MINUTES":    "15",
		"ACCEPTED_ORIGINS": "https://a.dev, ,https://b.dev",
	}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "8080", GetString(c, "MISSING", "8080"))
	assert.Equal(t, "8080", GetString(nil, "PORT", "8080"))
	assert.Equal(t, 9090, GetInt(c, "PORT", 1))
	assert.Equal(t, 1, GetInt(c, "BAD_INT", 1))
	assert.True(t, GetBool(c, "S3_USE_PATH", false))
	assert.False(t, GetBool(c, "MISSING", false))
	assert.Equal(t, 15*time.Minute, GetMinutes(c, "SWEEP_MINUTES", time.Hour))
	assert.Equal(t, time.Hour, GetMinutes(c, "MISSING", time.Hour))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, GetList(c, "ACCEPTED_ORIGINS"))
	assert.Nil(t, GetList(c, "MISSING"))
}

func TestSplit(t *testing.T) {
	key, value := split("A=b=c")
	assert.Equal(t, "A", key)
	assert.Equal(t, "b=c", value)

	key, value = split("EMPTY")
	assert.Equal(t, "EMPTY", key)
	assert.Equal(t, "", value)
}

type fakeSSM struct {
	pages [][]types.Parameter
	err   error
	calls int
}

func (f *fakeSSM) GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.calls]
	f.calls++

	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestLoadSSMParameters(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{
			{Name: aws.String("/portfolio/prod/jwt-secret"), Value: aws.String("from-ssm")},
			{Name: aws.String("/portfolio/prod/port"), Value: aws.String("7000")},
		},
		{
			{Name: aws.String("/portfolio/prod/resend.api-key"), Value: aws.String("re_123")},
			{Name: nil, Value: aws.String("ignored")},
		},
	}}

	c := map[string]string{"PORT": "8080"}
	loaded, err := LoadSSMParameters(context.Background(), client, "/portfolio/prod", c)
	require.NoError(t, err)

	assert.Equal(t, 2, loaded)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "from-ssm", c["JWT_SECRET"])
	assert.Equal(t, "8080", c["PORT"], "environment values win over SSM")
	assert.Equal(t, "re_123", c["RESEND_API_KEY"])
}

func TestLoadSSMParametersError(t *testing.T) {
	client := &fakeSSM{err: errors.New("access denied")}
	_, err := LoadSSMParameters(context.Background(), client, "/portfolio", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
