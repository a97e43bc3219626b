// Package identity resolves the AWS caller identity backing the ambient
// credential chain. Used for startup diagnostics.
package identity

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// API is the subset of the STS client used by Resolver.
// Narrowed so tests can substitute mock implementations.
type API interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Caller describes the identity the credential chain resolved to.
type Caller struct {
	Account string
	ARN     string
	UserID  string
}

// Resolver answers caller-identity queries against STS.
type Resolver struct {
	client API
}

// New creates a Resolver using the default credential chain in the given
// region.
func New(ctx context.Context, region string) (*Resolver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Resolver{client: sts.NewFromConfig(awsCfg)}, nil
}

// NewWithClient creates a Resolver with a custom client, used for testing.
func NewWithClient(client API) *Resolver {
	return &Resolver{client: client}
}

// Resolve performs the identity lookup. A failure here means the
// credential chain is unusable for any provider call.
func (r *Resolver) Resolve(ctx context.Context) (*Caller, error) {
	out, err := r.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller identity: %w", err)
	}

	return &Caller{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
