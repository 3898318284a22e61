// Package params walks, resolves, validates and writes SSM Parameter
// Store entries.
//
// The store is hierarchical: a parameter is named by a path like
// /svc/db/password. Listing supports path-prefix queries; values of
// SecureString parameters are resolved per name with decryption.
package params

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// API is the subset of the SSM client this package needs.
// Declared here so tests can substitute a mock.
type API interface {
	DescribeParameters(
		ctx context.Context,
		params *ssm.DescribeParametersInput,
		optFns ...func(*ssm.Options),
	) (*ssm.DescribeParametersOutput, error)
	GetParameter(
		ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParameterOutput, error)
	PutParameter(
		ctx context.Context,
		params *ssm.PutParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.PutParameterOutput, error)
}

// Parameter is one configuration entry. Value is populated only when the
// walk requested value resolution.
type Parameter struct {
	Name         string
	Type         string
	Description  string
	LastModified time.Time
	Value        string
}

// LastSegment returns the final path segment of the parameter name,
// e.g. "password" for "/svc/db/password".
func (p Parameter) LastSegment() string {
	name := p.Name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}

func paramFromSDK(m ssmtypes.ParameterMetadata) Parameter {
	p := Parameter{
		Name:        aws.ToString(m.Name),
		Type:        string(m.Type),
		Description: aws.ToString(m.Description),
	}
	if m.LastModifiedDate != nil {
		p.LastModified = *m.LastModifiedDate
	}
	return p
}
