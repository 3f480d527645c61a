// =============================================================================
// Farm-to-Fork Document Generator - Rendering Collaborators
// =============================================================================
//
// The document-rendering service and the archive zipper are external
// collaborators: they consume the JSON payloads produced by the export
// serializers and return downloadable links. Both are deployed as Lambda
// functions and invoked synchronously.
//
// WIRE CONTRACTS:
//   renderer:  payload -> {"links": {"<display name>": "<url>", ...}}
//   zipper:    {"links": [...], "name": "..."} -> {"zip": "<url>"}
//
// Retry/backoff policy belongs to the collaborators, not here; a failed
// invocation is reported to the user as-is.
//
// =============================================================================

package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// Renderer turns document payloads into downloadable links.
type Renderer interface {
	// Render invokes the named rendering function with a JSON payload and
	// returns a map from buyer/seller display name to document link.
	Render(ctx context.Context, function string, payload []byte) (map[string]string, error)

	// Zip bundles the given links into one archive and returns its link.
	Zip(ctx context.Context, function string, links []string, archiveName string) (string, error)
}

// lambdaInvoker is the slice of the Lambda API the client uses. Narrowed
// for testability.
type lambdaInvoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaClient implements Renderer over AWS Lambda.
type LambdaClient struct {
	invoker lambdaInvoker
}

// renderResult is the renderer's response envelope.
type renderResult struct {
	Links map[string]string `json:"links"`
}

// zipRequest is the zipper's request envelope.
type zipRequest struct {
	Links []string `json:"links"`
	Name  string   `json:"name"`
}

// zipResult is the zipper's response envelope.
type zipResult struct {
	Zip string `json:"zip"`
}

// NewLambdaClient creates a renderer client for the given region, resolving
// credentials from the standard environment.
func NewLambdaClient(ctx context.Context, region string) (*LambdaClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &LambdaClient{invoker: lambda.NewFromConfig(cfg)}, nil
}

// NewLambdaClientWithInvoker creates a client over a custom invoker.
func NewLambdaClientWithInvoker(invoker lambdaInvoker) *LambdaClient {
	return &LambdaClient{invoker: invoker}
}

// Render invokes the rendering function and decodes the links map.
func (c *LambdaClient) Render(ctx context.Context, function string, payload []byte) (map[string]string, error) {
	body, err := c.invoke(ctx, function, payload)
	if err != nil {
		return nil, err
	}

	var result renderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", function, err)
	}
	if result.Links == nil {
		return nil, fmt.Errorf("response from %s contains no links", function)
	}
	return result.Links, nil
}

// Zip invokes the zipper function and decodes the archive link.
func (c *LambdaClient) Zip(ctx context.Context, function string, links []string, archiveName string) (string, error) {
	payload, err := json.Marshal(zipRequest{Links: links, Name: archiveName})
	if err != nil {
		return "", fmt.Errorf("failed to encode zip request: %w", err)
	}

	body, err := c.invoke(ctx, function, payload)
	if err != nil {
		return "", err
	}

	var result zipResult
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response from %s: %w", function, err)
	}
	if result.Zip == "" {
		return "", fmt.Errorf("response from %s contains no zip link", function)
	}
	return result.Zip, nil
}

func (c *LambdaClient) invoke(ctx context.Context, function string, payload []byte) ([]byte, error) {
	output, err := c.invoker.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(function),
		InvocationType: types.InvocationTypeRequestResponse,
		LogType:        types.LogTypeTail,
		Payload:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", function, err)
	}
	if output.FunctionError != nil {
		return nil, fmt.Errorf("function %s returned an error: %s", function, aws.ToString(output.FunctionError))
	}
	return output.Payload, nil
}
