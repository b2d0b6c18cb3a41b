package signupform

import (
	"context"

	"github.com/goliatone/go-signupform/pkg/openapi"
	"github.com/goliatone/go-signupform/pkg/signup"
)

// NewDocument builds the OpenAPI document for the signup JSON API.
func NewDocument(ctx context.Context, options ...openapi.Option) (*openapi.Document, error) {
	return openapi.New(ctx, signup.Form(), options...)
}
