package links

import "context"

// NopBuilder implements LinkBuilder without producing URLs.
type NopBuilder struct{}

var _ LinkBuilder = (*NopBuilder)(nil)

// Build returns an empty URL and no error.
func (n *NopBuilder) Build(ctx context.Context, req LinkRequest) (string, error) {
	return "", nil
}
