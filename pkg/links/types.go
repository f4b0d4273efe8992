package links

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Kind names a linkable host resource.
type Kind string

const (
	KindIssue      Kind = "issue"
	KindAttachment Kind = "attachment"
	KindProject    Kind = "project"
)

// LinkRequest identifies the resource to link to.
type LinkRequest struct {
	Kind Kind
	ID   string
}

// LinkBuilder generates absolute URLs for host resources.
type LinkBuilder interface {
	Build(ctx context.Context, req LinkRequest) (string, error)
}

// HostBuilder derives URLs from a configured host name and protocol. The
// host name may carry a scheme, a port and a path prefix.
type HostBuilder struct {
	base string
}

var _ LinkBuilder = (*HostBuilder)(nil)

var hostPattern = regexp.MustCompile(`(?i)\A(https?://)?(.+?)(:(\d+))?(/.+)?\z`)

// NewHostBuilder parses hostName ("redmine.example.com:8080/tracker") and
// protocol ("https"). An empty protocol defaults to http.
func NewHostBuilder(hostName, protocol string) (*HostBuilder, error) {
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return nil, fmt.Errorf("links: host name is required")
	}
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	if protocol == "" {
		protocol = "http"
	}
	if protocol != "http" && protocol != "https" {
		return nil, fmt.Errorf("links: unsupported protocol %q", protocol)
	}

	host, port, prefix := hostName, "", ""
	if match := hostPattern.FindStringSubmatch(hostName); match != nil {
		host, port, prefix = match[2], match[4], match[5]
	}
	if port != "" {
		host = host + ":" + port
	}
	return &HostBuilder{base: protocol + "://" + host + strings.TrimRight(prefix, "/")}, nil
}

// Base returns the URL every link is built under.
func (b *HostBuilder) Base() string {
	return b.base
}

// Build returns the absolute URL for req.
func (b *HostBuilder) Build(_ context.Context, req LinkRequest) (string, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return "", fmt.Errorf("links: %s id is required", req.Kind)
	}
	switch req.Kind {
	case KindIssue:
		return b.base + "/issues/" + url.PathEscape(id), nil
	case KindAttachment:
		return b.base + "/attachments/" + url.PathEscape(id), nil
	case KindProject:
		return b.base + "/projects/" + url.PathEscape(id), nil
	default:
		return "", fmt.Errorf("links: unsupported kind %q", req.Kind)
	}
}
