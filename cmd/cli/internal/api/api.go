// Package api holds the resource clients for the compliance REST API. Each client
// is a thin mapping from a domain operation to one HTTP call on the shared
// httpclient.Client; none of them keep state.
package api

import (
	"net/url"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
)

// Client groups the resource clients that share one configured HTTP client
type Client struct {
	Auth       *AuthClient
	Controls   *ControlsClient
	Evidence   *EvidenceClient
	POAM       *POAMClient
	Boundary   *BoundaryClient
	Dashboard  *DashboardClient
	Frameworks *FrameworksClient
}

// New wires every resource client to hc
func New(hc *httpclient.Client) *Client {
	return &Client{
		Auth:       &AuthClient{hc: hc},
		Controls:   &ControlsClient{hc: hc},
		Evidence:   &EvidenceClient{hc: hc},
		POAM:       &POAMClient{hc: hc},
		Boundary:   &BoundaryClient{hc: hc},
		Dashboard:  &DashboardClient{hc: hc},
		Frameworks: &FrameworksClient{hc: hc},
	}
}

// params builds a query string from key/value pairs, dropping empty values
func params(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	return q
}

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}
