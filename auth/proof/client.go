package proof

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/viant/lambdagate/auth"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

//Client represents proof service client
type Client struct {
	//BaseURL is the proof service base URL, e.g. https://proof.example.com
	BaseURL string

	//HTTPClient is used for lookups, defaults to a client with 5s timeout
	HTTPClient *http.Client
}

//Authorize looks up address proofs, any failure denies access
func (c *Client) Authorize(ctx context.Context, address string) (auth.Result, error) {
	proofs, err := c.Proofs(ctx, address)
	if err != nil {
		return auth.Denied, err
	}
	if len(proofs) == 0 {
		return auth.Denied, nil
	}
	return auth.Authorized, nil
}

//Proofs returns raw proofs for the address
func (c *Client) Proofs(ctx context.Context, address string) ([]json.RawMessage, error) {
	URL := fmt.Sprintf("%s/proof/%s", strings.TrimRight(c.BaseURL, "/"), url.PathEscape(address))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, URL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")
	response, err := c.HTTPClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("could not request proof endpoint: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, fmt.Errorf("proof endpoint returned non-200 response: %d", response.StatusCode)
		}
		return nil, fmt.Errorf("proof endpoint returned error %d: %s", response.StatusCode, string(bodyBytes))
	}
	var proofs []json.RawMessage
	if err = json.NewDecoder(response.Body).Decode(&proofs); err != nil {
		return nil, fmt.Errorf("could not parse proof response: %w", err)
	}
	return proofs, nil
}

//New creates proof client
func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: &http.Client{Timeout: 5 * time.Second}}
}
