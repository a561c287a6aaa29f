/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package httpbinding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
)

const (
	schemaPath      = "schema"
	credDefPath     = "cred-def"
	revRegDefPath   = "rev-reg-def"
	revRegEntryPath = "rev-reg-entry"

	timestampQueryParam = "timestamp"
)

type session struct {
	ledger *Ledger
}

// entryResponse is the body of a revocation registry entry read.
type entryResponse struct {
	Entry     json.RawMessage `json:"entry"`
	Timestamp int64           `json:"timestamp"`
}

func (s *session) GetSchema(ctx context.Context, schemaID string) (json.RawMessage, error) {
	return s.ledger.read(ctx, schemaPath, schemaID, nil)
}

func (s *session) GetCredentialDefinition(ctx context.Context, credDefID string) (json.RawMessage, error) {
	return s.ledger.read(ctx, credDefPath, credDefID, nil)
}

func (s *session) GetRevocationRegistryDefinition(ctx context.Context, revRegID string) (json.RawMessage, error) {
	return s.ledger.read(ctx, revRegDefPath, revRegID, nil)
}

func (s *session) GetRevocationRegistryEntry(ctx context.Context, revRegID string,
	timestamp int64) (json.RawMessage, int64, error) {
	query := url.Values{timestampQueryParam: []string{strconv.FormatInt(timestamp, 10)}}

	body, err := s.ledger.read(ctx, revRegEntryPath, revRegID, query)
	if err != nil {
		return nil, 0, err
	}

	var resp entryResponse

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, errors.Wrapf(err, "decode revocation registry entry %s", revRegID)
	}

	if len(resp.Entry) == 0 {
		return nil, 0, errors.Errorf("revocation registry entry %s: empty entry", revRegID)
	}

	return resp.Entry, resp.Timestamp, nil
}

func (s *session) Close() error {
	return nil
}

// read fetches one artifact, retrying transport failures and server errors.
func (l *Ledger) read(ctx context.Context, kind, id string, query url.Values) (json.RawMessage, error) {
	reqURL, err := url.ParseRequestURI(l.endpointURL)
	if err != nil {
		return nil, errors.Wrap(err, "url parse request uri failed")
	}

	reqURL.Path = path.Join(reqURL.Path, kind, id)
	reqURL.RawQuery = query.Encode()

	var body json.RawMessage

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), l.retries), ctx)

	err = backoff.RetryNotify(func() error {
		var e error

		body, e = l.get(ctx, reqURL.String())

		return e
	}, b, func(err error, wait time.Duration) {
		logger.Debugf("read %s [%s] failed, retrying in %s: %v", kind, id, wait, err)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "read %s [%s]", kind, id)
	}

	return body, nil
}

func (l *Ledger) get(ctx context.Context, uri string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "HTTP create get request failed"))
	}

	req.Header.Add("Accept", "application/json")

	authToken := l.authToken

	if l.authTokenProvider != nil {
		v, errToken := l.authTokenProvider.AuthToken()
		if errToken != nil {
			return nil, backoff.Permanent(errToken)
		}

		authToken = "Bearer " + v
	}

	if authToken != "" {
		req.Header.Add("Authorization", authToken)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "HTTP Get request failed")
	}

	defer closeResponseBody(resp.Body)

	gotBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body failed")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if !json.Valid(gotBody) {
			return nil, backoff.Permanent(fmt.Errorf("ledger returned invalid JSON: %s", gotBody))
		}

		return gotBody, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(ledgerapi.ErrNotFound)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, errors.Errorf("ledger server error [%d] body [%s]", resp.StatusCode, gotBody)
	default:
		return nil, backoff.Permanent(
			errors.Errorf("unsupported response from ledger [%d] body [%s]", resp.StatusCode, gotBody))
	}
}
