// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package reporter ships collected inventory to the fleet API.
package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/fleetable/nodescan/internal/api/inventory"
)

// Reporter posts inventory reports to a fleet endpoint, retrying with
// exponential backoff on transport or server failures.
type Reporter struct {
	Endpoint string
	Client   *http.Client
	Backoff  wait.Backoff
	log      logr.Logger
}

// New creates a Reporter for the given endpoint URL.
func New(log logr.Logger, endpoint string) *Reporter {
	return &Reporter{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Backoff: wait.Backoff{
			Steps:    4,
			Duration: 1 * time.Second,
			Factor:   2.0,
			Jitter:   0.1,
		},
		log: log,
	}
}

// Report posts the payload as JSON. 200 and 201 count as delivered;
// anything else is retried until the backoff is exhausted.
func (r *Reporter) Report(ctx context.Context, payload inventory.ReportPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return wait.ExponentialBackoffWithContext(ctx, r.Backoff, func(ctx context.Context) (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
		if err != nil {
			return false, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.Client.Do(req)
		if err != nil {
			r.log.Error(err, "failed to post inventory", "url", r.Endpoint)
			return false, nil
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				r.log.Error(err, "failed to close response body")
			}
		}()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			r.log.Info("fleet API rejected inventory", "url", r.Endpoint, "status", resp.StatusCode)
			return false, nil
		}
		return true, nil
	})
}
