package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/sos-station/pkg/common"
)

type Client struct {
	conf   Configuration
	client http.Client
}

func NewClient(conf Configuration) *Client {
	if conf.Timeout.Duration() <= 0 {
		conf.Timeout = common.SecondsOf(DefaultTimeout)
	}
	return &Client{conf: conf}
}

func (this *Client) RegisterIncident(ctx context.Context, req IncidentRequest) (Incident, error) {
	fail := func(rsp *http.Response, msg string, cause error) (Incident, error) {
		return Incident{}, newError(OperationRegisterIncident, rsp, msg, cause)
	}

	logger := log.With("stationId", req.StationId)
	logger.Info("Registering incident...")

	var result Incident
	rsp, err := this.do(ctx, http.MethodPost, "/api/sos", req, &result)
	if err != nil {
		return fail(rsp, "", err)
	}
	if result.Id == "" {
		return fail(rsp, "response does not contain sosId", nil)
	}
	if result.RoomName == "" {
		return fail(rsp, "response does not contain roomName", nil)
	}

	logger.With("incidentId", result.Id).
		With("room", result.RoomName).
		Info("Incident registered.")
	return result, nil
}

func (this *Client) FetchToken(ctx context.Context, room, identity string) (string, error) {
	logger := log.With("room", room).
		With("identity", identity)
	logger.Info("Requesting session token...")

	query := url.Values{}
	query.Set("room", room)
	query.Set("identity", identity)

	var result tokenResponse
	rsp, err := this.do(ctx, http.MethodGet, "/api/livekit/token?"+query.Encode(), nil, &result)
	if err != nil {
		return "", newError(OperationFetchToken, rsp, "", err)
	}
	if result.Token == "" {
		return "", newError(OperationFetchToken, rsp, "response does not contain token", nil)
	}

	logger.Debug("Session token received.")
	return result.Token, nil
}

func (this *Client) ReportHangup(ctx context.Context, incidentId string) error {
	rsp, err := this.do(ctx, http.MethodPost, "/api/sos/hangup", hangupRequest{incidentId}, nil)
	if err != nil {
		return newError(OperationReportHangup, rsp, "", err)
	}
	log.With("incidentId", incidentId).
		Info("Incident reported as ended.")
	return nil
}

var errUnexpectedStatus = errors.New("unexpected status code")

// do executes the request within the configured timeout and decodes a
// successful response into target (if not nil). The returned response is
// only meant to inspect the status; its body is always consumed.
func (this *Client) do(ctx context.Context, method, path string, payload any, target any) (*http.Response, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, this.conf.Timeout.Duration())
	defer cancelFunc()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(this.conf.Url, "/")+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rsp, err := this.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to access %v: %w", req.URL, err)
	}
	defer func() {
		_ = rsp.Body.Close()
	}()

	if rsp.StatusCode < 200 || rsp.StatusCode > 299 {
		var eRsp errorResponse
		if err := json.NewDecoder(rsp.Body).Decode(&eRsp); err == nil && eRsp.Error != "" {
			return rsp, fmt.Errorf("%w: %s", errUnexpectedStatus, eRsp.Error)
		}
		return rsp, fmt.Errorf("%w: %s", errUnexpectedStatus, rsp.Status)
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, rsp.Body)
		return rsp, nil
	}
	if err := json.NewDecoder(rsp.Body).Decode(target); err != nil {
		return rsp, fmt.Errorf("failed to decode response body: %w", err)
	}
	return rsp, nil
}

func newError(op Operation, rsp *http.Response, msg string, cause error) *Error {
	result := &Error{
		Operation: op,
		Message:   msg,
		Cause:     cause,
	}
	if rsp != nil {
		result.StatusCode = rsp.StatusCode
	}
	return result
}
