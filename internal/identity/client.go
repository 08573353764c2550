package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/gigs-work/backend/internal/config"
)

// Client - HTTP-клиент hosted-платформы подтверждения номеров.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.IdentityConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type sendCodeRequest struct {
	PhoneNumber    string `json:"phone_number"`
	ChallengeToken string `json:"challenge_token,omitempty"`
}

type sendCodeResponse struct {
	VerificationID string      `json:"verification_id"`
	AutoVerified   *Credential `json:"auto_verified,omitempty"`
}

type confirmCodeRequest struct {
	VerificationID string `json:"verification_id"`
	Code           string `json:"code"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SendCode просит платформу отправить код на номер. Номер уже в E.164.
func (c *Client) SendCode(ctx context.Context, phoneNumber string, challengeToken string) (*Dispatch, error) {
	var resp sendCodeResponse
	err := c.post(ctx, "/v1/phone:send", sendCodeRequest{
		PhoneNumber:    phoneNumber,
		ChallengeToken: challengeToken,
	}, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "identity send code")
	}

	return &Dispatch{
		VerificationID: resp.VerificationID,
		AutoVerified:   resp.AutoVerified,
	}, nil
}

// ConfirmCode обменивает пару (verificationID, code) на credential.
func (c *Client) ConfirmCode(ctx context.Context, verificationID string, code string) (*Credential, error) {
	var cred Credential
	err := c.post(ctx, "/v1/phone:confirm", confirmCodeRequest{
		VerificationID: verificationID,
		Code:           code,
	}, &cred)
	if err != nil {
		return nil, errors.Wrap(err, "identity confirm code")
	}

	return &cred, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)

		var errResp errorResponse
		if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error.Message != "" {
			return errors.New(errResp.Error.Message)
		}

		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}

	return nil
}
