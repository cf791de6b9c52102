package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
)

type Client struct {
	noReplyAddress string
	siteName       string
	client         http.Client
	apiKey         string
	baseURL        string
}

type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type EmailMessage struct {
	Sender      Address   `json:"sender"`
	To          []Address `json:"to"`
	Subject     string    `json:"subject"`
	TextContent string    `json:"textContent,omitempty"`
}

func NewClient(apiKey, noReplyAddress, siteName string) Client {
	return Client{
		client:         *http.DefaultClient,
		apiKey:         apiKey,
		noReplyAddress: noReplyAddress,
		siteName:       siteName,
		baseURL:        "https://api.sendinblue.com",
	}
}

// Enabled reports whether an API key was configured. A disabled client
// turns every send into a no-op so the apply flow works without email.
func (e Client) Enabled() bool {
	return e.apiKey != ""
}

func (e Client) SendApplicationNotification(toName, toAddr, applicantName, jobTitle string) error {
	return e.sendTextEmail(
		Address{Name: toName, Email: toAddr},
		fmt.Sprintf("New application for %s", jobTitle),
		fmt.Sprintf("%s has applied to your job posting %q. Sign in to %s to review the application.", applicantName, jobTitle, e.siteName),
	)
}

func (e Client) sendTextEmail(to Address, subject, text string) error {
	if !e.Enabled() {
		return nil
	}
	msg := EmailMessage{
		Sender:      Address{Name: e.siteName, Email: e.noReplyAddress},
		To:          []Address{to},
		Subject:     subject,
		TextContent: text,
	}
	reqData, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/v3/smtp/email", bytes.NewReader(reqData))
	if err != nil {
		return err
	}
	req.Header.Add("api-key", e.apiKey)
	req.Header.Add("content-type", "application/json")
	res, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		errBody, err := ioutil.ReadAll(res.Body)
		if err != nil {
			errBody = []byte(`unable to read body`)
		}
		return errors.Errorf("got status code %d when sending email: err %s", res.StatusCode, string(errBody))
	}
	return nil
}
