package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client wraps a Deepgram-style prerecorded transcription API. It submits the
// episode audio URL and asks for utterance-level output so chunks keep their
// timing and speaker labels.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.deepgram.com/v1"
	}
	if model == "" {
		model = "nova-2"
	}
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type Utterance struct {
	Text      string  `json:"transcript"`
	StartTime float64 `json:"start"`
	EndTime   float64 `json:"end"`
	Speaker   int     `json:"speaker"`
}

type Result struct {
	Text       string
	Utterances []Utterance
}

type transcribeRequest struct {
	URL string `json:"url"`
}

type transcribeResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
		Utterances []Utterance `json:"utterances"`
	} `json:"results"`
}

func (c *Client) Transcribe(ctx context.Context, audioURL string) (*Result, error) {
	if audioURL == "" {
		return nil, fmt.Errorf("transcription: audio url is empty")
	}

	params := url.Values{}
	params.Set("model", c.model)
	params.Set("utterances", "true")
	params.Set("diarize", "true")
	params.Set("punctuate", "true")
	endpoint := fmt.Sprintf("%s/listen?%s", c.baseURL, params.Encode())

	reqBody, err := json.Marshal(transcribeRequest{URL: audioURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcription: api returned %d, body %s", res.StatusCode, string(body))
	}

	var parsed transcribeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	result := &Result{Utterances: parsed.Results.Utterances}
	if len(parsed.Results.Channels) > 0 && len(parsed.Results.Channels[0].Alternatives) > 0 {
		result.Text = parsed.Results.Channels[0].Alternatives[0].Transcript
	}
	if result.Text == "" && len(result.Utterances) == 0 {
		return nil, fmt.Errorf("transcription: empty result for %s", audioURL)
	}
	return result, nil
}
