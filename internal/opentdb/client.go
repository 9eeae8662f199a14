// Package opentdb fetches trivia questions from the Open Trivia Database to
// top up the local question bank.
package opentdb

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://opentdb.com"

// Question is one fetched multiple-choice question, percent-decoded.
type Question struct {
	Prompt           string
	CorrectAnswer    string
	IncorrectAnswers [3]string
}

// Client talks to the OpenTDB HTTP API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client against the public API.
func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type apiResponse struct {
	ResponseCode int `json:"response_code"`
	Results      []struct {
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

// Fetch retrieves exactly amount multiple-choice questions, or fails. The API
// is asked for url3986 encoding so prompts survive transport intact.
func (c *Client) Fetch(amount int) ([]Question, error) {
	endpoint := fmt.Sprintf("%s/api.php?amount=%d&type=multiple&difficulty=easy&encode=url3986", c.BaseURL, amount)

	resp, err := c.HTTPClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch questions: unexpected status %d", resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	questions := make([]Question, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		if len(r.IncorrectAnswers) != 3 {
			return nil, fmt.Errorf("fetch questions: expected 3 incorrect answers, got %d", len(r.IncorrectAnswers))
		}

		q := Question{}
		if q.Prompt, err = url.QueryUnescape(r.Question); err != nil {
			return nil, fmt.Errorf("fetch questions: %w", err)
		}
		if q.CorrectAnswer, err = url.QueryUnescape(r.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("fetch questions: %w", err)
		}
		for i, a := range r.IncorrectAnswers {
			if q.IncorrectAnswers[i], err = url.QueryUnescape(a); err != nil {
				return nil, fmt.Errorf("fetch questions: %w", err)
			}
		}
		questions = append(questions, q)
	}

	if len(questions) != amount {
		return nil, fmt.Errorf("fetch questions: wanted %d, got %d", amount, len(questions))
	}
	return questions, nil
}
