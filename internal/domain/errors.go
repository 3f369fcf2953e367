package domain

import "errors"

var (
	// ErrMissingAPIKey is returned when no OpenAI API key is configured
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set on the server")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when the model call was rejected for rate limiting
	ErrRateLimited = errors.New("model rate limited")

	// ErrOpenAIAPI is returned when the OpenAI call failed after exhausting the fallback
	ErrOpenAIAPI = errors.New("OpenAI API request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrFetchFailed is returned when a retailer page or image could not be fetched
	ErrFetchFailed = errors.New("page fetch failed")
)
