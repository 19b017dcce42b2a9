package types

// BaseResponse is embedded in every JSON payload returned by the API.
type BaseResponse struct {
	Success bool `json:"success"`
}

// ErrorBody describes a failed completion without prefix-matching its text.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
