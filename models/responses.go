package models

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse is returned by the health endpoint.
type StatusResponse struct {
	Status string `json:"status"`
}

// ContactResponse is returned after a contact message was accepted.
type ContactResponse struct {
	Success bool `json:"success"`
}

// UsernameResponse is returned by the GitHub username extraction endpoint.
type UsernameResponse struct {
	Username string `json:"username"`
}

// BuildInfoResponse exposes the running build to clients.
type BuildInfoResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}
