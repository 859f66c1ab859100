package models

// ContactMessage is a contact-form submission relayed to the site owner.
type ContactMessage struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}
