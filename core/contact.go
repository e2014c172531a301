package core

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
)

const ContactAck = "Thanks! Your message has been sent."

type ContactSubmission struct {
	Name    string
	Email   string
	Message string
}

func (c ContactSubmission) String() string {
	return fmt.Sprintf("Message from %s <%s>: %s", c.Name, c.Email, c.Message)
}

// ParseContact pulls name, email and message out of a posted form, either
// urlencoded or multipart. Every field must be present; an empty value is
// accepted as-is.
func ParseContact(r *http.Request) (ContactSubmission, error) {
	if err := parseForm(r); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ContactSubmission{}, &HTTPError{Status: http.StatusRequestEntityTooLarge, Err: err}
		}
		return ContactSubmission{}, &HTTPError{Status: http.StatusBadRequest, Err: err}
	}

	var sub ContactSubmission
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"name", &sub.Name},
		{"email", &sub.Email},
		{"message", &sub.Message},
	} {
		values, ok := r.PostForm[f.key]
		if !ok || len(values) == 0 {
			return ContactSubmission{}, fmt.Errorf("%w: %s", ErrMissingField, f.key)
		}
		*f.dst = values[0]
	}

	return sub, nil
}

func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxContactBody)
	}
	return r.ParseForm()
}
