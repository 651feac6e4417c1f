package database

import (
	"encoding/base64"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

var (
	ErrMissingCredentials = errors.New("firebase credentials not found")
	ErrInvalidCredentials = errors.New("firebase credentials could not be parsed")
)

// LoadCredentials returns the service account JSON, preferring the base64
// encoded env value over the key file.
func LoadCredentials(encoded, keyPath string) ([]byte, error) {
	if encoded != "" {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidCredentials, "FIREBASE_CREDENTIALS is not valid base64")
		}
		if !json.Valid(raw) {
			return nil, errors.Wrap(ErrInvalidCredentials, "FIREBASE_CREDENTIALS is not valid JSON")
		}
		return raw, nil
	}

	raw, err := os.ReadFile(keyPath)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrMissingCredentials,
			"%s not found; place your Firebase service account JSON file in the project folder or set FIREBASE_CREDENTIALS", keyPath)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", keyPath)
	}
	if !json.Valid(raw) {
		return nil, errors.Wrapf(ErrInvalidCredentials, "%s is not valid JSON", keyPath)
	}
	return raw, nil
}

// ProjectID extracts project_id from service account JSON.
func ProjectID(creds []byte) (string, error) {
	var sa struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(creds, &sa); err != nil {
		return "", errors.Wrap(ErrInvalidCredentials, err.Error())
	}
	if sa.ProjectID == "" {
		return "", errors.Wrap(ErrInvalidCredentials, "project_id is missing")
	}
	return sa.ProjectID, nil
}
