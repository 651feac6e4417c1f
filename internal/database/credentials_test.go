package database

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceAccount = `{"type":"service_account","project_id":"marks-demo"}`

func TestLoadCredentialsFromEnv(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(serviceAccount))

	creds, err := LoadCredentials(encoded, "does-not-matter.json")
	require.NoError(t, err)
	assert.JSONEq(t, serviceAccount, string(creds))

	projectID, err := ProjectID(creds)
	require.NoError(t, err)
	assert.Equal(t, "marks-demo", projectID)
}

func TestLoadCredentialsFromFile(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "firebase_key.json")
	require.NoError(t, os.WriteFile(keyPath, []byte(serviceAccount), 0600))

	creds, err := LoadCredentials("", keyPath)
	require.NoError(t, err)
	assert.JSONEq(t, serviceAccount, string(creds))
}

func TestLoadCredentialsMissing(t *testing.T) {
	_, err := LoadCredentials("", filepath.Join(t.TempDir(), "firebase_key.json"))
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Contains(t, err.Error(), "FIREBASE_CREDENTIALS")
}

func TestLoadCredentialsInvalid(t *testing.T) {
	_, err := LoadCredentials("%%%not-base64", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = LoadCredentials(base64.StdEncoding.EncodeToString([]byte("{oops")), "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = ProjectID([]byte(`{"type":"service_account"}`))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
