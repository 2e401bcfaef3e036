package session

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// newToken is swapped in tests.
var newToken = func() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(id[:]), nil
}
