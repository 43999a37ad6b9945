package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

var allowedUploadTypes = map[string]string{
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
}

// AllowedUploadType reports whether the MIME type is one the platform
// accepts (PDF or DOCX).
func AllowedUploadType(mimeType string) bool {
	_, ok := allowedUploadTypes[mimeType]
	return ok
}

// UploadFilename derives a collision-resistant storage name from the upload
// time and a random suffix. The original name is flattened to its base with
// whitespace collapsed so it can never escape the upload directory.
func UploadFilename(original string) string {
	safe := filepath.Base(original)
	safe = strings.Join(strings.Fields(safe), "_")
	if safe == "." || safe == string(filepath.Separator) || safe == "" {
		safe = "upload"
	}
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixNano(), uuid.NewString()[:8], safe)
}
