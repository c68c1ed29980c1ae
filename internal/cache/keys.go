package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func PresentationStatusKey(id uuid.UUID) string {
	return fmt.Sprintf("presentation:status:%s", id)
}

func RateLimitKey(userID uuid.UUID) string {
	return fmt.Sprintf("ratelimit:%s", userID)
}
