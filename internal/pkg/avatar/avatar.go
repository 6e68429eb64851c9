package avatar

import (
	"fmt"
	"net/url"
)

// URL derives a deterministic profile image URL for a username using the
// DiceBear personas collection. The same username always yields the same
// avatar, so no image ever needs to be stored for a user.
func URL(baseURL, username string) string {
	return fmt.Sprintf("%s/9.x/personas/svg?seed=%s", baseURL, url.QueryEscape(username))
}
