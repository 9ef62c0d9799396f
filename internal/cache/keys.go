package cache

import "fmt"

func RateLimitKey(tokenPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", tokenPrefix)
}
