package analyzeinquiry

import "time"

type Config struct {
	// PublicOrigin is the site origin used for the demo link in draft replies.
	PublicOrigin string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		PublicOrigin: "https://endicode.dev",
		Timeout:      10 * time.Second,
	}
}
