package scoreleads

import "time"

type Config struct {
	// MaxCSVBytes caps the inline CSV a process instance may hand the worker.
	MaxCSVBytes int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxCSVBytes: 5 << 20,
		Timeout:     30 * time.Second,
	}
}
