package config

import (
	"flag"
	"os"
	"time"

	"github.com/doralyyyyy/Psych-Doctor/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   session token HMAC secret key
//	-t int      session token validity, minutes
//	-u string   GPT endpoint base URL
//	-k string   GPT API key
//	-m string   GPT model identifier
//	-o int      GPT call timeout, seconds
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-u", "-k", "-m", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidityMinutes := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session_validity_duration (in minutes)")

	fs.StringVar(&config.GPTBaseURL, "u", config.GPTBaseURL, "GPT endpoint base URL")
	fs.StringVar(&config.GPTAPIKey, "k", config.GPTAPIKey, "GPT API key")
	fs.StringVar(&config.GPTModel, "m", config.GPTModel, "GPT model identifier")

	gptTimeoutSeconds := fs.Int("o", int(config.GPTTimeout.Seconds()), "GPT call timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidityMinutes) * time.Minute
	config.GPTTimeout = time.Duration(*gptTimeoutSeconds) * time.Second
}
