package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	StoreDynamo = "dynamo"
	StoreMongo  = "mongo"

	MailSMTP    = "smtp"
	MailMailgun = "mailgun"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	AllowedOrigins []string // CORS allowed origins

	StoreDriver         string // "dynamo" | "mongo"
	AWSRegion           string
	AWSEndpointURL      string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID      string
	AWSSecretKey        string
	DynamoProfilesTable string
	MongoURI            string
	MongoDatabase       string

	MailDriver    string // "smtp" | "mailgun"
	SMTPHost      string
	SMTPPort      int
	SMTPFrom      string
	SMTPUsername  string
	SMTPPassword  string
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// ReregisterUnverified lets a registration for a never-verified email
	// reissue its OTP instead of failing as a duplicate.
	ReregisterUnverified bool
}

// Load reads all configuration from environment variables.
func Load() *Config {
	smtpUser := getEnv("SMTP_USERNAME", getEnv("EMAIL_USER", ""))
	return &Config{
		AppName:        getEnv("APP_NAME", "registration-api"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AppPort:        getEnv("PORT", "5000"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", StoreDynamo)),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:      getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:        getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoProfilesTable: getEnv("DYNAMO_TABLE_PROFILES", "user_profiles"),
		MongoURI:            getEnv("MONGO_URI", ""),
		MongoDatabase:       getEnv("MONGO_DATABASE", "registration"),

		MailDriver:    strings.ToLower(getEnv("MAIL_DRIVER", MailSMTP)),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnvInt("SMTP_PORT", 1025),
		SMTPFrom:      getEnv("SMTP_FROM", smtpUser),
		SMTPUsername:  smtpUser,
		SMTPPassword:  getEnv("SMTP_PASSWORD", getEnv("EMAIL_PASS", "")),
		MailgunDomain: getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getEnv("MAILGUN_API_KEY", ""),
		MailgunSender: getEnv("MAILGUN_SENDER", ""),

		ReregisterUnverified: getEnvBool("REREGISTER_UNVERIFIED", false),
	}
}

// Validate reports settings that the selected drivers cannot start without.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreDynamo:
		if c.DynamoProfilesTable == "" {
			errs = append(errs, errors.New("DYNAMO_TABLE_PROFILES is required for the dynamo store"))
		}
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	switch c.MailDriver {
	case MailSMTP:
		if c.SMTPFrom == "" {
			errs = append(errs, errors.New("SMTP_FROM or EMAIL_USER is required for the smtp mailer"))
		}
	case MailMailgun:
		if c.MailgunDomain == "" || c.MailgunAPIKey == "" || c.MailgunSender == "" {
			errs = append(errs, errors.New("MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_SENDER are required for the mailgun mailer"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_DRIVER %q", c.MailDriver))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
