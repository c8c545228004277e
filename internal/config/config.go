package config

import (
	"crypto/rsa"
	"encoding/pem"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gramsetu/employment-service/internal/utils"
)

// Config holds all application configuration.
type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	Env              string
	DBUrl            string

	TokenExpiry        time.Duration
	RefreshTokenExpiry time.Duration
	RSAPrivateKey      *rsa.PrivateKey
	RSAPublicKey       *rsa.PublicKey

	SendGridAPIKey      string
	SendGridFromEmail   string
	SendGridSandboxMode bool
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioFromPhone     string
	TwilioVerifySID     string

	// ReportingTimezone decides which calendar day "today" is for the
	// attendance future-date check.
	ReportingTimezone *time.Location

	// ExposeOtpCodes echoes issued codes in API responses. Never set
	// in production.
	ExposeOtpCodes bool

	// MinimumDailyWage is the statutory floor for project wages, in paise.
	MinimumDailyWage int64

	// PlaceholderEmailDomain hosts the generated addresses for
	// identities created through application approval.
	PlaceholderEmailDomain string

	UploadDir     string
	UploadBaseURL string

	SeedBootstrapAdmin bool
	BootstrapAdmin     BootstrapAdminConfig
}

// BootstrapAdminConfig seeds the first admin identity on a fresh
// database so the approval endpoints are reachable.
type BootstrapAdminConfig struct {
	Name         string
	Email        string
	Phone        string
	NationalID   string
	GovernmentID string
	Password     string
}

const (
	OrganizationName          = "GramSetu"
	DefaultTokenExpiry        = 10 * time.Minute
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
	DefaultReportingTimezone  = "Asia/Kolkata"

	// DefaultMinimumDailyWage is ₹374/day in paise.
	DefaultMinimumDailyWage = 37400
)

// LoadConfig reads everything from the environment and fails fast on
// anything required.
func LoadConfig() *Config {
	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		appPort = "8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DATABASE_URL is required")
	}

	privateKey, publicKey := loadRSAKeys()

	tz := os.Getenv("REPORTING_TIMEZONE")
	if tz == "" {
		tz = DefaultReportingTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("Invalid REPORTING_TIMEZONE %q", tz)
	}

	minWage := int64(DefaultMinimumDailyWage)
	if v := os.Getenv("MINIMUM_DAILY_WAGE_PAISE"); v != "" {
		n, pErr := strconv.ParseInt(v, 10, 64)
		if pErr != nil || n <= 0 {
			utils.Logger.Fatalf("Invalid MINIMUM_DAILY_WAGE_PAISE %q", v)
		}
		minWage = n
	}

	emailDomain := os.Getenv("PLACEHOLDER_EMAIL_DOMAIN")
	if emailDomain == "" {
		emailDomain = "workers.gramsetu.in"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	uploadBaseURL := os.Getenv("UPLOAD_BASE_URL")
	if uploadBaseURL == "" {
		uploadBaseURL = "/uploads"
	}

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          "employment-service",
		AppPort:          appPort,
		Env:              env,
		DBUrl:            dbURL,

		TokenExpiry:        DefaultTokenExpiry,
		RefreshTokenExpiry: DefaultRefreshTokenExpiry,
		RSAPrivateKey:      privateKey,
		RSAPublicKey:       publicKey,

		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail:   os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridSandboxMode: boolEnv("SENDGRID_SANDBOX_MODE"),
		TwilioAccountSID:    os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromPhone:     os.Getenv("TWILIO_FROM_PHONE"),
		TwilioVerifySID:     os.Getenv("TWILIO_VERIFY_SERVICE_SID"),

		ReportingTimezone:      loc,
		ExposeOtpCodes:         env != "production" && boolEnv("EXPOSE_OTP_CODES"),
		MinimumDailyWage:       minWage,
		PlaceholderEmailDomain: emailDomain,
		UploadDir:              uploadDir,
		UploadBaseURL:          uploadBaseURL,

		SeedBootstrapAdmin: boolEnv("SEED_BOOTSTRAP_ADMIN"),
		BootstrapAdmin: BootstrapAdminConfig{
			Name:         os.Getenv("BOOTSTRAP_ADMIN_NAME"),
			Email:        os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
			Phone:        os.Getenv("BOOTSTRAP_ADMIN_PHONE"),
			NationalID:   os.Getenv("BOOTSTRAP_ADMIN_NATIONAL_ID"),
			GovernmentID: os.Getenv("BOOTSTRAP_ADMIN_GOVERNMENT_ID"),
			Password:     os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		},
	}

	if cfg.SendGridAPIKey == "" {
		utils.Logger.Warn("SENDGRID_API_KEY not set; OTP email delivery will fail")
	}
	if cfg.TwilioAccountSID == "" {
		utils.Logger.Warn("Twilio credentials not set; OTP SMS channel disabled")
	}

	return cfg
}

func loadRSAKeys() (*rsa.PrivateKey, *rsa.PublicKey) {
	privateKeyPEM := []byte(os.Getenv("RSA_PRIVATE_KEY_PEM"))
	if block, _ := pem.Decode(privateKeyPEM); block == nil {
		utils.Logger.Fatal("RSA_PRIVATE_KEY_PEM is missing or not valid PEM")
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}

	publicKeyPEM := []byte(os.Getenv("RSA_PUBLIC_KEY_PEM"))
	if block, _ := pem.Decode(publicKeyPEM); block == nil {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_PEM is missing or not valid PEM")
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	return privateKey, publicKey
}

func boolEnv(name string) bool {
	v, _ := strconv.ParseBool(os.Getenv(name))
	return v
}
