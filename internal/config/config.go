package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time is used for sweep intervals and payment windows
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing

    PricePerHour        int64         // flat hourly rate, in the venue's currency unit
    PaymentWaitMinutes  int           // minutes a pay-on-site booking may stay unpaid
    MaxSelfServiceHours int           // cap on hours per customer submission (0 = unlimited)
    ExpirySweepInterval time.Duration // how often the expiry worker scans for overdue bookings
    ProofDir            string        // directory where uploaded payment proofs are stored
    PublicBaseURL       string        // base URL prefixed to stored proof paths
    RabbitURL           string        // AMQP broker URL for booking events (empty disables eventing)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Domain knobs fall
// back to the venue's standing defaults so a minimal .env still runs.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),                   // environment (dev/test/prod)
        Port:           must("APP_PORT"),                  // port to bind the HTTP server
        DBUser:         must("DB_USER"),                   // database user
        DBPass:         os.Getenv("DB_PASS"),              // database password (empty allowed)
        DBHost:         must("DB_HOST"),                   // database host
        DBPort:         must("DB_PORT"),                   // database port
        DBName:         must("DB_NAME"),                   // database name
        JWTSecret:      must("JWT_SECRET"),                // secret used for signing JWTs
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
        BcryptCost:     mustInt("BCRYPT_COST"),            // bcrypt cost factor

        PricePerHour:        int64(envInt("PRICE_PER_HOUR", 150000)),
        PaymentWaitMinutes:  envInt("PAYMENT_WAIT_MINUTES", 45),
        MaxSelfServiceHours: envInt("MAX_SELF_SERVICE_HOURS", 4),
        ExpirySweepInterval: envDur("EXPIRY_SWEEP_INTERVAL", time.Minute),
        ProofDir:            envStr("PROOF_DIR", "uploads/proofs"),
        PublicBaseURL:       envStr("PUBLIC_BASE_URL", ""),
        RabbitURL:           os.Getenv("RABBITMQ_URL"),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
