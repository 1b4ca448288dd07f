package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const version = "1.0.0"

type config struct {
	port int
	env  string
	db   struct {
		dsn                string
		maxOpenConnections int
		maxIdleConnections int
		maxIdleTime        time.Duration
	}
	bcryptCost int
	smtp       struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	limiter struct {
		enabled             bool
		maxRequestPerSecond float64
		burst               int
	}
	cors struct {
		trustedOrigins []string
	}
}

type application struct {
	config  config
	storage *storage
	hasher  passwordHasher
	mailer  *mailer
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var cfg config
	flag.IntVar(&cfg.port, "port", 3000, "Server Port")
	flag.StringVar(&cfg.env, "env", "development", "Environment [development|production]")

	flag.StringVar(&cfg.db.dsn, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConnections, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.db.maxIdleConnections, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	var maxIdleTime string
	flag.StringVar(&maxIdleTime, "db-max-idle-time", "15m", "PostgreSQL max connection idle time")

	flag.IntVar(&cfg.bcryptCost, "bcrypt-cost", 12, "bcrypt work factor for password hashing")

	flag.StringVar(&cfg.smtp.host, "smtp-host", os.Getenv("SMTP_HOST"), "SMTP host")
	flag.IntVar(&cfg.smtp.port, "smtp-port", envInt("SMTP_PORT", 25), "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", os.Getenv("SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", os.Getenv("SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", os.Getenv("SMTP_SENDER"), "SMTP sender")

	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")
	flag.Float64Var(&cfg.limiter.maxRequestPerSecond, "limiter-rps", 2, "Rate limiter max requests per second per client")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 4, "Rate limiter burst per client")

	var corsOrigins string
	flag.StringVar(&corsOrigins, "cors-trusted-origins", os.Getenv("CORS_TRUSTED_ORIGINS"), "Trusted CORS origins (space separated)")
	flag.Parse()

	cfg.cors.trustedOrigins = strings.Fields(corsOrigins)

	d, err := time.ParseDuration(maxIdleTime)
	if err != nil {
		cfg.db.maxIdleTime = 15 * time.Minute
		log.Printf(`invalid value %s for flag "db-max-idle-time" defaulting to %s`, maxIdleTime, cfg.db.maxIdleTime)
	} else {
		cfg.db.maxIdleTime = d
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("established a connection with database")

	app := &application{
		config:  cfg,
		storage: newStorage(db),
		hasher:  newPasswordHasher(cfg.bcryptCost),
	}
	if cfg.smtp.host != "" {
		app.mailer = newMailer(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender)
	} else {
		log.Println("no SMTP host configured, welcome mail disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.port),
		Handler:      composeRoutes(app),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	log.Printf("Starting %s server on port %d\n", cfg.env, cfg.port)
	err = srv.ListenAndServe()
	log.Fatal(err)
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid value %q for %s, defaulting to %d", raw, key, fallback)
		return fallback
	}
	return n
}
