package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type (
	// Config holds all the portal settings. It is loaded once at startup
	// and treated as read-only afterwards.
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		AppName  string
		Build    string

		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string

		// DemoLoginEnabled allows the hard-coded demo accounts to be used
		// when the identity backend rejects or cannot be reached.
		DemoLoginEnabled bool

		WorkDir string

		Server   ServerConfig
		Identity BackendConfig
		School   BackendConfig
	}

	ServerConfig struct {
		Host               string
		Addr               string
		JWTExpirationDelta time.Duration
	}

	// BackendConfig points at one of the external HTTP services the portal
	// consumes (the identity backend, the school REST backend).
	BackendConfig struct {
		BaseURL string
		Timeout time.Duration
	}
)

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Edusoma")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w#3u+p$5fh-)b2mz&o7q(x!84c^gy@kd1vj6ln9s*arte0i%")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("demoLoginEnabled", true)
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":3000")
	v.SetDefault("jwtExpirationDelta", 24*time.Hour)
	v.SetDefault("identityBaseURL", "http://localhost:8000")
	v.SetDefault("identityTimeout", 10*time.Second)
	v.SetDefault("schoolBaseURL", "http://localhost:8000/api")
	v.SetDefault("schoolTimeout", 15*time.Second)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "QA", "PROD":
		v.SetDefault("debug", false)
		v.SetDefault("demoLoginEnabled", false)
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridAPIKey:   v.GetString("sendgridAPIKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		DemoLoginEnabled: v.GetBool("demoLoginEnabled"),
		WorkDir:          wd,
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		},
		Identity: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("identityBaseURL"), "/"),
			Timeout: v.GetDuration("identityTimeout"),
		},
		School: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("schoolBaseURL"), "/"),
			Timeout: v.GetDuration("schoolTimeout"),
		},
	}
}
