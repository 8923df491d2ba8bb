package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var validate = validator.New()

type (
	// SMTPConfig holds the SMTP relay identity used for outbound mail.
	SMTPConfig struct {
		Host     string
		Port     int
		User     string `validate:"omitempty,email"`
		Password string
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		AppName  string
		WorkDir  string

		DefaultFromEmail mail.Address
		AdminEmail       string `validate:"omitempty,email"`

		RosterPath string `validate:"required"`
		TaskLabel  string `validate:"required"`

		SMTP           SMTPConfig
		SendgridApiKey string
		RollbarToken   string

		// SentLogPath enables the cross-run sent-reminder ledger when set.
		SentLogPath string
	}
)

// NewConfig loads the process configuration from the environment (and an optional
// config/.env.<env> file), applies defaults and validates it. It is built once at
// startup and passed by reference; core logic never reads ambient state.
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Kumbusha")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("adminEmail", "")
	v.SetDefault("rosterPath", "students_tasks.csv")
	v.SetDefault("taskLabel", "Final Course Submission")
	v.SetDefault("smtpHost", "smtp.gmail.com")
	v.SetDefault("smtpPort", 587)
	v.SetDefault("smtpUser", "")
	v.SetDefault("smtpPassword", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sentLogPath", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		Env:              env,
		AppName:          v.GetString("appName"),
		WorkDir:          wd,
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		AdminEmail:       v.GetString("adminEmail"),
		RosterPath:       v.GetString("rosterPath"),
		TaskLabel:        v.GetString("taskLabel"),
		SMTP: SMTPConfig{
			Host:     v.GetString("smtpHost"),
			Port:     v.GetInt("smtpPort"),
			User:     v.GetString("smtpUser"),
			Password: v.GetString("smtpPassword"),
		},
		SendgridApiKey: v.GetString("sendgridApiKey"),
		RollbarToken:   v.GetString("rollbarToken"),
		SentLogPath:    v.GetString("sentLogPath"),
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		flds := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			flds = append(flds, FieldError{Field: fe.Namespace(), Error: "failed " + fe.Tag() + " validation"})
		}
		return NewValidationError(errors.New("invalid configuration"), flds...)
	}
	return nil
}

// HasMailCredentials reports whether an outbound sender identity is configured.
func (c *Config) HasMailCredentials() bool {
	return c.SendgridApiKey != "" || (c.SMTP.User != "" && c.SMTP.Password != "")
}
