// Package global provides centralized initialization and configuration for core services.
package global

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/yschughes/llmsvc/pkgs/utils"
)

// Singleton is a generic type that holds a single instance of a type T.
type Singleton[T any] struct {
	instance *T
	once     sync.Once
	errs     []error
}

// NewSingleton creates a new instance of Singleton.
func NewSingleton[T any]() *Singleton[T] {
	return &Singleton[T]{
		instance: new(T),
		once:     sync.Once{},
		errs:     nil,
	}
}

// Errors returns a slice of errors encountered during initialization.
func (s *Singleton[T]) Errors() []error {
	return s.errs
}

func (s *Singleton[T]) Panic(msg string) {
	sb := strings.Builder{}
	for _, err := range s.errs {
		sb.WriteString(fmt.Sprintf(" - %s\n", err))
	}
	panic(fmt.Errorf("%s:\n%s", msg, sb.String()))
}

func (s *Singleton[T]) CleanUp() {
	s.instance = nil
	s.errs = nil
}

func (s *Singleton[T]) Reset() {
	s.once = sync.Once{}
	s.CleanUp()
}

// Logger is the global zerolog logger instance.
var Logger zerolog.Logger

// mode indicates the current running mode (e.g., "dev", "prod").
var mode string

// SetMode sets the current running mode (e.g., "dev", "prod").
func SetMode(m string) {
	mode = m
}

// Mode returns the current running mode (e.g., "dev", "prod").
func Mode() string {
	return utils.DefaultIfZero(mode, "dev")
}

// natssrv is a singleton for the NATS connection.
var natssrv = NewSingleton[nats.Conn]()

// NATS returns the singleton instance of the NATS connection.
func NATS() *nats.Conn {
	natssrv.once.Do(func() {
		if Config().NATS == nil {
			natssrv.errs = append(natssrv.errs,
				fmt.Errorf("NATS configuration is nil"))
			Logger.Error().Msg("NATS configuration is nil, call LoadConfigs() first")
			return
		}

		server, err := Config().NATS.Connect()
		if err != nil {
			natssrv.errs = append(natssrv.errs,
				fmt.Errorf("failed to connect to NATS server: %w", err))
			Logger.Error().
				Err(natssrv.errs[len(natssrv.errs)-1]).
				Msg("Failed to connect to NATS server")
			return
		}

		Logger.Info().
			Str("host", Config().NATS.Host).
			Int("port", Config().NATS.Port).
			Str("username", Config().NATS.Username).
			Str("password", utils.Mask(Config().NATS.Password)).
			Msg("Connected to NATS server")

		for retry := 0; server.Status() != nats.CONNECTED && retry < 5; retry++ {
			wt := time.Duration(5*(1<<retry)) * time.Second
			Logger.Warn().
				Int("retry", retry).
				Dur("wait_time", wt).
				Msg("Waiting for NATS connection...")
			time.Sleep(wt)
		}

		if server.Status() != nats.CONNECTED {
			natssrv.errs = append(natssrv.errs,
				fmt.Errorf("failed to connect to NATS server after 5 attempts"))
			Logger.Error().
				Err(natssrv.errs[len(natssrv.errs)-1]).
				Msg("Failed to connect to NATS server after 5 attempts")
			return
		}
		Logger.Info().Msg("Successfully pinged NATS server")
		natssrv.instance = server
	})

	if len(natssrv.errs) > 0 {
		natssrv.Panic("NATS connection errors")
	}
	return natssrv.instance
}

// configuration holds the application configuration.
type configuration struct {
	NATS   *NatsConfig
	LLM    *LLMConfig
	Worker *WorkerConfig
	Otel   *OtelConfig
}

var config = NewSingleton[configuration]()

// Config returns the singleton instance of the configuration.
// It reads NATS, LLM, worker, and OTel configurations sequentially.
func Config() *configuration {
	config.once.Do(func() {
		c := &configuration{}

		c.NATS = LoadNatsConfig()
		if err := c.NATS.Validate(); err != nil {
			config.errs = append(config.errs,
				fmt.Errorf("NATS configuration validation failed: %w", err))
			Logger.Error().
				Err(config.errs[len(config.errs)-1]).
				Msg("NATS configuration validation failed")
		} else {
			Logger.Info().Msg("NATS configuration loaded successfully")
		}

		c.LLM = LoadLLMConfig()
		if err := c.LLM.Validate(); err != nil {
			config.errs = append(config.errs,
				fmt.Errorf("LLM configuration validation failed: %w", err))
			Logger.Error().
				Err(config.errs[len(config.errs)-1]).
				Msg("LLM configuration validation failed")
		} else {
			Logger.Info().
				Str("provider", c.LLM.Provider).
				Str("model", c.LLM.Model).
				Str("api_key", utils.Mask(c.LLM.APIKey)).
				Msg("LLM configuration loaded successfully")
		}

		c.Worker = LoadWorkerConfig()
		if err := c.Worker.Validate(); err != nil {
			config.errs = append(config.errs,
				fmt.Errorf("worker configuration validation failed: %w", err))
			Logger.Error().
				Err(config.errs[len(config.errs)-1]).
				Msg("Worker configuration validation failed")
		} else {
			Logger.Info().Msg("Worker configuration loaded successfully")
		}

		c.Otel = LoadOtelConfig()
		config.instance = c
	})

	if len(config.errs) > 0 {
		config.Panic("configuration errors")
	}
	return config.instance
}

// Validate singleton instance
var validate = NewSingleton[validator.Validate]()

// Validator returns the singleton instance of the validator.
func Validator() *validator.Validate {
	validate.once.Do(func() {
		validate.instance = validator.New()
		Logger.Info().Msg("Validator initialized")
	})

	if len(validate.errs) > 0 {
		validate.Panic("validator errors")
	}
	return validate.instance
}

// ReadDotEnvFile reads a dotfile configuration using Viper.
func ReadDotEnvFile(fname, ftype string, fpath []string) error {
	viper.SetConfigName(fname)
	viper.SetConfigType(ftype)
	for _, p := range fpath {
		viper.AddConfigPath(p)
	}
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}

// LoadConfigs loads configuration from file and sets up the logger and mode.
func LoadConfigs(fname, ftype string, fpath []string) error {
	if err := ReadDotEnvFile(fname, ftype, fpath); err != nil {
		Logger.Error().Err(err).Msg("Failed to read configuration file")
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	SetMode(utils.DefaultIfZero(viper.GetString("MODE"), "dev"))
	Logger = InitBaseLogger()
	return nil
}

// InitBaseLogger initializes the base logger for the application.
func InitBaseLogger() zerolog.Logger {
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	logger = logger.Level(utils.IfElse(
		mode == "dev",
		zerolog.DebugLevel,
		zerolog.InfoLevel))
	Logger = logger

	logger.Info().
		Str("mode", mode).
		Str("log_level", logger.GetLevel().String()).
		Msg("Base Logger Initialized")
	return logger
}

func CleanUp() {
	defer natssrv.CleanUp()
	if natssrv.instance != nil {
		natssrv.instance.Close()
		Logger.Info().Msg("NATS connection closed")
	}

	defer validate.CleanUp()
	defer config.CleanUp()
}

func Reset() {
	Logger.Warn().Msg("Resetting global state")
	natssrv.Reset()
	validate.Reset()
	config.Reset()
}
